// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given name and email.
func (f *Fixtures) CreateUser(ctx context.Context, fullName, email string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		FullName:  fullName,
		Email:     email,
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateBord creates a board record owned by the given user.
func (f *Fixtures) CreateBord(ctx context.Context, title string, ownerID primitive.ObjectID) models.Bord {
	f.t.Helper()

	now := time.Now().UTC()
	bord := models.Bord{
		ID:        primitive.NewObjectID(),
		Title:     title,
		OwnerID:   ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := f.db.Collection("bords").InsertOne(ctx, bord); err != nil {
		f.t.Fatalf("failed to create test bord: %v", err)
	}
	return bord
}

// CreatePersonalWorkspace creates the user's personal workspace.
func (f *Fixtures) CreatePersonalWorkspace(ctx context.Context, ownerID primitive.ObjectID) models.Workspace {
	f.t.Helper()

	now := time.Now().UTC()
	ws := models.Workspace{
		ID:        primitive.NewObjectID(),
		Name:      "Personal",
		Kind:      models.WorkspacePersonal,
		OwnerID:   ownerID,
		CreatedAt: now,
	}

	if _, err := f.db.Collection("workspaces").InsertOne(ctx, ws); err != nil {
		f.t.Fatalf("failed to create personal workspace: %v", err)
	}
	return ws
}

// CreateFriendship links two users with the given status.
func (f *Fixtures) CreateFriendship(ctx context.Context, a, b primitive.ObjectID, status string) models.Friendship {
	f.t.Helper()

	fr := models.Friendship{
		ID:        primitive.NewObjectID(),
		UserID:    a,
		FriendID:  b,
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}

	if _, err := f.db.Collection("friendships").InsertOne(ctx, fr); err != nil {
		f.t.Fatalf("failed to create friendship: %v", err)
	}
	return fr
}

// CreateDraftAssignment inserts an organization-mode draft delegating the
// given source item on the board to the assignee.
func (f *Fixtures) CreateDraftAssignment(ctx context.Context, bord models.Bord, sourceType, sourceID string, assignedTo primitive.ObjectID) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Assignment{
		ID:         primitive.NewObjectID(),
		BoardID:    &bord.ID,
		Context:    models.ContextOrganization,
		SourceType: sourceType,
		SourceID:   sourceID,
		Content:    "test task",
		AssignedTo: assignedTo,
		AssignedBy: bord.OwnerID,
		Priority:   models.PriorityNormal,
		Status:     models.StatusDraft,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if _, err := f.db.Collection("assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create draft assignment: %v", err)
	}
	return a
}

// CreateLiveAssignment inserts an organization-mode assignment that has
// already been published (status assigned, published stamp set).
func (f *Fixtures) CreateLiveAssignment(ctx context.Context, bord models.Bord, sourceType, sourceID string, assignedTo primitive.ObjectID) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Assignment{
		ID:          primitive.NewObjectID(),
		BoardID:     &bord.ID,
		Context:     models.ContextOrganization,
		SourceType:  sourceType,
		SourceID:    sourceID,
		Content:     "test task",
		AssignedTo:  assignedTo,
		AssignedBy:  bord.OwnerID,
		Priority:    models.PriorityNormal,
		Status:      models.StatusAssigned,
		PublishedAt: &now,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create live assignment: %v", err)
	}
	return a
}

// CreatePersonalAssignment inserts a personal-mode assignment from assigner
// to assignee, live immediately as personal mode requires.
func (f *Fixtures) CreatePersonalAssignment(ctx context.Context, ws models.Workspace, sourceType, sourceID string, assignedBy, assignedTo primitive.ObjectID) models.Assignment {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Assignment{
		ID:          primitive.NewObjectID(),
		WorkspaceID: &ws.ID,
		Context:     models.ContextPersonal,
		SourceType:  sourceType,
		SourceID:    sourceID,
		Content:     "personal task",
		AssignedTo:  assignedTo,
		AssignedBy:  assignedBy,
		Priority:    models.PriorityNormal,
		Status:      models.StatusAssigned,
		PublishedAt: &now,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := f.db.Collection("assignments").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create personal assignment: %v", err)
	}
	return a
}
