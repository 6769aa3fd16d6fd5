// internal/app/store/assignments/assignmentstore.go
package assignmentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bordhub/bordhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrKanbanAssigned is returned when a kanban card already has a different
// active assignee. The caller must soft-delete the prior assignment before
// reassigning; the guard never orphans the previous assignee silently.
var ErrKanbanAssigned = errors.New("kanban task already has an active assignee; remove the current assignee first")

// ErrDuplicateActive is returned when an insert loses a race against another
// creation of the same delegation tuple. The row the caller wanted already
// exists; retrying merges into it.
var ErrDuplicateActive = errors.New("an active assignment already exists for this item and assignee")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("assignments")}
}

// Scope identifies the uniqueness domain for the create-or-merge tuple:
// a board in organization mode, or the assigner in personal mode.
type Scope struct {
	BoardID *primitive.ObjectID
	Owner   primitive.ObjectID // assigned_by; used when BoardID scoping is personal
	Context string             // models.ContextOrganization | models.ContextPersonal
}

func (s Scope) filter() bson.M {
	f := bson.M{"context": s.Context}
	if s.Context == models.ContextOrganization {
		f["board_id"] = s.BoardID
	} else {
		f["assigned_by"] = s.Owner
	}
	return f
}

// CreateOrMerge inserts a delegation record, or refreshes the existing active
// one for the exact (scope, source, assignee) tuple. Merging keeps one row
// per delegation no matter how many times the owner re-sends it before
// publishing. In organization mode a merged record drops back to draft;
// published_at is left untouched so the next publish classifies it as a
// reassignment if it had ever been live.
//
// Returns the stored record and whether an existing row was merged.
func (s *Store) CreateOrMerge(ctx context.Context, a models.Assignment) (models.Assignment, bool, error) {
	scope := Scope{BoardID: a.BoardID, Owner: a.AssignedBy, Context: a.Context}

	existing, err := s.FindActive(ctx, scope, a.SourceType, a.SourceID, a.AssignedTo)
	switch {
	case err == nil:
		merged := s.mergeInto(existing, a)
		merged, err = s.Replace(ctx, merged)
		return merged, true, err
	case !errors.Is(err, mongo.ErrNoDocuments):
		return a, false, err
	}

	// Kanban single-assignee guard: another user already holds this card.
	// Applies in both contexts; the scope filter keys organization cards by
	// board and personal cards by assigner.
	if a.SourceType == models.SourceKanbanTask {
		holder, err := s.ActiveKanbanHolder(ctx, scope, a.SourceID)
		if err == nil && holder.AssignedTo != a.AssignedTo {
			return a, false, ErrKanbanAssigned
		}
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return a, false, err
		}
	}

	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Active = true
	a.IsDeleted = false
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		// The partial unique indexes catch the races the read-checks cannot:
		// two concurrent creations for the same card to different users, or
		// of the same tuple to the same user. The violated index name tells
		// the two apart.
		if isDuplicateKeyErr(err) {
			if isKanbanIndexErr(err) {
				return a, false, ErrKanbanAssigned
			}
			return a, false, ErrDuplicateActive
		}
		return a, false, err
	}
	return a, false, nil
}

// mergeInto refreshes the owner-supplied fields of an existing row from a
// re-sent assignment.
func (s *Store) mergeInto(existing, incoming models.Assignment) models.Assignment {
	existing.Content = incoming.Content
	existing.Priority = incoming.Priority
	existing.DueDate = incoming.DueDate
	existing.ExecutionNote = incoming.ExecutionNote
	existing.ColumnID = incoming.ColumnID
	existing.ColumnTitle = incoming.ColumnTitle
	existing.AvailableColumns = incoming.AvailableColumns
	if existing.Context == models.ContextOrganization {
		existing.Status = models.StatusDraft
	}
	return existing
}

// FindActive returns the active (not deleted, not completed) assignment for
// the exact (scope, sourceType, sourceID, assignedTo) tuple.
func (s *Store) FindActive(ctx context.Context, scope Scope, sourceType, sourceID string, assignedTo primitive.ObjectID) (models.Assignment, error) {
	f := scope.filter()
	f["source_type"] = sourceType
	f["source_id"] = sourceID
	f["assigned_to"] = assignedTo
	f["active"] = true

	var a models.Assignment
	err := s.c.FindOne(ctx, f).Decode(&a)
	return a, err
}

// ActiveKanbanHolder returns the active assignment holding the given kanban
// card within the scope, whoever the assignee is.
func (s *Store) ActiveKanbanHolder(ctx context.Context, scope Scope, sourceID string) (models.Assignment, error) {
	f := scope.filter()
	f["source_type"] = models.SourceKanbanTask
	f["source_id"] = sourceID
	f["active"] = true

	var a models.Assignment
	err := s.c.FindOne(ctx, f).Decode(&a)
	return a, err
}

// GetByID returns a single assignment by its _id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Assignment, error) {
	var a models.Assignment
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	return a, err
}

// Replace persists the full document. UpdatedAt and the active marker are
// recomputed here so callers cannot leave them stale.
func (s *Store) Replace(ctx context.Context, a models.Assignment) (models.Assignment, error) {
	if a.ID.IsZero() {
		return a, mongo.ErrNilDocument
	}
	a.UpdatedAt = time.Now().UTC()
	a.Active = a.IsActive()

	_, err := s.c.ReplaceOne(ctx, bson.M{"_id": a.ID}, a)
	return a, err
}

// SoftDelete marks the assignment removed. Whether this becomes a real
// unassignment is decided at publish time from published_at.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"is_deleted": true,
			"active":     false,
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// HardDelete permanently removes the record. Only publish does this, and only
// for soft-deleted rows that had been published.
func (s *Store) HardDelete(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// MarkPublished promotes a draft to assigned with the given publish time.
func (s *Store) MarkPublished(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"status":       models.StatusAssigned,
			"published_at": at,
			"updated_at":   at,
		},
	})
	return err
}

// SetCompletion flips the completion state, maintaining completed_at and the
// active marker.
func (s *Store) SetCompletion(ctx context.Context, id primitive.ObjectID, completed bool) (models.Assignment, error) {
	now := time.Now().UTC()
	set := bson.M{"updated_at": now}
	var update bson.M
	if completed {
		set["status"] = models.StatusCompleted
		set["completed_at"] = now
		set["active"] = false
		update = bson.M{"$set": set}
	} else {
		set["status"] = models.StatusAssigned
		set["active"] = true
		update = bson.M{"$set": set, "$unset": bson.M{"completed_at": ""}}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var a models.Assignment
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&a)
	return a, err
}

// SetEmployeeUpdates stores the assignee's proposed edits without touching
// the owner-authoritative fields.
func (s *Store) SetEmployeeUpdates(ctx context.Context, id primitive.ObjectID, eu models.EmployeeUpdate) error {
	eu.UpdatedAt = time.Now().UTC()
	_, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{
			"employee_updates": eu,
			"updated_at":       eu.UpdatedAt,
		},
	})
	return err
}

// ListDrafts returns the board's pending drafts (set D of a publish run).
func (s *Store) ListDrafts(ctx context.Context, boardID primitive.ObjectID) ([]models.Assignment, error) {
	return s.list(ctx, bson.M{
		"board_id":   boardID,
		"status":     models.StatusDraft,
		"is_deleted": false,
	})
}

// ListPendingUnassignments returns soft-deleted rows that were previously
// published (set U of a publish run). Soft-deleted drafts that never went
// live do not appear here; they are simply forgotten.
func (s *Store) ListPendingUnassignments(ctx context.Context, boardID primitive.ObjectID) ([]models.Assignment, error) {
	return s.list(ctx, bson.M{
		"board_id":     boardID,
		"is_deleted":   true,
		"published_at": bson.M{"$ne": nil},
	})
}

// ListForBoard returns all non-deleted assignments on a board, drafts
// included (the owner's view).
func (s *Store) ListForBoard(ctx context.Context, boardID primitive.ObjectID) ([]models.Assignment, error) {
	return s.list(ctx, bson.M{
		"board_id":   boardID,
		"is_deleted": false,
	})
}

// ListForAssignee returns the assignee's visible tasks: personal-mode rows
// plus published organization-mode rows. Drafts have not been released and
// stay invisible.
func (s *Store) ListForAssignee(ctx context.Context, userID primitive.ObjectID) ([]models.Assignment, error) {
	return s.list(ctx, bson.M{
		"assigned_to": userID,
		"is_deleted":  false,
		"status":      bson.M{"$ne": models.StatusDraft},
	})
}

// SyncToggleComplete mirrors the owner's source-item completion toggle onto
// every active assignment tracking that item. Drafts are untouched — they
// have not been delegated yet. Returns the number of records updated; zero
// means nothing tracks that source item, which is not an error.
func (s *Store) SyncToggleComplete(ctx context.Context, boardID primitive.ObjectID, sourceType, sourceID string, completed bool) (int64, error) {
	now := time.Now().UTC()
	filter := bson.M{
		"board_id":    boardID,
		"source_type": sourceType,
		"source_id":   sourceID,
		"is_deleted":  false,
		"status":      bson.M{"$in": []string{models.StatusAssigned, models.StatusCompleted}},
	}

	set := bson.M{"updated_at": now}
	var update bson.M
	if completed {
		set["status"] = models.StatusCompleted
		set["completed_at"] = now
		set["active"] = false
		update = bson.M{"$set": set}
	} else {
		set["status"] = models.StatusAssigned
		set["active"] = true
		update = bson.M{"$set": set, "$unset": bson.M{"completed_at": ""}}
	}

	// Un-completing a kanban card may match a superseded completed row next
	// to the current assignee's row. Reviving both would put two active
	// holders on one card, so only one row flips: the live holder when there
	// is one, otherwise the most recently touched completed row.
	if !completed && sourceType == models.SourceKanbanTask {
		opts := options.FindOneAndUpdate().SetSort(bson.D{
			{Key: "active", Value: -1},
			{Key: "updated_at", Value: -1},
		})
		err := s.c.FindOneAndUpdate(ctx, filter, update, opts).Err()
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		return 1, nil
	}

	res, err := s.c.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// SyncMoveColumn overwrites the denormalized column context on every
// non-deleted assignment tracking the source item. The owner is
// authoritative over column placement, whatever the assignment status.
func (s *Store) SyncMoveColumn(ctx context.Context, boardID primitive.ObjectID, sourceType, sourceID, columnID, columnTitle string) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"board_id":    boardID,
			"source_type": sourceType,
			"source_id":   sourceID,
			"is_deleted":  false,
		},
		bson.M{"$set": bson.M{
			"column_id":    columnID,
			"column_title": columnTitle,
			"updated_at":   time.Now().UTC(),
		}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Assignment, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []models.Assignment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 { // E11000 duplicate key error index
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "E11000") || strings.Contains(strings.ToLower(s), "duplicate key")
}

// isKanbanIndexErr reports whether a duplicate-key error was raised by one of
// the kanban single-assignee indexes (uniq_assign_kanban_*), as opposed to
// the per-tuple uniqueness indexes. The server embeds the index name in the
// error message.
func isKanbanIndexErr(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if strings.Contains(e.Message, "uniq_assign_kanban") {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), "uniq_assign_kanban")
}
