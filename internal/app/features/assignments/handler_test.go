package assignments_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bordhub/bordhub/internal/app/features/assignments"
	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	boardchangestore "github.com/bordhub/bordhub/internal/app/store/boardchanges"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/bordhub/bordhub/internal/testutil"
	"go.uber.org/zap"
)

func boardRequest(method, path, body string, bordID string, user models.User) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	r = testutil.WithChiURLParam(r, "boardID", bordID)
	return testutil.WithUser(r, user)
}

func TestServeCreate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	assignee := f.CreateUser(ctx, "Assignee", "assignee@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)

	h := assignments.NewHandler(db, zap.NewNop())

	body := fmt.Sprintf(`{"sourceType":"note","sourceId":"note-1","content":"Write the memo","assignedTo":%q}`,
		assignee.ID.Hex())
	req := boardRequest("POST", "/boards/x/assignments", body, bord.ID.Hex(), owner)
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var created models.Assignment
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if created.Status != models.StatusDraft {
		t.Errorf("status = %q, want draft", created.Status)
	}
	if created.PublishedAt != nil {
		t.Error("fresh draft must not carry a publish stamp")
	}

	// Same tuple again merges and reports 200.
	req = boardRequest("POST", "/boards/x/assignments", body, bord.ID.Hex(), owner)
	rec = httptest.NewRecorder()
	h.ServeCreate(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("merge status = %d, want 200", rec.Code)
	}

	tracker, err := boardchangestore.New(db).Get(ctx, bord.ID)
	if err != nil {
		t.Fatalf("get tracker failed: %v", err)
	}
	if tracker.ChangeCount != 2 {
		t.Errorf("change count = %d, want 2", tracker.ChangeCount)
	}
}

func TestServeCreate_KanbanConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	userA := f.CreateUser(ctx, "User A", "a@test.com")
	userB := f.CreateUser(ctx, "User B", "b@test.com")
	bord := f.CreateBord(ctx, "Sprint", owner.ID)
	f.CreateDraftAssignment(ctx, bord, models.SourceKanbanTask, "card-1", userA.ID)

	h := assignments.NewHandler(db, zap.NewNop())

	body := fmt.Sprintf(`{"sourceType":"kanban_task","sourceId":"card-1","content":"mine now","assignedTo":%q}`,
		userB.ID.Hex())
	req := boardRequest("POST", "/boards/x/assignments", body, bord.ID.Hex(), owner)
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400; body %s", rec.Code, rec.Body.String())
	}
}

func TestServeCreate_AuthFailures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	stranger := f.CreateUser(ctx, "Stranger", "stranger@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)

	h := assignments.NewHandler(db, zap.NewNop())
	body := `{"sourceType":"note","sourceId":"n","content":"c","assignedTo":"000000000000000000000000"}`

	// No session at all.
	req := httptest.NewRequest("POST", "/boards/x/assignments", strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "boardID", bord.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeCreate(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: status = %d, want 401", rec.Code)
	}

	// Signed in, but not the owner.
	req = boardRequest("POST", "/boards/x/assignments", body, bord.ID.Hex(), stranger)
	rec = httptest.NewRecorder()
	h.ServeCreate(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-owner: status = %d, want 403", rec.Code)
	}

	// Unknown board.
	req = boardRequest("POST", "/boards/x/assignments", body, "000000000000000000000001", owner)
	rec = httptest.NewRecorder()
	h.ServeCreate(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown board: status = %d, want 404", rec.Code)
	}
}

func TestServeUpdate_ResetsToDraft(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	assignee := f.CreateUser(ctx, "Assignee", "assignee@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)
	live := f.CreateLiveAssignment(ctx, bord, models.SourceNote, "note-1", assignee.ID)

	h := assignments.NewHandler(db, zap.NewNop())

	req := httptest.NewRequest("PATCH", "/assignments/x", strings.NewReader(`{"content":"new wording"}`))
	req = testutil.WithChiURLParam(req, "id", live.ID.Hex())
	req = testutil.WithUser(req, owner)
	rec := httptest.NewRecorder()
	h.ServeUpdate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	got, err := assignmentstore.New(db).GetByID(ctx, live.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != models.StatusDraft {
		t.Errorf("status = %q, want draft after owner edit", got.Status)
	}
	if got.PublishedAt == nil {
		t.Error("owner edit must keep published_at for reassignment classification")
	}
	if got.Content != "new wording" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestServeUpdate_CompletedRejected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	assignee := f.CreateUser(ctx, "Assignee", "assignee@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)
	live := f.CreateLiveAssignment(ctx, bord, models.SourceNote, "note-1", assignee.ID)

	if _, err := assignmentstore.New(db).SetCompletion(ctx, live.ID, true); err != nil {
		t.Fatalf("complete failed: %v", err)
	}

	h := assignments.NewHandler(db, zap.NewNop())
	req := httptest.NewRequest("PATCH", "/assignments/x", strings.NewReader(`{"content":"too late"}`))
	req = testutil.WithChiURLParam(req, "id", live.ID.Hex())
	req = testutil.WithUser(req, owner)
	rec := httptest.NewRecorder()
	h.ServeUpdate(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for completed record", rec.Code)
	}
}

func TestServeDelete(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	assignee := f.CreateUser(ctx, "Assignee", "assignee@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)
	live := f.CreateLiveAssignment(ctx, bord, models.SourceNote, "note-1", assignee.ID)

	h := assignments.NewHandler(db, zap.NewNop())
	req := httptest.NewRequest("DELETE", "/assignments/x", nil)
	req = testutil.WithChiURLParam(req, "id", live.ID.Hex())
	req = testutil.WithUser(req, owner)
	rec := httptest.NewRecorder()
	h.ServeDelete(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	got, err := assignmentstore.New(db).GetByID(ctx, live.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !got.IsDeleted {
		t.Error("record not soft-deleted")
	}

	// A second delete can no longer see the record.
	req = httptest.NewRequest("DELETE", "/assignments/x", nil)
	req = testutil.WithChiURLParam(req, "id", live.ID.Hex())
	req = testutil.WithUser(req, owner)
	rec = httptest.NewRecorder()
	h.ServeDelete(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat delete: status = %d, want 404", rec.Code)
	}
}

func TestServeOwnerSync(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	assignee := f.CreateUser(ctx, "Assignee", "assignee@test.com")
	bord := f.CreateBord(ctx, "Sprint", owner.ID)
	f.CreateLiveAssignment(ctx, bord, models.SourceChecklistItem, "item-1", assignee.ID)

	h := assignments.NewHandler(db, zap.NewNop())

	body := `{"sourceType":"checklist_item","sourceId":"item-1","action":"toggle_complete","completed":true}`
	req := boardRequest("POST", "/boards/x/sync", body, bord.ID.Hex(), owner)
	rec := httptest.NewRecorder()
	h.ServeOwnerSync(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["updated"] != 1 {
		t.Errorf("updated = %d, want 1", resp["updated"])
	}

	// Untracked source item syncs zero rows and is still a success.
	body = `{"sourceType":"checklist_item","sourceId":"no-such","action":"toggle_complete","completed":true}`
	req = boardRequest("POST", "/boards/x/sync", body, bord.ID.Hex(), owner)
	rec = httptest.NewRecorder()
	h.ServeOwnerSync(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("untracked: status = %d, want 200", rec.Code)
	}

	// Missing action is a validation error.
	body = `{"sourceType":"checklist_item","sourceId":"item-1"}`
	req = boardRequest("POST", "/boards/x/sync", body, bord.ID.Hex(), owner)
	rec = httptest.NewRecorder()
	h.ServeOwnerSync(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing action: status = %d, want 400", rec.Code)
	}
}

func TestServeList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	assignee := f.CreateUser(ctx, "Assignee", "assignee@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)
	f.CreateDraftAssignment(ctx, bord, models.SourceNote, "note-1", assignee.ID)
	f.CreateLiveAssignment(ctx, bord, models.SourceNote, "note-2", assignee.ID)

	h := assignments.NewHandler(db, zap.NewNop())
	req := boardRequest("GET", "/boards/x/assignments", "", bord.ID.Hex(), owner)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Assignments []models.Assignment `json:"assignments"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	// The owner's view includes drafts.
	if len(resp.Assignments) != 2 {
		t.Errorf("owner sees %d assignments, want 2", len(resp.Assignments))
	}
}
