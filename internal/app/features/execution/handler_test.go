package execution_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bordhub/bordhub/internal/app/features/execution"
	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/bordhub/bordhub/internal/testutil"
	"go.uber.org/zap"
)

func TestServeList(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	worker := f.CreateUser(ctx, "Worker", "worker@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)

	f.CreateDraftAssignment(ctx, bord, models.SourceNote, "note-1", worker.ID)
	live := f.CreateLiveAssignment(ctx, bord, models.SourceNote, "note-2", worker.ID)

	h := execution.NewHandler(db, notify.NewNop(), zap.NewNop())
	req := testutil.WithUser(httptest.NewRequest("GET", "/tasks", nil), worker)
	rec := httptest.NewRecorder()
	h.ServeList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Tasks []models.Assignment `json:"tasks"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Tasks) != 1 || resp.Tasks[0].ID != live.ID {
		t.Errorf("assignee inbox has %d tasks, want just the released one", len(resp.Tasks))
	}
}

func TestServeToggle_OrgAssigneeOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	worker := f.CreateUser(ctx, "Worker", "worker@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)
	live := f.CreateLiveAssignment(ctx, bord, models.SourceChecklistItem, "item-1", worker.ID)

	h := execution.NewHandler(db, notify.NewNop(), zap.NewNop())

	toggle := func(user models.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/tasks/x/toggle", nil)
		req = testutil.WithChiURLParam(req, "id", live.ID.Hex())
		req = testutil.WithUser(req, user)
		rec := httptest.NewRecorder()
		h.ServeToggle(rec, req)
		return rec
	}

	// Even the board owner goes through owner-sync, not the assignee toggle.
	if rec := toggle(owner); rec.Code != http.StatusForbidden {
		t.Errorf("owner toggle: status = %d, want 403", rec.Code)
	}

	rec := toggle(worker)
	if rec.Code != http.StatusOK {
		t.Fatalf("assignee toggle: status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Status != models.StatusCompleted {
		t.Errorf("status = %q, want completed", resp.Status)
	}

	// Toggling again reopens.
	rec = toggle(worker)
	if rec.Code != http.StatusOK {
		t.Fatalf("second toggle: status = %d", rec.Code)
	}
	got, err := assignmentstore.New(db).GetByID(ctx, live.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != models.StatusAssigned || got.CompletedAt != nil {
		t.Errorf("after reopen: status=%q completed_at=%v", got.Status, got.CompletedAt)
	}
}

func TestServeToggle_PersonalIsSymmetric(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	alice := f.CreateUser(ctx, "Alice", "alice@test.com")
	bob := f.CreateUser(ctx, "Bob", "bob@test.com")
	ws := f.CreatePersonalWorkspace(ctx, alice.ID)
	a := f.CreatePersonalAssignment(ctx, ws, models.SourceNote, "n-1", alice.ID, bob.ID)

	h := execution.NewHandler(db, notify.NewNop(), zap.NewNop())

	// The assigner can toggle too in personal mode.
	req := httptest.NewRequest("POST", "/tasks/x/toggle", nil)
	req = testutil.WithChiURLParam(req, "id", a.ID.Hex())
	req = testutil.WithUser(req, alice)
	rec := httptest.NewRecorder()
	h.ServeToggle(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("assigner toggle: status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
}

func TestServeToggle_DraftInvisible(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	worker := f.CreateUser(ctx, "Worker", "worker@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)
	draft := f.CreateDraftAssignment(ctx, bord, models.SourceNote, "note-1", worker.ID)

	h := execution.NewHandler(db, notify.NewNop(), zap.NewNop())
	req := httptest.NewRequest("POST", "/tasks/x/toggle", nil)
	req = testutil.WithChiURLParam(req, "id", draft.ID.Hex())
	req = testutil.WithUser(req, worker)
	rec := httptest.NewRecorder()
	h.ServeToggle(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("draft toggle: status = %d, want 404", rec.Code)
	}
}

func TestServeProgress(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	worker := f.CreateUser(ctx, "Worker", "worker@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)
	live := f.CreateLiveAssignment(ctx, bord, models.SourceKanbanTask, "card-1", worker.ID)

	h := execution.NewHandler(db, notify.NewNop(), zap.NewNop())

	body := `{"content":"halfway there","columnId":"col-2","columnTitle":"Doing"}`
	req := httptest.NewRequest("PATCH", "/tasks/x/progress", strings.NewReader(body))
	req = testutil.WithChiURLParam(req, "id", live.ID.Hex())
	req = testutil.WithUser(req, worker)
	rec := httptest.NewRecorder()
	h.ServeProgress(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	got, err := assignmentstore.New(db).GetByID(ctx, live.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.EmployeeUpdates == nil || got.EmployeeUpdates.Content != "halfway there" {
		t.Fatalf("employee updates not stored: %+v", got.EmployeeUpdates)
	}
	// The owner-authoritative fields stay untouched.
	if got.Content != "test task" {
		t.Errorf("owner content was overwritten: %q", got.Content)
	}
}

func TestServeProgress_Failures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	worker := f.CreateUser(ctx, "Worker", "worker@test.com")
	other := f.CreateUser(ctx, "Other", "other@test.com")
	bord := f.CreateBord(ctx, "Roadmap", owner.ID)
	live := f.CreateLiveAssignment(ctx, bord, models.SourceNote, "note-1", worker.ID)

	h := execution.NewHandler(db, notify.NewNop(), zap.NewNop())

	progress := func(user models.User) *httptest.ResponseRecorder {
		req := httptest.NewRequest("PATCH", "/tasks/x/progress", strings.NewReader(`{"content":"x"}`))
		req = testutil.WithChiURLParam(req, "id", live.ID.Hex())
		req = testutil.WithUser(req, user)
		rec := httptest.NewRecorder()
		h.ServeProgress(rec, req)
		return rec
	}

	if rec := progress(other); rec.Code != http.StatusForbidden {
		t.Errorf("non-assignee: status = %d, want 403", rec.Code)
	}

	if _, err := assignmentstore.New(db).SetCompletion(ctx, live.ID, true); err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if rec := progress(worker); rec.Code != http.StatusBadRequest {
		t.Errorf("completed task: status = %d, want 400", rec.Code)
	}
}
