package publish_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bordhub/bordhub/internal/app/features/publish"
	"github.com/bordhub/bordhub/internal/app/system/boardlock"
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/bordhub/bordhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newTestHandler(db *mongo.Database, threshold int) *publish.Handler {
	return publish.NewHandler(db, notify.NewNop(), boardlock.New(), threshold, zap.NewNop())
}

func publishReq(bordID string, user models.User, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest("POST", "/boards/x/publish", nil)
	} else {
		r = httptest.NewRequest("POST", "/boards/x/publish", strings.NewReader(body))
	}
	r = testutil.WithChiURLParam(r, "boardID", bordID)
	return testutil.WithUser(r, user)
}

func TestServePublish(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	worker := f.CreateUser(ctx, "Worker", "worker@test.com")
	bord := f.CreateBord(ctx, "Board", owner.ID)
	f.CreateDraftAssignment(ctx, bord, models.SourceNote, "note-1", worker.ID)

	h := newTestHandler(db, 0)
	rec := httptest.NewRecorder()
	h.ServePublish(rec, publishReq(bord.ID.Hex(), owner, ""))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var res publish.Result
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if res.VersionNumber != 1 || res.NewAssignments != 1 {
		t.Errorf("result = %+v", res)
	}

	// Immediately again: nothing pending.
	rec = httptest.NewRecorder()
	h.ServePublish(rec, publishReq(bord.ID.Hex(), owner, ""))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty publish: status = %d, want 400", rec.Code)
	}
}

func TestServePublish_ThresholdAndForce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	worker := f.CreateUser(ctx, "Worker", "worker@test.com")
	bord := f.CreateBord(ctx, "Bulk", owner.ID)
	for _, src := range []string{"a", "b", "c"} {
		f.CreateDraftAssignment(ctx, bord, models.SourceNote, src, worker.ID)
	}

	h := newTestHandler(db, 2)

	rec := httptest.NewRecorder()
	h.ServePublish(rec, publishReq(bord.ID.Hex(), owner, ""))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422; body %s", rec.Code, rec.Body.String())
	}
	var warn struct {
		ConfirmationRequired bool `json:"confirmation_required"`
		Pending              int  `json:"pending"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &warn); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if !warn.ConfirmationRequired || warn.Pending != 3 {
		t.Errorf("warning = %+v", warn)
	}

	rec = httptest.NewRecorder()
	h.ServePublish(rec, publishReq(bord.ID.Hex(), owner, `{"force":true}`))
	if rec.Code != http.StatusOK {
		t.Errorf("forced: status = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
}

func TestServePublish_OwnerOnly(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	stranger := f.CreateUser(ctx, "Stranger", "stranger@test.com")
	bord := f.CreateBord(ctx, "Board", owner.ID)

	h := newTestHandler(db, 0)
	rec := httptest.NewRecorder()
	h.ServePublish(rec, publishReq(bord.ID.Hex(), stranger, ""))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestServeHistoryAndChanges(t *testing.T) {
	db := testutil.SetupTestDB(t)
	f := testutil.NewFixtures(t, db)
	ctx := testutil.TestContext(t)

	owner := f.CreateUser(ctx, "Owner", "owner@test.com")
	worker := f.CreateUser(ctx, "Worker", "worker@test.com")
	bord := f.CreateBord(ctx, "Board", owner.ID)
	f.CreateDraftAssignment(ctx, bord, models.SourceNote, "note-1", worker.ID)

	h := newTestHandler(db, 0)
	rec := httptest.NewRecorder()
	h.ServePublish(rec, publishReq(bord.ID.Hex(), owner, ""))
	if rec.Code != http.StatusOK {
		t.Fatalf("publish failed: %s", rec.Body.String())
	}

	req := httptest.NewRequest("GET", "/boards/x/publishes", nil)
	req = testutil.WithChiURLParam(req, "boardID", bord.ID.Hex())
	req = testutil.WithUser(req, owner)
	rec = httptest.NewRecorder()
	h.ServeHistory(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("history: status = %d", rec.Code)
	}
	var hist struct {
		Publishes []models.PublishSnapshot `json:"publishes"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &hist); err != nil {
		t.Fatalf("bad history body: %v", err)
	}
	if len(hist.Publishes) != 1 || hist.Publishes[0].VersionNumber != 1 {
		t.Errorf("history = %+v", hist.Publishes)
	}

	req = httptest.NewRequest("GET", "/boards/x/changes", nil)
	req = testutil.WithChiURLParam(req, "boardID", bord.ID.Hex())
	req = testutil.WithUser(req, owner)
	rec = httptest.NewRecorder()
	h.ServeChanges(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("changes: status = %d", rec.Code)
	}
	var tracker models.BoardChanges
	if err := json.Unmarshal(rec.Body.Bytes(), &tracker); err != nil {
		t.Fatalf("bad changes body: %v", err)
	}
	if tracker.ChangeCount != 0 {
		t.Errorf("change count = %d, want 0 after publish", tracker.ChangeCount)
	}
}
