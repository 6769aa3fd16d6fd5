// internal/app/features/publish/coordinator.go
package publish

import (
	"context"
	"errors"
	"fmt"
	"time"

	assignmentstore "github.com/bordhub/bordhub/internal/app/store/assignments"
	boardchangestore "github.com/bordhub/bordhub/internal/app/store/boardchanges"
	bordstore "github.com/bordhub/bordhub/internal/app/store/bords"
	snapshotstore "github.com/bordhub/bordhub/internal/app/store/snapshots"
	"github.com/bordhub/bordhub/internal/app/system/boardlock"
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"github.com/bordhub/bordhub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultConfirmThreshold is the pending-item count above which a publish
// requires explicit confirmation (force=true). Protects against accidental
// mass-publish after a bulk import.
const DefaultConfirmThreshold = 30

// ErrNothingToPublish is returned when a board has no drafts and no pending
// unassignments. An empty publish signals a client-side bug or race, so it is
// an error rather than a no-op success.
var ErrNothingToPublish = errors.New("no unpublished changes")

// ThresholdError reports that the pending-item count exceeds the confirm
// threshold and the caller did not supply force. Nothing has been mutated.
type ThresholdError struct {
	Pending int
}

func (e *ThresholdError) Error() string {
	return fmt.Sprintf("publish would affect %d items; resubmit with force to confirm", e.Pending)
}

// Result is the summary of one completed publish.
type Result struct {
	VersionNumber  int64 `json:"version_number"`
	NewAssignments int   `json:"new_assignments"`
	Reassignments  int   `json:"reassignments"`
	Unassignments  int   `json:"unassignments"`
	TotalDeployed  int   `json:"total_deployed"`
}

// Coordinator runs the publish pipeline: it promotes a board's drafts to
// assigned, reconciles pending unassignments, mints a versioned snapshot and
// fans out notifications.
//
// The pipeline is not wrapped in a cross-document transaction. Version
// allocation is an atomic increment-and-fetch on the bord record, backed by a
// unique (board_id, version_number) index on snapshots, and Locks serializes
// whole publishes per board within this process so a double-click cannot
// interleave two runs.
type Coordinator struct {
	Assignments *assignmentstore.Store
	Changes     *boardchangestore.Store
	Snapshots   *snapshotstore.Store
	Bords       *bordstore.Store
	Notify      *notify.Emitter
	Locks       *boardlock.Set
	Log         *zap.Logger

	// ConfirmThreshold overrides DefaultConfirmThreshold when positive.
	ConfirmThreshold int
}

func (c *Coordinator) threshold() int {
	if c.ConfirmThreshold > 0 {
		return c.ConfirmThreshold
	}
	return DefaultConfirmThreshold
}

// Publish executes the pipeline for one board. The caller has already
// verified that requester owns the board.
func (c *Coordinator) Publish(ctx context.Context, bord models.Bord, requester primitive.ObjectID, force bool) (Result, error) {
	unlock := c.Locks.Lock(bord.ID.Hex())
	defer unlock()

	drafts, err := c.Assignments.ListDrafts(ctx, bord.ID)
	if err != nil {
		return Result{}, fmt.Errorf("load drafts: %w", err)
	}
	unassigns, err := c.Assignments.ListPendingUnassignments(ctx, bord.ID)
	if err != nil {
		return Result{}, fmt.Errorf("load pending unassignments: %w", err)
	}

	pending := len(drafts) + len(unassigns)
	if pending == 0 {
		return Result{}, ErrNothingToPublish
	}
	if pending > c.threshold() && !force {
		return Result{}, &ThresholdError{Pending: pending}
	}

	now := time.Now().UTC()
	requestID := uuid.NewString()
	var events []notify.Event
	var newCount, reassignCount int

	for _, a := range drafts {
		reassignment := a.WasPublished()
		if err := c.Assignments.MarkPublished(ctx, a.ID, now); err != nil {
			return Result{}, fmt.Errorf("promote draft %s: %w", a.ID.Hex(), err)
		}
		if reassignment {
			reassignCount++
			events = append(events, notify.Event{
				UserID:  a.AssignedTo,
				Type:    models.NotifyTaskReassigned,
				Title:   "Task updated",
				Message: fmt.Sprintf("A task assigned to you on %q was updated", bord.Title),
				Metadata: map[string]string{
					"assignment_id": a.ID.Hex(),
					"board_id":      bord.ID.Hex(),
					"request_id":    requestID,
				},
			})
		} else {
			newCount++
			events = append(events, notify.Event{
				UserID:  a.AssignedTo,
				Type:    models.NotifyTaskAssigned,
				Title:   "New task assigned",
				Message: fmt.Sprintf("You have a new task on %q", bord.Title),
				Metadata: map[string]string{
					"assignment_id": a.ID.Hex(),
					"board_id":      bord.ID.Hex(),
					"request_id":    requestID,
				},
			})
		}
	}

	// Unassignments leave no row behind; their history survives only as the
	// aggregate count on the snapshot.
	for _, a := range unassigns {
		events = append(events, notify.Event{
			UserID:  a.AssignedTo,
			Type:    models.NotifyTaskUnassigned,
			Title:   "Task unassigned",
			Message: fmt.Sprintf("A task assigned to you on %q was removed", bord.Title),
			Metadata: map[string]string{
				"board_id":   bord.ID.Hex(),
				"request_id": requestID,
			},
		})
		if err := c.Assignments.HardDelete(ctx, a.ID); err != nil {
			return Result{}, fmt.Errorf("remove unassigned %s: %w", a.ID.Hex(), err)
		}
	}

	version, err := c.Bords.NextVersion(ctx, bord.ID)
	if err != nil {
		return Result{}, fmt.Errorf("allocate version: %w", err)
	}

	snap := models.PublishSnapshot{
		BoardID:        bord.ID,
		VersionNumber:  version,
		PublishedBy:    requester,
		NewAssignments: newCount,
		Reassignments:  reassignCount,
		Unassignments:  len(unassigns),
		RequestID:      requestID,
		PublishedAt:    now,
	}
	if snap, err = c.Snapshots.Insert(ctx, snap); err != nil {
		return Result{}, fmt.Errorf("insert snapshot: %w", err)
	}

	if err := c.Bords.SetLastPublished(ctx, bord.ID, now); err != nil {
		c.Log.Warn("failed to stamp last_published_at",
			zap.String("board_id", bord.ID.Hex()),
			zap.Error(err))
	}
	if err := c.Changes.Reset(ctx, bord.ID); err != nil {
		c.Log.Warn("failed to reset change tracker",
			zap.String("board_id", bord.ID.Hex()),
			zap.Error(err))
	}

	// Best-effort fan-out; a dropped notification never fails the publish.
	c.Notify.EmitAll(ctx, events)

	c.Log.Info("board published",
		zap.String("board_id", bord.ID.Hex()),
		zap.Int64("version", version),
		zap.String("request_id", requestID),
		zap.Int("new", newCount),
		zap.Int("reassigned", reassignCount),
		zap.Int("unassigned", len(unassigns)))

	return Result{
		VersionNumber:  version,
		NewAssignments: newCount,
		Reassignments:  reassignCount,
		Unassignments:  len(unassigns),
		TotalDeployed:  snap.TotalDeployed(),
	}, nil
}
