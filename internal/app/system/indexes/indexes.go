// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
We aggregate errors so any problem is visible and startup can fail fast.

Two indexes here are load-bearing invariants, not query accelerators:

  - uniq_assign_kanban_active: the kanban single-assignee guard. Partial
    unique index over (board_id, source_type, source_id) restricted to
    active kanban rows, so two racing creations for the same card cannot
    both commit. Partial filters cannot express status != "completed",
    which is why Assignment carries the maintained `active` marker.
  - uniq_snapshots_board_version: backstop for per-board snapshot version
    monotonicity. Versions are allocated by an atomic $inc on the bord
    record; if that logic ever regresses, the insert fails loudly here.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureAssignments(ctx, db); err != nil {
		problems = append(problems, "assignments: "+err.Error())
	}
	if err := ensureBords(ctx, db); err != nil {
		problems = append(problems, "bords: "+err.Error())
	}
	if err := ensureBoardChanges(ctx, db); err != nil {
		problems = append(problems, "board_changes: "+err.Error())
	}
	if err := ensureSnapshots(ctx, db); err != nil {
		problems = append(problems, "publish_snapshots: "+err.Error())
	}
	if err := ensureFriendships(ctx, db); err != nil {
		problems = append(problems, "friendships: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}
	if err := ensureWorkspaces(ctx, db); err != nil {
		problems = append(problems, "workspaces: "+err.Error())
	}
	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureIndexSet creates each desired index, tolerating "already exists"
// shapes so repeated startups are no-ops.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}

		start := time.Now()
		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isAlreadyExistsErr(err) {
				zap.L().Info("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", name))
				continue
			}
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Mongo/DocDB report an existing equivalent index under a few different
// error shapes across versions.
func isAlreadyExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		// 85 IndexOptionsConflict, 86 IndexKeySpecsConflict, 68 IndexAlreadyExists
		if ce.Code == 85 || ce.Code == 86 || ce.Code == 68 {
			return true
		}
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "indexoptionsconflict")
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureAssignments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("assignments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// A kanban card has exactly one active owner.
		{
			Keys: bson.D{
				{Key: "board_id", Value: 1},
				{Key: "source_type", Value: 1},
				{Key: "source_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_assign_kanban_active").
				SetPartialFilterExpression(bson.D{
					{Key: "source_type", Value: "kanban_task"},
					{Key: "active", Value: true},
					{Key: "context", Value: "organization"},
				}),
		},

		// A kanban card in a personal workspace has exactly one active
		// owner too, keyed by the assigner instead of a board.
		{
			Keys: bson.D{
				{Key: "assigned_by", Value: 1},
				{Key: "source_type", Value: 1},
				{Key: "source_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_assign_kanban_personal").
				SetPartialFilterExpression(bson.D{
					{Key: "source_type", Value: "kanban_task"},
					{Key: "active", Value: true},
					{Key: "context", Value: "personal"},
				}),
		},

		// One active delegation per (board, source, assignee) in org mode.
		{
			Keys: bson.D{
				{Key: "board_id", Value: 1},
				{Key: "source_type", Value: 1},
				{Key: "source_id", Value: 1},
				{Key: "assigned_to", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_assign_org_tuple").
				SetPartialFilterExpression(bson.D{
					{Key: "active", Value: true},
					{Key: "context", Value: "organization"},
				}),
		},

		// One active delegation per (owner, source, assignee) in personal mode.
		{
			Keys: bson.D{
				{Key: "assigned_by", Value: 1},
				{Key: "source_type", Value: 1},
				{Key: "source_id", Value: 1},
				{Key: "assigned_to", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_assign_personal_tuple").
				SetPartialFilterExpression(bson.D{
					{Key: "active", Value: true},
					{Key: "context", Value: "personal"},
				}),
		},

		// Publish scans: drafts and pending unassignments for one board.
		{
			Keys: bson.D{
				{Key: "board_id", Value: 1},
				{Key: "status", Value: 1},
				{Key: "is_deleted", Value: 1},
			},
			Options: options.Index().SetName("idx_assign_board_status_deleted"),
		},

		// Assignee task lists.
		{
			Keys: bson.D{
				{Key: "assigned_to", Value: 1},
				{Key: "is_deleted", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_assign_assignee"),
		},

		// Owner-sync lookups by source item.
		{
			Keys: bson.D{
				{Key: "board_id", Value: 1},
				{Key: "source_type", Value: 1},
				{Key: "source_id", Value: 1},
				{Key: "is_deleted", Value: 1},
			},
			Options: options.Index().SetName("idx_assign_source"),
		},
	})
}

func ensureBords(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("bords")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("idx_bords_owner"),
		},
	})
}

func ensureBoardChanges(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("board_changes")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "board_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_changes_board"),
		},
	})
}

func ensureSnapshots(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("publish_snapshots")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "board_id", Value: 1},
				{Key: "version_number", Value: -1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_snapshots_board_version"),
		},
	})
}

func ensureFriendships(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("friendships")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "friend_id", Value: 1},
			},
			Options: options.Index().SetUnique(true).SetName("uniq_friendships_pair"),
		},
		{
			Keys:    bson.D{{Key: "friend_id", Value: 1}},
			Options: options.Index().SetName("idx_friendships_friend"),
		},
	})
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("notifications")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "user_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("idx_notifications_user_created"),
		},
	})
}

func ensureWorkspaces(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("workspaces")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One personal workspace per user.
		{
			Keys: bson.D{
				{Key: "owner_id", Value: 1},
				{Key: "kind", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetName("uniq_workspaces_owner_personal").
				SetPartialFilterExpression(bson.D{
					{Key: "kind", Value: "personal"},
				}),
		},
	})
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("users")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
		},
	})
}
