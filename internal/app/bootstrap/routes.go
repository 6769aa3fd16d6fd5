// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	assignmentsfeature "github.com/bordhub/bordhub/internal/app/features/assignments"
	executionfeature "github.com/bordhub/bordhub/internal/app/features/execution"
	healthfeature "github.com/bordhub/bordhub/internal/app/features/health"
	notificationsfeature "github.com/bordhub/bordhub/internal/app/features/notifications"
	personalfeature "github.com/bordhub/bordhub/internal/app/features/personal"
	publishfeature "github.com/bordhub/bordhub/internal/app/features/publish"
	notificationstore "github.com/bordhub/bordhub/internal/app/store/notifications"
	"github.com/bordhub/bordhub/internal/app/system/auth"
	"github.com/bordhub/bordhub/internal/app/system/boardlock"
	"github.com/bordhub/bordhub/internal/app/system/notify"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// bordhub mounts a JSON API under /api, guarded by the session middleware.
// Board-scoped routes (create/list/sync/publish/history/changes) are
// registered together under /api/boards/{boardID} so they share one URL
// parameter; record-scoped and user-scoped routes get their own feature
// mounts.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	emitter := notify.New(notificationstore.New(db), logger)
	locks := boardlock.New()

	assignHandler := assignmentsfeature.NewHandler(db, logger)
	publishHandler := publishfeature.NewHandler(db, emitter, locks, appCfg.PublishConfirmThreshold, logger)
	personalHandler := personalfeature.NewHandler(db, emitter, logger)
	executionHandler := executionfeature.NewHandler(db, emitter, logger)
	notificationsHandler := notificationsfeature.NewHandler(db, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		api.Use(sessionMgr.RequireSignedIn)

		api.Route("/boards/{boardID}", func(br chi.Router) {
			br.Get("/assignments", assignHandler.ServeList)
			br.Post("/assignments", assignHandler.ServeCreate)
			br.Post("/sync", assignHandler.ServeOwnerSync)
			br.Post("/publish", publishHandler.ServePublish)
			br.Get("/publishes", publishHandler.ServeHistory)
			br.Get("/changes", publishHandler.ServeChanges)
		})

		api.Mount("/assignments", assignmentsfeature.Routes(assignHandler))
		api.Mount("/personal", personalfeature.Routes(personalHandler))
		api.Mount("/tasks", executionfeature.Routes(executionHandler))
		api.Mount("/notifications", notificationsfeature.Routes(notificationsHandler))
	})

	return r, nil
}
