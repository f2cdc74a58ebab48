package app

import (
	"github.com/gin-gonic/gin"

	"github.com/aghamazing/quest-core/internal/gateway"
	"github.com/aghamazing/quest-core/internal/middleware"
	"github.com/aghamazing/quest-core/internal/modules/analytics"
	"github.com/aghamazing/quest-core/internal/modules/auth"
	"github.com/aghamazing/quest-core/internal/modules/category"
	"github.com/aghamazing/quest-core/internal/modules/feedback"
	"github.com/aghamazing/quest-core/internal/modules/game"
	"github.com/aghamazing/quest-core/internal/modules/integration"
	"github.com/aghamazing/quest-core/internal/modules/media"
	"github.com/aghamazing/quest-core/internal/modules/render"
	"github.com/aghamazing/quest-core/internal/modules/user"
	"github.com/aghamazing/quest-core/internal/modules/workflow"
	"github.com/aghamazing/quest-core/internal/pkg/response"
)

// registerRoutes wires the two HTTP surfaces: the gatewayed third-party API
// under the configured prefix, and the staff CMS under /admin/api.
func (a *App) registerRoutes() error {
	r := a.router
	db := a.db
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "")
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	recorder := analytics.NewRecorder(db, a.logger)

	// Shared services
	gameSvc := game.NewService(db)
	analyticsSvc := analytics.NewService(analytics.NewStore(db), recorder)
	userSvc := user.NewService(db)
	workflowSvc := workflow.NewService(workflow.NewStore(db), recorder, a.logger)
	mediaBlobs, err := media.NewBlobStore(a.cfg.Media)
	if err != nil {
		return err
	}
	mediaSvc := media.NewService(db, mediaBlobs)

	// Gatewayed third-party surface. Every request passes the key gate, the
	// endpoint allow-list, and the request logger.
	limiter := gateway.NewLimiter(gateway.NewRedisCounter(a.rc), a.logger)
	api := r.Group(a.cfg.Gateway.APIPrefix)
	api.Use(
		gateway.RequestLog(gateway.NewLogStore(db), a.cfg.Gateway, a.logger),
		gateway.Gate(gateway.NewIntegrationStore(db), limiter, a.cfg.Gateway, a.logger),
		gateway.EndpointFilter(a.cfg.Gateway),
		middleware.OptionalAuth(),
		recorder.PageViews(),
	)
	game.NewHandler(gameSvc).RegisterRoutes(api, authMW)
	render.NewHandler(db).RegisterRoutes(api, authMW)
	feedback.NewHandler(feedback.NewService(db)).RegisterRoutes(api, authMW)

	// Staff CMS surface, bypassed by the gateway.
	admin := r.Group("/admin/api")
	auth.NewHandler(userSvc, a.logger).RegisterRoutes(admin)
	workflow.NewHandler(workflowSvc).RegisterRoutes(admin, authMW)
	integration.NewHandler(integration.NewService(db)).RegisterRoutes(admin, authMW)
	category.NewHandler(category.NewService(db)).RegisterRoutes(admin, authMW)
	media.NewHandler(mediaSvc).RegisterRoutes(admin, authMW)
	user.NewHandler(userSvc).RegisterRoutes(admin, authMW)
	analytics.NewHandler(analyticsSvc).RegisterRoutes(admin, api, authMW)

	// Local media objects are served directly; the gateway bypasses /media/.
	if a.cfg.Media.Backend == "local" {
		r.Static("/media", a.cfg.Media.Dir)
	}
	return nil
}
