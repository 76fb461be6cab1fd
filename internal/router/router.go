package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/alumni-tracking-api/internal/handler"
	"github.com/noah-isme/alumni-tracking-api/internal/middleware"
	"github.com/noah-isme/alumni-tracking-api/internal/models"
	"github.com/noah-isme/alumni-tracking-api/internal/service"
	"github.com/noah-isme/alumni-tracking-api/pkg/config"
	"github.com/noah-isme/alumni-tracking-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/alumni-tracking-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/alumni-tracking-api/pkg/middleware/requestid"
)

// Handlers groups every HTTP handler mounted by Setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Alumni     *handler.AlumniHandler
	Analytics  *handler.AnalyticsHandler
	Curriculum *handler.CurriculumHandler
	Metrics    *handler.MetricsHandler
}

// Dependencies carries the cross-cutting collaborators used by middleware.
type Dependencies struct {
	Tokens  middleware.TokenValidator
	Audit   middleware.AuditWriter
	Metrics *service.MetricsService
	Logger  *zap.Logger
}

// Setup builds the gin engine with every route registered.
func Setup(cfg *config.Config, h Handlers, deps Dependencies) *gin.Engine {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(log, logger.RequestOptions{
		SkipPaths: []string{"/health", "/ready", "/metrics"},
		Fields:    principalFields,
	}))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(deps.Audit, log, action, resource)
	}
	staff := middleware.RequireRoles(models.RoleAdmin, models.RoleDean)

	api := r.Group(cfg.APIPrefix)
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
		}

		secured := api.Group("")
		secured.Use(middleware.JWT(deps.Tokens))
		{
			secured.GET("/auth/me", h.Auth.Me)

			alumni := secured.Group("/alumni")
			{
				alumni.GET("", h.Alumni.List)
				alumni.GET("/export", h.Alumni.Export)
				alumni.GET("/:id", h.Alumni.Get)
				alumni.POST("", audit(models.AuditActionAlumniCreate, "alumni"), h.Alumni.Create)
				alumni.PUT("/:id", audit(models.AuditActionAlumniUpdate, "alumni"), h.Alumni.Update)
				alumni.DELETE("/:id", audit(models.AuditActionAlumniDelete, "alumni"), h.Alumni.Delete)
			}

			analytics := secured.Group("/analytics")
			{
				analytics.GET("/overview", staff, h.Analytics.Overview)
				analytics.GET("/department/:name", h.Analytics.Department)
				analytics.GET("/system", middleware.RequireRoles(models.RoleAdmin), h.Analytics.System)
			}

			curriculum := secured.Group("/curriculum/suggestions")
			{
				curriculum.GET("", h.Curriculum.List)
				curriculum.POST("", staff, audit(models.AuditActionCurriculumAdd, "curriculum_suggestion"), h.Curriculum.Create)
				curriculum.PATCH("/:id/status", staff, audit(models.AuditActionCurriculumEdit, "curriculum_suggestion"), h.Curriculum.UpdateStatus)
			}
		}
	}

	return r
}

func principalFields(c *gin.Context) []zap.Field {
	claims := middleware.Claims(c)
	if claims == nil {
		return nil
	}
	return []zap.Field{zap.Int64("user_id", claims.UserID), zap.String("role", string(claims.Role))}
}
