package handler

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/hmtc-its/hmtc-portal/api/swagger"

	"github.com/hmtc-its/hmtc-portal/internal/middleware"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/pkg/logger"
	corsmiddleware "github.com/hmtc-its/hmtc-portal/pkg/middleware/cors"
	reqidmiddleware "github.com/hmtc-its/hmtc-portal/pkg/middleware/requestid"
	"github.com/hmtc-its/hmtc-portal/pkg/response"
)

// Routes collects the gateway handlers. Nil handlers leave their routes
// unregistered.
type Routes struct {
	Logger         *zap.Logger
	Metrics        *service.MetricsService
	AllowedOrigins []string
	UploadMemory   int64
	Docs           bool

	Health   *MetricsHandler
	Schedule *ScheduleHandler
	Magang   *MagangHandler
	Gallery  *GalleryHandler
	Events   *EventsHandler
	Exports  *ExportHandler
}

// NewRouter builds the gateway engine.
func NewRouter(rt Routes) *gin.Engine {
	if rt.Logger == nil {
		rt.Logger = zap.NewNop()
	}

	r := gin.New()
	if rt.UploadMemory > 0 {
		r.MaxMultipartMemory = rt.UploadMemory
	}
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(rt.Logger))
	r.Use(corsmiddleware.New(rt.AllowedOrigins))
	if rt.Metrics != nil {
		r.Use(middleware.Metrics(rt.Metrics))
	}

	if rt.Health != nil {
		r.GET("/health", rt.Health.Health)
		r.GET("/ready", rt.Health.Ready)
		r.GET("/metrics", rt.Health.Prometheus)
	}

	api := r.Group("/api")
	if rt.Schedule != nil {
		api.GET("/schedule", rt.Schedule.Status)
	}
	if rt.Magang != nil {
		api.POST("/apply-magang", rt.Magang.Apply)
	}
	if rt.Gallery != nil {
		galleries := api.Group("/galleries", middleware.WithResponseMeta())
		galleries.GET("", rt.Gallery.List)
		galleries.GET("/:id", rt.Gallery.Get)
		galleries.DELETE("/:id", middleware.Bearer(response.Error), rt.Gallery.Delete)
	}
	if rt.Exports != nil {
		exports := api.Group("/magang/exports", middleware.Bearer(response.Error), rt.Exports.RequireAdmin)
		exports.POST("", rt.Exports.Create)
		exports.GET("/:id", rt.Exports.Get)
		exports.GET("/:id/download", rt.Exports.Download)
	}

	if rt.Events != nil {
		r.GET("/events/schedule", rt.Events.Schedule)
	}
	if rt.Docs {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}
	return r
}
