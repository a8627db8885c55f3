package handlers

import (
	_ "thermostat_dashboard/docs"
	"thermostat_dashboard/internal/logger"
	"thermostat_dashboard/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)
	router.SetHTMLTemplate(dashboardTmpl)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Dashboard page
	router.GET("/", h.dashboardPage)

	// Health endpoint
	router.GET("/health", h.health)

	// Versioned API endpoints
	h.registerAPIRoutes(router)

	// Simulated telemetry in the endpoint wire format
	if h.services.Feed != nil {
		router.GET("/telemetry", h.getTelemetry)
	}

	// Render push over WebSocket, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerViewRoutes(api)
		api.GET("/chart", h.getChart)
		api.GET("/cycles", h.getCycles)
	}
}

func (h *Handler) registerViewRoutes(api *gin.RouterGroup) {
	view := api.Group("/view")
	{
		view.GET("", h.getView)
		view.POST("/toggle", h.toggleView)
		view.POST("/refresh", h.refreshView)
	}
}
