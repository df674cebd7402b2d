package handlers

import (
	"disaster_response/internal/logger"
	"disaster_response/internal/metrics"
	"disaster_response/internal/service"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger
	metrics  *metrics.Metrics
	mqtt     MQTTStatus
}

// MQTTStatus is reported by /status.
type MQTTStatus struct {
	Enabled bool   `json:"enabled"`
	Broker  string `json:"broker,omitempty"`
	Topic   string `json:"topic,omitempty"`
}

type Option func(*Handler)

// WithMetrics instruments every route and exposes /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

func WithMQTT(st MQTTStatus) Option {
	return func(h *Handler) { h.mqtt = st }
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	h := &Handler{services: services, log: log}
	for _, o := range opts {
		o(h)
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if h.metrics != nil {
		router.Use(h.metrics.Middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/", h.root)
	router.GET("/health", h.health)
	router.GET("/status", h.status)

	// public classification endpoints
	classify := router.Group("", limitBody(maxRequestBodyBytes), gin.CustomRecovery(h.recoverAnalysis))
	{
		classify.POST("/analyze", h.analyze)
		classify.POST("/pipeline", h.runPipeline)
	}

	h.registerAuthRoutes(router)
	h.registerAPIRoutes(router)

	// alert stream (HTTP upgrade), same port; same guard as /api/v1/alerts
	router.GET("/ws", h.streamAuthMiddleware, h.wsConnect)

	return router
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth")
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/history", h.getHistory)
		h.registerAlertRoutes(api)
	}
}

func (h *Handler) registerAlertRoutes(api *gin.RouterGroup) {
	alerts := api.Group("/alerts")
	{
		alerts.GET("", h.getAlerts)
		alerts.DELETE("", h.clearAlerts)
	}
}
