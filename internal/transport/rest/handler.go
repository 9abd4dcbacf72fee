package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"mindconnect/config"
	"mindconnect/internal/metrics"
	"mindconnect/internal/service"
	"mindconnect/internal/transport/websocket"
)

type Handler struct {
	services *service.Services
	logger   *zap.Logger
	config   *config.Config
	sessions *websocket.DirectorySessions
	hub      *websocket.EventHub
}

func NewHandler(services *service.Services, logger *zap.Logger, config *config.Config, sessions *websocket.DirectorySessions, hub *websocket.EventHub) *Handler {
	return &Handler{
		services: services,
		logger:   logger,
		config:   config,
		sessions: sessions,
		hub:      hub,
	}
}

func (h *Handler) InitRoutes(router *gin.Engine) {
	router.Use(h.loggerMiddleware())

	router.Use(h.errorMiddleware())

	router.Use(h.corsMiddleware())

	router.Use(metrics.Middleware())

	api := router.Group("/api/v1")
	{
		psychologists := api.Group("/psychologists")
		{
			psychologists.GET("", h.getPsychologists)
			psychologists.GET("/featured", h.getFeaturedPsychologists)
			psychologists.GET("/specializations", h.getSpecializations)
			psychologists.GET("/languages", h.getLanguages)
			psychologists.GET("/locations", h.getLocations)
			psychologists.GET("/:slug", h.getPsychologistBySlug)
		}

		api.POST("/bookings", h.createBooking)
		api.POST("/inquiries", h.createInquiry)
		api.POST("/analytics/events", h.trackEvent)
		api.GET("/content", h.getContent)

		auth := api.Group("/auth")
		{
			auth.POST("/login", h.login)
			auth.POST("/forgot-password", h.forgotPassword)
			auth.POST("/reset-password", h.resetPassword)
			auth.POST("/logout", h.authMiddleware(), h.logout)
		}

		admin := api.Group("/admin", h.authMiddleware(), h.adminMiddleware())
		{
			adminPsychologists := admin.Group("/psychologists")
			{
				adminPsychologists.GET("", h.getAdminPsychologists)
				adminPsychologists.POST("", h.createPsychologist)
				adminPsychologists.GET("/:id", h.getPsychologistByID)
				adminPsychologists.PUT("/:id", h.updatePsychologist)
				adminPsychologists.DELETE("/:id", h.deletePsychologist)
				adminPsychologists.PATCH("/:id/status", h.updatePsychologistStatus)
				adminPsychologists.PATCH("/:id/featured", h.setPsychologistFeatured)
				adminPsychologists.POST("/:id/headshot", h.uploadHeadshot)
			}

			admin.GET("/analytics", h.getPlatformAnalytics)
			admin.GET("/analytics/export", h.exportAnalytics)

			admin.GET("/bookings", h.getBookings)
			admin.POST("/bookings/:id/resend", h.resendBooking)

			admin.GET("/inquiries", h.getInquiries)

			admin.GET("/content", h.getContent)
			admin.PUT("/content", h.updateContent)
		}

		portal := api.Group("/portal", h.authMiddleware(), h.psychologistMiddleware())
		{
			portal.GET("/dashboard", h.getPortalDashboard)
			portal.GET("/profile", h.getPortalProfile)
			portal.PUT("/profile", h.updatePortalProfile)
			portal.GET("/analytics", h.getPortalAnalytics)
			portal.POST("/settings/change-password", h.changePassword)
			portal.PUT("/settings/toggle-accepting-clients", h.toggleAcceptingClients)
		}
	}

	// Both sockets authenticate on their own; the event feed reads its token
	// from the query string.
	router.GET("/ws/directory", h.sessions.HandleWebSocket)
	router.GET("/ws/admin/events", h.hub.HandleWebSocket)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", h.health)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/swagger", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}

// @Summary Проверка состояния
// @Description Возвращает статус сервиса и версию
// @Tags Служебные
// @Produce json
// @Success 200 {object} map[string]interface{} "Сервис работает"
// @Router /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    h.config.Name,
		"version": h.config.Version,
	})
}
