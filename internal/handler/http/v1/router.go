package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Маршруты сессии доступны без API-ключа
	auth := api.Group("/auth")
	{
		auth.POST("/sign-in", h.signInLimiter(), h.signIn)
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-out", h.signOut)
		auth.GET("/session", h.getSession)
	}

	protected := api.Group("", APIKeyAuthMiddleware(h.cfg, h.logger))

	adminOnly := RequireRole(h.sessionService, h.logger, models.RoleAdmin)
	responders := RequireRole(h.sessionService, h.logger, models.RoleResponder, models.RoleAdmin)

	incidents := protected.Group("/incidents")
	{
		incidents.POST("", h.createIncident)
		incidents.GET("", h.listIncidents)
		incidents.GET("/mine", RequireRole(h.sessionService, h.logger), h.listMyIncidents)
		incidents.GET("/stats", adminOnly, h.getStats)
		incidents.GET("/:id", h.getIncident)
		incidents.PATCH("/:id", adminOnly, h.updateIncident)
		incidents.POST("/:id/accept", responders, h.acceptIncident)
		incidents.POST("/:id/resolve", responders, h.resolveIncident)
		incidents.POST("/:id/reject", responders, h.rejectIncident)
	}

	protected.GET("/users", adminOnly, h.listUsers)

	api.GET("/catalog", h.getCatalog)

	// Маршрут Health-check
	api.GET("/system/health", h.healthCheck)
}

// signInLimiter ограничивает частоту попыток входа с одного IP
func (h *Handler) signInLimiter() gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(h.cfg.SignInRate)
	if err != nil {
		h.logger.WithError(err).Warnf("Invalid sign-in rate %q, using 10-M", h.cfg.SignInRate)
		rate = limiter.Rate{Period: time.Minute, Limit: 10}
	}
	instance := limiter.New(memory.NewStore(), rate)
	return mgin.NewMiddleware(instance, mgin.WithLimitReachedHandler(func(c *gin.Context) {
		h.logger.WithField("client_ip", c.ClientIP()).Warn("Sign-in rate limit reached")
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many sign-in attempts"})
	}))
}
