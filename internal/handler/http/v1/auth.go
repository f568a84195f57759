package v1

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shenikar/emergency_reporting_system/internal/config"
	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/shenikar/emergency_reporting_system/internal/service"
	"github.com/sirupsen/logrus"
)

const identityKey = "identity"

// APIKeyAuthMiddleware - middleware для аутентификации по API-ключу
func APIKeyAuthMiddleware(cfg *config.Config, log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("X-API-Key")
		if apiKey == "" {
			// Проверяем также заголовок Authorization: Bearer
			authHeader := c.GetHeader("Authorization")
			if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
				apiKey = strings.TrimPrefix(authHeader, "Bearer ")
			}
		}

		if apiKey == "" {
			log.Warn("API key missing from request")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "API key required"})
			return
		}

		if !slices.Contains(cfg.APIKeys, apiKey) {
			log.Warn("Invalid API key provided")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			return
		}

		c.Next()
	}
}

// RequireRole пропускает запрос, только если в сессии есть учетная запись
// с одной из ролей. Без ролей достаточно любой активной сессии.
func RequireRole(sessions service.SessionService, log *logrus.Logger, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := sessions.CurrentIdentity()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "sign in required"})
			return
		}
		if len(roles) > 0 && !slices.Contains(roles, identity.Role) {
			log.WithFields(logrus.Fields{
				"identity_id": identity.ID,
				"role":        identity.Role,
				"path":        c.FullPath(),
			}).Warn("Access denied by role")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// currentIdentity возвращает учетную запись, сохраненную RequireRole
func currentIdentity(c *gin.Context) *models.Identity {
	if v, ok := c.Get(identityKey); ok {
		if identity, ok := v.(*models.Identity); ok {
			return identity
		}
	}
	return nil
}
