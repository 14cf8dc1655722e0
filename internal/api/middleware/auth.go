package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/perfumeoud/retailapi/internal/domain"
	"github.com/perfumeoud/retailapi/internal/repository"
)

const staffContextKey = "staff"

// AuthMiddleware authenticates staff terminals by API key
func AuthMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing Authorization header"})
			return
		}

		apiKey := strings.TrimPrefix(header, "Bearer ")
		if apiKey == header || apiKey == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid Authorization header"})
			return
		}

		staff, err := repos.Staff.GetByAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			logger.Warn("API key authentication failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid API key"})
			return
		}

		c.Set(staffContextKey, staff)
		c.Next()
	}
}

// GetStaffFromContext returns the authenticated staff member
func GetStaffFromContext(c *gin.Context) (*domain.Staff, bool) {
	value, exists := c.Get(staffContextKey)
	if !exists {
		return nil, false
	}
	staff, ok := value.(*domain.Staff)
	return staff, ok
}
