package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	infraRepo "github.com/sangkips/gestion-api/internal/infrastructure/repository"
	"github.com/sangkips/gestion-api/internal/presentation/http/dto/response"
	"github.com/sangkips/gestion-api/pkg/apperror"
)

// TenantHeader names the company the request acts for
const TenantHeader = "X-Company-ID"

const maxTenantIDLength = 64

// TenantMiddleware reads the company id from the X-Company-ID header and
// adds it to the gin and request contexts
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := strings.TrimSpace(c.GetHeader(TenantHeader))
		if tenantID == "" {
			response.Error(c, apperror.ErrTenantRequired)
			c.Abort()
			return
		}
		if len(tenantID) > maxTenantIDLength || strings.ContainsAny(tenantID, `/\ `) {
			response.BadRequest(c, "Invalid X-Company-ID header")
			c.Abort()
			return
		}

		// Set tenant ID in Gin context (for middleware/handlers)
		c.Set("tenant_id", tenantID)

		// Also set tenant ID in request context (for services/repositories)
		ctx := infraRepo.WithTenant(c.Request.Context(), tenantID)
		logger := zerolog.Ctx(ctx).With().Str("tenant_id", tenantID).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx))

		c.Next()
	}
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) string {
	tenantID, exists := c.Get("tenant_id")
	if !exists {
		return ""
	}
	id, _ := tenantID.(string)
	return id
}
