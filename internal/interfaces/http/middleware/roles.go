package middleware

import (
	"net/http"

	"github.com/erp-mx/backend/internal/infrastructure/auth"
	"github.com/erp-mx/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RequireAnyRole rejects the request with 403 unless the authenticated user
// holds one of the given roles. SUPERADMIN passes every role check. Must run
// after JWT authentication.
func RequireAnyRole(roles ...auth.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", requestID))
			return
		}

		if !claims.HasAnyRole(roles...) {
			requestID := c.GetString("request_id")
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "Insufficient role for this operation", requestID))
			return
		}

		c.Next()
	}
}

// RequireRole rejects the request with 403 unless the authenticated user
// holds the given role
func RequireRole(role auth.Role) gin.HandlerFunc {
	return RequireAnyRole(role)
}
