package middleware

import (
	"net/http"

	"github.com/erp/storefront/internal/domain/access"
	"github.com/erp/storefront/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// Authorize checks the route's action against the resource rules.
// Anonymous callers that are refused get 401, known callers get 403.
func Authorize(rules access.Rules, action access.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch rules.Check(PrincipalFrom(c), action) {
		case access.Granted:
			c.Next()
		case access.Unauthenticated:
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication credentials were not provided")
		default:
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "You do not have permission to perform this action")
		}
	}
}
