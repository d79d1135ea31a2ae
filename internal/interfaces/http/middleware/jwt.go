package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/erp/storefront/internal/domain/identity"
	"github.com/erp/storefront/internal/infrastructure/auth"
	"github.com/erp/storefront/internal/infrastructure/logger"
	"github.com/erp/storefront/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// JWT context keys
const (
	PrincipalKey  = "principal"
	AuthHeaderKey = "Authorization"
	BearerPrefix  = "Bearer "
)

// Authenticate resolves the request principal from a bearer token.
//
// A request without an Authorization header continues as anonymous, leaving the
// decision to the resource policy. A header that is present but malformed,
// expired or signed with the wrong key is rejected with 401.
func Authenticate(jwtService *auth.JWTService, log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		authHeader := c.GetHeader(AuthHeaderKey)
		if authHeader == "" {
			SetPrincipal(c, identity.Anonymous())
			c.Next()
			return
		}

		tokenString, ok := strings.CutPrefix(authHeader, BearerPrefix)
		if !ok || tokenString == "" {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid authorization header format")
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			log.Debug("Token validation failed", zap.Error(err))
			code, message := dto.ErrCodeTokenInvalid, "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code, message = dto.ErrCodeTokenExpired, "Token has expired"
			}
			abortWithError(c, http.StatusUnauthorized, code, message)
			return
		}

		principal, err := claims.Principal()
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeTokenInvalid, "Invalid token claims")
			return
		}

		SetPrincipal(c, principal)
		ctx, _ := logger.WithUserID(c.Request.Context(), logger.FromContext(c.Request.Context()), principal.UserID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// SetPrincipal stores the principal on the gin context
func SetPrincipal(c *gin.Context, principal identity.Principal) {
	c.Set(PrincipalKey, principal)
}

// PrincipalFrom returns the request principal, anonymous when none was set
func PrincipalFrom(c *gin.Context) identity.Principal {
	if v, ok := c.Get(PrincipalKey); ok {
		if p, ok := v.(identity.Principal); ok {
			return p
		}
	}
	return identity.Anonymous()
}
