package handler

import (
	identityapp "github.com/erp/storefront/internal/application/identity"
	"github.com/erp/storefront/internal/domain/access"
	"github.com/erp/storefront/internal/interfaces/http/middleware"
	"github.com/erp/storefront/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
)

const (
	actionObtainToken  access.Action = "obtain_token"
	actionRefreshToken access.Action = "refresh_token"
)

// AuthHandler serves /auth: user registration and JWT issuance
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	limiter     *middleware.RateLimiter
}

// NewAuthHandler creates a new auth handler. A non-nil limiter throttles the
// token endpoints per client IP.
func NewAuthHandler(authService *identityapp.AuthService, limiter *middleware.RateLimiter) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		limiter:     limiter,
	}
}

func (h *AuthHandler) Name() string   { return "auth" }
func (h *AuthHandler) Prefix() string { return "/auth" }

func (h *AuthHandler) Rules() access.Rules {
	return access.NewRules(access.Kind("user"), access.Authenticated()).
		Override(access.ActionCreate, access.AllowAny()).
		Override(actionObtainToken, access.AllowAny()).
		Override(actionRefreshToken, access.AllowAny())
}

func (h *AuthHandler) RegisterRoutes(g *router.DomainGroup) {
	g.POST("/users", guard(h, access.ActionCreate), h.Register)
	g.GET("/users/me", guard(h, access.ActionRetrieve), h.Me)

	tokens := []gin.HandlerFunc{}
	if h.limiter != nil {
		tokens = append(tokens, middleware.RateLimit(h.limiter))
	}
	g.POST("/jwt/create", append(tokens, guard(h, actionObtainToken), h.Login)...)
	g.POST("/jwt/refresh", append(tokens, guard(h, actionRefreshToken), h.Refresh)...)
}

// Register creates a user account. The response never includes the password.
func (h *AuthHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Login exchanges credentials for an access and refresh token pair
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tokens, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Refresh exchanges a refresh token for a new pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	tokens, err := h.authService.Refresh(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Me returns the signed-in user
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.authService.Me(c.Request.Context(), middleware.PrincipalFrom(c).UserID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
