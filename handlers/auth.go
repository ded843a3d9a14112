package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/firegate/firegate/internal/auth"
	"github.com/firegate/firegate/internal/config"
	"github.com/firegate/firegate/internal/sessions"
	"github.com/firegate/firegate/pkg/logger"
	"github.com/firegate/firegate/pkg/middleware"
)

// LoginRequest carries the credential pair for session login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	cfg      *config.Config
	provider *auth.Provider
	sessions sessions.Store
}

func NewAuthHandler(cfg *config.Config, p *auth.Provider, s sessions.Store) *AuthHandler {
	return &AuthHandler{cfg: cfg, provider: p, sessions: s}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout)
}

// RegisterProtected registers the routes that need a resolved principal.
func (h *AuthHandler) RegisterProtected(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}

// Login validates a username/password pair against the user collection and
// establishes a session. The failure answer never says which part was wrong.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sid, _ := c.Cookie(h.cfg.Session.CookieName)
	if sid == "" {
		var err error
		sid, err = sessions.NewID()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
	}

	guard := auth.NewGuard(h.provider, h.sessions, sid)
	ok, err := guard.Attempt(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Errorf("login: credential check failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "authentication backend unavailable"})
		return
	}
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
		return
	}

	u, err := guard.User(c.Request.Context())
	if err != nil || u == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve user"})
		return
	}

	maxAge := int(h.cfg.Session.TTL.Seconds())
	c.SetCookie(h.cfg.Session.CookieName, sid, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"user": u.Public()})
}

// Logout clears the cached principal and the session slot.
func (h *AuthHandler) Logout(c *gin.Context) {
	g := middleware.GuardFrom(c)
	if g != nil {
		if err := g.Logout(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to clear session"})
			return
		}
	}
	c.SetCookie(h.cfg.Session.CookieName, "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the authenticated principal, session- or token-resolved.
func (h *AuthHandler) Me(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if u == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Public()})
}
