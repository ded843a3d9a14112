package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/firegate/firegate/internal/tokens"
	"github.com/firegate/firegate/pkg/middleware"
)

// TokenHandler manages a user's personal access tokens.
type TokenHandler struct {
	ledger *tokens.Ledger
}

func NewTokenHandler(l *tokens.Ledger) *TokenHandler {
	return &TokenHandler{ledger: l}
}

// RegisterProtected registers token management under an authenticated group.
func (h *TokenHandler) RegisterProtected(rg *gin.RouterGroup) {
	t := rg.Group("/tokens")
	t.POST("", h.Create)
	t.GET("", h.List)
	t.DELETE("/:id", h.Revoke)
	t.DELETE("", h.RevokeAll)
}

type createTokenRequest struct {
	Name      string   `json:"name" binding:"required"`
	Abilities []string `json:"abilities"`
}

// Create issues a new token. The plaintext appears in this response and
// nowhere else, ever.
func (h *TokenHandler) Create(c *gin.Context) {
	u := middleware.CurrentUser(c)
	var req createTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	plaintext, tok, err := h.ledger.Issue(c.Request.Context(), u, req.Name, req.Abilities)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": tok.ID(), "name": tok.Name(), "token": plaintext})
}

func (h *TokenHandler) List(c *gin.Context) {
	u := middleware.CurrentUser(c)
	list, err := h.ledger.List(c.Request.Context(), u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tokens"})
		return
	}
	out := make([]gin.H, 0, len(list))
	for _, tok := range list {
		out = append(out, tokenJSON(tok))
	}
	c.JSON(http.StatusOK, out)
}

// Revoke deletes one of the caller's tokens. Tokens of other owners are
// invisible here, so a foreign id answers 404.
func (h *TokenHandler) Revoke(c *gin.Context) {
	u := middleware.CurrentUser(c)
	id := c.Param("id")
	list, err := h.ledger.List(c.Request.Context(), u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list tokens"})
		return
	}
	for _, tok := range list {
		if tok.ID() == id {
			if err := h.ledger.Revoke(c.Request.Context(), id); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"message": "revoked"})
			return
		}
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func (h *TokenHandler) RevokeAll(c *gin.Context) {
	u := middleware.CurrentUser(c)
	if err := h.ledger.RevokeAll(c.Request.Context(), u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke tokens"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "revoked"})
}

// tokenJSON is the client-visible record: metadata only, no digest.
func tokenJSON(tok *tokens.Token) gin.H {
	var lastUsed any
	if t := tok.LastUsedAt(); t != nil {
		lastUsed = t.Format(time.RFC3339Nano)
	}
	return gin.H{
		"id":           tok.ID(),
		"name":         tok.Name(),
		"abilities":    tok.Abilities(),
		"last_used_at": lastUsed,
		"expires_at":   tok.ExpiresAt().Format(time.RFC3339Nano),
		"created_at":   tok.CreatedAt().Format(time.RFC3339Nano),
	}
}
