package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/firegate/firegate/internal/auth"
	"github.com/firegate/firegate/internal/sessions"
	"github.com/firegate/firegate/internal/tokens"
	"github.com/firegate/firegate/pkg/metrics"
)

const (
	guardKey = "firegate.guard"
	userKey  = "firegate.user"
)

// rejectUnauthenticated is the single failure answer of the auth boundary.
// Bad token, expired token, deleted user, missing header: all look the same
// to the caller.
func rejectUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthenticated"})
}

// Guarded builds the request-scoped guard from the session cookie and parks
// it in the context. It never rejects; downstream middleware decides.
func Guarded(provider *auth.Provider, store sessions.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, _ := c.Cookie(cookieName)
		c.Set(guardKey, auth.NewGuard(provider, store, sid))
		c.Next()
	}
}

// GuardFrom returns the guard placed by Guarded, or nil.
func GuardFrom(c *gin.Context) *auth.Guard {
	if v, ok := c.Get(guardKey); ok {
		if g, ok := v.(*auth.Guard); ok {
			return g
		}
	}
	return nil
}

// CurrentUser returns the principal attached by TokenAuth or Authenticated,
// or nil.
func CurrentUser(c *gin.Context) *auth.User {
	if v, ok := c.Get(userKey); ok {
		if u, ok := v.(*auth.User); ok {
			return u
		}
	}
	return nil
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return ""
	}
	return strings.TrimSpace(raw)
}

// resolveBearer runs the token path: hash the plaintext, look the digest up
// in the ledger, load the owning user. A (nil, nil) return means "not
// authenticated"; errors are backend failures.
func resolveBearer(c *gin.Context, ledger *tokens.Ledger, provider *auth.Provider, raw string) (*auth.User, error) {
	ctx := c.Request.Context()
	rec, err := ledger.FindByDigest(ctx, tokens.Digest(raw))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		metrics.TokenLookups.WithLabelValues("miss").Inc()
		return nil, nil
	}
	u, err := provider.RetrieveByID(ctx, rec.OwnerID())
	if err != nil {
		return nil, err
	}
	if u == nil {
		metrics.TokenLookups.WithLabelValues("orphaned").Inc()
		return nil, nil
	}
	metrics.TokenLookups.WithLabelValues("hit").Inc()
	return u, nil
}

// TokenAuth gates a route on a personal access token. A request without a
// bearer token is rejected before anything else runs. On success the
// principal is attached to the context and forced onto the guard, bypassing
// session state.
func TokenAuth(ledger *tokens.Ledger, provider *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			rejectUnauthenticated(c)
			return
		}
		u, err := resolveBearer(c, ledger, provider, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth backend unavailable"})
			return
		}
		if u == nil {
			rejectUnauthenticated(c)
			return
		}
		if g := GuardFrom(c); g != nil {
			g.SetUser(u)
		}
		c.Set(userKey, u)
		c.Next()
	}
}

// Authenticated accepts either a bearer token or an established session.
// Requests that resolve to no principal get the same rejection as TokenAuth.
func Authenticated(ledger *tokens.Ledger, provider *auth.Provider) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw := bearerToken(c); raw != "" {
			u, err := resolveBearer(c, ledger, provider, raw)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth backend unavailable"})
				return
			}
			if u == nil {
				rejectUnauthenticated(c)
				return
			}
			if g := GuardFrom(c); g != nil {
				g.SetUser(u)
			}
			c.Set(userKey, u)
			c.Next()
			return
		}
		g := GuardFrom(c)
		if g == nil {
			rejectUnauthenticated(c)
			return
		}
		u, err := g.User(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "auth backend unavailable"})
			return
		}
		if u == nil {
			rejectUnauthenticated(c)
			return
		}
		c.Set(userKey, u)
		c.Next()
	}
}
