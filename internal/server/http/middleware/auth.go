package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/gridbill/gridbill/internal/domain/errors"
	"github.com/gridbill/gridbill/internal/domain/model"
	pkgAuth "github.com/gridbill/gridbill/internal/pkg/auth"
)

const (
	// UserContextKey is a gin context key for the authenticated account.
	UserContextKey = "currentUser"
	authCookieName = "token"
)

// SessionVerifier resolves a session token into the live account.
type SessionVerifier interface {
	VerifySession(ctx context.Context, token string) (*model.User, error)
}

// AuthRequired ensures the request carries a valid session before the
// handler runs. The account is re-read from the store on every request
// so deactivation and deletion take effect immediately.
func AuthRequired(verifier SessionVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "authentication required"})
			return
		}

		usr, err := verifier.VerifySession(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, pkgAuth.ErrInvalidToken), errors.Is(err, domainErrors.ErrNotFound):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			default:
				c.AbortWithStatus(http.StatusInternalServerError)
			}
			return
		}

		if !usr.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "account is deactivated"})
			return
		}

		c.Set(UserContextKey, usr)
		c.Next()
	}
}

// RequireRoles rejects authenticated users whose role is not in the
// allowed set. Must run after AuthRequired.
func RequireRoles(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(UserContextKey)
		usr, cast := val.(*model.User)
		if !ok || !cast {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		if !usr.HasRole(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "insufficient permissions"})
			return
		}
		c.Next()
	}
}

// ExtractToken pulls the session token from the auth cookie or the
// Authorization header, cookie first.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(authCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// SetAuthCookie writes the session cookie to the response.
func SetAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookieName, token, maxAge, "/", "", true, true)
}

// ClearAuthCookie expires the session cookie.
func ClearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(authCookieName, "", -1, "/", "", true, true)
}
