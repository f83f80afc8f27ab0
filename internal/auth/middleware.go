package auth

import (
	"errors"
	"net/http"
	"strings"

	dom "notesapi/internal/domain"

	"github.com/gin-gonic/gin"
)

const contextKeyUser = "current_user"

// UserFromContext returns the user set by RequireUser.
func UserFromContext(c *gin.Context) (dom.User, bool) {
	v, ok := c.Get(contextKeyUser)
	if !ok {
		return dom.User{}, false
	}
	u, ok := v.(dom.User)
	return u, ok
}

// RequireUser returns a middleware that resolves the Authorization bearer
// token to a user and stores it in the request context. Missing or invalid
// credentials respond with 401.
func RequireUser(gw *Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": ErrUnauthenticated.Error()})
			return
		}
		u, err := gw.ResolveCurrentUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, ErrUnauthenticated) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": ErrUnauthenticated.Error()})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal error"})
			return
		}
		c.Set(contextKeyUser, u)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
