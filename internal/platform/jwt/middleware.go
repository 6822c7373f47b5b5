package jwtmw

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"descripto_backend/internal/feature/auth/domain/entity"
	"descripto_backend/internal/feature/auth/usecase"
)

const (
	ContextUserID = "userID"
	ContextUser   = "user"
)

// Authenticator resolves an access token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*entity.User, error)
}

// AuthRequired returns a Gin middleware function that validates access tokens
// and restricts access to authenticated, active users only.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			abort(c, http.StatusUnauthorized, usecase.KindInvalidToken, "missing bearer token")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if tokenStr == "" {
			abort(c, http.StatusUnauthorized, usecase.KindInvalidToken, "missing bearer token")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), tokenStr)
		if err != nil {
			switch kind := usecase.KindOf(err); kind {
			case usecase.KindExpiredToken:
				abort(c, http.StatusUnauthorized, kind, "token expired")
			case usecase.KindInvalidToken:
				abort(c, http.StatusUnauthorized, kind, "invalid token")
			case usecase.KindAccountDisabled:
				abort(c, http.StatusForbidden, kind, "account disabled")
			default:
				slog.Error("failed to authenticate request", "error", err, "remote_addr", c.ClientIP())
				abort(c, http.StatusInternalServerError, usecase.KindInternal, "internal server error")
			}
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUser, user)
		c.Next()
	}
}

func abort(c *gin.Context, status int, kind usecase.ErrorKind, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg, "kind": string(kind)})
}

// CurrentUser returns the user stored by AuthRequired.
func CurrentUser(c *gin.Context) (*entity.User, bool) {
	v, ok := c.Get(ContextUser)
	if !ok {
		return nil, false
	}
	user, ok := v.(*entity.User)
	return user, ok && user != nil
}
