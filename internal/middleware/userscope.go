package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/edusprout/edusprout/pkg/errors"
	"github.com/edusprout/edusprout/pkg/response"
)

// CtxUserIDKey is the gin context key carrying the request's user scope.
const CtxUserIDKey = "user_id"

// UserScopeHeader identifies the caller. The portal has no account system;
// the client supplies an opaque identifier and every store is partitioned
// by it.
const UserScopeHeader = "X-User-ID"

const maxUserIDLength = 128

// UserScope extracts the user identifier from the X-User-ID header (or the
// user_id query parameter for WebSocket clients, which cannot set headers)
// and stores it on the request context. Requests without one are rejected.
func UserScope() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := strings.TrimSpace(c.GetHeader(UserScopeHeader))
		if userID == "" {
			userID = strings.TrimSpace(c.Query("user_id"))
		}

		if userID == "" || len(userID) > maxUserIDLength {
			response.Error(c, apperrors.ErrUserScopeRequired)
			c.Abort()
			return
		}

		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
