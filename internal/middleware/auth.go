package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Atig-Hamza/RecoleCheck/internal/session"
)

// Context keys set by RequireAuth.
const (
	UserIDKey    = "user_id"
	SessionIDKey = "session_id"
	EmailKey     = "email"
)

// Authenticator resolves a bearer token to a live session.
type Authenticator interface {
	Authenticate(token string) (session.Session, error)
}

// RequireAuth rejects requests without a valid bearer token with 401.
// On success the user id, session id and email are stored in the context and
// the request logger is tagged with the user id.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required.")
			return
		}

		sess, err := auth.Authenticate(token)
		if err != nil {
			if log := GetLogger(c); log != nil {
				log.Debug("Rejected bearer token", map[string]interface{}{
					"reason": err.Error(),
				})
			}
			abortWithError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Your session has expired. Please sign in again.")
			return
		}

		c.Set(UserIDKey, sess.UserID)
		c.Set(SessionIDKey, sess.ID)
		c.Set(EmailKey, sess.Email)
		if log := GetLogger(c); log != nil {
			c.Set(LoggerKey, log.WithUserID(sess.UserID))
		}

		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID returns the authenticated user id, or "" outside RequireAuth.
func GetUserID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}

// GetSessionID returns the authenticated session id.
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// GetEmail returns the authenticated email address.
func GetEmail(c *gin.Context) string {
	return c.GetString(EmailKey)
}
