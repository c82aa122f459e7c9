package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/moonwatch/internal/domain/session"
)

const sessionContextKey = "moonwatch.session"

// sessionMiddleware attaches a view session to every request, issuing a new
// signed cookie when the browser has none or presents an invalid one.
func sessionMiddleware(issuer *session.Issuer, cookieName string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var id string
		if token, err := c.Cookie(cookieName); err == nil {
			parsed, err := issuer.Parse(token)
			if err != nil {
				logger.Debug("session cookie rejected", "error", err)
			} else {
				id = parsed
			}
		}
		if id == "" {
			newID, token, err := issuer.New()
			if err != nil {
				abortWithError(c, NewHTTPError(http.StatusInternalServerError, "session_error", "failed to start session", err))
				return
			}
			id = newID
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(cookieName, token, int(issuer.TTL().Seconds()), "/", "", c.Request.TLS != nil, true)
		}
		c.Set(sessionContextKey, id)
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(sessionContextKey)
}
