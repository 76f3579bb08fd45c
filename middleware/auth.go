package middleware

import (
	"net/http"
	"strings"

	"guesthouse-backend/models"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

const adminContextKey = "admin"

// RequireAdmin rejects requests that do not carry a valid admin session
// token. The token comes from the Authorization bearer header or, as a
// fallback, the admin_session cookie. The resolved admin is stored on the
// context for handlers.
func RequireAdmin(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie("admin_session"); err == nil {
				token = cookie
			}
		}

		admin, err := sessions.Authenticate(token)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		c.Set(adminContextKey, admin)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AdminFromContext returns the authenticated admin set by RequireAdmin.
func AdminFromContext(c *gin.Context) (*models.Admin, bool) {
	value, ok := c.Get(adminContextKey)
	if !ok {
		return nil, false
	}
	admin, ok := value.(*models.Admin)
	return admin, ok
}
