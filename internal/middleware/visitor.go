package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	VisitorIDKey    = "visitor_id"
	VisitorHeader   = "X-Visitor-ID"
	VisitorCookie   = "keepsake_visitor"
	visitorMaxAge   = 365 * 24 * 60 * 60
	maxVisitorIDLen = 64
)

// Visitor assigns every request an opaque visitor id. The id comes from the
// X-Visitor-ID header, then the keepsake_visitor cookie, and is minted (and
// set as a cookie) when neither is present.
func Visitor(secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(VisitorHeader))
		if id == "" {
			if cookie, err := c.Cookie(VisitorCookie); err == nil {
				id = strings.TrimSpace(cookie)
			}
		}
		if id == "" || len(id) > maxVisitorIDLen {
			id = uuid.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(VisitorCookie, id, visitorMaxAge, "/", "", secureCookie, true)
		}

		c.Set(VisitorIDKey, id)
		c.Next()
	}
}

func VisitorID(c *gin.Context) string {
	return c.GetString(VisitorIDKey)
}
