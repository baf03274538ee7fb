package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"keepsake-backend/internal/middleware"
)

func visitorRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.Visitor(false))
	router.GET("/v", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.VisitorID(c))
	})
	return router
}

func TestVisitor_Header(t *testing.T) {
	req, _ := http.NewRequest("GET", "/v", nil)
	req.Header.Set(middleware.VisitorHeader, "visitor-1")
	w := httptest.NewRecorder()
	visitorRouter().ServeHTTP(w, req)

	assert.Equal(t, "visitor-1", w.Body.String())
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestVisitor_Cookie(t *testing.T) {
	req, _ := http.NewRequest("GET", "/v", nil)
	req.AddCookie(&http.Cookie{Name: middleware.VisitorCookie, Value: "from-cookie"})
	w := httptest.NewRecorder()
	visitorRouter().ServeHTTP(w, req)

	assert.Equal(t, "from-cookie", w.Body.String())
}

func TestVisitor_Minted(t *testing.T) {
	req, _ := http.NewRequest("GET", "/v", nil)
	w := httptest.NewRecorder()
	visitorRouter().ServeHTTP(w, req)

	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Contains(t, w.Header().Get("Set-Cookie"), middleware.VisitorCookie+"="+w.Body.String())
}
