package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lucasorrentino/weekwise/internal/adapters/handler/http/middleware"
)

// 2026-08-26 is a Wednesday in ISO week 2026-W35.
var handlerNow = time.Date(2026, 8, 26, 15, 30, 0, 0, time.UTC)

func handlerClock() time.Time {
	return handlerNow
}

// newTestRouter builds an engine whose auth is an X-User-ID header,
// standing in for the JWT middleware tested separately.
func newTestRouter(register func(*gin.RouterGroup)) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-User-ID"); uid != "" {
			c.Set(middleware.ContextUserIDKey, uid)
		}
		c.Next()
	})

	register(r.Group("/api/v1"))
	return r
}

func doRequest(router *gin.Engine, method, path, body, asUser string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}

	req, _ := http.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if asUser != "" {
		req.Header.Set("X-User-ID", asUser)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
