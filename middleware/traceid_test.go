package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func traceOf(header string) (body, echoed string) {
	r := gin.New()
	r.Use(TraceID())
	r.GET("/api/debug/report", func(c *gin.Context) {
		c.String(http.StatusOK, GetTraceID(c))
	})
	req := httptest.NewRequest(http.MethodGet, "/api/debug/report", nil)
	if header != "" {
		req.Header.Set(TraceIDHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Body.String(), w.Header().Get(TraceIDHeader)
}

func TestTraceID(t *testing.T) {
	cases := []struct {
		name   string
		header string
		keep   bool
	}{
		{"generated when absent", "", false},
		{"caller id kept", "tick-4711", true},
		{"max length kept", strings.Repeat("a", maxTraceID), true},
		{"oversized replaced", strings.Repeat("x", maxTraceID+1), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, echoed := traceOf(tc.header)
			assert.Equal(t, body, echoed, "response header mirrors context")
			if tc.keep {
				assert.Equal(t, tc.header, body)
				return
			}
			_, err := uuid.Parse(body)
			assert.NoError(t, err, "fresh uuid, got %q", body)
		})
	}
}

func TestTraceID_FreshPerRequest(t *testing.T) {
	a, _ := traceOf("")
	b, _ := traceOf("")
	assert.NotEqual(t, a, b)
}

func TestGetTraceID_OutsideMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, GetTraceID(c))
}
