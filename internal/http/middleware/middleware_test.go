package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yungbote/palearn-backend/internal/observability"
	"github.com/yungbote/palearn-backend/internal/platform/ctxutil"
	"github.com/yungbote/palearn-backend/internal/platform/logger"
)

func echoUser(c *gin.Context) {
	c.String(http.StatusOK, ctxutil.UserID(c.Request.Context()))
}

func identityEngine(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewIdentityMiddleware(logger.Nop(), secret).RequireUser())
	r.GET("/me", echoUser)
	return r
}

func sign(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestIdentityHeaderMode(t *testing.T) {
	r := identityEngine("")

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User-ID", " u42 ")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK || w.Body.String() != "u42" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: status=%d", w.Code)
	}
}

func TestIdentityBearerMode(t *testing.T) {
	const secret = "s3cret"
	r := identityEngine(secret)
	exp := time.Now().Add(time.Hour).Unix()

	cases := []struct {
		name   string
		header string
		status int
		user   string
	}{
		{"sub claim", "Bearer " + sign(t, secret, jwt.MapClaims{"sub": "u1", "exp": exp}), http.StatusOK, "u1"},
		{"user_id claim wins", "Bearer " + sign(t, secret, jwt.MapClaims{"sub": "x", "user_id": "u2", "exp": exp}), http.StatusOK, "u2"},
		{"wrong secret", "Bearer " + sign(t, "other", jwt.MapClaims{"sub": "u1", "exp": exp}), http.StatusUnauthorized, ""},
		{"expired", "Bearer " + sign(t, secret, jwt.MapClaims{"sub": "u1", "exp": time.Now().Add(-time.Hour).Unix()}), http.StatusUnauthorized, ""},
		{"no subject", "Bearer " + sign(t, secret, jwt.MapClaims{"exp": exp}), http.StatusUnauthorized, ""},
		{"missing", "", http.StatusUnauthorized, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			// Header identity is ignored once a secret is configured.
			req.Header.Set("X-User-ID", "spoofed")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.status {
				t.Fatalf("status=%d want %d", w.Code, tc.status)
			}
			if tc.status == http.StatusOK && w.Body.String() != tc.user {
				t.Fatalf("user=%q want %q", w.Body.String(), tc.user)
			}
		})
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext())
	var seen *ctxutil.TraceData
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Request-Id", "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if seen == nil || seen.RequestID != "req-1" || seen.TraceID == "" {
		t.Fatalf("trace data: %+v", seen)
	}
	if w.Header().Get("X-Request-Id") != "req-1" || w.Header().Get("X-Trace-Id") != seen.TraceID {
		t.Fatalf("headers: %v", w.Header())
	}
}

func TestMetricsRecordsRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := observability.New()
	r := gin.New()
	r.Use(Metrics(m), RequestLogger(logger.Nop()))
	r.GET("/plans/date/:date", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plans/date/2024-01-01", nil))

	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if body := rec.Body.String(); !strings.Contains(body, `route="/plans/date/:date"`) {
		t.Fatalf("route label missing:\n%s", body)
	}
}

func TestUnauthorizedEnvelopeCarriesTraceID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(AttachTraceContext(), NewIdentityMiddleware(logger.Nop(), "").RequireUser())
	r.GET("/me", echoUser)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Trace-Id", "trace-9")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, `"code":"unauthorized"`) || !strings.Contains(body, `"trace_id":"trace-9"`) {
		t.Fatalf("body = %s", body)
	}
}
