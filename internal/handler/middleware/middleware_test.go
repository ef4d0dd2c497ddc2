package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmehra2102/prod-golang-projects/medscript/internal/config"
	"github.com/dmehra2102/prod-golang-projects/medscript/internal/domain"
	"github.com/dmehra2102/prod-golang-projects/medscript/pkg/auth"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeValidator map[string]domain.Actor

func (f fakeValidator) ValidateAccessToken(token string) (domain.Actor, error) {
	if token == "expired" {
		return domain.Actor{}, auth.ErrTokenExpired
	}
	a, ok := f[token]
	if !ok {
		return domain.Actor{}, errors.New("bad token")
	}
	return a, nil
}

func TestAuthAttachesActor(t *testing.T) {
	r := gin.New()
	r.Use(RequestID(), Auth(fakeValidator{"good": {Subject: "dr.ana", Role: domain.RoleDoctor}}, zaptest.NewLogger(t)))

	var seen domain.Actor
	r.GET("/x", func(c *gin.Context) {
		seen = domain.ActorFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	tests := []struct {
		header string
		want   int
	}{
		{"", http.StatusUnauthorized},
		{"Basic abc", http.StatusUnauthorized},
		{"Bearer nope", http.StatusUnauthorized},
		{"Bearer expired", http.StatusUnauthorized},
		{"bearer good", http.StatusNoContent},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		req.Header.Set(HeaderRequestID, "req-42")
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != tt.want {
			t.Errorf("header %q: status = %d, want %d", tt.header, rec.Code, tt.want)
		}
	}

	if seen.Subject != "dr.ana" || seen.RequestID != "req-42" || seen.IPAddress == "" {
		t.Fatalf("unexpected actor %+v", seen)
	}
}

func TestRequestIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) { c.String(http.StatusOK, RequestIDFrom(c)) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	if got := rec.Header().Get(HeaderRequestID); got == "" || got != rec.Body.String() {
		t.Fatalf("request id header %q body %q", got, rec.Body.String())
	}
}

func TestIPRateLimiter(t *testing.T) {
	l := NewIPRateLimiter(1, 2)
	now := time.Unix(1_700_000_000, 0)
	l.now = func() time.Time { return now }

	if !l.Allow("1.1.1.1") || !l.Allow("1.1.1.1") {
		t.Fatal("burst should be allowed")
	}
	if l.Allow("1.1.1.1") {
		t.Fatal("third request within the same instant should be limited")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatal("limits are per client")
	}

	now = now.Add(time.Second)
	if !l.Allow("1.1.1.1") {
		t.Fatal("token should refill after one second")
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RateLimit(NewIPRateLimiter(0.0001, 1)))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 2)
	for i := range codes {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		codes[i] = rec.Code
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORS(config.CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
	}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", got)
	}
}
