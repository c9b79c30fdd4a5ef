package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aura-backend/internal/platform/ctxutil"
	"github.com/yungbote/aura-backend/internal/platform/logger"
)

func TestSessionSignVerify(t *testing.T) {
	s := NewSessions(logger.Nop(), "secret-a", time.Hour, false)
	token, err := s.Sign("sid-1")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	id, err := s.Verify(token)
	if err != nil || id != "sid-1" {
		t.Fatalf("Verify: %q %v", id, err)
	}

	other := NewSessions(logger.Nop(), "secret-b", time.Hour, false)
	if _, err := other.Verify(token); err == nil {
		t.Fatalf("token signed with another secret must not verify")
	}

	later := NewSessions(logger.Nop(), "secret-a", time.Hour, false)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Verify(token); err == nil {
		t.Fatalf("expired token must not verify")
	}
	if _, err := s.Verify("garbage"); err == nil {
		t.Fatalf("garbage must not verify")
	}
}

func TestSessionMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewSessions(logger.Nop(), "secret", time.Hour, false)

	var seen string
	r := gin.New()
	r.Use(s.Middleware())
	r.GET("/", func(c *gin.Context) {
		seen = ctxutil.GetSessionID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != SessionCookie || !cookies[0].HttpOnly {
		t.Fatalf("expected session cookie, got %#v", cookies)
	}
	first := seen
	if first == "" {
		t.Fatalf("session id not stored in context")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if seen != first {
		t.Fatalf("session not reused: %q vs %q", seen, first)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatalf("valid cookie should not be reissued")
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "tampered"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if seen == first || len(rec.Result().Cookies()) != 1 {
		t.Fatalf("tampered cookie should mint a new session")
	}
}

func TestTraceContextEchoesIDs(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var td *ctxutil.TraceData
	r := gin.New()
	r.Use(TraceContext())
	r.GET("/", func(c *gin.Context) {
		td = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if td == nil || td.RequestID != "req-1" || td.TraceID == "" {
		t.Fatalf("trace data: %#v", td)
	}
	if rec.Header().Get(HeaderRequestID) != "req-1" || rec.Header().Get(HeaderTraceID) != td.TraceID {
		t.Fatalf("headers: %v", rec.Header())
	}
}
