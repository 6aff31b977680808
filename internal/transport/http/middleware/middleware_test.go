package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"lottery-forum/internal/core/auth"
	"lottery-forum/internal/domain"
	"lottery-forum/internal/session"
	"lottery-forum/internal/transport/http/ez"
	resp "lottery-forum/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

func serve(r http.Handler, req *http.Request) (*httptest.ResponseRecorder, resp.Resp) {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out resp.Resp
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func okHandler(c *gin.Context) { c.JSON(http.StatusOK, resp.OK(nil)) }

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(KeyRequestID)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(KeyRequestID, "abc")
	w, _ := serve(r, req)
	assert.Equal(t, "abc", w.Header().Get(KeyRequestID))
	assert.Equal(t, "abc", w.Body.String())

	w, _ = serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, w.Header().Get(KeyRequestID), 36)
}

func TestRateLimitPerIP(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitPerIP(0.001, 2, time.Minute))
	r.GET("/", okHandler)

	from := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		_, out := serve(r, req)
		return out.Code
	}
	assert.Equal(t, resp.CodeOK, from("10.0.0.1"))
	assert.Equal(t, resp.CodeOK, from("10.0.0.1"))
	assert.Equal(t, resp.CodeTooManyRequests, from("10.0.0.1"))
	assert.Equal(t, resp.CodeOK, from("10.0.0.2"))
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/", func(*gin.Context) { panic("boom") })

	w, out := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, resp.CodeServerError, out.Code)
	assert.Equal(t, 1, logs.Len())
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.Use(Timeout(10 * time.Millisecond))
	r.GET("/", func(c *gin.Context) { <-c.Request.Context().Done() })

	_, out := serve(r, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, resp.CodeTimeout, out.Code)
}

func TestHTTPMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewHTTPMetrics(reg)
	r := gin.New()
	r.Use(m.Handler("api"))
	r.GET("/posts/:id", okHandler)

	serve(r, httptest.NewRequest(http.MethodGet, "/posts/1", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/posts/2", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.total.WithLabelValues("api", "/posts/:id", "GET", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.total.WithLabelValues("api", "unmatched", "GET", "404")))
}

func TestAccessLog_MasksAndLevels(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.New(core)))
	r.GET("/ok", okHandler)
	r.GET("/bad", func(c *gin.Context) { ez.Fail(c, ez.BadRequest("nope")) })

	serve(r, httptest.NewRequest(http.MethodGet, "/ok?token=secret&q=x", nil))
	serve(r, httptest.NewRequest(http.MethodGet, "/bad", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	q := entries[0].ContextMap()["query"].(map[string][]string)
	assert.Equal(t, []string{"****"}, q["token"])
	assert.Equal(t, []string{"x"}, q["q"])
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
}

func newSessions(t *testing.T) (Sessions, *session.MemorySlots) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("3494"), bcrypt.MinCost)
	require.NoError(t, err)
	slots := session.NewMemorySlots()
	return Sessions{
		JWT:   &auth.JWTer{Secret: []byte("k"), Issuer: "test", TTL: time.Hour},
		Slots: slots,
		Creds: session.NewCredentials("admin", string(hash)),
	}, slots
}

func bearer(t *testing.T, s Sessions, user, pass string) string {
	t.Helper()
	sid := "sid-" + user
	store := s.Open(sid)
	require.True(t, store.Login(context.Background(), user, pass))
	who := store.Current()
	tok, err := s.JWT.Issue(sid, who.ID, string(who.Role))
	require.NoError(t, err)
	return "Bearer " + tok
}

func TestSessions_Middleware(t *testing.T) {
	s, slots := newSessions(t)
	member := bearer(t, s, "alice", "pw")
	admin := bearer(t, s, "admin", "3494")

	r := gin.New()
	whoami := func(c *gin.Context) {
		name := ""
		if who := ez.Actor(c); who != nil {
			name = who.Username
		}
		c.JSON(http.StatusOK, resp.OK(name))
	}
	r.GET("/open", s.Middleware(false), whoami)
	r.GET("/closed", s.Middleware(true), whoami)
	r.GET("/admin", s.Middleware(true), RequireRole(domain.RoleAdmin), whoami)

	get := func(path, auth string) resp.Resp {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		_, out := serve(r, req)
		return out
	}

	t.Run("anonymous", func(t *testing.T) {
		assert.Equal(t, resp.CodeOK, get("/open", "").Code)
		assert.Equal(t, "", get("/open", "").Data)
		assert.Equal(t, resp.CodeUnauthorized, get("/closed", "").Code)
	})
	t.Run("member", func(t *testing.T) {
		assert.Equal(t, "alice", get("/closed", member).Data)
		assert.Equal(t, resp.CodeForbidden, get("/admin", member).Code)
	})
	t.Run("admin", func(t *testing.T) {
		assert.Equal(t, "admin", get("/admin", admin).Data)
	})
	t.Run("bad token", func(t *testing.T) {
		assert.Equal(t, resp.CodeUnauthorized, get("/open", "Bearer junk").Code)
	})
	t.Run("logged out slot", func(t *testing.T) {
		require.NoError(t, slots.Slot("sid-alice").Remove(context.Background()))
		assert.Equal(t, resp.CodeUnauthorized, get("/closed", member).Code)
		out := get("/open", member)
		assert.Equal(t, resp.CodeOK, out.Code)
		assert.Equal(t, "", out.Data)
	})
}
