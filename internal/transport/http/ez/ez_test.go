package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"lottery-forum/internal/domain"
	"lottery-forum/internal/session"
	resp "lottery-forum/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, r http.Handler, method, path, body string) envelope {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
	return e
}

// signedIn installs a session for username before the routes run; "" stays
// anonymous.
func signedIn(t *testing.T, username string) gin.HandlerFunc {
	hash, err := bcrypt.GenerateFromPassword([]byte("3494"), bcrypt.MinCost)
	require.NoError(t, err)
	creds := session.NewCredentials("admin", string(hash))
	return func(c *gin.Context) {
		if username == "" {
			return
		}
		s := session.New(session.NewMemorySlots().Slot("t"), creds)
		pass := "pw"
		if username == "admin" {
			pass = "3494"
		}
		require.True(t, s.Login(context.Background(), username, pass))
		SetSession(c, "t", s)
	}
}

func TestRegisterAction_AuthAndRoles(t *testing.T) {
	cases := []struct {
		user string
		code int
	}{
		{"", resp.CodeUnauthorized},
		{"alice", resp.CodeForbidden},
		{"admin", resp.CodeOK},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprintf("user=%q", tc.user), func(t *testing.T) {
			r := gin.New()
			r.Use(signedIn(t, tc.user))
			RegisterAction(New(r.Group("")), Action[struct{}, string]{
				Method: http.MethodGet,
				Path:   "/only-admin",
				Binder: BindNone,
				Roles:  []domain.Role{domain.RoleAdmin},
				Handler: func(c *gin.Context, _ *struct{}) (string, error) {
					return Actor(c).Username, nil
				},
			})
			got := do(t, r, http.MethodGet, "/only-admin", "")
			assert.Equal(t, tc.code, got.Code)
			if tc.code == resp.CodeOK {
				assert.JSONEq(t, `"admin"`, string(got.Data))
			}
		})
	}
}

func TestRegisterAction_BindJSON(t *testing.T) {
	type in struct {
		Title string `json:"title" binding:"required"`
	}
	r := gin.New()
	RegisterAction(New(r.Group("")), Action[in, in]{
		Method:  http.MethodPost,
		Path:    "/echo",
		Binder:  BindJSON,
		Handler: func(_ *gin.Context, i *in) (in, error) { return *i, nil },
	})

	assert.Equal(t, resp.CodeBadRequest, do(t, r, http.MethodPost, "/echo", `{}`).Code)
	got := do(t, r, http.MethodPost, "/echo", `{"title":"hi"}`)
	assert.Equal(t, resp.CodeOK, got.Code)
	assert.JSONEq(t, `{"title":"hi"}`, string(got.Data))
}

func TestPOST_BindsAndWraps(t *testing.T) {
	type in struct {
		N int `json:"n" binding:"required"`
	}
	r := gin.New()
	POST(New(r.Group("")), "/double", func(_ *gin.Context, i in) (any, error) {
		if i.N < 0 {
			return nil, fmt.Errorf("double: %w", domain.ErrInvalid)
		}
		return gin.H{"n": i.N * 2}, nil
	})

	assert.Equal(t, resp.CodeBadRequest, do(t, r, http.MethodPost, "/double", `{}`).Code)
	assert.Equal(t, resp.CodeBadRequest, do(t, r, http.MethodPost, "/double", `not json`).Code)
	neg := do(t, r, http.MethodPost, "/double", `{"n":-1}`)
	assert.Equal(t, resp.CodeBadRequest, neg.Code)
	assert.Equal(t, "double: invalid input", neg.Msg)

	got := do(t, r, http.MethodPost, "/double", `{"n":21}`)
	assert.Equal(t, resp.CodeOK, got.Code)
	assert.JSONEq(t, `{"n":42}`, string(got.Data))
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		code int
		msg  string
	}{
		{fmt.Errorf("create_post: %w", domain.ErrUnauthenticated), resp.CodeUnauthorized, "create_post: login required"},
		{fmt.Errorf("create_post: %w", domain.ErrForbidden), resp.CodeForbidden, "create_post: permission denied"},
		{fmt.Errorf("x: %w", domain.ErrInvalid), resp.CodeBadRequest, "x: invalid input"},
		{domain.ErrNotFound, resp.CodeNotFound, "not found"},
		{NotFound("post not found"), resp.CodeNotFound, "post not found"},
		{Internal("", errors.New("disk")), resp.CodeServerError, "disk"},
		{errors.New("boom"), resp.CodeServerError, "internal error"},
	}
	for _, tc := range cases {
		code, msg := CodeOf(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
		assert.Equal(t, tc.msg, msg)
	}
}

func TestActor_Anonymous(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, Actor(c))
	assert.Nil(t, Session(c))
}
