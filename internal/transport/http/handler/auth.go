package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"lottery-forum/internal/domain"
	"lottery-forum/internal/notify"
	"lottery-forum/internal/session"
	"lottery-forum/internal/transport/http/ez"
	mdw "lottery-forum/internal/transport/http/middleware"
	"lottery-forum/pkg/utils"
)

// Auth mounts sign-in, registration, sign-out and /me. Each successful
// sign-in opens a fresh session slot and hands back a token naming it.
type Auth struct {
	Sessions mdw.Sessions
	NewSID   func() string
}

func NewAuth(s mdw.Sessions) *Auth { return &Auth{Sessions: s, NewSID: utils.NewID} }

func (*Auth) Priority() int { return 10 }

type loginIn struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerIn struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenOut struct {
	Token string          `json:"token"`
	User  domain.Identity `json:"user"`
}

func (h *Auth) MountAPI(api *gin.RouterGroup) {
	e := ez.New(api)

	ez.RegisterAction(e, ez.Action[loginIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *loginIn) (tokenOut, error) {
			return h.signIn(c, ez.Unauthorized, func(s *session.Store) bool {
				return s.Login(c.Request.Context(), in.Username, in.Password)
			})
		},
	})

	ez.RegisterAction(e, ez.Action[registerIn, tokenOut]{
		Method: http.MethodPost,
		Path:   "/auth/register",
		Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *registerIn) (tokenOut, error) {
			return h.signIn(c, ez.BadRequest, func(s *session.Store) bool {
				return s.Register(c.Request.Context(), in.Username, in.Email, in.Password)
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, gin.H]{
		Method: http.MethodPost,
		Path:   "/auth/logout",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			ez.Session(c).Logout(c.Request.Context())
			return gin.H{}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Identity]{
		Method: http.MethodGet,
		Path:   "/me",
		Binder: ez.BindNone,
		Auth:   true,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Identity, error) {
			return ez.Actor(c), nil
		},
	})
}

// signIn runs attempt against a new slot. The store's last error notice
// becomes the failure message.
func (h *Auth) signIn(c *gin.Context, fail func(string) error, attempt func(*session.Store) bool) (tokenOut, error) {
	rec := &notify.Recorder{}
	sid := h.NewSID()
	store := h.Sessions.Open(sid, session.WithNotifier(notify.Multi(h.notifier(), rec)))
	if !attempt(store) {
		msg := "sign in failed"
		if n, ok := rec.Last(); ok && n.Kind == notify.Error {
			msg = n.Msg
		}
		return tokenOut{}, fail(msg)
	}
	who := store.Current()
	tok, err := h.Sessions.JWT.Issue(sid, who.ID, string(who.Role))
	if err != nil {
		store.Logout(c.Request.Context())
		return tokenOut{}, ez.Internal("issue token failed", err)
	}
	return tokenOut{Token: tok, User: *who}, nil
}

func (h *Auth) notifier() notify.Notifier {
	if h.Sessions.Log != nil {
		return notify.Log(h.Sessions.Log)
	}
	return notify.Nop
}
