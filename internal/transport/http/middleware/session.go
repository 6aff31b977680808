package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"lottery-forum/internal/core/auth"
	"lottery-forum/internal/domain"
	"lottery-forum/internal/session"
	"lottery-forum/internal/transport/http/ez"
)

// Sessions restores the caller's identity from the slot named by the bearer
// token's session id.
type Sessions struct {
	JWT     *auth.JWTer
	Slots   session.Slots
	Creds   *session.Credentials
	Options []session.Option
	Log     *zap.Logger
}

// Open binds a session store to slot sid.
func (s Sessions) Open(sid string, extra ...session.Option) *session.Store {
	opts := append(append([]session.Option(nil), s.Options...), extra...)
	return session.New(s.Slots.Slot(sid), s.Creds, opts...)
}

// Middleware restores the session when a token is present. With required
// set, requests without a live session are rejected; otherwise they proceed
// anonymously. A malformed or expired token is always rejected.
func (s Sessions) Middleware(required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ah := c.GetHeader("Authorization")
		if !strings.HasPrefix(ah, "Bearer ") {
			if required {
				ez.Fail(c, ez.Unauthorized("missing token"))
				return
			}
			c.Next()
			return
		}
		claims, err := s.JWT.Parse(strings.TrimPrefix(ah, "Bearer "))
		if err != nil {
			ez.Fail(c, ez.Unauthorized("invalid token"))
			return
		}
		store := s.Open(claims.SID)
		if !store.Restore(c.Request.Context()) {
			if required {
				ez.Fail(c, ez.Unauthorized("session ended"))
				return
			}
			if s.Log != nil {
				s.Log.Debug("token without session", zap.String("sid", claims.SID))
			}
			c.Next()
			return
		}
		ez.SetSession(c, claims.SID, store)
		c.Next()
	}
}

// RequireRole rejects callers whose identity lacks one of roles. It expects
// Middleware(true) to have run.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		who := ez.Actor(c)
		if who == nil {
			ez.Fail(c, ez.Unauthorized("unauthorized"))
			return
		}
		for _, r := range roles {
			if who.Role == r {
				c.Next()
				return
			}
		}
		ez.Fail(c, ez.Forbidden("forbidden"))
	}
}
