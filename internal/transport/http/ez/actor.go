package ez

import (
	"github.com/gin-gonic/gin"

	"lottery-forum/internal/domain"
	"lottery-forum/internal/session"
)

const (
	KeySession   = "session"
	KeySessionID = "sid"
)

// SetSession attaches the restored session of the caller.
func SetSession(c *gin.Context, sid string, s *session.Store) {
	c.Set(KeySessionID, sid)
	c.Set(KeySession, s)
}

// Session returns the caller's session, or nil for anonymous requests.
func Session(c *gin.Context) *session.Store {
	v, ok := c.Get(KeySession)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Store)
	return s
}

// Actor is the identity acting on this request; nil when anonymous.
func Actor(c *gin.Context) *domain.Identity {
	if s := Session(c); s != nil {
		return s.Current()
	}
	return nil
}
