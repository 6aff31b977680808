package ez

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"lottery-forum/internal/domain"
	resp "lottery-forum/internal/transport/http/response"
)

type Binder string

const (
	BindJSON  Binder = "json"
	BindQuery Binder = "query"
	BindNone  Binder = "none" // handler reads c.Param itself
)

// Action is one non-CRUD endpoint: I is the bound input, O the data payload.
type Action[I any, O any] struct {
	Method  string
	Path    string
	Binder  Binder
	Auth    bool          // require a signed-in actor
	Roles   []domain.Role // optional, implies Auth
	Handler func(c *gin.Context, in *I) (O, error)
}

func RegisterAction[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		if a.Auth || len(a.Roles) > 0 {
			who := Actor(c)
			if who == nil {
				Fail(c, Unauthorized("unauthorized"))
				return
			}
			if len(a.Roles) > 0 && !slices.Contains(a.Roles, who.Role) {
				Fail(c, Forbidden("forbidden"))
				return
			}
		}

		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		}
		if bindErr != nil {
			Fail(c, BadRequest(bindErr.Error()))
			return
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(out))
	}

	switch strings.ToUpper(a.Method) {
	case http.MethodGet:
		e.g.GET(a.Path, h)
	case http.MethodPut:
		e.g.PUT(a.Path, h)
	case http.MethodDelete:
		e.g.DELETE(a.Path, h)
	default:
		e.g.POST(a.Path, h)
	}
}
