// Package ez wraps gin route registration so handlers return (data, error)
// and never write responses themselves.
package ez

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "lottery-forum/internal/transport/http/response"
)

type EZ struct{ g *gin.RouterGroup }

func New(g *gin.RouterGroup) EZ { return EZ{g: g} }

func (e EZ) GET(path string, h func(c *gin.Context) (any, error)) {
	e.g.GET(path, func(c *gin.Context) {
		data, err := h(c)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(data))
	})
}

func (e EZ) DELETE(path string, h func(c *gin.Context) (any, error)) {
	e.g.DELETE(path, func(c *gin.Context) {
		data, err := h(c)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(data))
	})
}

// POST binds the JSON body into T before calling h.
func POST[T any](e EZ, path string, h func(c *gin.Context, in T) (any, error)) {
	e.g.POST(path, func(c *gin.Context) {
		var in T
		if err := c.ShouldBindJSON(&in); err != nil {
			Fail(c, BadRequest(err.Error()))
			return
		}
		data, err := h(c, in)
		if err != nil {
			Fail(c, err)
			return
		}
		c.JSON(http.StatusOK, resp.OK(data))
	})
}
