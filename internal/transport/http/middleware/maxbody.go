package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "lottery-forum/internal/transport/http/response"
)

func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
		if len(c.Errors) > 0 && !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "request body too large"))
		}
	}
}
