package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	resp "lottery-forum/internal/transport/http/response"
)

// Recovery logs the panic with its stack and answers with the error envelope.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(l, true, func(c *gin.Context, _ any) {
		c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeServerError, "internal error"))
	})
}
