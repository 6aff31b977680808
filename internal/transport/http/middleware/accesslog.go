package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"lottery-forum/internal/transport/http/ez"
)

var sensitiveKeys = map[string]struct{}{
	"password": {}, "pwd": {}, "passcode": {}, "token": {}, "authorization": {},
	"secret": {}, "client_secret": {}, "access_token": {},
}

func maskQuery(kv map[string][]string) map[string][]string {
	out := make(map[string][]string, len(kv))
	for k, v := range kv {
		if _, ok := sensitiveKeys[strings.ToLower(k)]; ok {
			out[k] = []string{"****"}
		} else {
			out[k] = v
		}
	}
	return out
}

// AccessLog writes one entry per request. Server errors log at Error, client
// errors at Warn.
func AccessLog(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("rid", c.GetString(KeyRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String("ua", c.Request.UserAgent()),
			zap.Any("query", maskQuery(c.Request.URL.Query())),
			zap.Int("size", c.Writer.Size()),
		}
		if who := ez.Actor(c); who != nil {
			fields = append(fields, zap.String("uid", who.ID))
		}
		lvl := zapcore.InfoLevel
		if err := c.Errors.Last(); err != nil {
			fields = append(fields, zap.Error(err.Err))
			code, _ := ez.CodeOf(err.Err)
			if code >= 500 {
				lvl = zapcore.ErrorLevel
			} else {
				lvl = zapcore.WarnLevel
			}
		}
		if ce := l.Check(lvl, "HTTP"); ce != nil {
			ce.Write(fields...)
		}
	}
}
