package middleware

import (
	"time"

	"github.com/arencloud/eksapp/internal/metrics"

	"github.com/gin-contrib/requestid"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RequestID echoes an incoming X-Request-ID or generates one.
func RequestID() gin.HandlerFunc { return requestid.New() }

// RequestLogger writes one structured line per request. Probe paths are
// skipped: kubelet hits them every few seconds.
func RequestLogger(logger *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	return ginzap.GinzapWithConfig(logger, &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  skipPaths,
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("request_id", requestid.Get(c))}
		},
	})
}

// Metrics records count and latency per matched route.
func Metrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		collector.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
