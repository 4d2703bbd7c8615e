package api

import (
	"context"
	"net/http"

	"github.com/arencloud/eksapp/internal/config"
	"github.com/arencloud/eksapp/internal/metrics"
	"github.com/arencloud/eksapp/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BucketLister is the object-storage dependency of GET /s3/buckets.
type BucketLister interface {
	ListBuckets(ctx context.Context) ([]string, error)
}

type server struct {
	greeting  string
	buckets   BucketLister
	collector *metrics.Collector
	logger    *zap.Logger
}

// Router builds the HTTP handler. collector may be nil, in which case no
// metrics are recorded and /metrics is not mounted.
func Router(cfg *config.Config, logger *zap.Logger, buckets BucketLister, collector *metrics.Collector) http.Handler {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger, "/health", "/ready"),
	)
	// Metrics sits outside Recoverer so recovered panics are counted as 500s.
	if collector != nil {
		r.Use(middleware.Metrics(collector))
	}
	r.Use(middleware.Recoverer(logger))
	if collector != nil {
		r.GET("/metrics", gin.WrapH(collector.Handler()))
	}

	s := &server{greeting: cfg.Greeting, buckets: buckets, collector: collector, logger: logger}
	r.GET("/", s.index)
	r.GET("/health", s.health)
	r.GET("/ready", s.ready)
	r.GET("/s3/buckets", s.listBuckets)
	return r
}
