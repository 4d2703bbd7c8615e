package api

import (
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type bucketsResponse struct {
	Buckets []string `json:"buckets"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// listBuckets passes the storage listing straight through. Every failure maps
// to 500 with the raw error text; auth, network and throttling errors are not
// told apart.
func (s *server) listBuckets(c *gin.Context) {
	c.Header("Cache-Control", "no-store")
	names, err := s.buckets.ListBuckets(c.Request.Context())
	s.collector.BucketList(err)
	if err != nil {
		s.logger.Error("list buckets failed",
			zap.Error(err),
			zap.String("request_id", requestid.Get(c)))
		c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if names == nil {
		names = []string{}
	}
	c.JSON(http.StatusOK, bucketsResponse{Buckets: names})
}
