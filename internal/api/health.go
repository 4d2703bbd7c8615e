package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *server) index(c *gin.Context) {
	c.String(http.StatusOK, s.greeting)
}

// health is the liveness probe. It must not touch any dependency.
func (s *server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ready is the readiness probe. Storage failures surface on /s3/buckets,
// never here.
func (s *server) ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
