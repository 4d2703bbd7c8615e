package middleware

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recoverer logs the panic with its stack and answers with the same JSON error
// shape the handlers use.
func Recoverer(logger *zap.Logger) gin.HandlerFunc {
	return ginzap.CustomRecoveryWithZap(logger, true, func(c *gin.Context, rec any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	})
}
