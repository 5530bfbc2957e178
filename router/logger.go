package router

import (
	"log"
	"time"

	"tunematch/middleware"

	"github.com/gin-gonic/gin"
)

// Logger loga método, rota, status, latência e o id da requisição
// plantado pelo middleware.RequestID.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		log.Printf("%s %s -> %d (%s) rid=%s",
			c.Request.Method, c.Request.URL.Path, c.Writer.Status(), duration,
			c.GetString(middleware.RequestIDKey))
	}
}
