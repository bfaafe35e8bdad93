package middleware

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows any origin with the headers the hosted UI sends. OPTIONS
// preflights are answered here, before any auth check.
func CORS() gin.HandlerFunc {
	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	config.AllowHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}
	return cors.New(config)
}
