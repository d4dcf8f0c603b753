package middleware

import (
	"strings" // Origin parsing
	"time"    // Preflight max age

	"github.com/gin-contrib/cors" // CORS middleware
	"github.com/gin-gonic/gin"    // Gin web framework
)

// CORS allows the configured origins plus any https Vercel preview deployment
func CORS(origins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[strings.TrimRight(o, "/")] = true // Browsers send origins without a trailing slash
	}
	return cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool {
			return allowed[origin] || isVercelOrigin(origin)
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader},
		AllowCredentials: true,           // Cookies and Authorization headers
		MaxAge:           12 * time.Hour, // Preflight cache
	})
}

func isVercelOrigin(origin string) bool {
	host, ok := strings.CutPrefix(origin, "https://")
	if !ok {
		return false
	}
	name, ok := strings.CutSuffix(host, ".vercel.app")
	return ok && name != "" && !strings.ContainsAny(name, "/:") // No paths or ports
}
