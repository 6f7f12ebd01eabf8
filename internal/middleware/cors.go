package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware libera o frontend configurado (lista separada por vírgula)
func CORSMiddleware(frontendURL string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()

	var origins []string
	for _, o := range strings.Split(frontendURL, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}

	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader}
	cfg.ExposeHeaders = []string{"Content-Length", RequestIDHeader}
	cfg.MaxAge = 12 * time.Hour

	return cors.New(cfg)
}
