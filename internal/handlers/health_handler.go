package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	db    *gorm.DB
	cache Pinger
}

// cache pode ser nil quando o Redis não está configurado
func NewHealthHandler(db *gorm.DB, cache Pinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "ok"}

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(ctx)
	}
	if err != nil {
		status = http.StatusServiceUnavailable
		checks["database"] = "unavailable"
	}

	if h.cache != nil {
		checks["cache"] = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			checks["cache"] = "degraded"
		}
	}

	state := "ok"
	if status != http.StatusOK {
		state = "unavailable"
	}
	c.JSON(status, gin.H{"status": state, "checks": checks})
}
