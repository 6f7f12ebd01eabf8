package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/home-scheduler/internal/middleware"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
	"github.com/BruksfildServices01/home-scheduler/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	db    *gorm.DB
	guard *authz.Guard
}

func NewAuditLogsHandler(db *gorm.DB, guard *authz.Guard) *AuditLogsHandler {
	return &AuditLogsHandler{db: db, guard: guard}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	if err := h.guard.Authorize(middleware.CallerFrom(c), authz.OpViewLogs, authz.Target{}); err != nil {
		httperr.Respond(c, err)
		return
	}

	action := c.Query("action")
	entity := c.Query("entity")
	entityIDStr := c.Query("entityId")
	fromStr := c.Query("from")
	toStr := c.Query("to")

	pageStr := c.DefaultQuery("page", "1")
	limitStr := c.DefaultQuery("limit", "50")

	page, _ := strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	offset := (page - 1) * limit

	q := h.db.
		WithContext(c.Request.Context()).
		Model(&models.AuditLog{})

	// --------------------------------------------------
	// Filtros opcionais
	// --------------------------------------------------

	if action != "" {
		q = q.Where("action = ?", action)
	}

	if entity != "" {
		q = q.Where("entity = ?", entity)
	}

	if entityIDStr != "" {
		if entityID, err := strconv.ParseUint(entityIDStr, 10, 64); err == nil {
			q = q.Where("entity_id = ?", entityID)
		}
	}

	if fromStr != "" {
		if from, err := timezone.ParseDate(fromStr); err == nil {
			q = q.Where("created_at >= ?", from)
		}
	}

	if toStr != "" {
		if to, err := timezone.ParseDate(toStr); err == nil {
			q = q.Where("created_at <= ?", to.Add(24*time.Hour))
		}
	}

	// --------------------------------------------------
	// Total
	// --------------------------------------------------

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "audit_count_failed", "Erro ao contar logs.")
		return
	}

	// --------------------------------------------------
	// Listagem
	// --------------------------------------------------

	var logs []models.AuditLog
	if err := q.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&logs).Error; err != nil {

		httperr.Internal(c, "audit_list_failed", "Erro ao listar logs.")
		return
	}

	// --------------------------------------------------
	// Response
	// --------------------------------------------------

	if logs == nil {
		logs = []models.AuditLog{}
	}

	httpresp.OK(c, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
