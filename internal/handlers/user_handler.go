package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/home-scheduler/internal/middleware"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

type UserHandler struct {
	db    *gorm.DB
	guard *authz.Guard
	audit *audit.Dispatcher
}

func NewUserHandler(db *gorm.DB, guard *authz.Guard, auditor *audit.Dispatcher) *UserHandler {
	return &UserHandler{db: db, guard: guard, audit: auditor}
}

type UpdateNotificationRequest struct {
	Notification string `json:"notification" binding:"required,oneof=A I"`
}

// ======================================================
// LIST PROVIDERS (ADMIN)
// ======================================================
func (h *UserHandler) ListProviders(c *gin.Context) {
	if err := h.guard.Authorize(middleware.CallerFrom(c), authz.OpListProviders, authz.Target{}); err != nil {
		httperr.Respond(c, err)
		return
	}

	q := h.db.WithContext(c.Request.Context()).
		Where("role = ?", models.RoleProvider)

	if query := strings.ToLower(strings.TrimSpace(c.Query("query"))); query != "" {
		like := "%" + query + "%"
		q = q.Where("LOWER(name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var providers []models.User
	if err := q.Order("name ASC").Find(&providers).Error; err != nil {
		httperr.Internal(c, "failed_to_list_providers", "Erro ao listar prestadores.")
		return
	}
	if providers == nil {
		providers = []models.User{}
	}

	httpresp.OK(c, providers)
}

// ======================================================
// NOTIFICATION PREFERENCE ("A" ativo / "I" inativo)
// ======================================================
func (h *UserHandler) UpdateNotification(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}

	caller := middleware.CallerFrom(c)
	if err := h.guard.Authorize(caller, authz.OpUpdateUser, authz.ForSubject(userID)); err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	res := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("notification", req.Notification)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_update_user", "Erro ao atualizar notificações do usuário.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
		return
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &caller.UserID,
		Action:   "user_notification_updated",
		Entity:   "user",
		EntityID: &userID,
		Metadata: map[string]any{"notification": req.Notification},
	})

	httpresp.OK(c, gin.H{"id": userID, "notification": req.Notification})
}
