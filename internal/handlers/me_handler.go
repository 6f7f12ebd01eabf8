package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/home-scheduler/internal/middleware"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

type MeHandler struct {
	db *gorm.DB
}

func NewMeHandler(db *gorm.DB) *MeHandler {
	return &MeHandler{db: db}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	caller := middleware.CallerFrom(c)
	if caller.UserID == 0 {
		httperr.Unauthorized(c, "user_not_in_context", "Usuário não autenticado.")
		return
	}

	var user models.User
	if err := h.db.WithContext(c.Request.Context()).First(&user, caller.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			httperr.NotFound(c, "user_not_found", "Usuário não encontrado.")
			return
		}
		httperr.Internal(c, "user_lookup_failed", "Erro ao buscar usuário.")
		return
	}

	var addresses []models.Address
	if err := h.db.WithContext(c.Request.Context()).
		Where("user_id = ?", user.ID).
		Order("id ASC").
		Find(&addresses).Error; err != nil {
		httperr.Internal(c, "address_lookup_failed", "Erro ao buscar endereços.")
		return
	}
	if addresses == nil {
		addresses = []models.Address{}
	}

	httpresp.OK(c, gin.H{
		"user": gin.H{
			"id":           user.ID,
			"name":         user.Name,
			"email":        user.Email,
			"fone":         user.Phone,
			"role":         user.Role,
			"notification": user.Notification,
		},
		"addresses": addresses,
	})
}
