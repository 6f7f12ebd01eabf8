package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/home-scheduler/internal/middleware"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
	ucSchedule "github.com/BruksfildServices01/home-scheduler/internal/usecase/schedule"
)

// ======================================================
// HANDLER
// ======================================================

type ScheduleHandler struct {
	engine     *ucSchedule.Engine
	create     *ucSchedule.CreateSchedule
	edit       *ucSchedule.EditSchedule
	reschedule *ucSchedule.RescheduleSchedule
	remove     *ucSchedule.DeleteSchedule
	queries    *ucSchedule.Queries
}

func NewScheduleHandler(
	engine *ucSchedule.Engine,
	create *ucSchedule.CreateSchedule,
	edit *ucSchedule.EditSchedule,
	reschedule *ucSchedule.RescheduleSchedule,
	remove *ucSchedule.DeleteSchedule,
	queries *ucSchedule.Queries,
) *ScheduleHandler {
	return &ScheduleHandler{
		engine:     engine,
		create:     create,
		edit:       edit,
		reschedule: reschedule,
		remove:     remove,
		queries:    queries,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type RegisterScheduleRequest struct {
	Title       string  `json:"title" binding:"required,max=150"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Date        string  `json:"date" binding:"required,date"`
	Time        string  `json:"time" binding:"required,clock"`
	ServiceID   uint    `json:"serviceId" binding:"required,gt=0"`
	AddressID   uint    `json:"addressId" binding:"required,gt=0"`

	UserID     *uint   `json:"userId" binding:"omitempty,gt=0"`
	Status     *string `json:"status" binding:"omitempty,schedulestatus"`
	ProviderID *uint   `json:"providerId" binding:"omitempty,gt=0"`
}

type EditScheduleRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=150"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Date        *string `json:"date" binding:"omitempty,date"`
	Time        *string `json:"time" binding:"omitempty,clock"`
	ServiceID   *uint   `json:"serviceId" binding:"omitempty,gt=0"`
	AddressID   *uint   `json:"addressId" binding:"omitempty,gt=0"`
	Status      *string `json:"status"`
}

// ConfirmRequest é o único corpo de transição que carrega o prestador
type ConfirmRequest struct {
	Status     string `json:"status" binding:"required,schedulestatus"`
	ProviderID uint   `json:"providerId" binding:"required,gt=0"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required,schedulestatus"`
}

type RescheduleRequest struct {
	Date        string  `json:"date" binding:"required,date"`
	Time        string  `json:"time" binding:"required,clock"`
	ServiceID   uint    `json:"serviceId" binding:"required,gt=0"`
	AddressID   uint    `json:"addressId" binding:"required,gt=0"`
	Title       *string `json:"title" binding:"omitempty,max=150"`
	Description *string `json:"description" binding:"omitempty,max=500"`
}

// ======================================================
// CREATE / EDIT / DELETE
// ======================================================

func (h *ScheduleHandler) Register(c *gin.Context) {
	var req RegisterScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	s, err := h.create.Execute(c.Request.Context(), middleware.CallerFrom(c), ucSchedule.CreateScheduleInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		ServiceID:   req.ServiceID,
		AddressID:   req.AddressID,
		UserID:      req.UserID,
		Status:      req.Status,
		ProviderID:  req.ProviderID,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *ScheduleHandler) Edit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req EditScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	s, err := h.edit.Execute(c.Request.Context(), middleware.CallerFrom(c), id, ucSchedule.EditScheduleInput{
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date,
		Time:        req.Time,
		ServiceID:   req.ServiceID,
		AddressID:   req.AddressID,
		Status:      req.Status,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}

func (h *ScheduleHandler) Reschedule(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req RescheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	s, err := h.reschedule.Execute(c.Request.Context(), middleware.CallerFrom(c), id, ucSchedule.RescheduleInput{
		Date:        req.Date,
		Time:        req.Time,
		ServiceID:   req.ServiceID,
		AddressID:   req.AddressID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.remove.Execute(c.Request.Context(), middleware.CallerFrom(c), id); err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.NoContent(c)
}

// ======================================================
// STATUS TRANSITIONS
// ======================================================

// Transition monta o handler de uma rota update-status/<kind>/:id.
// O status enviado precisa ser exatamente o destino da transição.
func (h *ScheduleHandler) Transition(kind domain.Kind) gin.HandlerFunc {
	tr, err := domain.Lookup(kind)
	if err != nil {
		panic(err)
	}

	return func(c *gin.Context) {
		id, ok := parseIDParam(c, "id")
		if !ok {
			return
		}

		var (
			status     string
			providerID uint
		)
		if kind == domain.KindConfirm {
			var req ConfirmRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				respondBindError(c, err)
				return
			}
			status, providerID = req.Status, req.ProviderID
		} else {
			var req StatusRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				respondBindError(c, err)
				return
			}
			status = req.Status
		}

		if domain.Status(status) != tr.To {
			httperr.BadRequest(c, "status_mismatch", "Status informado não corresponde à operação "+string(kind)+".")
			return
		}

		s, err := h.engine.Transition(c.Request.Context(), middleware.CallerFrom(c), kind, id, providerID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}

		httpresp.OK(c, s)
	}
}

// ======================================================
// LISTS
// ======================================================

func (h *ScheduleHandler) ListAll(c *gin.Context) {
	out, err := h.queries.ListAll(c.Request.Context(), middleware.CallerFrom(c))
	respondSchedules(c, out, err)
}

func (h *ScheduleHandler) ListByUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		return
	}
	out, err := h.queries.ListByUser(c.Request.Context(), middleware.CallerFrom(c), userID)
	respondSchedules(c, out, err)
}

func (h *ScheduleHandler) ListByProvider(c *gin.Context) {
	providerID, ok := parseIDParam(c, "providerId")
	if !ok {
		return
	}
	out, err := h.queries.ListByProvider(c.Request.Context(), middleware.CallerFrom(c), providerID)
	respondSchedules(c, out, err)
}

func (h *ScheduleHandler) ListByBucket(c *gin.Context) {
	out, err := h.queries.ListByBucket(c.Request.Context(), middleware.CallerFrom(c), c.Param("bucket"))
	respondSchedules(c, out, err)
}

func (h *ScheduleHandler) Notifications(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	logs, err := h.queries.ListNotifications(c.Request.Context(), middleware.CallerFrom(c), id)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, logs)
}

func respondSchedules(c *gin.Context, out []models.Schedule, err error) {
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if out == nil {
		out = []models.Schedule{}
	}
	httpresp.OK(c, out)
}
