package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/home-scheduler/internal/middleware"
	ucSchedule "github.com/BruksfildServices01/home-scheduler/internal/usecase/schedule"
)

type HomeHandler struct {
	queries *ucSchedule.Queries
}

func NewHomeHandler(queries *ucSchedule.Queries) *HomeHandler {
	return &HomeHandler{queries: queries}
}

func (h *HomeHandler) Summary(c *gin.Context) {
	summary, err := h.queries.HomeSummary(c.Request.Context(), middleware.CallerFrom(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, summary)
}
