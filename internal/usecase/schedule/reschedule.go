package schedule

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	"github.com/BruksfildServices01/home-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

type RescheduleInput struct {
	Date      string
	Time      string
	ServiceID uint
	AddressID uint

	// quando nil, herdados do agendamento cancelado
	Title       *string
	Description *string
}

// RescheduleSchedule cria um novo agendamento a partir de um cancelado.
// O registro cancelado não é alterado.
type RescheduleSchedule struct {
	repo   domain.Repository
	guard  *authz.Guard
	audit  Auditor
	cache  cache.Cache
	logger *zap.Logger
}

func NewRescheduleSchedule(
	repo domain.Repository,
	guard *authz.Guard,
	auditor Auditor,
	c cache.Cache,
	logger *zap.Logger,
) *RescheduleSchedule {
	if c == nil {
		c = cache.NewNoop()
	}
	return &RescheduleSchedule{repo: repo, guard: guard, audit: auditor, cache: c, logger: logger}
}

func (uc *RescheduleSchedule) Execute(
	ctx context.Context,
	caller authz.Caller,
	sourceID uint,
	in RescheduleInput,
) (*models.Schedule, error) {

	src, err := loadSchedule(ctx, uc.repo, sourceID)
	if err != nil {
		return nil, err
	}

	if err := uc.guard.Authorize(caller, authz.OpReschedule, authz.ForSchedule(src)); err != nil {
		return nil, err
	}

	if domain.Status(src.Status) != domain.StatusCancelled {
		return nil, httperr.ErrBusiness(
			"invalid_state",
			"Somente agendamentos cancelados podem ser reagendados.",
		)
	}

	date, err := parseDateTime(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	if err := checkReferences(ctx, uc.repo, src.UserID, in.ServiceID, in.AddressID); err != nil {
		return nil, err
	}

	title := src.Title
	if in.Title != nil && strings.TrimSpace(*in.Title) != "" {
		title = strings.TrimSpace(*in.Title)
	}
	description := src.Description
	if in.Description != nil {
		description = in.Description
	}

	s := &models.Schedule{
		Title:             title,
		Description:       description,
		Date:              date,
		Time:              strings.TrimSpace(in.Time),
		Status:            string(domain.InitialStatus()),
		UserID:            src.UserID,
		ServiceID:         in.ServiceID,
		AddressID:         in.AddressID,
		RescheduledFromID: &src.ID,
	}

	if err := uc.repo.CreateSchedule(ctx, s); err != nil {
		return nil, mapWriteError(err, "create rescheduled schedule")
	}

	invalidateHome(ctx, uc.cache, uc.logger, s.UserID)

	userID := caller.UserID
	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "schedule_rescheduled",
		Entity:   "schedule",
		EntityID: &s.ID,
		Metadata: map[string]any{"rescheduled_from": src.ID},
	})

	return s, nil
}
