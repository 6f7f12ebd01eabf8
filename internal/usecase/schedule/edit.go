package schedule

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	"github.com/BruksfildServices01/home-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
	"github.com/BruksfildServices01/home-scheduler/internal/timezone"
)

// EditScheduleInput é parcial: nil significa "não alterar".
// Status não é editável aqui, só pelas transições.
type EditScheduleInput struct {
	Title       *string
	Description *string
	Date        *string
	Time        *string
	ServiceID   *uint
	AddressID   *uint
	Status      *string
}

type EditSchedule struct {
	repo   domain.Repository
	guard  *authz.Guard
	audit  Auditor
	cache  cache.Cache
	logger *zap.Logger
}

func NewEditSchedule(
	repo domain.Repository,
	guard *authz.Guard,
	auditor Auditor,
	c cache.Cache,
	logger *zap.Logger,
) *EditSchedule {
	if c == nil {
		c = cache.NewNoop()
	}
	return &EditSchedule{repo: repo, guard: guard, audit: auditor, cache: c, logger: logger}
}

func (uc *EditSchedule) Execute(
	ctx context.Context,
	caller authz.Caller,
	id uint,
	in EditScheduleInput,
) (*models.Schedule, error) {

	if in.Status != nil {
		return nil, httperr.ErrValidation(
			"status_not_editable",
			"O status só pode ser alterado pelas rotas de atualização de status.",
		)
	}

	s, err := loadSchedule(ctx, uc.repo, id)
	if err != nil {
		return nil, err
	}

	if err := uc.guard.Authorize(caller, authz.OpEdit, authz.ForSchedule(s)); err != nil {
		return nil, err
	}

	if domain.Status(s.Status).Terminal() {
		return nil, httperr.ErrBusiness("schedule_closed", "Agendamentos concluídos ou cancelados não podem ser editados.")
	}

	fields := map[string]any{}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, httperr.ErrValidation("title_required", "Título do agendamento é obrigatório.")
		}
		fields["title"] = title
		s.Title = title
	}
	if in.Description != nil {
		fields["description"] = *in.Description
		s.Description = in.Description
	}
	if in.Date != nil {
		d, err := timezone.ParseDate(strings.TrimSpace(*in.Date))
		if err != nil {
			return nil, httperr.ErrValidation("invalid_date", "Data inválida.")
		}
		fields["date"] = d
		s.Date = d
	}
	if in.Time != nil {
		clock := strings.TrimSpace(*in.Time)
		if !timezone.IsClock(clock) {
			return nil, httperr.ErrValidation("invalid_time", "Hora inválida.")
		}
		fields["time"] = clock
		s.Time = clock
	}
	if in.ServiceID != nil || in.AddressID != nil {
		if in.ServiceID != nil {
			s.ServiceID = *in.ServiceID
			fields["service_id"] = *in.ServiceID
		}
		if in.AddressID != nil {
			s.AddressID = *in.AddressID
			fields["address_id"] = *in.AddressID
		}
		if err := checkReferences(ctx, uc.repo, s.UserID, s.ServiceID, s.AddressID); err != nil {
			return nil, err
		}
	}

	if len(fields) == 0 {
		return nil, httperr.ErrValidation("empty_update", "Nenhum campo para atualizar.")
	}

	if err := uc.repo.UpdateScheduleFields(ctx, s.ID, fields); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, httperr.ErrNotFound("schedule_not_found", "Agendamento não encontrado.")
		}
		return nil, mapWriteError(err, "update schedule")
	}

	invalidateHome(ctx, uc.cache, uc.logger, s.UserID)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	userID := caller.UserID
	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "schedule_edited",
		Entity:   "schedule",
		EntityID: &s.ID,
		Metadata: map[string]any{"fields": keys},
	})

	return s, nil
}
