package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	"github.com/BruksfildServices01/home-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
	"github.com/BruksfildServices01/home-scheduler/internal/notify"
)

// ======================================================
// INPUT
// ======================================================

type CreateScheduleInput struct {
	Title       string
	Description *string

	Date string
	Time string

	ServiceID uint
	AddressID uint

	// somente ADMIN
	UserID     *uint
	Status     *string
	ProviderID *uint
}

// ======================================================
// USE CASE
// ======================================================

type CreateSchedule struct {
	repo        domain.Repository
	guard       *authz.Guard
	audit       Auditor
	cache       cache.Cache
	logger      *zap.Logger
	countryCode string
}

func NewCreateSchedule(
	repo domain.Repository,
	guard *authz.Guard,
	auditor Auditor,
	c cache.Cache,
	logger *zap.Logger,
	countryCode string,
) *CreateSchedule {
	if c == nil {
		c = cache.NewNoop()
	}
	if countryCode == "" {
		countryCode = notify.DefaultCountryCode
	}
	return &CreateSchedule{
		repo:        repo,
		guard:       guard,
		audit:       auditor,
		cache:       c,
		logger:      logger,
		countryCode: countryCode,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateSchedule) Execute(
	ctx context.Context,
	caller authz.Caller,
	in CreateScheduleInput,
) (*models.Schedule, error) {

	// --------------------------------------------------
	// 1️⃣ Dono do agendamento
	// --------------------------------------------------
	ownerID := caller.UserID
	if in.UserID != nil && *in.UserID != caller.UserID {
		if err := uc.guard.Authorize(caller, authz.OpCreateFor, authz.ForSubject(*in.UserID)); err != nil {
			return nil, err
		}
		ownerID = *in.UserID

		if _, err := uc.repo.GetUser(ctx, ownerID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, httperr.ErrValidation("user_not_found", "Usuário não encontrado.")
			}
			return nil, fmt.Errorf("get user %d: %w", ownerID, err)
		}
	}

	// --------------------------------------------------
	// 2️⃣ Status inicial
	// --------------------------------------------------
	status := domain.InitialStatus()
	if in.Status != nil && *in.Status != "" {
		st, err := domain.ParseStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		if st != status {
			if err := uc.guard.Authorize(caller, authz.OpCreateFor, authz.ForSubject(ownerID)); err != nil {
				return nil, err
			}
		}
		status = st
	}

	// --------------------------------------------------
	// 3️⃣ Prestador (exigido por status já confirmados)
	// --------------------------------------------------
	var providerID *uint
	needsProvider := status != domain.StatusAwaitingConfirmation && status != domain.StatusCancelled
	if in.ProviderID != nil && *in.ProviderID != 0 {
		if err := uc.guard.Authorize(caller, authz.OpCreateFor, authz.ForSubject(ownerID)); err != nil {
			return nil, err
		}
		p, err := resolveProvider(ctx, uc.repo, uc.countryCode, *in.ProviderID)
		if err != nil {
			return nil, err
		}
		providerID = &p.ID
	} else if needsProvider {
		return nil, httperr.ErrValidation("provider_required", "Informe o prestador do serviço.")
	}

	// --------------------------------------------------
	// 4️⃣ Dados
	// --------------------------------------------------
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, httperr.ErrValidation("title_required", "Título do agendamento é obrigatório.")
	}

	date, err := parseDateTime(in.Date, in.Time)
	if err != nil {
		return nil, err
	}

	if err := checkReferences(ctx, uc.repo, ownerID, in.ServiceID, in.AddressID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 5️⃣ Criação
	// --------------------------------------------------
	s := &models.Schedule{
		Title:       title,
		Description: in.Description,
		Date:        date,
		Time:        strings.TrimSpace(in.Time),
		Status:      string(status),
		UserID:      ownerID,
		ServiceID:   in.ServiceID,
		AddressID:   in.AddressID,
		ProviderID:  providerID,
	}

	if err := uc.repo.CreateSchedule(ctx, s); err != nil {
		return nil, mapWriteError(err, "create schedule")
	}

	invalidateHome(ctx, uc.cache, uc.logger, ownerID)

	// --------------------------------------------------
	// 6️⃣ Auditoria
	// --------------------------------------------------
	userID := caller.UserID
	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "schedule_created",
		Entity:   "schedule",
		EntityID: &s.ID,
		Metadata: map[string]any{
			"owner_id": ownerID,
			"status":   s.Status,
		},
	})

	return s, nil
}
