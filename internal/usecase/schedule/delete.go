package schedule

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	"github.com/BruksfildServices01/home-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
)

type DeleteSchedule struct {
	repo   domain.Repository
	guard  *authz.Guard
	audit  Auditor
	cache  cache.Cache
	logger *zap.Logger
}

func NewDeleteSchedule(
	repo domain.Repository,
	guard *authz.Guard,
	auditor Auditor,
	c cache.Cache,
	logger *zap.Logger,
) *DeleteSchedule {
	if c == nil {
		c = cache.NewNoop()
	}
	return &DeleteSchedule{repo: repo, guard: guard, audit: auditor, cache: c, logger: logger}
}

// Execute remove o registro definitivamente (somente ADMIN)
func (uc *DeleteSchedule) Execute(ctx context.Context, caller authz.Caller, id uint) error {
	if err := uc.guard.Authorize(caller, authz.OpDelete, authz.Target{}); err != nil {
		return err
	}

	s, err := loadSchedule(ctx, uc.repo, id)
	if err != nil {
		return err
	}

	if err := uc.repo.DeleteSchedule(ctx, s.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrNotFound("schedule_not_found", "Agendamento não encontrado.")
		}
		return fmt.Errorf("delete schedule %d: %w", s.ID, err)
	}

	invalidateHome(ctx, uc.cache, uc.logger, s.UserID)

	userID := caller.UserID
	uc.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "schedule_deleted",
		Entity:   "schedule",
		EntityID: &s.ID,
		Metadata: map[string]any{"status": s.Status},
	})
	return nil
}
