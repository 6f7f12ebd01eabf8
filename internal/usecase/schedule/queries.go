package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-scheduler/internal/authz"
	"github.com/BruksfildServices01/home-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/dto"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
	"github.com/BruksfildServices01/home-scheduler/internal/timezone"
)

const (
	homeSectionLimit  = 5
	homeServicesLimit = 3
)

type NotificationLogReader interface {
	ListBySchedule(ctx context.Context, scheduleID uint) ([]models.NotificationLog, error)
}

type QueryOptions struct {
	CacheTTL time.Duration
	Timezone string
}

// Queries agrupa as leituras; nenhuma delas altera estado
type Queries struct {
	repo   domain.Repository
	guard  *authz.Guard
	logs   NotificationLogReader
	cache  cache.Cache
	logger *zap.Logger
	opts   QueryOptions
}

func NewQueries(
	repo domain.Repository,
	guard *authz.Guard,
	logs NotificationLogReader,
	c cache.Cache,
	logger *zap.Logger,
	opts QueryOptions,
) *Queries {
	if c == nil {
		c = cache.NewNoop()
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = time.Minute
	}
	if opts.Timezone == "" {
		opts.Timezone = timezone.DefaultTimezone
	}
	return &Queries{repo: repo, guard: guard, logs: logs, cache: c, logger: logger, opts: opts}
}

// ======================================================
// LISTS
// ======================================================

func (q *Queries) ListAll(ctx context.Context, caller authz.Caller) ([]models.Schedule, error) {
	if err := q.guard.Authorize(caller, authz.OpListAll, authz.Target{}); err != nil {
		return nil, err
	}
	return q.list(ctx, domain.ListFilter{WithJoins: true})
}

func (q *Queries) ListByUser(ctx context.Context, caller authz.Caller, userID uint) ([]models.Schedule, error) {
	if err := q.guard.Authorize(caller, authz.OpListUser, authz.ForSubject(userID)); err != nil {
		return nil, err
	}
	return q.list(ctx, domain.ListFilter{UserID: &userID, WithJoins: true})
}

func (q *Queries) ListByProvider(ctx context.Context, caller authz.Caller, providerID uint) ([]models.Schedule, error) {
	if err := q.guard.Authorize(caller, authz.OpListProv, authz.ForSubject(providerID)); err != nil {
		return nil, err
	}
	return q.list(ctx, domain.ListFilter{ProviderID: &providerID, WithJoins: true})
}

func (q *Queries) ListByBucket(ctx context.Context, caller authz.Caller, rawBucket string) ([]models.Schedule, error) {
	if err := q.guard.Authorize(caller, authz.OpListAll, authz.Target{}); err != nil {
		return nil, err
	}
	bucket, err := domain.ParseBucket(rawBucket)
	if err != nil {
		return nil, err
	}
	return q.list(ctx, domain.ListFilter{Statuses: bucket.Statuses(), WithJoins: true})
}

func (q *Queries) ListNotifications(ctx context.Context, caller authz.Caller, scheduleID uint) ([]models.NotificationLog, error) {
	if err := q.guard.Authorize(caller, authz.OpViewLogs, authz.Target{}); err != nil {
		return nil, err
	}
	if _, err := loadSchedule(ctx, q.repo, scheduleID); err != nil {
		return nil, err
	}

	logs, err := q.logs.ListBySchedule(ctx, scheduleID)
	if err != nil {
		return nil, fmt.Errorf("list notification logs: %w", err)
	}
	return logs, nil
}

func (q *Queries) list(ctx context.Context, f domain.ListFilter) ([]models.Schedule, error) {
	out, err := q.repo.ListSchedules(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return out, nil
}

// ======================================================
// HOME
// ======================================================

// HomeSummary monta o painel inicial do usuário autenticado.
// O total geral pode ficar defasado até o TTL do cache.
func (q *Queries) HomeSummary(ctx context.Context, caller authz.Caller) (*dto.HomeSummaryDTO, error) {
	key := homeSummaryKey(caller.UserID)

	if raw, ok, err := q.cache.Get(ctx, key); err != nil {
		q.logger.Warn("home summary cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var cached dto.HomeSummaryDTO
		if err := json.Unmarshal(raw, &cached); err == nil {
			return &cached, nil
		}
		q.logger.Warn("home summary cache entry discarded", zap.String("key", key))
	}

	summary, err := q.buildHomeSummary(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(summary); err == nil {
		if err := q.cache.Set(ctx, key, raw, q.opts.CacheTTL); err != nil {
			q.logger.Warn("home summary cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return summary, nil
}

type homeSection struct {
	dst    *[]models.Schedule
	filter domain.ListFilter
}

func (q *Queries) buildHomeSummary(ctx context.Context, userID uint) (*dto.HomeSummaryDTO, error) {
	today := timezone.Today(q.opts.Timezone)

	out := &dto.HomeSummaryDTO{}
	sections := []homeSection{
		{&out.LatestSchedule, domain.ListFilter{
			UserID:    &userID,
			Statuses:  []domain.Status{domain.StatusCompleted, domain.StatusCancelled},
			OrderDesc: true,
			Limit:     homeSectionLimit,
		}},
		{&out.WaitingToConfirm, domain.ListFilter{
			UserID:   &userID,
			Statuses: []domain.Status{domain.StatusAwaitingConfirmation},
			Limit:    homeSectionLimit,
		}},
		{&out.NextSchedule, domain.ListFilter{
			UserID:   &userID,
			Statuses: []domain.Status{domain.StatusScheduled},
			DateFrom: &today,
			Limit:    homeSectionLimit,
		}},
		{&out.OngoingSchedule, domain.ListFilter{
			UserID:   &userID,
			Statuses: domain.BucketOngoing.Statuses(),
			Limit:    homeSectionLimit,
		}},
	}

	for _, sec := range sections {
		items, err := q.list(ctx, sec.filter)
		if err != nil {
			return nil, err
		}
		if items == nil {
			items = []models.Schedule{}
		}
		*sec.dst = items
	}

	usage, err := q.repo.TopServices(ctx, homeServicesLimit)
	if err != nil {
		return nil, fmt.Errorf("top services: %w", err)
	}
	out.PopularServices = make([]dto.PopularServiceDTO, 0, len(usage))
	for _, u := range usage {
		out.PopularServices = append(out.PopularServices, dto.PopularServiceDTO{
			ID:    u.ServiceID,
			Name:  u.Name,
			Count: u.Count,
		})
	}

	total, err := q.repo.CountSchedules(ctx)
	if err != nil {
		return nil, fmt.Errorf("count schedules: %w", err)
	}
	out.ScheduleLength = total

	return out, nil
}
