package schedule

import (
	"context"
	"fmt"
	"time"

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
// ENGINE
// ======================================================

// Engine concentra todas as transições de status de um agendamento.
// Ordem: relê o registro, autoriza, confere o status de origem, valida
// a entrada extra, grava com compare-and-swap e só então notifica.
type Engine struct {
	repo        domain.Repository
	guard       *authz.Guard
	notifier    Notifier
	audit       Auditor
	cache       cache.Cache
	logger      *zap.Logger
	countryCode string
}

type EngineOptions struct {
	CountryCode string
}

func NewEngine(
	repo domain.Repository,
	guard *authz.Guard,
	notifier Notifier,
	auditor Auditor,
	c cache.Cache,
	logger *zap.Logger,
	opts EngineOptions,
) *Engine {
	if opts.CountryCode == "" {
		opts.CountryCode = notify.DefaultCountryCode
	}
	if c == nil {
		c = cache.NewNoop()
	}
	return &Engine{
		repo:        repo,
		guard:       guard,
		notifier:    notifier,
		audit:       auditor,
		cache:       c,
		logger:      logger,
		countryCode: opts.CountryCode,
	}
}

var transitionOps = map[domain.Kind]authz.Operation{
	domain.KindConfirm: authz.OpConfirm,
	domain.KindStart:   authz.OpStart,
	domain.KindPause:   authz.OpPause,
	domain.KindRestart: authz.OpRestart,
	domain.KindFinish:  authz.OpFinish,
	domain.KindCancel:  authz.OpCancel,
}

var transitionTemplates = map[domain.Kind]notify.Template{
	domain.KindConfirm: notify.TemplateConfirmed,
	domain.KindStart:   notify.TemplateStarted,
	domain.KindPause:   notify.TemplatePaused,
	domain.KindRestart: notify.TemplateRestarted,
	domain.KindFinish:  notify.TemplateFinished,
	domain.KindCancel:  notify.TemplateCancelled,
}

// ======================================================
// TRANSITIONS
// ======================================================

func (e *Engine) Confirm(ctx context.Context, caller authz.Caller, id, providerID uint) (*models.Schedule, error) {
	return e.apply(ctx, caller, domain.KindConfirm, id, providerID)
}

func (e *Engine) Start(ctx context.Context, caller authz.Caller, id uint) (*models.Schedule, error) {
	return e.apply(ctx, caller, domain.KindStart, id, 0)
}

func (e *Engine) Pause(ctx context.Context, caller authz.Caller, id uint) (*models.Schedule, error) {
	return e.apply(ctx, caller, domain.KindPause, id, 0)
}

func (e *Engine) Restart(ctx context.Context, caller authz.Caller, id uint) (*models.Schedule, error) {
	return e.apply(ctx, caller, domain.KindRestart, id, 0)
}

func (e *Engine) Finish(ctx context.Context, caller authz.Caller, id uint) (*models.Schedule, error) {
	return e.apply(ctx, caller, domain.KindFinish, id, 0)
}

func (e *Engine) Cancel(ctx context.Context, caller authz.Caller, id uint) (*models.Schedule, error) {
	return e.apply(ctx, caller, domain.KindCancel, id, 0)
}

// Transition despacha pelo tipo; usado pelo handler genérico de status
func (e *Engine) Transition(ctx context.Context, caller authz.Caller, kind domain.Kind, id, providerID uint) (*models.Schedule, error) {
	return e.apply(ctx, caller, kind, id, providerID)
}

func (e *Engine) apply(
	ctx context.Context,
	caller authz.Caller,
	kind domain.Kind,
	id uint,
	providerID uint,
) (*models.Schedule, error) {

	tr, err := domain.Lookup(kind)
	if err != nil {
		return nil, httperr.ErrValidation("invalid_transition", "Operação inválida.")
	}

	// --------------------------------------------------
	// 1️⃣ Estado atual (nunca confiar no que o cliente enviou)
	// --------------------------------------------------
	s, err := loadSchedule(ctx, e.repo, id)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Permissão
	// --------------------------------------------------
	if err := e.guard.Authorize(caller, transitionOps[kind], authz.ForSchedule(s)); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 3️⃣ Status de origem
	// --------------------------------------------------
	current := domain.Status(s.Status)
	if err := tr.Check(current); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4️⃣ Prestador (somente confirm)
	// --------------------------------------------------
	var provider *models.User
	if kind == domain.KindConfirm {
		provider, err = e.resolveProvider(ctx, providerID)
		if err != nil {
			return nil, err
		}
	}

	// --------------------------------------------------
	// 5️⃣ Gravação condicionada ao status lido
	// --------------------------------------------------
	upd := domain.StatusUpdate{
		ScheduleID: s.ID,
		From:       tr.From,
		To:         tr.To,
	}
	if provider != nil {
		upd.ProviderID = &provider.ID
	}

	ok, err := e.repo.CompareAndSetStatus(ctx, upd)
	if err != nil {
		return nil, fmt.Errorf("update schedule %d status: %w", s.ID, err)
	}
	if !ok {
		return nil, httperr.ErrBusiness(
			"invalid_state",
			"O agendamento foi alterado por outra operação, atualize e tente novamente.",
		)
	}

	s.Status = string(tr.To)
	s.UpdatedAt = time.Now()
	if provider != nil {
		s.ProviderID = &provider.ID
		s.Provider = provider
	}

	// --------------------------------------------------
	// 6️⃣ Notificações (fora da unidade de falha)
	// --------------------------------------------------
	e.notifyTransition(ctx, kind, s, provider)

	// --------------------------------------------------
	// 7️⃣ Cache + auditoria
	// --------------------------------------------------
	invalidateHome(ctx, e.cache, e.logger, s.UserID)

	userID := caller.UserID
	e.audit.Dispatch(audit.Event{
		UserID:   &userID,
		Action:   "schedule_" + string(kind),
		Entity:   "schedule",
		EntityID: &s.ID,
		Metadata: map[string]any{
			"from":        string(current),
			"to":          string(tr.To),
			"provider_id": s.ProviderID,
		},
	})

	return s, nil
}

// resolveProvider valida o prestador antes de qualquer escrita
func (e *Engine) resolveProvider(ctx context.Context, providerID uint) (*models.User, error) {
	return resolveProvider(ctx, e.repo, e.countryCode, providerID)
}

// ======================================================
// NOTIFICATIONS
// ======================================================

type recipient struct {
	userID   uint
	user     *models.User
	template notify.Template
}

func recipientsFor(kind domain.Kind, s *models.Schedule, provider *models.User) []recipient {
	requester := recipient{userID: s.UserID, template: transitionTemplates[kind]}

	switch kind {
	case domain.KindConfirm:
		return []recipient{
			{userID: provider.ID, user: provider, template: notify.TemplateNewRequest},
			requester,
		}
	case domain.KindCancel:
		out := []recipient{requester}
		if s.ProviderID != nil {
			out = append(out, recipient{userID: *s.ProviderID, template: notify.TemplateCancelled})
		}
		return out
	default:
		return []recipient{requester}
	}
}

func (e *Engine) notifyTransition(ctx context.Context, kind domain.Kind, s *models.Schedule, provider *models.User) {
	for _, r := range recipientsFor(kind, s, provider) {
		e.notifyRecipient(ctx, s, r)
	}
}

func (e *Engine) notifyRecipient(ctx context.Context, s *models.Schedule, r recipient) {
	msg := notify.Message{
		ScheduleID:  s.ID,
		RecipientID: r.userID,
		Template:    r.template,
	}

	u := r.user
	if u == nil {
		var err error
		u, err = e.repo.GetUser(ctx, r.userID)
		if err != nil {
			e.logger.Warn("notification recipient lookup failed",
				zap.Uint("schedule_id", s.ID),
				zap.Uint("recipient_id", r.userID),
				zap.Error(err),
			)
			e.notifier.Skip(msg, "recipient_not_found")
			return
		}
	}

	if !u.NotificationsEnabled() {
		e.notifier.Skip(msg, "notifications_disabled")
		return
	}

	msg.Phone = notify.NormalizePhone(e.countryCode, phoneOf(u))
	if msg.Phone == "" {
		e.notifier.Skip(msg, "missing_phone")
		return
	}

	text, err := notify.Compose(r.template, u, s)
	if err != nil {
		e.logger.Error("notification compose failed", zap.Uint("schedule_id", s.ID), zap.Error(err))
		e.notifier.Skip(msg, "compose_failed")
		return
	}
	msg.Text = text

	e.notifier.Enqueue(msg)
}

func phoneOf(u *models.User) string {
	if u == nil || u.Phone == nil {
		return ""
	}
	return *u.Phone
}
