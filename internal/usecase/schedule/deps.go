package schedule

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-scheduler/internal/audit"
	"github.com/BruksfildServices01/home-scheduler/internal/cache"
	domain "github.com/BruksfildServices01/home-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/home-scheduler/internal/httperr"
	"github.com/BruksfildServices01/home-scheduler/internal/models"
	"github.com/BruksfildServices01/home-scheduler/internal/notify"
	"github.com/BruksfildServices01/home-scheduler/internal/timezone"
)

// Notifier recebe as mensagens depois que a transição já foi gravada
type Notifier interface {
	Enqueue(msg notify.Message)
	Skip(msg notify.Message, reason string)
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

func homeSummaryKey(userID uint) string {
	return fmt.Sprintf("home:summary:%d", userID)
}

// invalidateHome descarta o resumo em cache dos usuários afetados.
// Falha de cache não derruba a operação: o TTL cobre o resto.
func invalidateHome(ctx context.Context, c cache.Cache, logger *zap.Logger, userIDs ...uint) {
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		if id != 0 {
			keys = append(keys, homeSummaryKey(id))
		}
	}
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Warn("home summary cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

func loadSchedule(ctx context.Context, repo domain.Repository, id uint) (*models.Schedule, error) {
	s, err := repo.GetSchedule(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrNotFound("schedule_not_found", "Agendamento não encontrado.")
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule %d: %w", id, err)
	}
	return s, nil
}

// resolveProvider exige um PRESTADOR existente e com telefone utilizável
func resolveProvider(ctx context.Context, repo domain.Repository, countryCode string, providerID uint) (*models.User, error) {
	if providerID == 0 {
		return nil, httperr.ErrValidation("provider_required", "Informe o prestador do serviço.")
	}

	u, err := repo.GetUser(ctx, providerID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness("provider_not_found", "Prestador não encontrado.")
	}
	if err != nil {
		return nil, fmt.Errorf("get provider %d: %w", providerID, err)
	}

	if u.Role != models.RoleProvider {
		return nil, httperr.ErrBusiness("invalid_provider", "O usuário informado não é um prestador.")
	}
	if notify.NormalizePhone(countryCode, phoneOf(u)) == "" {
		return nil, httperr.ErrBusiness("provider_without_phone", "O prestador não possui telefone cadastrado.")
	}
	return u, nil
}

// checkReferences confere serviço e endereço (que precisa ser do solicitante)
func checkReferences(ctx context.Context, repo domain.Repository, userID, serviceID, addressID uint) error {
	if _, err := repo.GetService(ctx, serviceID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return httperr.ErrValidation("service_not_found", "Serviço não encontrado.")
		}
		return fmt.Errorf("get service %d: %w", serviceID, err)
	}

	addr, err := repo.GetAddress(ctx, addressID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrValidation("address_not_found", "Endereço não encontrado.")
	}
	if err != nil {
		return fmt.Errorf("get address %d: %w", addressID, err)
	}
	if addr.UserID != userID {
		return httperr.ErrValidation("address_not_owned", "O endereço não pertence ao solicitante.")
	}
	return nil
}

// mapWriteError traduz violações de constraint do Postgres em erro de validação
func mapWriteError(err error, op string) error {
	switch {
	case httperr.IsForeignKeyViolation(err):
		return httperr.ErrValidation("invalid_reference", "Serviço, endereço ou usuário inexistente.")
	case httperr.IsCheckViolation(err):
		return httperr.ErrValidation("invalid_schedule", "Dados do agendamento inválidos.")
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func parseDateTime(date, clock string) (time.Time, error) {
	d, err := timezone.ParseDate(strings.TrimSpace(date))
	if err != nil {
		return time.Time{}, httperr.ErrValidation("invalid_date", "Data inválida.")
	}
	if !timezone.IsClock(strings.TrimSpace(clock)) {
		return time.Time{}, httperr.ErrValidation("invalid_time", "Hora inválida.")
	}
	return d, nil
}
