package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Retention apaga periodicamente o histórico antigo de notificações
type Retention struct {
	purger Purger
	maxAge time.Duration
	logger *zap.Logger
	now    func() time.Time

	cron *cron.Cron
}

func NewRetention(purger Purger, maxAge time.Duration, logger *zap.Logger) *Retention {
	if maxAge <= 0 {
		maxAge = 90 * 24 * time.Hour
	}
	return &Retention{
		purger: purger,
		maxAge: maxAge,
		logger: logger,
		now:    time.Now,
	}
}

// Start agenda a limpeza na expressão cron informada (5 campos)
func (r *Retention) Start(spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { r.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("schedule retention job %q: %w", spec, err)
	}
	c.Start()
	r.cron = c

	r.logger.Info("retention job scheduled",
		zap.String("spec", spec),
		zap.Duration("max_age", r.maxAge),
	)
	return nil
}

// RunOnce executa uma limpeza e devolve quantas linhas saíram
func (r *Retention) RunOnce(ctx context.Context) int64 {
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	cutoff := r.now().Add(-r.maxAge)
	n, err := r.purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		r.logger.Error("notification log purge failed", zap.Time("cutoff", cutoff), zap.Error(err))
		return 0
	}

	r.logger.Info("notification log purge finished",
		zap.Time("cutoff", cutoff),
		zap.Int64("deleted", n),
	)
	return n
}

// Stop espera a execução em andamento terminar
func (r *Retention) Stop() {
	if r.cron == nil {
		return
	}
	<-r.cron.Stop().Done()
}
