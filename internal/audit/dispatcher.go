package audit

import (
	"context"
	"time"

	"go.uber.org/zap"
)

type Event struct {
	UserID   *uint
	Action   string
	Entity   string
	EntityID *uint
	Metadata any
}

type Sink interface {
	Log(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sink   Sink
	logger *zap.Logger
	queue  chan Event
	done   chan struct{}
}

func NewDispatcher(sink Sink, logger *zap.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:   sink,
		logger: logger,
		queue:  make(chan Event, 100), // buffer seguro
		done:   make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)
	for ev := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := d.sink.Log(ctx, ev); err != nil {
			d.logger.Error("audit error", zap.String("action", ev.Action), zap.Error(err))
		}
		cancel()
	}
}

func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
		// enviado
	default:
		// fila cheia → descartamos audit (nunca quebrar API)
		d.logger.Warn("audit queue full, dropping event", zap.String("action", ev.Action))
	}
}

// Close deve ser chamado uma única vez, no desligamento
func (d *Dispatcher) Close() {
	close(d.queue)
	<-d.done
}
