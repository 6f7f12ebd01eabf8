package notify

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/home-scheduler/internal/models"
)

type Message struct {
	ID          string
	ScheduleID  uint
	RecipientID uint
	Template    Template
	Phone       string
	Text        string
}

type LogStore interface {
	SaveNotificationLog(ctx context.Context, entry *models.NotificationLog) error
}

type Options struct {
	QueueSize int
	Workers   int
	Timeout   time.Duration
}

// Dispatcher entrega as mensagens fora da requisição: a transição já foi
// gravada quando a mensagem entra na fila.
type Dispatcher struct {
	gateway Gateway
	store   LogStore
	logger  *zap.Logger
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	queue  chan Message
	wg     sync.WaitGroup
}

func NewDispatcher(gateway Gateway, store LogStore, logger *zap.Logger, opts Options) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 100
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}

	d := &Dispatcher{
		gateway: gateway,
		store:   store,
		logger:  logger,
		timeout: opts.Timeout,
		queue:   make(chan Message, opts.QueueSize),
	}

	for i := 0; i < opts.Workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.queue {
		d.deliver(msg)
	}
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	if err := d.gateway.SendText(ctx, msg.Phone, msg.Text); err != nil {
		d.logger.Warn("notification delivery failed",
			zap.String("message_id", msg.ID),
			zap.Uint("schedule_id", msg.ScheduleID),
			zap.Uint("recipient_id", msg.RecipientID),
			zap.Error(err),
		)
		d.record(msg, models.NotificationFailed, err.Error())
		return
	}

	d.logger.Info("notification sent",
		zap.String("message_id", msg.ID),
		zap.Uint("schedule_id", msg.ScheduleID),
		zap.String("template", string(msg.Template)),
	)
	d.record(msg, models.NotificationSent, "")
}

// Enqueue nunca bloqueia a requisição: fila cheia descarta a mensagem
func (d *Dispatcher) Enqueue(msg Message) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.logger.Warn("dispatcher closed, dropping notification", zap.String("message_id", msg.ID))
		d.record(msg, models.NotificationDropped, "dispatcher closed")
		return
	}

	select {
	case d.queue <- msg:
	default:
		d.logger.Warn("notification queue full, dropping message", zap.String("message_id", msg.ID))
		d.record(msg, models.NotificationDropped, "queue full")
	}
}

// Skip registra uma notificação que não pôde ser montada (ex.: sem telefone)
func (d *Dispatcher) Skip(msg Message, reason string) {
	if msg.ID == "" {
		msg.ID = uuid.NewString()
	}
	d.logger.Info("notification skipped",
		zap.Uint("schedule_id", msg.ScheduleID),
		zap.Uint("recipient_id", msg.RecipientID),
		zap.String("reason", reason),
	)
	d.record(msg, models.NotificationSkipped, reason)
}

// Close para de aceitar mensagens e espera a fila esvaziar
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	d.wg.Wait()
}

func (d *Dispatcher) record(msg Message, status, errMsg string) {
	if d.store == nil {
		return
	}

	entry := &models.NotificationLog{
		MessageID:    msg.ID,
		ScheduleID:   msg.ScheduleID,
		RecipientID:  msg.RecipientID,
		Kind:         string(msg.Template),
		Phone:        msg.Phone,
		Message:      msg.Text,
		Status:       status,
		ErrorMessage: errMsg,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := d.store.SaveNotificationLog(ctx, entry); err != nil {
		d.logger.Error("failed to persist notification log",
			zap.String("message_id", msg.ID),
			zap.Error(err),
		)
	}
}
