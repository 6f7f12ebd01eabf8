package notify

import (
	"context"

	"go.uber.org/zap"
)

// Gateway envia uma mensagem de texto para um telefone já normalizado.
// Não há retentativas: o erro volta para quem chamou.
type Gateway interface {
	SendText(ctx context.Context, phone, text string) error
}

// LogGateway só registra a mensagem; usado quando nenhum provedor está configurado
type LogGateway struct {
	logger *zap.Logger
}

func NewLogGateway(logger *zap.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

func (g *LogGateway) SendText(ctx context.Context, phone, text string) error {
	g.logger.Info("notification not sent, no provider configured",
		zap.String("phone", phone),
		zap.Int("length", len(text)),
	)
	return nil
}
