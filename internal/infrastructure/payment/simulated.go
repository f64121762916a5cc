package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// simulatedProvider - провайдер-заглушка для окружений без платежной
// интеграции: выдерживает фиксированную задержку и всегда отвечает succeeded.
type simulatedProvider struct {
	delay time.Duration
}

// NewSimulatedProvider создает провайдер-заглушку
func NewSimulatedProvider(delay time.Duration) Provider {
	return &simulatedProvider{delay: delay}
}

func (p *simulatedProvider) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error) {
	// Задержка прерывается отменой контекста
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(p.delay):
	}

	return &ChargeResult{
		Status:      StatusSucceeded,
		ProviderRef: fmt.Sprintf("sim_%s", uuid.NewString()),
	}, nil
}

func (p *simulatedProvider) Health(ctx context.Context) error {
	return nil
}
