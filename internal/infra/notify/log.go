package notify

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// LogPublisher пишет события в лог (драйвер по умолчанию для локального запуска)
type LogPublisher struct {
	logger Logger
}

func NewLogPublisher(logger Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.ReservationEvent) error {
	body, err := Encode(event)
	if err != nil {
		return err
	}
	p.logger.Info("notify: %s %s", event.Type, body)
	return nil
}

func (p *LogPublisher) Close() error {
	return nil
}
