package notify

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/config"
)

// NewPublisher выбирает реализацию по драйверу из конфигурации
func NewPublisher(cfg config.NotificationsConfig, logger Logger) (Publisher, error) {
	switch cfg.Driver {
	case config.NotifyDriverKafka:
		return NewKafkaPublisher(cfg.Brokers(), cfg.KafkaTopic), nil
	case config.NotifyDriverRabbitMQ:
		return NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQQueue)
	case config.NotifyDriverLog, "":
		return NewLogPublisher(logger), nil
	default:
		return nil, fmt.Errorf("%w: unknown driver %q", ErrConnect, cfg.Driver)
	}
}
