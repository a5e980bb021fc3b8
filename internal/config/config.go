package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Драйверы публикации уведомлений
const (
	NotifyDriverLog      = "log"
	NotifyDriverKafka    = "kafka"
	NotifyDriverRabbitMQ = "rabbitmq"
)

var (
	// ErrReadConfig возвращается при ошибке чтения файла конфигурации
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при некорректных значениях конфигурации
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server            ServerConfig            `toml:"server"`
	Database          DatabaseConfig          `toml:"database"`
	Logs              LogsConfig              `toml:"logs"`
	Metrics           MetricsConfig           `toml:"metrics"`
	Redis             RedisConfig             `toml:"redis"`
	Notifications     NotificationsConfig     `toml:"notifications"`
	BusinessDirectory BusinessDirectoryConfig `toml:"business_directory"`
	Scheduling        SchedulingConfig        `toml:"scheduling"`
	Reminders         RemindersConfig         `toml:"reminders"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"`
	TxMaxRetries    int    `toml:"tx_max_retries"`
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	// SlotsTTL время жизни закэшированных слотов в секундах
	SlotsTTL int `toml:"slots_ttl"`
}

type NotificationsConfig struct {
	Driver        string `toml:"driver"`
	KafkaBrokers  string `toml:"kafka_brokers"`
	KafkaTopic    string `toml:"kafka_topic"`
	RabbitMQURL   string `toml:"rabbitmq_url"`
	RabbitMQQueue string `toml:"rabbitmq_queue"`
	// PublishTimeout таймаут публикации одного события в секундах
	PublishTimeout int `toml:"publish_timeout"`
}

// Brokers список брокеров Kafka
func (n NotificationsConfig) Brokers() []string {
	var out []string
	for _, b := range strings.Split(n.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

type BusinessDirectoryConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"`
}

type SchedulingConfig struct {
	SlotIntervalMinutes int `toml:"slot_interval_minutes"`
	// FollowUpDelayHours через сколько часов после завершения отправляется запрос отзыва
	FollowUpDelayHours int `toml:"follow_up_delay_hours"`
}

// FollowUpDelay задержка follow-up после завершения
func (s SchedulingConfig) FollowUpDelay() time.Duration {
	return time.Duration(s.FollowUpDelayHours) * time.Hour
}

type RemindersConfig struct {
	// Schedule cron-выражение запуска диспетчера
	Schedule  string `toml:"schedule"`
	BatchSize int    `toml:"batch_size"`
}

// Load читает конфигурацию из TOML файла
// Секреты переопределяются переменными окружения (в т.ч. из .env)
func Load(path string) (*Config, error) {
	// .env не обязателен
	_ = godotenv.Load()

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default конфигурация по умолчанию
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Notifications.KafkaBrokers = v
	}
	if v := os.Getenv("RABBITMQ_URL"); v != "" {
		c.Notifications.RabbitMQURL = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.HTTPPort == 0 {
		c.Server.HTTPPort = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 10
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 15
	}

	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 300
	}
	if c.Database.TxMaxRetries == 0 {
		c.Database.TxMaxRetries = 3
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}
	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "scheduling-service"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.SlotsTTL == 0 {
		c.Redis.SlotsTTL = 60
	}

	if c.Notifications.Driver == "" {
		c.Notifications.Driver = NotifyDriverLog
	}
	if c.Notifications.KafkaTopic == "" {
		c.Notifications.KafkaTopic = "reservation-events"
	}
	if c.Notifications.RabbitMQQueue == "" {
		c.Notifications.RabbitMQQueue = "reservation.events"
	}
	if c.Notifications.PublishTimeout == 0 {
		c.Notifications.PublishTimeout = 5
	}

	if c.BusinessDirectory.Timeout == 0 {
		c.BusinessDirectory.Timeout = 5
	}

	if c.Scheduling.SlotIntervalMinutes == 0 {
		c.Scheduling.SlotIntervalMinutes = 30
	}
	if c.Scheduling.FollowUpDelayHours == 0 {
		c.Scheduling.FollowUpDelayHours = 24
	}

	if c.Reminders.Schedule == "" {
		c.Reminders.Schedule = "*/15 * * * *"
	}
	if c.Reminders.BatchSize == 0 {
		c.Reminders.BatchSize = 100
	}
}

// Validate проверяет корректность значений
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" {
		return fmt.Errorf("%w: database.host is required", ErrInvalidConfig)
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("%w: database.dbname is required", ErrInvalidConfig)
	}
	if c.Database.MaxIdleConns > c.Database.MaxOpenConns {
		return fmt.Errorf("%w: database.max_idle_conns > max_open_conns", ErrInvalidConfig)
	}
	if c.Scheduling.SlotIntervalMinutes < 5 || c.Scheduling.SlotIntervalMinutes > 240 {
		return fmt.Errorf("%w: scheduling.slot_interval_minutes must be in 5..240", ErrInvalidConfig)
	}
	if c.Scheduling.FollowUpDelayHours < 0 {
		return fmt.Errorf("%w: scheduling.follow_up_delay_hours must not be negative", ErrInvalidConfig)
	}

	switch c.Notifications.Driver {
	case NotifyDriverLog:
	case NotifyDriverKafka:
		if len(c.Notifications.Brokers()) == 0 {
			return fmt.Errorf("%w: notifications.kafka_brokers is required for kafka driver", ErrInvalidConfig)
		}
	case NotifyDriverRabbitMQ:
		if c.Notifications.RabbitMQURL == "" {
			return fmt.Errorf("%w: notifications.rabbitmq_url is required for rabbitmq driver", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown notifications.driver %q", ErrInvalidConfig, c.Notifications.Driver)
	}

	if c.BusinessDirectory.URL == "" {
		return fmt.Errorf("%w: business_directory.url is required", ErrInvalidConfig)
	}
	return nil
}
