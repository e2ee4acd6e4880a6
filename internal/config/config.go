package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// PathEnv переменная окружения, переопределяющая путь к конфигу
const PathEnv = "CONFIG_PATH"

type Config struct {
	Server     ServerConfig     `toml:"server"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Scheduling SchedulingConfig `toml:"scheduling"`
	Redis      RedisConfig      `toml:"redis"`
	Kafka      KafkaConfig      `toml:"kafka"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
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
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	Path        string `toml:"path"`
}

// SchedulingConfig параметры движка доступности и бронирования
type SchedulingConfig struct {
	QueryTimeoutSeconds   int    `toml:"query_timeout_seconds"`
	BookingTimeoutSeconds int    `toml:"booking_timeout_seconds"`
	MaxRangeDays          int    `toml:"max_range_days"`
	StatusLookaheadMonths int    `toml:"status_lookahead_months"`
	StatusThresholdDays   int    `toml:"status_threshold_days"`
	Location              string `toml:"location"` // IANA, например "Europe/Moscow"
}

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	TTLSeconds int    `toml:"ttl_seconds"`
	Prefix     string `toml:"prefix"`
}

type KafkaConfig struct {
	Brokers        string `toml:"brokers"` // через запятую, пусто = события отключены
	Topic          string `toml:"topic"`
	WriteTimeoutMs int    `toml:"write_timeout_ms"`
}

// Load читает конфиг из TOML файла. Если задан CONFIG_PATH, он имеет приоритет над path.
// Незаданные значения заполняются значениями по умолчанию.
func Load(path string) (*Config, error) {
	if env := os.Getenv(PathEnv); env != "" {
		path = env
	}

	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DSN строка подключения к PostgreSQL для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// QueryTimeout таймаут чтения для расчёта доступности
func (s SchedulingConfig) QueryTimeout() time.Duration {
	return time.Duration(s.QueryTimeoutSeconds) * time.Second
}

// BookingTimeout собственный таймаут операции бронирования
func (s SchedulingConfig) BookingTimeout() time.Duration {
	return time.Duration(s.BookingTimeoutSeconds) * time.Second
}

// LoadLocation возвращает часовой пояс бизнеса
func (s SchedulingConfig) LoadLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(s.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid scheduling.location %q: %w", s.Location, err)
	}
	return loc, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.Logs.Level == "" {
		c.Logs.Level = "info"
	}

	if c.Metrics.ServiceName == "" {
		c.Metrics.ServiceName = "appointment-service"
	}
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	setDefault(&c.Scheduling.QueryTimeoutSeconds, 5)
	setDefault(&c.Scheduling.BookingTimeoutSeconds, 10)
	setDefault(&c.Scheduling.MaxRangeDays, 62)
	setDefault(&c.Scheduling.StatusLookaheadMonths, 12)
	setDefault(&c.Scheduling.StatusThresholdDays, 30)
	if c.Scheduling.Location == "" {
		c.Scheduling.Location = "UTC"
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	setDefault(&c.Redis.TTLSeconds, 60)

	if c.Kafka.Topic == "" {
		c.Kafka.Topic = "appointments.bookings"
	}
	setDefault(&c.Kafka.WriteTimeoutMs, 2000)
}

func (c *Config) validate() error {
	if c.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("database.dbname is required")
	}
	if _, err := c.Scheduling.LoadLocation(); err != nil {
		return err
	}
	return nil
}

func setDefault(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}
