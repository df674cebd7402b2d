package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service.
type Config struct {
	Port      string          `mapstructure:"port"`
	Log       LogConfig       `mapstructure:"log"`
	DB        DBConfig        `mapstructure:"db"`
	History   HistoryConfig   `mapstructure:"history"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Detection DetectionConfig `mapstructure:"detection"`
	MQTT      MQTTConfig      `mapstructure:"mqtt"`
	Kafka     KafkaConfig     `mapstructure:"kafka"`
	Server    ServerConfig    `mapstructure:"server"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// DBConfig points at the SQLite file backing alerts, users and the default history sink.
type DBConfig struct {
	Path string `mapstructure:"path"`
}

// HistoryConfig selects the historical-data sink.
type HistoryConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Driver   string         `mapstructure:"driver"` // sqlite | postgres
	Table    string         `mapstructure:"table"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type PostgresConfig struct {
	DSN      string `mapstructure:"dsn"`
	MaxConns int32  `mapstructure:"max_conns"`
}

type AlertsConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	RecentLimit  int  `mapstructure:"recent_limit"`
	ConsoleNotif bool `mapstructure:"console"`
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

// DetectionConfig describes where sensor data files are read from.
type DetectionConfig struct {
	DataDir      string        `mapstructure:"data_dir"`
	Pattern      string        `mapstructure:"pattern"`
	ScanInterval time.Duration `mapstructure:"scan_interval"` // 0 disables the scanner
}

type MQTTConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Broker   string `mapstructure:"broker"`
	ClientID string `mapstructure:"client_id"`
	Topic    string `mapstructure:"topic"`
	QoS      int    `mapstructure:"qos"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type ServerConfig struct {
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var (
	ErrUnknownDriver   = errors.New("unknown history driver")
	ErrEmptySigningKey = errors.New("auth.signing_key must not be empty")
	ErrNoKafkaBrokers  = errors.New("kafka.brokers must not be empty when kafka is enabled")
	ErrNoPostgresDSN   = errors.New("history.postgres.dsn is required for the postgres driver")
)

// Default returns the configuration used when neither a file nor the environment override a key.
func Default() Config {
	return Config{
		Port: "8080",
		Log:  LogConfig{Level: "info"},
		DB:   DBConfig{Path: "app.db"},
		History: HistoryConfig{
			Enabled: true,
			Driver:  DriverSQLite,
			Table:   "sensor_readings",
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Alerts: AlertsConfig{Enabled: true, RecentLimit: 10, ConsoleNotif: true},
		Auth:   AuthConfig{SigningKey: "change-me", TokenTTL: time.Hour},
		Detection: DetectionConfig{
			DataDir: "data",
			Pattern: "*.json",
		},
		MQTT: MQTTConfig{
			Broker:   "tcp://localhost:1883",
			ClientID: "riskd",
			Topic:    "sensors/#",
		},
		Kafka: KafkaConfig{Topic: "disaster-alerts"},
		Server: ServerConfig{
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      10 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("port", d.Port)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("db.path", d.DB.Path)

	v.SetDefault("history.enabled", d.History.Enabled)
	v.SetDefault("history.driver", d.History.Driver)
	v.SetDefault("history.table", d.History.Table)
	v.SetDefault("history.postgres.dsn", d.History.Postgres.DSN)
	v.SetDefault("history.postgres.max_conns", d.History.Postgres.MaxConns)

	v.SetDefault("alerts.enabled", d.Alerts.Enabled)
	v.SetDefault("alerts.recent_limit", d.Alerts.RecentLimit)
	v.SetDefault("alerts.console", d.Alerts.ConsoleNotif)

	v.SetDefault("auth.signing_key", d.Auth.SigningKey)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)

	v.SetDefault("detection.data_dir", d.Detection.DataDir)
	v.SetDefault("detection.pattern", d.Detection.Pattern)
	v.SetDefault("detection.scan_interval", d.Detection.ScanInterval)

	v.SetDefault("mqtt.enabled", d.MQTT.Enabled)
	v.SetDefault("mqtt.broker", d.MQTT.Broker)
	v.SetDefault("mqtt.client_id", d.MQTT.ClientID)
	v.SetDefault("mqtt.topic", d.MQTT.Topic)
	v.SetDefault("mqtt.qos", d.MQTT.QoS)
	v.SetDefault("mqtt.username", d.MQTT.Username)
	v.SetDefault("mqtt.password", d.MQTT.Password)

	v.SetDefault("kafka.enabled", d.Kafka.Enabled)
	v.SetDefault("kafka.brokers", d.Kafka.Brokers)
	v.SetDefault("kafka.topic", d.Kafka.Topic)

	v.SetDefault("server.read_header_timeout", d.Server.ReadHeaderTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", d.Server.ShutdownTimeout)
}

// Load reads configuration with precedence env > file > defaults.
// An empty path searches ./configs for config.yml; a missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("configs")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// history.driver -> HISTORY_DRIVER
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations the service cannot start with.
func (c *Config) Validate() error {
	c.History.Driver = strings.ToLower(strings.TrimSpace(c.History.Driver))
	switch c.History.Driver {
	case DriverSQLite:
	case DriverPostgres:
		if c.History.Enabled && c.History.Postgres.DSN == "" {
			return ErrNoPostgresDSN
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, c.History.Driver)
	}
	if strings.TrimSpace(c.Auth.SigningKey) == "" {
		return ErrEmptySigningKey
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return ErrNoKafkaBrokers
	}
	return nil
}
