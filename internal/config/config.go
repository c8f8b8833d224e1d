package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/weblineafrica/order-sms/internal/settings"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Gateway  GatewayConfig
	NATS     NATSConfig
	Dispatch DispatchConfig
	Admin    AdminConfig

	// SMS holds the settings record used when Redis is not configured.
	SMS settings.Settings
}

type ServerConfig struct {
	Address string
}

type DatabaseConfig struct {
	PostgresURL string
}

type RedisConfig struct {
	Enabled     bool
	Address     string
	Password    string
	DB          int
	SettingsKey string
}

type GatewayConfig struct {
	URL          string
	Timeout      time.Duration
	MaxRedirects int
}

type NATSConfig struct {
	Enabled bool
	URL     string
	Subject string
}

type DispatchConfig struct {
	Async       bool
	MaxInFlight int
}

type AdminConfig struct {
	JWTSecret string
}

func LoadAll() (*Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	postgresURL, err := requireEnv("POSTGRES_URL")
	collect(err)

	timeoutSec, err := getEnvInt("GATEWAY_TIMEOUT_SECONDS", 30)
	collect(err)
	maxRedirects, err := getEnvInt("GATEWAY_MAX_REDIRECTS", 10)
	collect(err)

	async, err := getEnvBool("ASYNC_DISPATCH", false)
	collect(err)
	maxInFlight, err := getEnvInt("ASYNC_MAX_INFLIGHT", 8)
	collect(err)

	adminNotify, err := getEnvBool("SMS_ADMIN_NOTIFICATIONS", false)
	collect(err)

	redisCfg, err := loadRedisConfig()
	collect(err)

	cfg := &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":8080"),
		},
		Database: DatabaseConfig{
			PostgresURL: postgresURL,
		},
		Redis: redisCfg,
		Gateway: GatewayConfig{
			URL:          getEnv("GATEWAY_URL", "https://sms.webline.africa/api/v3/sms/send"),
			Timeout:      time.Duration(timeoutSec) * time.Second,
			MaxRedirects: maxRedirects,
		},
		NATS: loadNATSConfig(),
		Dispatch: DispatchConfig{
			Async:       async,
			MaxInFlight: maxInFlight,
		},
		Admin: AdminConfig{
			JWTSecret: os.Getenv("ADMIN_JWT_SECRET"),
		},
		SMS: settings.Settings{
			APIKey:                    os.Getenv("SMS_API_KEY"),
			SenderID:                  os.Getenv("SMS_SENDER_ID"),
			MessageTemplate:           os.Getenv("SMS_MESSAGE_TEMPLATE"),
			AdminPhone:                os.Getenv("SMS_ADMIN_PHONE"),
			AdminNotificationsEnabled: adminNotify,
		},
	}

	if len(errs) > 0 {
		return nil, joinErrors(errs)
	}
	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadRedisConfig() (RedisConfig, error) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return RedisConfig{Enabled: false}, nil
	}

	db, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return RedisConfig{}, err
	}

	return RedisConfig{
		Enabled:     true,
		Address:     addr,
		Password:    os.Getenv("REDIS_PASSWORD"),
		DB:          db,
		SettingsKey: getEnv("SETTINGS_KEY", "webline_wc_sms_settings"),
	}, nil
}

func loadNATSConfig() NATSConfig {
	url := os.Getenv("NATS_URL")
	if url == "" {
		return NATSConfig{Enabled: false}
	}
	return NATSConfig{
		Enabled: true,
		URL:     url,
		Subject: getEnv("NATS_SUBJECT", "orders.status_changed"),
	}
}

func validate(cfg *Config) error {
	var errs []error
	if cfg.Gateway.Timeout <= 0 {
		errs = append(errs, errors.New("GATEWAY_TIMEOUT_SECONDS must be > 0"))
	}
	if cfg.Gateway.MaxRedirects < 0 {
		errs = append(errs, errors.New("GATEWAY_MAX_REDIRECTS must be >= 0"))
	}
	if cfg.Dispatch.MaxInFlight <= 0 {
		errs = append(errs, errors.New("ASYNC_MAX_INFLIGHT must be > 0"))
	}
	return joinErrors(errs)
}

func requireEnv(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return val, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for env %s: %s", key, v)
	}
	return i, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid bool for env %s: %s", key, v)
	}
	return b, nil
}

func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}
