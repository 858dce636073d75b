package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ストレージバックエンドの選択肢。
const (
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config はアプリケーション全体の設定を表現します。
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	Database DatabaseConfig `yaml:"database"`
	Seed     SeedConfig     `yaml:"seed"`
	List     ListConfig     `yaml:"list"`
	I18n     I18nConfig     `yaml:"i18n"`
}

// ServerConfig は HTTP サーバーに関する設定です。
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
}

// StorageConfig は永続化バックエンドの選択です。
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// RedisConfig は Redis 接続に関する設定です。
type RedisConfig struct {
	URL       string `yaml:"url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// DatabaseConfig は PostgreSQL 接続に関する設定です。
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// SeedConfig は初期データ取り込みに関する設定です。URL が空の場合、
// 取り込みは行われません。
type SeedConfig struct {
	URL string `yaml:"url"`
}

// ListConfig は一覧表示のページサイズ設定です。0 の場合は既定値が使われます。
type ListConfig struct {
	TablePageSize int `yaml:"table_page_size"`
	CardsPageSize int `yaml:"cards_page_size"`
}

// I18nConfig はローカライズに関する設定です。
type I18nConfig struct {
	DefaultLocale string `yaml:"default_locale"`
}

// Load は指定されたパスから設定ファイルを読み込みます。
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse yaml: %w", err)
	}

	if err := cfg.validateAndNormalize(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validateAndNormalize() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("config: server.listen_addr must be set")
	}

	switch c.Storage.Backend {
	case "":
		c.Storage.Backend = BackendRedis
	case BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("config: storage.backend must be %q or %q", BackendRedis, BackendPostgres)
	}

	if c.Storage.Backend == BackendRedis && c.Redis.URL == "" {
		return fmt.Errorf("config: redis.url must be set when storage.backend is %q", BackendRedis)
	}

	if c.Storage.Backend == BackendPostgres {
		if err := c.Database.validateAndNormalize(); err != nil {
			return err
		}
	}

	if c.List.TablePageSize < 0 || c.List.CardsPageSize < 0 {
		return fmt.Errorf("config: list page sizes must not be negative")
	}

	if c.I18n.DefaultLocale == "" {
		c.I18n.DefaultLocale = "en"
	}

	return nil
}

func (d *DatabaseConfig) validateAndNormalize() error {
	if d.Host == "" {
		return fmt.Errorf("config: database.host must be set")
	}
	if d.Port == 0 {
		return fmt.Errorf("config: database.port must be set")
	}
	if d.User == "" {
		return fmt.Errorf("config: database.user must be set")
	}
	if d.Password == "" {
		return fmt.Errorf("config: database.password must be set")
	}
	if d.Name == "" {
		return fmt.Errorf("config: database.name must be set")
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	return nil
}

// DSN は pgx 用の接続文字列を返します。
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s", d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode)
}
