package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host      string `yaml:"host"`
		Port      int    `yaml:"port"`
		Env       string `yaml:"env"`
		ClientURL string `yaml:"client_url"` // Разрешенный origin для CORS
	} `yaml:"server"`

	Database struct {
		Driver       string `yaml:"driver"` // postgres, mysql
		DSN          string `yaml:"url"`
		MaxOpenConns int    `yaml:"max_open_conns"`
		AutoMigrate  bool   `yaml:"auto_migrate"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // в минутах
	} `yaml:"jwt"`

	Storage struct {
		Type       string `yaml:"type"`        // local, s3, cloudflare_r2
		BasePath   string `yaml:"base_path"`   // For local storage
		BaseURL    string `yaml:"base_url"`    // Public URL base
		Bucket     string `yaml:"bucket"`      // For S3/R2
		Region     string `yaml:"region"`      // For S3
		AccessKey  string `yaml:"access_key"`  // For S3/R2
		SecretKey  string `yaml:"secret_key"`  // For S3/R2
		Endpoint   string `yaml:"endpoint"`    // For R2 or custom S3
		PublicRead bool   `yaml:"public_read"` // Make files public
	} `yaml:"storage"`

	Upload struct {
		MaxSize      int64    `yaml:"max_size"`      // Max file size in bytes
		AllowedTypes []string `yaml:"allowed_types"` // Allowed MIME types

		// Сканы PNG/JPEG с длинной стороной больше ImageMaxDimension уменьшаются (0 - не трогать)
		ImageMaxDimension int `yaml:"image_max_dimension"`
		ImageQuality      int `yaml:"image_quality"`
	} `yaml:"upload"`

	Email struct {
		Enabled      bool   `yaml:"enabled"`
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUsername string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
		FromName     string `yaml:"from_name"`
		QueueSize    int    `yaml:"queue_size"`
	} `yaml:"email"`

	Notifications struct {
		RetentionDays   int `yaml:"retention_days"`
		CleanupInterval int `yaml:"cleanup_interval"` // в минутах
	} `yaml:"notifications"`

	FirstAdminEmail    string `yaml:"first_admin_email"`
	FirstAdminPassword string `yaml:"first_admin_password"`
}

var AppConfig *Config

// Defaults возвращает конфигурацию со значениями по умолчанию
func Defaults() *Config {
	var cfg Config

	cfg.Server.Host = "0.0.0.0"
	cfg.Server.Port = 5000
	cfg.Server.Env = "development"
	cfg.Server.ClientURL = "http://localhost:5173"

	cfg.Database.Driver = "postgres"
	cfg.Database.MaxOpenConns = 20
	cfg.Database.AutoMigrate = true

	cfg.JWT.TTL = 30 * 24 * 60 // 30 дней

	cfg.Storage.Type = "local"
	cfg.Storage.BasePath = "./uploads"

	cfg.Upload.MaxSize = 8 * 1024 * 1024 // 8MB
	cfg.Upload.AllowedTypes = []string{"application/pdf", "image/png", "image/jpeg"}
	cfg.Upload.ImageMaxDimension = 2560
	cfg.Upload.ImageQuality = 85

	cfg.Email.SMTPPort = 587
	cfg.Email.FromName = "Job Board"
	cfg.Email.QueueSize = 100

	cfg.Notifications.RetentionDays = 90
	cfg.Notifications.CleanupInterval = 60

	return &cfg
}

// Load собирает конфиг: значения по умолчанию → YAML файл (если есть) → переменные окружения.
// .env подхватывается через godotenv, если лежит рядом с бинарником.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	if err := loadFile(cfg, configPath); err != nil {
		return nil, err
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfig загружает конфиг в глобальную переменную AppConfig
func LoadConfig() error {
	cfg, err := Load()
	if err != nil {
		return err
	}
	AppConfig = cfg
	return nil
}

func GetConfig() *Config {
	if AppConfig == nil {
		if err := LoadConfig(); err != nil {
			panic(fmt.Sprintf("config: %v", err))
		}
	}
	return AppConfig
}

func loadFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Файла нет - работаем только на переменных окружения
			return nil
		}
		return fmt.Errorf("failed to open config file at %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("failed to parse config file at %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Database.DSN, "DATABASE_URL")
	setString(&cfg.Database.Driver, "DATABASE_DRIVER")
	setString(&cfg.Server.Env, "SERVER_ENV")
	setString(&cfg.Server.ClientURL, "CLIENT_URL")
	setString(&cfg.JWT.Secret, "JWT_SECRET")
	setString(&cfg.Storage.Type, "STORAGE_TYPE")
	setString(&cfg.Storage.Bucket, "STORAGE_BUCKET")
	setString(&cfg.Storage.AccessKey, "STORAGE_ACCESS_KEY")
	setString(&cfg.Storage.SecretKey, "STORAGE_SECRET_KEY")
	setString(&cfg.Storage.Endpoint, "STORAGE_ENDPOINT")
	setString(&cfg.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&cfg.FirstAdminEmail, "FIRST_ADMIN_EMAIL")
	setString(&cfg.FirstAdminPassword, "FIRST_ADMIN_PASSWORD")

	if port, err := strconv.Atoi(os.Getenv("SERVER_PORT")); err == nil && port > 0 {
		cfg.Server.Port = port
	}
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Validate проверяет обязательные параметры
func (c *Config) Validate() error {
	var errs []error

	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database url is required (database.url or DATABASE_URL)"))
	}
	switch c.Database.Driver {
	case "postgres", "mysql":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver: %q", c.Database.Driver))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt secret is required (jwt.secret or JWT_SECRET)"))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("jwt ttl must be positive"))
	}
	if c.Upload.MaxSize <= 0 {
		errs = append(errs, errors.New("upload max_size must be positive"))
	}
	if c.Email.Enabled && c.Email.SMTPHost == "" {
		errs = append(errs, errors.New("email.smtp_host is required when email is enabled"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}
