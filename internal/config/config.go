package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// OrderStepsCount кол-во автоматических переходов заказа: от confirmed до delivered.
const OrderStepsCount = 6

var knownDrivers = []string{"file", "pebble", "postgres", "redis", "memory"}

type Config struct {
	RunAddress    string `env:"RUN_ADDRESS"`
	DataDir       string `env:"DATA_DIR"`
	StorageDriver string `env:"STORAGE_DRIVER"`
	DatabaseDSN   string `env:"DATABASE_URI"`
	MigrationsDir string `env:"MIGRATIONS_DIR"`
	RedisAddr     string `env:"REDIS_ADDR"`
	AMQPURL       string `env:"AMQP_URL"`
	UploadsDir    string `env:"UPLOADS_DIR"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	LogLevel      string `env:"LOG_LEVEL"`

	// секреты задаются только через окружение, чтобы не светиться в списке процессов.
	JWTSecret        string        `env:"JWT_SECRET"`
	JWTRefreshSecret string        `env:"JWT_REFRESH_SECRET"`
	AccessTokenTTL   time.Duration `env:"ACCESS_TOKEN_TTL"   envDefault:"1h"`
	RefreshTokenTTL  time.Duration `env:"REFRESH_TOKEN_TTL"  envDefault:"168h"`
	MaxUploadBytes   int64         `env:"MAX_UPLOAD_BYTES"   envDefault:"5242880"`

	// OrderStepOffsets смещения автоматических переходов от момента создания заказа. Пусто - значения по умолчанию.
	OrderStepOffsets []time.Duration `env:"ORDER_STEP_OFFSETS" envSeparator:","`
}

// LoadConfig читает .env (если есть), переменные окружения и флаги командной строки. Окружение важнее флагов.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func MustLoadConfig() *Config {
	config, err := LoadConfig()
	if err != nil {
		panic(err)
	}
	return config
}

func load(args []string) (*Config, error) {
	if dotErr := godotenv.Load(); dotErr != nil && !errors.Is(dotErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %s", dotErr.Error())
	}

	var flagsConfig, envConfig Config

	if envParseErr := env.Parse(&envConfig); envParseErr != nil {
		return nil, fmt.Errorf("parse env config: %s", envParseErr.Error())
	}

	if flagsErr := loadFlags(&flagsConfig, args); flagsErr != nil {
		return nil, flagsErr
	}

	conf := mergeConfig(&envConfig, &flagsConfig)
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func loadFlags(flagConfig *Config, args []string) error {
	fset := flag.NewFlagSet("eats", flag.ContinueOnError)

	fset.StringVar(&flagConfig.RunAddress, "a", "localhost:8080", "Run address in format host:port")
	fset.StringVar(&flagConfig.DataDir, "d", "data", "Data directory for file and pebble storage")
	fset.StringVar(&flagConfig.StorageDriver, "s", "file", "Storage driver: file|pebble|postgres|redis|memory")
	fset.StringVar(&flagConfig.DatabaseDSN, "p", "", "Postgres DSN")
	fset.StringVar(&flagConfig.MigrationsDir, "m", "migrations", "Database migrations directory")
	fset.StringVar(&flagConfig.RedisAddr, "r", "", "Redis address in format host:port")
	fset.StringVar(&flagConfig.AMQPURL, "q", "", "RabbitMQ url, order events are not published if empty")
	fset.StringVar(&flagConfig.UploadsDir, "u", "uploads", "Uploaded images directory")
	fset.StringVar(&flagConfig.PublicBaseURL, "b", "http://localhost:8080", "Public base url for uploaded files")
	fset.StringVar(&flagConfig.LogLevel, "l", "", "Log level: debug|info|warn|error")

	if err := fset.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %s", err.Error())
	}
	return nil
}

func mergeConfig(envConfig, flagsConfig *Config) *Config {
	return &Config{
		RunAddress:       defaultIfBlank(envConfig.RunAddress, flagsConfig.RunAddress),
		DataDir:          defaultIfBlank(envConfig.DataDir, flagsConfig.DataDir),
		StorageDriver:    defaultIfBlank(envConfig.StorageDriver, flagsConfig.StorageDriver),
		DatabaseDSN:      defaultIfBlank(envConfig.DatabaseDSN, flagsConfig.DatabaseDSN),
		MigrationsDir:    defaultIfBlank(envConfig.MigrationsDir, flagsConfig.MigrationsDir),
		RedisAddr:        defaultIfBlank(envConfig.RedisAddr, flagsConfig.RedisAddr),
		AMQPURL:          defaultIfBlank(envConfig.AMQPURL, flagsConfig.AMQPURL),
		UploadsDir:       defaultIfBlank(envConfig.UploadsDir, flagsConfig.UploadsDir),
		PublicBaseURL:    defaultIfBlank(envConfig.PublicBaseURL, flagsConfig.PublicBaseURL),
		LogLevel:         defaultIfBlank(envConfig.LogLevel, flagsConfig.LogLevel),
		JWTSecret:        envConfig.JWTSecret,
		JWTRefreshSecret: envConfig.JWTRefreshSecret,
		AccessTokenTTL:   envConfig.AccessTokenTTL,
		RefreshTokenTTL:  envConfig.RefreshTokenTTL,
		MaxUploadBytes:   envConfig.MaxUploadBytes,
		OrderStepOffsets: envConfig.OrderStepOffsets,
	}
}

func defaultIfBlank(value string, defaultValue string) string {
	if value == "" {
		return defaultValue
	}
	return value
}

func (c *Config) Validate() error {
	if !slices.Contains(knownDrivers, c.StorageDriver) {
		return fmt.Errorf("unknown storage driver `%s`", c.StorageDriver)
	}
	if c.StorageDriver == "postgres" && c.DatabaseDSN == "" {
		return errors.New("database DSN is not set")
	}
	if c.StorageDriver == "redis" && c.RedisAddr == "" {
		return errors.New("redis address is not set")
	}
	if c.JWTSecret == "" || c.JWTRefreshSecret == "" {
		return errors.New("JWT_SECRET and JWT_REFRESH_SECRET must be set")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token ttl must be positive")
	}
	if c.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}
	return validateOffsets(c.OrderStepOffsets)
}

// validateOffsets смещения либо не заданы, либо их ровно OrderStepsCount и они строго возрастают.
func validateOffsets(offsets []time.Duration) error {
	if len(offsets) == 0 {
		return nil
	}
	if len(offsets) != OrderStepsCount {
		return fmt.Errorf("ORDER_STEP_OFFSETS: want %d durations, got %d", OrderStepsCount, len(offsets))
	}
	var prev time.Duration
	for i, offset := range offsets {
		if offset <= prev {
			return fmt.Errorf("ORDER_STEP_OFFSETS: offset #%d (%s) must be positive and greater than previous", i+1, offset)
		}
		prev = offset
	}
	return nil
}
