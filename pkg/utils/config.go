package utils

import (
	"errors"
	"io/fs"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Booking  BookingConfig
	Webhook  WebhookConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogPath         string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Driver      string // postgres | memory
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	LockTimeout time.Duration
	SeedFile    string // catalog and sessions for the memory driver
}

type BookingConfig struct {
	MaxRetries      int
	RetryBaseDelay  time.Duration
	PaymentTimeout  time.Duration
	CancelCutoff    time.Duration
	LazyMaterialize bool
	SweepInterval   time.Duration
	MaxNights       int
	MaxUnitsPerStay int
}

type WebhookConfig struct {
	Secret string
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "hotel-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")

	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_LOCK_TIMEOUT", "3s")

	v.SetDefault("RESERVATION_MAX_RETRIES", 3)
	v.SetDefault("RESERVATION_RETRY_BASE_DELAY", "50ms")
	v.SetDefault("PAYMENT_TIMEOUT", "15m")
	v.SetDefault("CANCEL_CUTOFF_HOURS", 0)
	v.SetDefault("INVENTORY_LAZY_MATERIALIZE", true)
	v.SetDefault("SWEEP_INTERVAL", "1m")
	v.SetDefault("BOOKING_MAX_NIGHTS", 30)
	v.SetDefault("BOOKING_MAX_UNITS", 10)
}

// LoadConfig reads .env when present and lets the environment override it.
func LoadConfig() (*Config, error) {
	return loadConfig(".env")
}

func loadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            v.GetString("APP_NAME"),
			Port:            v.GetString("PORT"),
			Debug:           v.GetBool("DEBUG"),
			LogPath:         v.GetString("LOG_PATH"),
			ShutdownTimeout: v.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Driver:      v.GetString("DB_DRIVER"),
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			LockTimeout: v.GetDuration("DB_LOCK_TIMEOUT"),
			SeedFile:    v.GetString("MEMORY_SEED_FILE"),
		},
		Booking: BookingConfig{
			MaxRetries:      v.GetInt("RESERVATION_MAX_RETRIES"),
			RetryBaseDelay:  v.GetDuration("RESERVATION_RETRY_BASE_DELAY"),
			PaymentTimeout:  v.GetDuration("PAYMENT_TIMEOUT"),
			CancelCutoff:    time.Duration(v.GetInt("CANCEL_CUTOFF_HOURS")) * time.Hour,
			LazyMaterialize: v.GetBool("INVENTORY_LAZY_MATERIALIZE"),
			SweepInterval:   v.GetDuration("SWEEP_INTERVAL"),
			MaxNights:       v.GetInt("BOOKING_MAX_NIGHTS"),
			MaxUnitsPerStay: v.GetInt("BOOKING_MAX_UNITS"),
		},
		Webhook: WebhookConfig{
			Secret: v.GetString("PAYMENT_WEBHOOK_SECRET"),
		},
	}

	if config.Database.Driver != DriverPostgres && config.Database.Driver != DriverMemory {
		return nil, errors.New("DB_DRIVER must be postgres or memory")
	}
	if config.Database.Driver == DriverMemory && config.Database.SeedFile == "" {
		return nil, errors.New("MEMORY_SEED_FILE is required with DB_DRIVER=memory")
	}

	if config.Booking.SweepInterval <= 0 {
		return nil, errors.New("SWEEP_INTERVAL must be positive")
	}

	return config, nil
}
