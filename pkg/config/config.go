package config

import (
	"time"
)

type DB struct {
	Url string `envconfig:"URL"`
}

type Jwt struct {
	Secret string        `envconfig:"SECRET" required:"true"`
	Expiry time.Duration `envconfig:"EXPIRY" default:"24h"`
}

type Auth struct {
	Jwt *Jwt `envconfig:"JWT"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

// Scheduler configures the background sweeps: recurring materialization,
// failed-transaction retries, and transaction-log retention cleanup.
type Scheduler struct {
	SweepInterval   time.Duration `envconfig:"SWEEP_INTERVAL" default:"24h"`
	RetryInterval   time.Duration `envconfig:"RETRY_INTERVAL" default:"1h"`
	RetryWindow     time.Duration `envconfig:"RETRY_WINDOW" default:"1h"`
	RetryBatchSize  int           `envconfig:"RETRY_BATCH_SIZE" default:"50"`
	CleanupInterval time.Duration `envconfig:"CLEANUP_INTERVAL" default:"24h"`
	LogRetention    time.Duration `envconfig:"LOG_RETENTION" default:"2160h"` // 90 days
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"text"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[finvault]"`
}

type Server struct {
	Host string `envconfig:"HOST" default:"localhost"`
	Port int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Auth      *Auth      `envconfig:"AUTH"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
	Scheduler *Scheduler `envconfig:"SCHEDULER"`
}
