package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Variant string

const (
	VariantFlow   Variant = "flow"   // marker-terminated, 30s read timeout
	VariantBasic  Variant = "basic"  // reads until the server closes
	VariantDocker Variant = "docker" // dockerized backend, 5s read timeout
)

// Probe holds the settings of one probe binary. Variant defaults are set
// first, then any ARENA_* variable overrides them.
type Probe struct {
	Variant      Variant
	Host         string        `env:"ARENA_HOST"`
	Port         int           `env:"ARENA_PORT"`
	Path         string        `env:"ARENA_PATH"`
	Timeout      time.Duration `env:"ARENA_TIMEOUT"` // 0 waits forever
	DialTimeout  time.Duration `env:"ARENA_DIAL_TIMEOUT"`
	PreviewLimit int           `env:"ARENA_PREVIEW_LIMIT"`
	DatabaseURL  string        `env:"ARENA_DATABASE_URL"`
	LogLevel     string        `env:"LOG_LEVEL"`
	LogFormat    string        `env:"LOG_FORMAT"`
}

func Defaults(v Variant) Probe {
	cfg := Probe{
		Variant:      v,
		Host:         "localhost",
		Port:         5018,
		Path:         "/ws",
		DialTimeout:  10 * time.Second,
		PreviewLimit: 150,
		LogLevel:     "warn",
		LogFormat:    "console",
	}
	switch v {
	case VariantFlow:
		cfg.Timeout = 30 * time.Second
	case VariantBasic:
		cfg.Timeout = 0
	case VariantDocker:
		cfg.Port = 5000
		cfg.Timeout = 5 * time.Second
	}
	return cfg
}

// URL is the WebSocket endpoint, e.g. ws://localhost:5018/ws.
func (p Probe) URL() string {
	return fmt.Sprintf("ws://%s%s", net.JoinHostPort(p.Host, strconv.Itoa(p.Port)), p.Path)
}

// Load reads .env (if present) and the process environment.
func Load(v Variant) (Probe, error) {
	if err := loadDotenv(); err != nil {
		return Probe{}, err
	}
	cfg := Defaults(v)
	if err := env.Parse(&cfg); err != nil {
		return Probe{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// LoadFrom is Load against an explicit environment, no .env lookup.
func LoadFrom(v Variant, environ map[string]string) (Probe, error) {
	cfg := Defaults(v)
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return Probe{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Arena configures the local mock arena server.
type Arena struct {
	Addr      string        `env:"MOCK_ARENA_ADDR"      envDefault:":5018"`
	Interval  time.Duration `env:"MOCK_ARENA_INTERVAL"  envDefault:"200ms"`
	Seed      int64         `env:"MOCK_ARENA_SEED"      envDefault:"0"`
	HoldOpen  bool          `env:"MOCK_ARENA_HOLD_OPEN" envDefault:"false"`
	LogLevel  string        `env:"LOG_LEVEL"            envDefault:"info"`
	LogFormat string        `env:"LOG_FORMAT"           envDefault:"console"`
}

func LoadArena() (Arena, error) {
	if err := loadDotenv(); err != nil {
		return Arena{}, err
	}
	var cfg Arena
	if err := env.Parse(&cfg); err != nil {
		return Arena{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func loadDotenv() error {
	// godotenv never overrides variables that are already set
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}
