package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	JWTSecret       string        `env:"JWT_SECRET,required,notEmpty"`
	DBDriver        string        `env:"DB_DRIVER" envDefault:"postgres"`
	SQLitePath      string        `env:"SQLITE_PATH" envDefault:"forum.db"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	OTelEndpoint    string        `env:"OTEL_ENDPOINT"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	HealthInterval  time.Duration `env:"HEALTH_INTERVAL" envDefault:"15s"`

	Postgres  PostgresConfig
	GRPC      GRPCConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type PostgresConfig struct {
	Host        string `env:"DB_HOST" envDefault:"localhost"`
	Port        string `env:"DB_PORT" envDefault:"5432"`
	User        string `env:"POSTGRES_USER"`
	Password    string `env:"POSTGRES_PASSWORD"`
	Database    string `env:"POSTGRES_DB"`
	SSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`
	SSLRootCert string `env:"DB_SSLROOTCERT"`
}

func (p PostgresConfig) ConnString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
	if p.SSLRootCert != "" {
		connStr += " sslrootcert=" + p.SSLRootCert
	}
	return connStr
}

type GRPCConfig struct {
	Addr        string `env:"GRPC_ADDR" envDefault:":50051"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`
	CACertFile  string `env:"TLS_CA_FILE"`
}

func (g GRPCConfig) TLSEnabled() bool {
	return g.TLSCertFile != "" && g.TLSKeyFile != ""
}

type CORSConfig struct {
	AllowedOrigins  []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	AllowedSuffixes []string `env:"CORS_ALLOWED_SUFFIXES" envSeparator:","`
}

type RateLimitConfig struct {
	PerSecond float64 `env:"AUTH_RATE_LIMIT" envDefault:"5"`
	Burst     int     `env:"AUTH_RATE_BURST" envDefault:"10"`
	// TrustedProxies lists the IPs or CIDRs whose X-Forwarded-For is believed.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`
}

// Proxies parses TrustedProxies. A bare IP becomes a single-address prefix.
func (r RateLimitConfig) Proxies() ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(r.TrustedProxies))
	for _, raw := range r.TrustedProxies {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		if strings.Contains(raw, "/") {
			p, err := netip.ParsePrefix(raw)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(raw)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", raw, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.DBDriver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	if _, err := cfg.RateLimit.Proxies(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
