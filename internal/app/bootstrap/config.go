package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the resolved runtime configuration.
// It merges file defaults and environment overrides to support both local and deployed runs.
type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL string
	RedisURL    string

	TokenSecret     string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	PublicPaths     []string

	BcryptCost      int
	FailedThreshold int
	LockoutDuration time.Duration
	DefaultRole     string

	MaxDBConns int32
}

// configFile mirrors the YAML schema used by configs/default.yaml.
// It is intentionally separate from Config so runtime-only fields stay internal.
type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL string `yaml:"postgres_url"`
		RedisURL    string `yaml:"redis_url"`
	} `yaml:"dependencies"`
	Token struct {
		Secret            string `yaml:"secret"`
		AccessTTLSeconds  int    `yaml:"access_ttl_seconds"`
		RefreshTTLSeconds int    `yaml:"refresh_ttl_seconds"`
	} `yaml:"token"`
	Security struct {
		PublicPaths          []string `yaml:"public_paths"`
		BcryptCost           int      `yaml:"bcrypt_cost"`
		FailedLoginThreshold int      `yaml:"failed_login_threshold"`
		LockoutMinutes       int      `yaml:"lockout_minutes"`
		DefaultRole          string   `yaml:"default_role"`
	} `yaml:"security"`
}

// LoadConfig resolves configuration in priority order: defaults -> file -> env.
// This order keeps local bootstrap simple while allowing environment-specific overrides.
// The signing secret has no default; token issuance fails at startup without one.
func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:       "identity-service",
		HTTPPort:        8080,
		GRPCPort:        9090,
		AccessTokenTTL:  time.Hour,
		RefreshTokenTTL: 7 * 24 * time.Hour,
		PublicPaths:     []string{"/auth/v1/**", "/healthz", "/readyz"},
		BcryptCost:      12,
		FailedThreshold: 5,
		LockoutDuration: 30 * time.Minute,
		DefaultRole:     "ROLE_USER",
		MaxDBConns:      20,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if f.Token.Secret != "" {
			cfg.TokenSecret = f.Token.Secret
		}
		if f.Token.AccessTTLSeconds > 0 {
			cfg.AccessTokenTTL = time.Duration(f.Token.AccessTTLSeconds) * time.Second
		}
		if f.Token.RefreshTTLSeconds > 0 {
			cfg.RefreshTokenTTL = time.Duration(f.Token.RefreshTTLSeconds) * time.Second
		}
		if len(f.Security.PublicPaths) > 0 {
			cfg.PublicPaths = f.Security.PublicPaths
		}
		if f.Security.BcryptCost > 0 {
			cfg.BcryptCost = f.Security.BcryptCost
		}
		if f.Security.FailedLoginThreshold > 0 {
			cfg.FailedThreshold = f.Security.FailedLoginThreshold
		}
		if f.Security.LockoutMinutes > 0 {
			cfg.LockoutDuration = time.Duration(f.Security.LockoutMinutes) * time.Minute
		}
		if f.Security.DefaultRole != "" {
			cfg.DefaultRole = f.Security.DefaultRole
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.TokenSecret = envOrDefault("TOKEN_SECRET", cfg.TokenSecret)
	cfg.PublicPaths = envCSV("PUBLIC_PATHS", cfg.PublicPaths)
	cfg.DefaultRole = envOrDefault("DEFAULT_ROLE", cfg.DefaultRole)

	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.BcryptCost = envInt("BCRYPT_ROUNDS", cfg.BcryptCost)
	cfg.FailedThreshold = envInt("FAILED_LOGIN_THRESHOLD", cfg.FailedThreshold)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))

	cfg.AccessTokenTTL = time.Duration(envInt("ACCESS_TOKEN_TTL_SECONDS", int(cfg.AccessTokenTTL.Seconds()))) * time.Second
	cfg.RefreshTokenTTL = time.Duration(envInt("REFRESH_TOKEN_TTL_SECONDS", int(cfg.RefreshTokenTTL.Seconds()))) * time.Second
	cfg.LockoutDuration = time.Duration(envInt("ACCOUNT_LOCKOUT_MINUTES", int(cfg.LockoutDuration.Minutes()))) * time.Minute

	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("missing DB_URL/POSTGRES_URL")
	}
	if cfg.RedisURL == "" {
		return Config{}, fmt.Errorf("missing REDIS_URL")
	}

	return cfg, nil
}

// envOrDefault returns an env var when present, otherwise the provided fallback.
func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

// envInt parses integer env vars with safe fallback on empty/invalid values.
func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

// envCSV parses comma-separated env vars and removes empty segments.
func envCSV(name string, fallback []string) []string {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	parts := make([]string, 0)
	for _, part := range strings.Split(raw, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parts = append(parts, trimmed)
	}
	if len(parts) == 0 {
		return fallback
	}
	return parts
}
