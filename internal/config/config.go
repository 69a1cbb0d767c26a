package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	DatabaseURI     string
	GatewayAddress  string
	WebhookSecret   string
	GracePeriod     time.Duration
	SendCooldown    time.Duration
	PixGateRule     string
	PixKey          string
	PixKeyOwner     string
	StoreName       string
	ShutdownTimeout time.Duration
}

const (
	defaultRunAddress      = ":8080"
	defaultGracePeriod     = 10 * time.Minute
	defaultSendCooldown    = 5 * time.Minute
	defaultPixGateRule     = "pix-or-unknown"
	defaultStoreName       = "AquaFit Brasil"
	defaultShutdownTimeout = 10 * time.Second
)

// Load parses configuration from an optional .env file, environment
// variables, and flags.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		GatewayAddress:  getString(lookup, "GATEWAY_ADDRESS", ""),
		WebhookSecret:   getString(lookup, "WEBHOOK_SECRET", ""),
		GracePeriod:     getDuration(lookup, "GRACE_PERIOD", defaultGracePeriod),
		SendCooldown:    getDuration(lookup, "SEND_COOLDOWN", defaultSendCooldown),
		PixGateRule:     getString(lookup, "PIX_GATE_RULE", defaultPixGateRule),
		PixKey:          getString(lookup, "PIX_KEY", ""),
		PixKeyOwner:     getString(lookup, "PIX_KEY_OWNER", ""),
		StoreName:       getString(lookup, "STORE_NAME", defaultStoreName),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("pixreminder", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		gracePeriodStr     = cfg.GracePeriod.String()
		sendCooldownStr    = cfg.SendCooldown.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.GatewayAddress, "g", cfg.GatewayAddress, "Messaging gateway base URL")
	fs.StringVar(&cfg.PixGateRule, "gate-rule", cfg.PixGateRule, "Payment method gate: pix-or-unknown or pix-only")
	fs.StringVar(&cfg.PixKey, "pix-key", cfg.PixKey, "Pix key interpolated into reminder messages")
	fs.StringVar(&cfg.PixKeyOwner, "pix-key-owner", cfg.PixKeyOwner, "Legal name of the Pix key holder")
	fs.StringVar(&cfg.StoreName, "store-name", cfg.StoreName, "Store name interpolated into reminder messages")
	fs.StringVar(&gracePeriodStr, "grace-period", gracePeriodStr, "Delay before an unpaid order gets a reminder")
	fs.StringVar(&sendCooldownStr, "send-cooldown", sendCooldownStr, "Minimum delay between outbound messages")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.GracePeriod, err = time.ParseDuration(gracePeriodStr); err != nil {
		return nil, fmt.Errorf("invalid grace period: %w", err)
	}

	if cfg.SendCooldown, err = time.ParseDuration(sendCooldownStr); err != nil {
		return nil, fmt.Errorf("invalid send cooldown: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if secretFile, ok := lookup("WEBHOOK_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read webhook secret file: %w", err)
		}
		cfg.WebhookSecret = string(content)
	}

	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = defaultGracePeriod
	}

	if cfg.SendCooldown <= 0 {
		cfg.SendCooldown = defaultSendCooldown
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	if cfg.GatewayAddress == "" {
		return nil, fmt.Errorf("messaging gateway address must be provided")
	}

	if cfg.PixKey == "" {
		return nil, fmt.Errorf("pix key must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
