package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/AlexZinkM/mantra-vault/internal/crypto"
	"github.com/AlexZinkM/mantra-vault/internal/model"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// envPrefix is prepended to every variable name: VAULT_DIR is read from MANTRA_VAULT_DIR
const envPrefix = "MANTRA"

// DefaultVaultSubdir is the vault location relative to the user's home directory
const DefaultVaultSubdir = ".mantra_dex/wallets"

// Config contains all configuration parameters for the application.
// Passwords are never part of the configuration; they are prompted at runtime.
type Config struct {
	VaultDir          string `envconfig:"VAULT_DIR"`
	LogLevel          string `envconfig:"LOG_LEVEL" default:"info"`
	ListenAddr        string `envconfig:"LISTEN_ADDR" default:"127.0.0.1:8080"`
	MaxUnlockAttempts int    `envconfig:"MAX_UNLOCK_ATTEMPTS" default:"3"`
	LockoutSeconds    int    `envconfig:"LOCKOUT_SECONDS" default:"30"`
	KDF               string `envconfig:"KDF" default:"argon2id"`
}

// cfg is the global configuration instance
var cfg *Config

// Init loads configuration from a .env file (if any) and environment variables.
func Init() error {
	c, err := Load()
	if err != nil {
		return err
	}
	cfg = c
	return nil
}

// Load reads the configuration without touching the global instance
func Load() (*Config, error) {
	// .env is optional; real environment variables take precedence over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	c := &Config{}
	if err := envconfig.Process(envPrefix, c); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if c.VaultDir == "" {
		dir, err := DefaultVaultDir()
		if err != nil {
			return nil, err
		}
		c.VaultDir = dir
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the values that envconfig cannot
func (c *Config) Validate() error {
	if c.MaxUnlockAttempts < 1 {
		return fmt.Errorf("%s_MAX_UNLOCK_ATTEMPTS must be at least 1", envPrefix)
	}
	if c.LockoutSeconds < 1 {
		return fmt.Errorf("%s_LOCKOUT_SECONDS must be at least 1", envPrefix)
	}
	if _, err := c.KDFParams(); err != nil {
		return err
	}
	return nil
}

// Get returns the global configuration instance.
// Panics if Init() was not called.
func Get() *Config {
	if cfg == nil {
		panic("config not initialized, call Init() first")
	}
	return cfg
}

// DefaultVaultDir returns ~/.mantra_dex/wallets
func DefaultVaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, DefaultVaultSubdir), nil
}

// LockoutDuration returns the lockout as a duration
func (c *Config) LockoutDuration() time.Duration {
	return time.Duration(c.LockoutSeconds) * time.Second
}

// KDFParams maps the KDF name to the parameters used for new wallets
func (c *Config) KDFParams() (model.KDFParams, error) {
	switch c.KDF {
	case model.KDFArgon2id, "":
		return crypto.DefaultKDFParams(), nil
	case model.KDFScrypt:
		return crypto.ScryptKDFParams(), nil
	default:
		return model.KDFParams{}, fmt.Errorf("%s_KDF: unsupported kdf %q (use %s or %s)", envPrefix, c.KDF, model.KDFArgon2id, model.KDFScrypt)
	}
}

// GetVaultDir returns the vault directory from configuration
func GetVaultDir() string {
	return Get().VaultDir
}

// GetListenAddr returns the HTTP listen address from configuration
func GetListenAddr() string {
	return Get().ListenAddr
}

// GetLogLevel returns the log level from configuration
func GetLogLevel() string {
	return Get().LogLevel
}
