package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

// DefaultScope is the Azure Databricks resource audience for the
// client-credentials exchange.
const DefaultScope = "2ff814a6-3304-4ab8-85cb-cd0e6f879c1d/.default"

// Config carries everything one bootstrap run needs. It is built once at
// startup and passed down explicitly; nothing in this module reads the
// environment after Load returns.
type Config struct {
	// Control plane / identity provider
	WorkspaceURL string
	TenantID     string
	ClientID     string
	ClientSecret string
	Scope        string
	AuthorityURL string // overrides the login.microsoftonline.com authority, tests only

	// Target database
	InstanceName string
	Database     string
	Username     string
	SSLMode      string

	// Timeouts
	HTTPTimeout time.Duration
	FlowTimeout time.Duration

	// HTTP API server
	ServerPort int
	APIToken   string
}

// Load reads configuration from the environment (a .env file is honored via
// godotenv autoload). Secret values are kept in memory only.
func Load() (*Config, error) {
	cfg := &Config{
		WorkspaceURL: os.Getenv("DATABRICKS_HOST"),
		TenantID:     os.Getenv("AZURE_TENANT_ID"),
		ClientID:     os.Getenv("DATABRICKS_CLIENT_ID"),
		ClientSecret: os.Getenv("DATABRICKS_CLIENT_SECRET"),
		Scope:        os.Getenv("DATABRICKS_SCOPE"),
		AuthorityURL: os.Getenv("AZURE_AUTHORITY_URL"),
		InstanceName: os.Getenv("LAKEBASE_INSTANCE"),
		Database:     os.Getenv("DB_DATABASE"),
		Username:     os.Getenv("DB_USERNAME"),
		SSLMode:      os.Getenv("DB_SSL_MODE"),
		APIToken:     os.Getenv("API_TOKEN"),
	}

	if cfg.WorkspaceURL == "" {
		return nil, fmt.Errorf("DATABRICKS_HOST environment variable is required")
	}
	if cfg.TenantID == "" {
		return nil, fmt.Errorf("AZURE_TENANT_ID environment variable is required")
	}
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("DATABRICKS_CLIENT_ID environment variable is required")
	}
	if cfg.ClientSecret == "" {
		return nil, fmt.Errorf("DATABRICKS_CLIENT_SECRET environment variable is required")
	}
	if cfg.InstanceName == "" {
		return nil, fmt.Errorf("LAKEBASE_INSTANCE environment variable is required")
	}
	if cfg.Username == "" {
		return nil, fmt.Errorf("DB_USERNAME environment variable is required")
	}

	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}
	if cfg.Database == "" {
		cfg.Database = "databricks_postgres"
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "require"
	}

	var err error
	if cfg.HTTPTimeout, err = durationEnv("HTTP_TIMEOUT", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.FlowTimeout, err = durationEnv("FLOW_TIMEOUT", 60*time.Second); err != nil {
		return nil, err
	}
	if cfg.ServerPort, err = intEnv("PORT", 8080); err != nil {
		return nil, err
	}

	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return d, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return n, nil
}
