package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Environment variables recognized by the server.
const (
	envAPIKey         = "NEXUS_DASH_API_KEY"
	envAPIKeyFallback = "GEMINI_API_KEY"
	envBaseURL        = "NEXUS_DASH_BASE_URL"
	envChatModel      = "NEXUS_DASH_CHAT_MODEL"
	envOptimizerModel = "NEXUS_DASH_OPTIMIZER_MODEL"
	envDataDir        = "NEXUS_DASH_DATA_DIR"
	envPort           = "NEXUS_DASH_PORT"
)

// Config holds the resolved server configuration.
type Config struct {
	Host           string
	Port           int
	DataDir        string
	APIKey         string
	BaseURL        string
	ChatModel      string
	OptimizerModel string
}

// Load resolves configuration from the environment. Flag values passed by
// the caller take precedence over env vars; zero values fall back to env
// then defaults. The API key may legitimately be empty here: its absence is
// reported by the gateway on first use, not at startup.
func Load(host string, port int, dataDir string) (Config, error) {
	cfg := Config{
		Host:           host,
		Port:           port,
		DataDir:        dataDir,
		APIKey:         apiKeyFromEnv(),
		BaseURL:        strings.TrimSpace(os.Getenv(envBaseURL)),
		ChatModel:      strings.TrimSpace(os.Getenv(envChatModel)),
		OptimizerModel: strings.TrimSpace(os.Getenv(envOptimizerModel)),
	}

	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port <= 0 {
		cfg.Port = portFromEnv(8000)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = strings.TrimSpace(os.Getenv(envDataDir))
	}
	if cfg.DataDir == "" {
		dir, err := defaultDataDir()
		if err != nil {
			return Config{}, err
		}
		cfg.DataDir = dir
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func apiKeyFromEnv() string {
	if key := strings.TrimSpace(os.Getenv(envAPIKey)); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv(envAPIKeyFallback))
}

func portFromEnv(fallback int) int {
	value := strings.TrimSpace(os.Getenv(envPort))
	if value == "" {
		return fallback
	}
	port, err := strconv.Atoi(value)
	if err != nil || port <= 0 {
		return fallback
	}
	return port
}

func defaultDataDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		home, homeErr := os.UserHomeDir()
		if homeErr != nil {
			return "", homeErr
		}
		return filepath.Join(home, ".config", "nexusdash"), nil
	}
	return filepath.Join(configDir, "nexusdash"), nil
}

// LogDir returns the directory for rotating log files.
func (c Config) LogDir() string {
	return filepath.Join(c.DataDir, "logs")
}
