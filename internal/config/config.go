// Package config provides configuration for the ledger server and client.
// It loads an optional YAML file, then .env, then environment variables;
// later sources override earlier ones.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Defaults applied when no source sets a value.
const (
	DefaultConnectionString = "bolt://./data/ledger.db"
	DefaultListenPort       = 5000
	DefaultAPIBaseURL       = "http://localhost:5000"
	DefaultKafkaTopic       = "ledger.entries"
	DefaultLogLevel         = "info"
)

// Config is built once at startup and passed into constructors.
type Config struct {
	ConnectionString string   `yaml:"connectionString"` // where entries persist
	ListenPort       int      `yaml:"listenPort"`       // server bind port
	APIBaseURL       string   `yaml:"apiBaseUrl"`       // client's backend address
	KafkaBrokers     []string `yaml:"kafkaBrokers"`     // empty disables events
	KafkaTopic       string   `yaml:"kafkaTopic"`
	LogLevel         string   `yaml:"logLevel"`
	CORSOrigins      []string `yaml:"corsOrigins"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ConnectionString: DefaultConnectionString,
		ListenPort:       DefaultListenPort,
		APIBaseURL:       DefaultAPIBaseURL,
		KafkaTopic:       DefaultKafkaTopic,
		LogLevel:         DefaultLogLevel,
		CORSOrigins:      []string{"*"},
	}
}

// Load reads configuration. envPath optionally names a .env file; without it
// ./.env is loaded if present. A YAML file is read from LEDGER_CONFIG_FILE.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		// Try to load .env from current directory (ignore error if not found)
		_ = godotenv.Load()
	}

	cfg := Default()

	if path := os.Getenv("LEDGER_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.mergeEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if file.ConnectionString != "" {
		c.ConnectionString = file.ConnectionString
	}
	if file.ListenPort != 0 {
		c.ListenPort = file.ListenPort
	}
	if file.APIBaseURL != "" {
		c.APIBaseURL = file.APIBaseURL
	}
	if len(file.KafkaBrokers) > 0 {
		c.KafkaBrokers = file.KafkaBrokers
	}
	if file.KafkaTopic != "" {
		c.KafkaTopic = file.KafkaTopic
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if len(file.CORSOrigins) > 0 {
		c.CORSOrigins = file.CORSOrigins
	}
	return nil
}

func (c *Config) mergeEnv() error {
	// MONGO_URI is what earlier deployments of the ledger set
	if v := firstEnv("LEDGER_DB_URL", "MONGO_URI"); v != "" {
		c.ConnectionString = v
	}

	port, err := parseIntEnv("PORT", c.ListenPort)
	if err != nil {
		return err
	}
	c.ListenPort = port

	c.APIBaseURL = getEnvOrDefault("LEDGER_API_URL", c.APIBaseURL)
	c.KafkaBrokers = getEnvSlice("KAFKA_BROKERS", c.KafkaBrokers)
	c.KafkaTopic = getEnvOrDefault("KAFKA_TOPIC", c.KafkaTopic)
	c.LogLevel = getEnvOrDefault("LOG_LEVEL", c.LogLevel)
	c.CORSOrigins = getEnvSlice("CORS_ORIGINS", c.CORSOrigins)
	return nil
}

// Validate checks the fields the server cannot start without.
func (c *Config) Validate() error {
	var problems []string
	if strings.TrimSpace(c.ConnectionString) == "" {
		problems = append(problems, "connectionString is empty")
	}
	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		problems = append(problems, fmt.Sprintf("listenPort %d out of range", c.ListenPort))
	}
	if strings.TrimSpace(c.APIBaseURL) == "" {
		problems = append(problems, "apiBaseUrl is empty")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// ListenAddr is the address the HTTP server binds.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.ListenPort)
}

// EventsEnabled reports whether a kafka publisher should be started.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}
