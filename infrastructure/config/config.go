package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	domainconfig "semnet/domain/config"
	"semnet/domain/core/valueobjects"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// ConfigPathEnv names the environment variable holding the optional YAML file
const ConfigPathEnv = "SEMNET_CONFIG"

// Preset store kinds
const (
	StoreFile     = "file"
	StoreBadger   = "badger"
	StoreDynamoDB = "dynamodb"
)

// Event publisher kinds
const (
	PublisherLog         = "log"
	PublisherEventBridge = "eventbridge"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress   string        `yaml:"server_address"`
	Environment     string        `yaml:"environment"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Logging
	LogLevel string `yaml:"log_level"`

	// Preset storage
	PresetStore       string `yaml:"preset_store"`
	PresetsDir        string `yaml:"presets_dir"`
	BadgerDir         string `yaml:"badger_dir"`
	BadgerInMemory    bool   `yaml:"badger_in_memory"`
	LoadDefaultPreset bool   `yaml:"load_default_preset"`

	// AWS configuration
	AWSRegion     string `yaml:"aws_region"`
	DynamoDBTable string `yaml:"dynamodb_table"`
	EventBusName  string `yaml:"event_bus_name"`

	// Event publishing
	Publisher string `yaml:"publisher"`

	// Inference rules
	IsARelation          string `yaml:"is_a_relation"`
	DefaultNodeColor     string `yaml:"default_node_color"`
	AllowSelfPropagation bool   `yaml:"allow_self_propagation"`

	// Feature flags
	EnableMetrics        bool     `yaml:"enable_metrics"`
	EnableTracing        bool     `yaml:"enable_tracing"`
	TracingEndpoint      string   `yaml:"tracing_endpoint"`
	EnableCORS           bool     `yaml:"enable_cors"`
	CORSOrigins          []string `yaml:"cors_origins"`
	EnableCircuitBreaker bool     `yaml:"enable_circuit_breaker"`

	// Source is the YAML file the configuration was read from, if any
	Source string `yaml:"-"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	domain := domainconfig.DefaultDomainConfig()
	return &Config{
		ServerAddress:        ":8080",
		Environment:          "development",
		ShutdownTimeout:      10 * time.Second,
		LogLevel:             "info",
		PresetStore:          StoreFile,
		PresetsDir:           "./presets",
		BadgerDir:            "./data/presets",
		LoadDefaultPreset:    true,
		AWSRegion:            "us-west-2",
		DynamoDBTable:        "semnet-presets",
		EventBusName:         "semnet-events",
		Publisher:            PublisherLog,
		IsARelation:          domain.IsARelation.String(),
		DefaultNodeColor:     domain.DefaultNodeColor,
		AllowSelfPropagation: domain.AllowSelfPropagation,
		EnableMetrics:        true,
		TracingEndpoint:      "localhost:4317",
		EnableCORS:           true,
		CORSOrigins:          []string{"*"},
		EnableCircuitBreaker: true,
	}
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by SEMNET_CONFIG and environment variables, in that order.
func LoadConfig() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.loadEnvironment()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load is an alias for LoadConfig
func Load() (*Config, error) {
	return LoadConfig()
}

// LoadFile reads a YAML file over the defaults without consulting the environment
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	c.Source = path
	return nil
}

func (c *Config) loadEnvironment() {
	c.ServerAddress = getEnv("SERVER_ADDRESS", c.ServerAddress)
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.PresetStore = getEnv("PRESET_STORE", c.PresetStore)
	c.PresetsDir = getEnv("PRESETS_DIR", c.PresetsDir)
	c.BadgerDir = getEnv("BADGER_DIR", c.BadgerDir)
	c.BadgerInMemory = getEnvBool("BADGER_IN_MEMORY", c.BadgerInMemory)
	c.LoadDefaultPreset = getEnvBool("LOAD_DEFAULT_PRESET", c.LoadDefaultPreset)

	c.AWSRegion = getEnv("AWS_REGION", c.AWSRegion)
	c.DynamoDBTable = getEnv("TABLE_NAME", getEnv("DYNAMODB_TABLE", c.DynamoDBTable))
	c.EventBusName = getEnv("EVENT_BUS_NAME", c.EventBusName)
	c.Publisher = getEnv("EVENT_PUBLISHER", c.Publisher)

	c.IsARelation = getEnv("IS_A_RELATION", c.IsARelation)
	c.DefaultNodeColor = getEnv("DEFAULT_NODE_COLOR", c.DefaultNodeColor)
	c.AllowSelfPropagation = getEnvBool("ALLOW_SELF_PROPAGATION", c.AllowSelfPropagation)

	c.EnableMetrics = getEnvBool("ENABLE_METRICS", c.EnableMetrics)
	c.EnableTracing = getEnvBool("ENABLE_TRACING", c.EnableTracing)
	c.TracingEndpoint = getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", c.TracingEndpoint)
	c.EnableCORS = getEnvBool("ENABLE_CORS", c.EnableCORS)
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORSOrigins = strings.Split(origins, ",")
	}
	c.EnableCircuitBreaker = getEnvBool("ENABLE_CIRCUIT_BREAKER", c.EnableCircuitBreaker)
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", c.LogLevel, err)
	}

	switch c.PresetStore {
	case StoreFile:
		if c.PresetsDir == "" {
			return fmt.Errorf("PRESETS_DIR is required for the file preset store")
		}
	case StoreBadger:
		if c.BadgerDir == "" && !c.BadgerInMemory {
			return fmt.Errorf("BADGER_DIR is required for the badger preset store")
		}
	case StoreDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("DYNAMODB_TABLE is required for the dynamodb preset store")
		}
	default:
		return fmt.Errorf("unknown PRESET_STORE %q", c.PresetStore)
	}

	switch c.Publisher {
	case PublisherLog:
	case PublisherEventBridge:
		if c.EventBusName == "" {
			return fmt.Errorf("EVENT_BUS_NAME is required for the eventbridge publisher")
		}
	default:
		return fmt.Errorf("unknown EVENT_PUBLISHER %q", c.Publisher)
	}

	if c.IsARelation == "" {
		return fmt.Errorf("IS_A_RELATION must not be empty")
	}

	return nil
}

// Level returns the configured log level
func (c *Config) Level() zapcore.Level {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return level
}

// DomainConfig returns the inference rules as a domain configuration
func (c *Config) DomainConfig() *domainconfig.DomainConfig {
	return &domainconfig.DomainConfig{
		IsARelation:          valueobjects.RelationKind(c.IsARelation),
		DefaultNodeColor:     c.DefaultNodeColor,
		AllowSelfPropagation: c.AllowSelfPropagation,
	}
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}

// getEnvDuration accepts Go durations ("5s") or plain seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
