package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Extractor types selectable via configuration
const (
	ExtractorDocAI = "docai"
	ExtractorLocal = "local"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	DocAI     DocAIConfig
	Extractor ExtractorConfig
	Catalog   CatalogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DocAIConfig holds Google Document AI processor configuration
type DocAIConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	ProjectID       string `mapstructure:"project_id"`
	Location        string `mapstructure:"location"`
	ProcessorID     string `mapstructure:"processor_id"`
	AccessToken     string `mapstructure:"access_token"`
	RequestsPerHour int    `mapstructure:"requests_per_hour"`
}

// ExtractorConfig selects the text-extraction collaborator
type ExtractorConfig struct {
	Type string `mapstructure:"type"` // "docai" or "local"
}

// CatalogConfig holds rule-catalog persistence configuration
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/riddaudit/")

	// Environment variable settings
	v.SetEnvPrefix("RIDDAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Document AI defaults
	v.SetDefault("docai.endpoint", "https://us-documentai.googleapis.com")
	v.SetDefault("docai.location", "us")
	v.SetDefault("docai.requests_per_hour", 120)

	// Extractor defaults: local extraction needs no cloud credentials
	v.SetDefault("extractor.type", ExtractorLocal)

	// Catalog defaults
	v.SetDefault("catalog.path", "products.json")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Extractor.Type != ExtractorDocAI && config.Extractor.Type != ExtractorLocal {
		return fmt.Errorf("extractor type must be 'docai' or 'local', got: %s", config.Extractor.Type)
	}

	if config.Extractor.Type == ExtractorDocAI {
		if config.DocAI.ProjectID == "" {
			return fmt.Errorf("Document AI project ID is required (set RIDDAUDIT_DOCAI_PROJECT_ID)")
		}
		if config.DocAI.ProcessorID == "" {
			return fmt.Errorf("Document AI processor ID is required (set RIDDAUDIT_DOCAI_PROCESSOR_ID)")
		}
		if config.DocAI.AccessToken == "" {
			return fmt.Errorf("Document AI access token is required (set RIDDAUDIT_DOCAI_ACCESS_TOKEN)")
		}
	}

	if config.Catalog.Path == "" {
		return fmt.Errorf("catalog path is required")
	}

	return nil
}
