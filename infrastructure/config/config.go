package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion    string
	EventsTable  string
	EventBusName string

	// Neo4j knowledge graph
	Neo4jURI      string
	Neo4jUser     string
	Neo4jPassword string
	Neo4jDatabase string

	// Chat model
	GeminiAPIKey string
	GCPProject   string
	GCPLocation  string
	ModelName    string

	// Response agent registry key
	ResponseAgent string

	// Logging and features
	LogLevel   string
	EnableCORS bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),

		AWSRegion:    getEnv("AWS_REGION", "us-west-2"),
		EventsTable:  getEnv("EVENTS_TABLE", "knowledge-chat-events"),
		EventBusName: getEnv("EVENT_BUS_NAME", ""),

		Neo4jURI:      getEnv("NEO4J_URI", "bolt://localhost:7687"),
		Neo4jUser:     getEnv("NEO4J_USER", "neo4j"),
		Neo4jPassword: getEnv("NEO4J_PASSWORD", ""),
		Neo4jDatabase: getEnv("NEO4J_DATABASE", ""),

		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GCPProject:   getEnv("GCP_PROJECT", ""),
		GCPLocation:  getEnv("GCP_LOCATION", ""),
		ModelName:    getEnv("MODEL_NAME", "gemini-2.5-flash"),

		ResponseAgent: getEnv("RESPONSE_AGENT", "kshot"),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks if all required configuration is present
func (c *Config) Validate() error {
	if c.Environment == "production" {
		if c.EventsTable == "" {
			return fmt.Errorf("EVENTS_TABLE is required")
		}
		if c.Neo4jPassword == "" {
			return fmt.Errorf("NEO4J_PASSWORD is required in production")
		}
	}
	if c.GeminiAPIKey == "" && (c.GCPProject == "" || c.GCPLocation == "") {
		return fmt.Errorf("either GEMINI_API_KEY or GCP_PROJECT and GCP_LOCATION must be set")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
