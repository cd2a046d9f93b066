package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quizwire/quizwire/internal/transport"
)

// Config holds the demo client's settings. Values come from an optional
// YAML file, overridden by environment variables.
type Config struct {
	ServerURL  string `yaml:"server_url"`
	PlayerName string `yaml:"player_name"`
	LogLevel   string `yaml:"log_level"`
	Transport  string `yaml:"transport"` // "websocket" or "nats"

	NATS struct {
		URL            string `yaml:"url"`
		EventSubject   string `yaml:"event_subject"`
		CommandSubject string `yaml:"command_subject"`
	} `yaml:"nats"`
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func loadConfig() (*Config, error) {
	config := &Config{}

	if path := os.Getenv("QUIZWIRE_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	defaultNATS := transport.DefaultNATSConfig()

	config.ServerURL = getEnv("QUIZWIRE_SERVER_URL", orDefault(config.ServerURL, "http://localhost:8080"))
	config.PlayerName = getEnv("QUIZWIRE_PLAYER_NAME", config.PlayerName)
	config.LogLevel = getEnv("QUIZWIRE_LOG_LEVEL", orDefault(config.LogLevel, "info"))
	config.Transport = getEnv("QUIZWIRE_TRANSPORT", orDefault(config.Transport, "websocket"))
	config.NATS.URL = getEnv("QUIZWIRE_NATS_URL", orDefault(config.NATS.URL, defaultNATS.URL))
	config.NATS.EventSubject = getEnv("QUIZWIRE_NATS_EVENT_SUBJECT", orDefault(config.NATS.EventSubject, defaultNATS.EventSubject))
	config.NATS.CommandSubject = getEnv("QUIZWIRE_NATS_COMMAND_SUBJECT", orDefault(config.NATS.CommandSubject, defaultNATS.CommandSubject))

	if config.PlayerName == "" {
		return nil, fmt.Errorf("QUIZWIRE_PLAYER_NAME is required")
	}
	return config, nil
}

func orDefault(value, defaultValue string) string {
	if value != "" {
		return value
	}
	return defaultValue
}

func (c *Config) natsConfig() transport.NATSConfig {
	cfg := transport.DefaultNATSConfig()
	cfg.URL = c.NATS.URL
	cfg.EventSubject = c.NATS.EventSubject
	cfg.CommandSubject = c.NATS.CommandSubject
	return cfg
}
