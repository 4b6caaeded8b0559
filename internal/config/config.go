package config

import (
	"path/filepath"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Knowledge KnowledgeConfig
	Agent     AgentConfig
	API       APIConfig
	Log       LogConfig
}

type ServerConfig struct {
	Port    int
	MCPPort int
}

type StorageConfig struct {
	// DataDir is the root for session artifacts; conversations/ and leads/
	// live directly under it. Defaults to the working directory.
	DataDir string
}

type KnowledgeConfig struct {
	// Path to the static catalog JSON.
	Path string
}

type AgentConfig struct {
	// Source labels saved leads with the assistant that captured them.
	Source string
}

type APIConfig struct {
	// Token guards the management HTTP API when set; empty disables auth
	// (the server only binds loopback).
	Token string
}

type LogConfig struct {
	Level string
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:    4600,
			MCPPort: 4601,
		},
		Storage: StorageConfig{
			DataDir: ".",
		},
		Knowledge: KnowledgeConfig{
			Path: filepath.Join("data", "triotech_content.json"),
		},
		Agent: AgentConfig{
			Source: "Friday AI Assistant",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ConversationsDir is where per-session conversation logs are written.
func (c Config) ConversationsDir() string {
	return filepath.Join(c.Storage.DataDir, "conversations")
}

// LeadsDir is where per-lead files are written.
func (c Config) LeadsDir() string {
	return filepath.Join(c.Storage.DataDir, "leads")
}

// Load reads configuration in increasing precedence: defaults, the JSON file
// backend at $XDG_CONFIG_HOME/friday/config.json, then FRIDAY_* environment
// variables. A .env file in the working directory is loaded first so local
// deployments can keep everything in one place.
func Load() (Config, error) {
	_ = godotenv.Load()
	return loadWith(newFileBackend())
}

func loadWith(b Backend) (Config, error) {
	cfg := defaults()
	if err := applyBackend(&cfg, b); err != nil {
		return Config{}, err
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}
