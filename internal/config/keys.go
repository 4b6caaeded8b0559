package config

import (
	"fmt"
	"os"
	"strconv"
)

type keyType int

const (
	kString keyType = iota
	kInt
)

type keySpec struct {
	key   string
	typ   keyType
	env   string
	apply func(cfg *Config, v any)
}

var specs = []keySpec{
	{
		key: "server.port", typ: kInt, env: "FRIDAY_SERVER_PORT",
		apply: func(cfg *Config, v any) { cfg.Server.Port = v.(int) },
	},
	{
		key: "server.mcp_port", typ: kInt, env: "FRIDAY_SERVER_MCP_PORT",
		apply: func(cfg *Config, v any) { cfg.Server.MCPPort = v.(int) },
	},
	{
		key: "storage.data_dir", typ: kString, env: "FRIDAY_STORAGE_DATA_DIR",
		apply: func(cfg *Config, v any) { cfg.Storage.DataDir = v.(string) },
	},
	{
		key: "knowledge.path", typ: kString, env: "FRIDAY_KNOWLEDGE_PATH",
		apply: func(cfg *Config, v any) { cfg.Knowledge.Path = v.(string) },
	},
	{
		key: "agent.source", typ: kString, env: "FRIDAY_AGENT_SOURCE",
		apply: func(cfg *Config, v any) { cfg.Agent.Source = v.(string) },
	},
	{
		key: "api.token", typ: kString, env: "FRIDAY_API_TOKEN",
		apply: func(cfg *Config, v any) { cfg.API.Token = v.(string) },
	},
	{
		key: "log.level", typ: kString, env: "FRIDAY_LOG_LEVEL",
		apply: func(cfg *Config, v any) { cfg.Log.Level = v.(string) },
	},
}

func applyBackend(cfg *Config, b Backend) error {
	for _, s := range specs {
		switch s.typ {
		case kString:
			v, ok, err := b.GetString(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		case kInt:
			v, ok, err := b.GetInt(s.key)
			if err != nil {
				return fmt.Errorf("reading %s: %w", s.key, err)
			}
			if ok {
				s.apply(cfg, v)
			}
		}
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	for _, s := range specs {
		raw := os.Getenv(s.env)
		if raw == "" {
			continue
		}
		switch s.typ {
		case kString:
			s.apply(cfg, raw)
		case kInt:
			if i, err := strconv.Atoi(raw); err == nil {
				s.apply(cfg, i)
			} else {
				fmt.Fprintf(os.Stderr, "[WARN] could not parse integer from env var %s=%q: %v. Using default value.\n", s.env, raw, err)
			}
		}
	}
}
