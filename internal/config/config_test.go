package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "STORE_DRIVER", "MONGODB_URL", "DB_NAME",
		"COLLECTION_NAME", "TABLE_PREFIX", "AGENT_PROVIDER", "AGENT_TIMEOUT", "SESSION_TTL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.StoreDriver != "mongo" {
		t.Errorf("StoreDriver = %q, want mongo", cfg.StoreDriver)
	}
	if cfg.DatabaseName != "tripmitra" || cfg.CollectionName != "preferences" {
		t.Errorf("database/collection = %q/%q, want tripmitra/preferences", cfg.DatabaseName, cfg.CollectionName)
	}
	if cfg.TablePrefix != "dev_" {
		t.Errorf("TablePrefix = %q, want dev_", cfg.TablePrefix)
	}
	if cfg.AgentProvider != "gemini" {
		t.Errorf("AgentProvider = %q, want gemini", cfg.AgentProvider)
	}
	if cfg.AgentTimeout != 60*time.Second {
		t.Errorf("AgentTimeout = %v, want 60s", cfg.AgentTimeout)
	}
	if cfg.SessionMaxTurns != 20 {
		t.Errorf("SessionMaxTurns = %d, want 20", cfg.SessionMaxTurns)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL = %v, want 24h", cfg.SessionTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "prod")
	t.Setenv("TABLE_PREFIX", "")
	t.Setenv("AGENT_TIMEOUT", "15s")
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("GOOGLE_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "gemini-key")

	cfg := Load()

	if cfg.TablePrefix != "prod_" {
		t.Errorf("TablePrefix = %q, want prod_", cfg.TablePrefix)
	}
	if cfg.AgentTimeout != 15*time.Second {
		t.Errorf("AgentTimeout = %v, want 15s", cfg.AgentTimeout)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("invalid SESSION_TTL should fall back to default, got %v", cfg.SessionTTL)
	}
	if cfg.GoogleAPIKey != "gemini-key" {
		t.Errorf("GoogleAPIKey = %q, want fallback to GEMINI_API_KEY", cfg.GoogleAPIKey)
	}
}
