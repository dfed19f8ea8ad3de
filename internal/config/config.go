package config

import "time"

// Config represents the application configuration
type Config struct {
	Database   DatabaseConfig   `toml:"database"`
	LLM        LLMConfig        `toml:"llm"`
	Moderation ModerationConfig `toml:"moderation"`
	Search     SearchConfig     `toml:"search"`
	Log        LogConfig        `toml:"log"`
	MCP        MCPConfig        `toml:"mcp"`
}

// DatabaseConfig contains database settings
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// LLMConfig contains LLM provider settings
type LLMConfig struct {
	Primary        string       `toml:"primary"`
	Fallback       string       `toml:"fallback"`
	TimeoutSeconds int          `toml:"timeout_seconds"`
	Groq           GroqConfig   `toml:"groq"`
	Gemini         GeminiConfig `toml:"gemini"`
}

// Timeout returns the per-request LLM timeout
func (l LLMConfig) Timeout() time.Duration {
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// GroqConfig contains Groq-specific settings
type GroqConfig struct {
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
	// API key is read from GROQ_API_KEY environment variable
}

// GeminiConfig contains Gemini-specific settings
type GeminiConfig struct {
	Model string `toml:"model"`
	// API key is read from GEMINI_API_KEY environment variable
}

// Delete policies for auto-rejected reviews
const (
	DeleteLowTrust    = "low_trust"
	DeleteAllRejected = "all_rejected"
	DeleteRetain      = "retain"
)

// ModerationConfig contains review moderation thresholds and policy
type ModerationConfig struct {
	RejectBelow         int      `toml:"reject_below"`
	ApproveAt           int      `toml:"approve_at"`
	VerifiedApproveAt   int      `toml:"verified_approve_at"`
	DeletePolicy        string   `toml:"delete_policy"`
	ExtraBannedKeywords []string `toml:"extra_banned_keywords"`
	RescoreConcurrency  int      `toml:"rescore_concurrency"`
}

// SearchConfig contains search ranking settings
type SearchConfig struct {
	BroadLimit int     `toml:"broad_limit"`
	MinScore   float64 `toml:"min_score"`
	MaxResults int     `toml:"max_results"`
	Translate  bool    `toml:"translate"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level       string `toml:"level"`
	Development bool   `toml:"development"`
}

// MCPConfig contains MCP server settings
type MCPConfig struct {
	Enabled   bool   `toml:"enabled"`
	Transport string `toml:"transport"`
}

// Default returns a Config with sensible defaults
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "~/.local/share/roomfinder/roomfinder.db",
		},
		LLM: LLMConfig{
			Primary:        "groq",
			Fallback:       "gemini",
			TimeoutSeconds: 15,
			Groq: GroqConfig{
				Model:   "llama-3.3-70b-versatile",
				BaseURL: "https://api.groq.com/openai/v1",
			},
			Gemini: GeminiConfig{
				Model: "gemini-2.5-flash",
			},
		},
		Moderation: ModerationConfig{
			RejectBelow:        40,
			ApproveAt:          70,
			VerifiedApproveAt:  65,
			DeletePolicy:       DeleteLowTrust,
			RescoreConcurrency: 4,
		},
		Search: SearchConfig{
			BroadLimit: 100,
			MinScore:   20,
			MaxResults: 20,
			Translate:  true,
		},
		Log: LogConfig{
			Level:       "info",
			Development: false,
		},
		MCP: MCPConfig{
			Enabled:   true,
			Transport: "stdio",
		},
	}
}
