package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Load reads and parses the configuration file. A .env file in the working
// directory is loaded first so API keys can live outside the TOML file.
func Load(path string) (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}

	// Expand path
	expandedPath, err := expandPath(path)
	if err != nil {
		return nil, fmt.Errorf("failed to expand config path: %w", err)
	}

	// Read file
	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'roomfinder config init' to create)", expandedPath)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Parse TOML
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	// Expand paths in config
	if err := cfg.expandPaths(); err != nil {
		return nil, fmt.Errorf("failed to expand paths: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(home, path[1:]), nil
}

// expandPaths expands ~ in all path fields
func (c *Config) expandPaths() error {
	var err error

	c.Database.Path, err = expandPath(c.Database.Path)
	if err != nil {
		return err
	}

	return nil
}

var validProviders = map[string]bool{"groq": true, "gemini": true}

var validDeletePolicies = map[string]bool{
	DeleteLowTrust:    true,
	DeleteAllRejected: true,
	DeleteRetain:      true,
}

var validLogLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	var errs []error

	// Database validation
	if c.Database.Path == "" {
		errs = append(errs, errors.New("database.path is required"))
	}

	// LLM validation
	if !validProviders[c.LLM.Primary] {
		errs = append(errs, fmt.Errorf("llm.primary must be 'groq' or 'gemini', got '%s'", c.LLM.Primary))
	}
	if c.LLM.Fallback != "" && !validProviders[c.LLM.Fallback] {
		errs = append(errs, fmt.Errorf("llm.fallback must be 'groq' or 'gemini', got '%s'", c.LLM.Fallback))
	}
	if c.LLM.Fallback != "" && c.LLM.Fallback == c.LLM.Primary {
		errs = append(errs, errors.New("llm.fallback must differ from llm.primary"))
	}
	if c.LLM.TimeoutSeconds < 1 || c.LLM.TimeoutSeconds > 120 {
		errs = append(errs, errors.New("llm.timeout_seconds must be between 1 and 120"))
	}

	// Moderation validation
	m := c.Moderation
	if m.RejectBelow < 0 || m.ApproveAt > 100 || m.RejectBelow > m.VerifiedApproveAt || m.VerifiedApproveAt > m.ApproveAt {
		errs = append(errs, errors.New("moderation thresholds must satisfy 0 <= reject_below <= verified_approve_at <= approve_at <= 100"))
	}
	if !validDeletePolicies[m.DeletePolicy] {
		errs = append(errs, fmt.Errorf("moderation.delete_policy must be one of low_trust, all_rejected, retain, got '%s'", m.DeletePolicy))
	}
	if m.RescoreConcurrency < 1 {
		errs = append(errs, errors.New("moderation.rescore_concurrency must be at least 1"))
	}

	// Search validation
	if c.Search.BroadLimit < 1 || c.Search.BroadLimit > 1000 {
		errs = append(errs, errors.New("search.broad_limit must be between 1 and 1000"))
	}
	if c.Search.MaxResults < 1 {
		errs = append(errs, errors.New("search.max_results must be at least 1"))
	}
	if c.Search.MinScore < 0 {
		errs = append(errs, errors.New("search.min_score must not be negative"))
	}

	// Log validation
	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level))
	}

	// MCP validation
	if c.MCP.Transport != "stdio" {
		errs = append(errs, fmt.Errorf("mcp.transport must be 'stdio', got '%s'", c.MCP.Transport))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// EnsureDirectories creates necessary directories for the database
func (c *Config) EnsureDirectories() error {
	dir := filepath.Dir(c.Database.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	return nil
}
