package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display current configuration",
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}

	configFile := configPath
	dataDir := filepath.Join(home, ".local", "share", "roomfinder")

	// Create directories
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	// Check if config already exists
	if _, err := os.Stat(configFile); err == nil {
		fmt.Printf("Config file already exists at %s\n", configFile)
		fmt.Println("Use 'roomfinder config show' to view current configuration")
		return nil
	}

	if err := os.WriteFile(configFile, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	fmt.Printf("Created config file at %s\n", configFile)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Put GROQ_API_KEY and/or GEMINI_API_KEY in your environment or a .env file")
	fmt.Println("     (search still works without them, using the local parser)")
	fmt.Println("  2. Run 'roomfinder listings import listings.json' to load listings")
	fmt.Println("  3. Run 'roomfinder search \"phòng trọ quận 1 dưới 4 triệu\"'")

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No config file found. Run 'roomfinder config init' to create one.")
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	fmt.Printf("# Config file: %s\n\n", configPath)
	fmt.Println(string(data))
	return nil
}

const defaultConfig = `# RoomFinder MCP Configuration

[database]
path = "~/.local/share/roomfinder/roomfinder.db"

[llm]
primary = "groq"
fallback = "gemini"
timeout_seconds = 15

[llm.groq]
model = "llama-3.3-70b-versatile"
base_url = "https://api.groq.com/openai/v1"
# API key read from GROQ_API_KEY env var

[llm.gemini]
model = "gemini-2.5-flash"
# API key read from GEMINI_API_KEY env var

[moderation]
reject_below = 40          # scores below this are rejected
approve_at = 70            # clean reviews at or above this are approved
verified_approve_at = 65   # verified reviews at or above this are approved
# What happens to auto-rejected reviews:
#   low_trust    - delete when the trust score is below reject_below
#   all_rejected - delete every auto-rejected review
#   retain       - keep everything for manual audit
delete_policy = "low_trust"
extra_banned_keywords = []
rescore_concurrency = 4

[search]
broad_limit = 100   # candidates fetched from the database before ranking
min_score = 20      # drop results scoring below this
max_results = 20
translate = true    # translate non-Vietnamese queries with the LLM

[log]
level = "info"
development = false

[mcp]
enabled = true
transport = "stdio"
`
