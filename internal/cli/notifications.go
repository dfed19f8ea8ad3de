package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/output"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications <user-id>",
	Short: "Show a user's notifications, newest first",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotifications,
}

var notificationsLimit int

func init() {
	rootCmd.AddCommand(notificationsCmd)
	notificationsCmd.Flags().IntVarP(&notificationsLimit, "limit", "n", 20, "Maximum number of notifications")
}

func runNotifications(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	notes, err := a.db.ListNotifications(cmd.Context(), args[0], notificationsLimit)
	if err != nil {
		return fmt.Errorf("failed to list notifications: %w", err)
	}
	return output.Output(outputFmt, notes)
}
