package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/output"
)

var moderateCmd = &cobra.Command{
	Use:   "moderate",
	Short: "Score a review without storing it",
	Long: `Run the review moderation checks and print the decision, trust score
and every sub-check. Nothing is written to the database.

Examples:
  roomfinder moderate --rating 4 --title "Phòng sạch" --comment "Ở 3 tháng rất ổn" --type rented --verified
  roomfinder moderate --rating 1 --title "Tệ" --comment "lừa đảo" --total 4 --approved 1 -o json`,
	RunE: runModerate,
}

var (
	modRating   int
	modTitle    string
	modComment  string
	modType     string
	modVerified bool
	modHistory  moderation.History
)

func init() {
	rootCmd.AddCommand(moderateCmd)
	moderateCmd.Flags().IntVar(&modRating, "rating", 0, "Star rating (1-5)")
	moderateCmd.Flags().StringVar(&modTitle, "title", "", "Review title")
	moderateCmd.Flags().StringVar(&modComment, "comment", "", "Review text")
	moderateCmd.Flags().StringVar(&modType, "type", string(moderation.ReviewViewing), "Review type (viewing, rented)")
	moderateCmd.Flags().BoolVar(&modVerified, "verified", false, "Review is backed by a booking")
	moderateCmd.Flags().IntVar(&modHistory.Total, "total", 0, "Author's previous review count")
	moderateCmd.Flags().IntVar(&modHistory.Approved, "approved", 0, "Author's previously approved reviews")
	moderateCmd.Flags().IntVar(&modHistory.Rejected, "rejected", 0, "Author's previously rejected reviews")
	_ = moderateCmd.MarkFlagRequired("rating")
}

func runModerate(cmd *cobra.Command, args []string) error {
	if modRating < 1 || modRating > 5 {
		return fmt.Errorf("--rating must be between 1 and 5")
	}

	a, err := loadApp(false)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.moderator().Moderate(moderation.Review{
		Rating:   modRating,
		Title:    modTitle,
		Comment:  modComment,
		Type:     moderation.ReviewType(modType),
		Verified: modVerified,
	}, modHistory)

	if outputFmt != "json" {
		fmt.Println(statusBanner(result.Status, result.TrustScore))
		fmt.Println()
	}
	return output.Output(outputFmt, result)
}
