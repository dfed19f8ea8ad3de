package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/output"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/review"
)

var reviewsCmd = &cobra.Command{
	Use:   "reviews",
	Short: "Submit and manage reviews",
}

var reviewsSubmitCmd = &cobra.Command{
	Use:   "submit <listing-id>",
	Short: "Submit a review for a listing",
	Long: `Moderate a review against the author's stored history, save it and
notify the author. Reviews rejected by the delete policy are removed again.

Examples:
  roomfinder reviews submit abc123 --user u1 --rating 4 --title "Ổn" --comment "Phòng sạch, chủ nhà dễ tính" --type rented`,
	Args: cobra.ExactArgs(1),
	RunE: runReviewsSubmit,
}

var reviewsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reviews",
	Long: `List reviews, newest first.

Examples:
  roomfinder reviews list                    # All reviews
  roomfinder reviews list --status pending   # Waiting for a moderator
  roomfinder reviews list --listing abc123`,
	RunE: runReviewsList,
}

var reviewsShowCmd = &cobra.Command{
	Use:   "show <review-id>",
	Short: "Show a review with its moderation result",
	Args:  cobra.ExactArgs(1),
	RunE:  runReviewsShow,
}

var reviewsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show review counts by moderation status",
	RunE:  runReviewsStats,
}

var reviewsSetStatusCmd = &cobra.Command{
	Use:   "set-status <review-id> <approved|rejected|pending>",
	Short: "Record a moderator decision",
	Args:  cobra.ExactArgs(2),
	RunE:  runReviewsSetStatus,
}

var reviewsRescoreCmd = &cobra.Command{
	Use:   "rescore",
	Short: "Re-moderate pending reviews with current author history",
	Long: `Run every pending review through moderation again using its author's
current history. Authors whose other reviews were approved since may now
pass automatically. Reviews are never deleted by a rescore.`,
	RunE: runReviewsRescore,
}

var (
	submitSub       review.Submission
	submitType      string
	listStatus      string
	listListing     string
	listUser        string
	listLimit       int
	setStatusReason string
	setStatusAdmin  string
	rescoreLimit    int
)

func init() {
	rootCmd.AddCommand(reviewsCmd)
	reviewsCmd.AddCommand(reviewsSubmitCmd, reviewsListCmd, reviewsShowCmd, reviewsStatsCmd,
		reviewsSetStatusCmd, reviewsRescoreCmd)

	f := reviewsSubmitCmd.Flags()
	f.StringVar(&submitSub.UserID, "user", "", "Author user ID")
	f.StringVar(&submitSub.UserName, "name", "", "Author display name")
	f.IntVar(&submitSub.Rating, "rating", 0, "Star rating (1-5)")
	f.StringVar(&submitSub.Title, "title", "", "Review title")
	f.StringVar(&submitSub.Comment, "comment", "", "Review text")
	f.StringVar(&submitType, "type", string(moderation.ReviewViewing), "Review type (viewing, rented)")
	f.BoolVar(&submitSub.Verified, "verified", false, "Review is backed by a booking")

	reviewsListCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status (pending, approved, rejected)")
	reviewsListCmd.Flags().StringVar(&listListing, "listing", "", "Filter by listing ID")
	reviewsListCmd.Flags().StringVar(&listUser, "user", "", "Filter by author")
	reviewsListCmd.Flags().IntVarP(&listLimit, "limit", "n", 50, "Maximum number of results")

	reviewsSetStatusCmd.Flags().StringVar(&setStatusReason, "reason", "", "Reason shown to the author")
	reviewsSetStatusCmd.Flags().StringVar(&setStatusAdmin, "admin", "cli", "Moderator ID recorded with the decision")

	reviewsRescoreCmd.Flags().IntVarP(&rescoreLimit, "limit", "n", 0, "Maximum number of reviews to check (0 = all)")
}

func runReviewsSubmit(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	sub := submitSub
	sub.ListingID = args[0]
	sub.Type = moderation.ReviewType(submitType)

	outcome, err := a.reviewService().Submit(cmd.Context(), sub)
	if err != nil {
		return err
	}

	if outputFmt != "json" {
		fmt.Println(statusBanner(outcome.Moderation.Status, outcome.Moderation.TrustScore))
	}
	return output.Output(outputFmt, outcome)
}

func runReviewsList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := database.ReviewListOptions{Limit: listLimit}
	if listStatus != "" && listStatus != "all" {
		status := moderation.Status(listStatus)
		opts.Status = &status
	}
	if listListing != "" {
		opts.ListingID = &listListing
	}
	if listUser != "" {
		opts.UserID = &listUser
	}

	reviews, err := a.db.ListReviews(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}
	return output.Output(outputFmt, reviews)
}

func runReviewsShow(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	r, err := a.db.GetReview(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get review: %w", err)
	}
	if r == nil {
		return fmt.Errorf("review not found: %s", args[0])
	}
	return output.Output(outputFmt, r)
}

func runReviewsStats(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	stats, err := a.db.GetReviewStats(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}
	return output.Output(outputFmt, stats)
}

func runReviewsSetStatus(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	updated, err := a.reviewService().SetStatus(cmd.Context(), args[0], moderation.Status(args[1]), setStatusReason, setStatusAdmin)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, updated)
}

func runReviewsRescore(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	summary, err := a.reviewService().Rescore(cmd.Context(), rescoreLimit)
	if err != nil {
		return err
	}
	return output.Output(outputFmt, summary)
}
