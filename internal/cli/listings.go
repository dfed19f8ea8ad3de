package cli

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/output"
)

var listingsCmd = &cobra.Command{
	Use:   "listings",
	Short: "Import and browse listings",
}

var listingsImportCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Import listings from a JSON array",
	Long: `Import listings from a JSON file holding an array of listings.
All listings are inserted in one transaction.

Listings without a moderation decision are graded on their text, the
completeness of their fields and their price. Well-formed listings are
auto-approved and searchable right away, weak ones wait for a moderator and
the rest are rejected. --decision overrides the grade for every listing that
has no decision.`,
	Args: cobra.ExactArgs(1),
	RunE: runListingsImport,
}

var listingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List listings, newest first",
	RunE:  runListingsList,
}

var listingsModerateCmd = &cobra.Command{
	Use:   "moderate <listing-id> <auto_approved|pending|rejected|auto>",
	Short: "Set a listing's moderation decision",
	Long: `Set a listing's moderation decision. Only auto_approved listings
appear in search results. "auto" grades the stored listing again and
records the resulting score and decision.`,
	Args: cobra.ExactArgs(2),
	RunE: runListingsModerate,
}

var (
	importDecision string
	listingsStatus string
	listingsLimit  int
	listingScore   float64
)

func init() {
	rootCmd.AddCommand(listingsCmd)
	listingsCmd.AddCommand(listingsImportCmd, listingsListCmd, listingsModerateCmd)

	listingsImportCmd.Flags().StringVar(&importDecision, "decision", "",
		"Moderation decision for listings that have none (default: graded)")
	listingsListCmd.Flags().StringVarP(&listingsStatus, "status", "s", "", "Filter by status (available, rented, hidden)")
	listingsListCmd.Flags().IntVarP(&listingsLimit, "limit", "n", 50, "Maximum number of results")
	listingsModerateCmd.Flags().Float64Var(&listingScore, "score", -1, "Listing quality score (omit to clear)")
}

func runListingsImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}

	var listings []listing.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return fmt.Errorf("failed to parse %s: %w", args[0], err)
	}

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	decisions := make(map[string]int)
	err = a.db.Transaction(ctx, func(tx *sql.Tx) error {
		for i := range listings {
			gradeListing(&listings[i], importDecision)
			decisions[listings[i].ModerationDecision]++
			if err := database.InsertListing(ctx, tx, &listings[i]); err != nil {
				return fmt.Errorf("listing %d (%s): %w", i+1, listings[i].Title, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported %d listing(s) from %s (%d auto-approved, %d pending, %d rejected)\n",
		len(listings), args[0], decisions[listing.DecisionAutoApproved],
		decisions[listing.DecisionPending], decisions[listing.DecisionRejected])
	return nil
}

// gradeListing fills in a missing moderation decision, either the given
// override or the rule-based grade. A computed grade also sets the score
// unless the listing carries one.
func gradeListing(l *listing.Listing, override string) {
	if l.ModerationDecision != "" {
		return
	}
	if override != "" {
		l.ModerationDecision = override
		return
	}
	res := moderation.ModerateListing(*l)
	l.ModerationDecision = res.Decision
	if l.ModerationScore == nil {
		l.ModerationScore = &res.Score
	}
}

func runListingsList(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := database.ListingListOptions{Limit: listingsLimit}
	if listingsStatus != "" {
		opts.Status = &listingsStatus
	}

	listings, err := a.db.ListListings(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to list listings: %w", err)
	}
	return output.Output(outputFmt, listings)
}

func runListingsModerate(cmd *cobra.Command, args []string) error {
	switch args[1] {
	case listing.DecisionAutoApproved, listing.DecisionPending, listing.DecisionRejected, "auto":
	default:
		return fmt.Errorf("invalid decision: %s", args[1])
	}

	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if args[1] == "auto" {
		l, err := a.db.GetListing(ctx, args[0])
		if err != nil {
			return fmt.Errorf("failed to get listing: %w", err)
		}
		if l == nil {
			return fmt.Errorf("listing not found: %s", args[0])
		}
		res := moderation.ModerateListing(*l)
		if err := a.db.SetListingModeration(ctx, l.ID, res.Decision, &res.Score); err != nil {
			return err
		}
		return output.Output(outputFmt, res)
	}

	var score *float64
	if listingScore >= 0 {
		score = &listingScore
	}
	if err := a.db.SetListingModeration(ctx, args[0], args[1], score); err != nil {
		return err
	}

	fmt.Printf("Listing %s marked %s\n", args[0], args[1])
	return nil
}
