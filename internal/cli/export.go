package cli

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/output"
)

var reviewsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reviews to CSV or JSON",
	Long: `Export reviews with their moderation results.

Supported formats:
  - csv: Comma-separated values (spreadsheet-compatible)
  - json: JSON array of review objects

Examples:
  roomfinder reviews export --format=csv > reviews.csv
  roomfinder reviews export --format=json --status rejected > rejected.json`,
	RunE: runReviewsExport,
}

var (
	exportFormat string
	exportStatus string
)

func init() {
	reviewsCmd.AddCommand(reviewsExportCmd)

	reviewsExportCmd.Flags().StringVar(&exportFormat, "format", "csv", "Export format (csv, json)")
	reviewsExportCmd.Flags().StringVarP(&exportStatus, "status", "s", "", "Only export reviews with this status")
}

func runReviewsExport(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := database.ReviewListOptions{}
	if exportStatus != "" {
		status := moderation.Status(exportStatus)
		opts.Status = &status
	}
	reviews, err := a.db.ListReviews(cmd.Context(), opts)
	if err != nil {
		return fmt.Errorf("failed to list reviews: %w", err)
	}

	switch exportFormat {
	case "csv":
		return exportCSV(os.Stdout, reviews)
	case "json":
		return output.JSONTo(os.Stdout, reviews)
	default:
		return fmt.Errorf("unknown format: %s (use csv or json)", exportFormat)
	}
}

var exportHeader = []string{
	"id", "listing_id", "user_id", "rating", "title", "comment", "review_type",
	"verified", "status", "trust_score", "auto_approved", "auto_rejected",
	"reason", "moderated_by", "created_at",
}

func exportCSV(out io.Writer, reviews []database.Review) error {
	w := csv.NewWriter(out)

	if err := w.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, r := range reviews {
		moderatedBy := ""
		if r.ModeratedBy != nil {
			moderatedBy = *r.ModeratedBy
		}
		record := []string{
			r.ID,
			r.ListingID,
			r.UserID,
			strconv.Itoa(r.Rating),
			r.Title,
			r.Comment,
			string(r.Type),
			strconv.FormatBool(r.Verified),
			string(r.Status),
			strconv.Itoa(r.TrustScore),
			strconv.FormatBool(r.AutoApproved),
			strconv.FormatBool(r.AutoRejected),
			r.Reason,
			moderatedBy,
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}
