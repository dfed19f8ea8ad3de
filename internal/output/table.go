package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/review"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/search"
)

// Table writes data as a formatted table to stdout
func Table(data any) error {
	return TableTo(os.Stdout, data)
}

// TableTo writes data as a formatted table to the given writer
func TableTo(w io.Writer, data any) error {
	switch v := data.(type) {
	case []database.Review:
		return reviewsTable(w, v)
	case *database.Review:
		return reviewDetail(w, v)
	case *database.ReviewStats:
		return statsTable(w, v)
	case []listing.Listing:
		return listingsTable(w, v)
	case *search.Result:
		return searchTable(w, v)
	case search.ParsedFilter:
		return filterDetail(w, v)
	case moderation.Result:
		return moderationDetail(w, v)
	case moderation.ListingResult:
		return listingModerationDetail(w, v)
	case *review.Outcome:
		return outcomeDetail(w, v)
	case *review.RescoreSummary:
		fmt.Fprintf(w, "Checked %d pending reviews: %d approved, %d still pending, %d rejected\n",
			v.Checked, v.Approved, v.Pending, v.Rejected)
		return nil
	case []database.Notification:
		return notificationsTable(w, v)
	default:
		return fmt.Errorf("unsupported data type for table output: %T", data)
	}
}

func reviewsTable(w io.Writer, reviews []database.Review) error {
	if len(reviews) == 0 {
		fmt.Fprintln(w, "No reviews found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Listing", "Rating", "Type", "Status", "Trust", "Title")
	for _, r := range reviews {
		if err := table.Append([]string{
			shortID(r.ID),
			shortID(r.ListingID),
			strconv.Itoa(r.Rating),
			formatType(r),
			formatStatus(r.Status, r.AutoApproved || r.AutoRejected),
			strconv.Itoa(r.TrustScore),
			truncate(r.Title, 40),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func reviewDetail(w io.Writer, r *database.Review) error {
	fmt.Fprintf(w, "Review:      %s\n", r.ID)
	fmt.Fprintf(w, "Listing:     %s\n", r.ListingID)
	fmt.Fprintf(w, "Author:      %s\n", r.UserID)
	fmt.Fprintf(w, "Rating:      %d/5 (%s)\n", r.Rating, formatType(*r))
	fmt.Fprintf(w, "Title:       %s\n", r.Title)
	fmt.Fprintf(w, "Status:      %s\n", formatStatus(r.Status, r.AutoApproved || r.AutoRejected))
	fmt.Fprintf(w, "Trust score: %d/100\n", r.TrustScore)
	if r.Reason != "" {
		fmt.Fprintf(w, "Reason:      %s\n", r.Reason)
	}
	if r.ModeratedBy != nil && *r.ModeratedBy != "" {
		fmt.Fprintf(w, "Moderator:   %s\n", *r.ModeratedBy)
	}
	fmt.Fprintf(w, "Created:     %s\n", r.CreatedAt.Format("Jan 02, 2006"))
	fmt.Fprintln(w)
	fmt.Fprintln(w, wordWrap(r.Comment, 78))
	return nil
}

func statsTable(w io.Writer, s *database.ReviewStats) error {
	fmt.Fprintln(w, "Review Moderation Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 30))
	fmt.Fprintf(w, "Total reviews:          %d\n", s.Total)
	fmt.Fprintf(w, "Pending:                %d\n", s.Pending)
	fmt.Fprintf(w, "Approved:               %d\n", s.Approved)
	fmt.Fprintf(w, "Rejected:               %d\n", s.Rejected)
	fmt.Fprintf(w, "Auto-approved:          %d\n", s.AutoApproved)
	fmt.Fprintf(w, "Auto-rejected:          %d\n", s.AutoRejected)

	if decided := s.AutoApproved + s.AutoRejected; s.Total > 0 && decided > 0 {
		fmt.Fprintf(w, "Automation rate:        %.1f%%\n", float64(decided)/float64(s.Total)*100)
	}
	return nil
}

func listingsTable(w io.Writer, listings []listing.Listing) error {
	if len(listings) == 0 {
		fmt.Fprintln(w, "No listings found.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Type", "Price", "Area", "District", "Status", "Title")
	for _, l := range listings {
		if err := table.Append([]string{
			shortID(l.ID),
			string(l.PropertyType),
			formatPrice(l.Price),
			formatArea(l.Area),
			l.Address.District,
			l.Status,
			truncate(l.Title, 40),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func searchTable(w io.Writer, res *search.Result) error {
	if res.TranslatedQuery != nil {
		fmt.Fprintf(w, "Query: %s (translated: %s)\n", res.OriginalQuery, *res.TranslatedQuery)
	} else {
		fmt.Fprintf(w, "Query: %s\n", res.Query)
	}
	fmt.Fprintf(w, "Parsed by %s, %d of %d candidates shown\n", res.ParsedBy, res.Count, res.TotalMatches)

	if len(res.Data) == 0 {
		fmt.Fprintln(w, res.Message)
		return nil
	}
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("#", "Score", "Price", "Area", "District", "Title")
	for i, r := range res.Data {
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(r.RelevanceScore, 'f', 1, 64),
			formatPrice(r.Price),
			formatArea(r.Area),
			r.Address.District,
			truncate(r.Title, 45),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func filterDetail(w io.Writer, f search.ParsedFilter) error {
	fmt.Fprintf(w, "Intent:      %s\n", f.Intent)
	if f.PropertyType != "" {
		fmt.Fprintf(w, "Type:        %s\n", f.PropertyType)
	}
	if r := formatRange(f.PriceMin, f.PriceMax, formatPrice); r != "" {
		fmt.Fprintf(w, "Price:       %s\n", r)
	}
	if r := formatRange(f.AreaMin, f.AreaMax, formatArea); r != "" {
		fmt.Fprintf(w, "Area:        %s\n", r)
	}

	var where []string
	for _, p := range []*string{f.Location.Ward, f.Location.District, f.Location.City} {
		if p != nil && *p != "" {
			where = append(where, *p)
		}
	}
	if len(where) > 0 {
		fmt.Fprintf(w, "Location:    %s\n", strings.Join(where, ", "))
	}
	if f.Location.University != nil {
		fmt.Fprintf(w, "University:  %s\n", *f.Location.University)
	}
	if f.Bedrooms != nil {
		fmt.Fprintf(w, "Bedrooms:    %d\n", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		fmt.Fprintf(w, "Bathrooms:   %d\n", *f.Bathrooms)
	}
	if requested := f.Amenities.Requested(); len(requested) > 0 {
		names := make([]string, len(requested))
		for i, a := range requested {
			names[i] = string(a)
		}
		fmt.Fprintf(w, "Amenities:   %s\n", strings.Join(names, ", "))
	}
	return nil
}

func moderationDetail(w io.Writer, res moderation.Result) error {
	fmt.Fprintf(w, "Status:      %s\n", formatStatus(res.Status, res.AutoApproved || res.AutoRejected))
	fmt.Fprintf(w, "Trust score: %d/100\n", res.TrustScore)
	fmt.Fprintf(w, "Reason:      %s\n", res.Reason)

	d := res.Details
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Check", "Severity", "Findings")
	rows := [][]string{
		{"banned keywords", string(d.BannedKeywords.Severity), strings.Join(d.BannedKeywords.FoundKeywords, ", ")},
		{"spam patterns", string(d.SpamPatterns.Severity), issueList(d.SpamPatterns.Issues)},
		{"content length", "", issueList(d.ContentLength.Issues)},
		{"rating logic", "", issueList(d.RatingLogic.Issues)},
	}
	for _, row := range rows {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

func listingModerationDetail(w io.Writer, res moderation.ListingResult) error {
	fmt.Fprintf(w, "Decision: %s\n", res.Decision)
	fmt.Fprintf(w, "Score:    %.3f\n", res.Score)
	fmt.Fprintln(w)

	table := tablewriter.NewWriter(w)
	table.Header("Component", "Score")
	for _, row := range [][]string{
		{"text", fmt.Sprintf("%.2f", res.Scores.Text)},
		{"completeness", fmt.Sprintf("%.2f", res.Scores.Completeness)},
		{"price", fmt.Sprintf("%.2f", res.Scores.Price)},
	} {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, r := range res.Reasons {
		fmt.Fprintf(w, "  - %s\n", r)
	}
	return nil
}

func outcomeDetail(w io.Writer, o *review.Outcome) error {
	fmt.Fprintln(w, o.Message)
	fmt.Fprintf(w, "Status:      %s\n", o.Moderation.Status)
	fmt.Fprintf(w, "Trust score: %d/100\n", o.Moderation.TrustScore)
	if o.AutoDeleted {
		fmt.Fprintln(w, "The review was removed.")
	} else if o.Review != nil {
		fmt.Fprintf(w, "Review ID:   %s\n", o.Review.ID)
	}
	return nil
}

func notificationsTable(w io.Writer, notes []database.Notification) error {
	if len(notes) == 0 {
		fmt.Fprintln(w, "No notifications.")
		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("Date", "Type", "Title", "Message")
	for _, n := range notes {
		if err := table.Append([]string{
			n.CreatedAt.Format("Jan 02 15:04"),
			string(n.Type),
			n.Title,
			truncate(n.Message, 60),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func issueList(issues []moderation.Issue) string {
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = issue.Message
	}
	return strings.Join(msgs, "; ")
}

func formatStatus(status moderation.Status, auto bool) string {
	if auto {
		return string(status) + " (auto)"
	}
	return string(status)
}

func formatType(r database.Review) string {
	if r.Verified {
		return string(r.Type) + ", verified"
	}
	return string(r.Type)
}

// formatPrice renders VND amounts in millions ("3.5tr")
func formatPrice(v float64) string {
	return strconv.FormatFloat(v/1_000_000, 'f', -1, 64) + "tr"
}

func formatArea(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "m²"
}

func formatRange(lo, hi *float64, format func(float64) string) string {
	switch {
	case lo != nil && hi != nil:
		return format(*lo) + " - " + format(*hi)
	case lo != nil:
		return "from " + format(*lo)
	case hi != nil:
		return "up to " + format(*hi)
	default:
		return ""
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}

// wordWrap wraps text at the specified width
func wordWrap(text string, width int) string {
	var result strings.Builder

	for _, line := range strings.Split(text, "\n") {
		words := strings.Fields(line)
		if len(words) == 0 {
			result.WriteString("\n")
			continue
		}

		current := words[0]
		for _, word := range words[1:] {
			if len([]rune(current))+1+len([]rune(word)) <= width {
				current += " " + word
			} else {
				result.WriteString(current)
				result.WriteString("\n")
				current = word
			}
		}
		result.WriteString(current)
		result.WriteString("\n")
	}

	return strings.TrimSuffix(result.String(), "\n")
}
