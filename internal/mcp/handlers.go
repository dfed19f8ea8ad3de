package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/review"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/search"
)

func (s *Server) registerHandlers() {
	s.handlers["moderate_review"] = s.handleModerateReview
	s.handlers["submit_review"] = s.handleSubmitReview
	s.handlers["search_listings"] = s.handleSearchListings
	s.handlers["parse_query"] = s.handleParseQuery
	s.handlers["list_reviews"] = s.handleListReviews
	s.handlers["review_stats"] = s.handleReviewStats
}

func decode(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

type reviewParams struct {
	Rating   int    `json:"rating"`
	Title    string `json:"title"`
	Comment  string `json:"comment"`
	Type     string `json:"review_type"`
	Verified bool   `json:"verified"`
}

type moderateParams struct {
	reviewParams
	TotalReviews    int `json:"total_reviews"`
	ApprovedReviews int `json:"approved_reviews"`
	RejectedReviews int `json:"rejected_reviews"`
}

func (s *Server) handleModerateReview(_ context.Context, params json.RawMessage) (any, error) {
	var p moderateParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if p.Rating < 1 || p.Rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5")
	}

	return s.reviews.Moderator().Moderate(moderation.Review{
		Rating:   p.Rating,
		Title:    p.Title,
		Comment:  p.Comment,
		Type:     moderation.ReviewType(p.Type),
		Verified: p.Verified,
	}, moderation.History{
		Total:    p.TotalReviews,
		Approved: p.ApprovedReviews,
		Rejected: p.RejectedReviews,
	}), nil
}

type submitParams struct {
	reviewParams
	ListingID string `json:"listing_id"`
	UserID    string `json:"user_id"`
	UserName  string `json:"user_name"`
}

func (s *Server) handleSubmitReview(ctx context.Context, params json.RawMessage) (any, error) {
	var p submitParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	return s.reviews.Submit(ctx, review.Submission{
		ListingID: p.ListingID,
		UserID:    p.UserID,
		UserName:  p.UserName,
		Rating:    p.Rating,
		Title:     p.Title,
		Comment:   p.Comment,
		Type:      moderation.ReviewType(p.Type),
		Verified:  p.Verified,
	})
}

type searchParams struct {
	Query     string `json:"query"`
	Translate *bool  `json:"translate"`
}

func (s *Server) handleSearchListings(ctx context.Context, params json.RawMessage) (any, error) {
	var p searchParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	if p.Translate != nil && !*p.Translate {
		return s.search.Search(ctx, p.Query)
	}
	return s.search.SearchMultiLanguage(ctx, p.Query)
}

type parseResult struct {
	Query    string              `json:"query"`
	ParsedBy string              `json:"parsedBy"`
	Parsed   search.ParsedFilter `json:"parsed"`
}

func (s *Server) handleParseQuery(ctx context.Context, params json.RawMessage) (any, error) {
	var p searchParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}
	if strings.TrimSpace(p.Query) == "" {
		return nil, fmt.Errorf("query is required")
	}

	parsed, by := s.search.Parse(ctx, p.Query)
	return parseResult{Query: p.Query, ParsedBy: by, Parsed: parsed}, nil
}

type listReviewsParams struct {
	Status    string `json:"status"`
	ListingID string `json:"listing_id"`
	UserID    string `json:"user_id"`
	Limit     int    `json:"limit"`
}

func (s *Server) handleListReviews(ctx context.Context, params json.RawMessage) (any, error) {
	var p listReviewsParams
	if err := decode(params, &p); err != nil {
		return nil, err
	}

	opts := database.ReviewListOptions{Limit: 20}
	if p.Limit > 0 {
		opts.Limit = p.Limit
	}
	if p.Status != "" && p.Status != "all" {
		status := moderation.Status(p.Status)
		opts.Status = &status
	}
	if p.ListingID != "" {
		opts.ListingID = &p.ListingID
	}
	if p.UserID != "" {
		opts.UserID = &p.UserID
	}

	reviews, err := s.store.ListReviews(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return reviews, nil
}

func (s *Server) handleReviewStats(ctx context.Context, _ json.RawMessage) (any, error) {
	stats, err := s.store.GetReviewStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	return stats, nil
}

// Resource handlers

func (s *Server) handleReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case uriPendingReviews:
		return s.getResourcePendingReviews(ctx)
	case uriReviewStats:
		return s.getResourceReviewStats(ctx)
	case uriListings:
		return s.getResourceListings(ctx)
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

func (s *Server) getResourcePendingReviews(ctx context.Context) (string, error) {
	pending := moderation.StatusPending
	reviews, err := s.store.ListReviews(ctx, database.ReviewListOptions{Status: &pending, Limit: 50})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Pending Reviews\n===============\n\n")

	if len(reviews) == 0 {
		b.WriteString("No reviews waiting for moderation.\n")
		return b.String(), nil
	}

	for _, r := range reviews {
		verified := ""
		if r.Verified {
			verified = ", verified"
		}
		fmt.Fprintf(&b, "- %s | listing %s | %d star(s) | %s%s | trust %d/100\n",
			r.ID, r.ListingID, r.Rating, r.Type, verified, r.TrustScore)
		fmt.Fprintf(&b, "  %s\n", r.Title)
		if r.Reason != "" {
			fmt.Fprintf(&b, "  Reason: %s\n", r.Reason)
		}
	}
	return b.String(), nil
}

func (s *Server) getResourceReviewStats(ctx context.Context) (string, error) {
	stats, err := s.store.GetReviewStats(ctx)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Review Statistics
=================
Total Reviews: %d
  - Pending:       %d
  - Approved:      %d
  - Rejected:      %d

Auto-approved: %d
Auto-rejected: %d
`, stats.Total, stats.Pending, stats.Approved, stats.Rejected, stats.AutoApproved, stats.AutoRejected), nil
}

func (s *Server) getResourceListings(ctx context.Context) (string, error) {
	available := listing.StatusAvailable
	listings, err := s.store.ListListings(ctx, database.ListingListOptions{Status: &available, Limit: 50})
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Available Listings\n==================\n\n")

	if len(listings) == 0 {
		b.WriteString("No listings yet. Run 'roomfinder listings import' to load some.\n")
		return b.String(), nil
	}

	for _, l := range listings {
		fmt.Fprintf(&b, "- %s | %s | %s | %.0f VND | %.0f m² | %s\n",
			l.ID, l.Title, l.PropertyType, l.Price, l.Area, l.Address.District)
	}
	return b.String(), nil
}
