// Package review runs the review workflow around the moderation engine:
// author history, persistence, the deletion policy and notifications.
package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/config"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/database"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
)

// Store is the persistence the workflow needs
type Store interface {
	UserReviewHistory(ctx context.Context, userID string) (moderation.History, error)
	CreateReview(ctx context.Context, r *database.Review) error
	GetReview(ctx context.Context, id string) (*database.Review, error)
	ListReviews(ctx context.Context, opts database.ReviewListOptions) ([]database.Review, error)
	UpdateReviewModeration(ctx context.Context, r *database.Review) error
	SetReviewStatus(ctx context.Context, id string, status moderation.Status, reason, moderatedBy string) error
	DeleteReview(ctx context.Context, id string) error
	GetListing(ctx context.Context, id string) (*listing.Listing, error)
	CreateNotification(ctx context.Context, n *database.Notification) error
}

// Submission is a review as written by a tenant
type Submission struct {
	ListingID string                `json:"listingId"`
	UserID    string                `json:"userId"`
	UserName  string                `json:"userName,omitempty"`
	Rating    int                   `json:"rating"`
	Title     string                `json:"title"`
	Comment   string                `json:"comment"`
	Type      moderation.ReviewType `json:"reviewType"`
	// Verified marks reviews backed by a booking
	Verified bool `json:"verified"`
}

// Validate checks the submission has everything moderation needs
func (s Submission) Validate() error {
	var errs []error
	if s.ListingID == "" {
		errs = append(errs, errors.New("listing id is required"))
	}
	if s.UserID == "" {
		errs = append(errs, errors.New("user id is required"))
	}
	if s.Rating < 1 || s.Rating > 5 {
		errs = append(errs, fmt.Errorf("rating must be between 1 and 5, got %d", s.Rating))
	}
	if strings.TrimSpace(s.Title) == "" {
		errs = append(errs, errors.New("title is required"))
	}
	if strings.TrimSpace(s.Comment) == "" {
		errs = append(errs, errors.New("comment is required"))
	}
	if s.Type != moderation.ReviewViewing && s.Type != moderation.ReviewRented {
		errs = append(errs, fmt.Errorf("review type must be 'viewing' or 'rented', got '%s'", s.Type))
	}
	return errors.Join(errs...)
}

// ModerationSummary is the part of a moderation result shown to the author
type ModerationSummary struct {
	Status     moderation.Status `json:"status"`
	TrustScore int               `json:"trustScore"`
	Reason     string            `json:"reason"`
}

// Outcome is the response to a submission
type Outcome struct {
	Success     bool              `json:"success"`
	Message     string            `json:"message"`
	Review      *database.Review  `json:"data,omitempty"`
	Moderation  ModerationSummary `json:"moderation"`
	AutoDeleted bool              `json:"autoDeleted"`
}

// Service submits and manages reviews
type Service struct {
	store     Store
	moderator *moderation.Moderator
	policy    string
	rescoreN  int
	logger    *zap.Logger
}

// NewService creates a review service
func NewService(cfg config.ModerationConfig, store Store, moderator *moderation.Moderator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if moderator == nil {
		moderator = moderation.New(cfg)
	}
	concurrency := cfg.RescoreConcurrency
	if concurrency < 1 {
		concurrency = 1
	}
	return &Service{
		store:     store,
		moderator: moderator,
		policy:    cfg.DeletePolicy,
		rescoreN:  concurrency,
		logger:    logger,
	}
}

// Submit moderates a new review against its author's history, stores it
// and notifies the author. Reviews the delete policy rejects are removed
// again and reported with Success=false.
func (s *Service) Submit(ctx context.Context, sub Submission) (*Outcome, error) {
	if err := sub.Validate(); err != nil {
		return nil, fmt.Errorf("invalid review: %w", err)
	}

	history, err := s.store.UserReviewHistory(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}

	r := &database.Review{
		ListingID: sub.ListingID,
		UserID:    sub.UserID,
		Rating:    sub.Rating,
		Title:     sub.Title,
		Comment:   sub.Comment,
		Type:      sub.Type,
		Verified:  sub.Verified,
	}
	res := s.moderator.Moderate(r.Candidate(), history)
	r.ApplyModeration(res)

	if err := s.store.CreateReview(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	title := s.listingTitle(ctx, sub.ListingID)
	summary := ModerationSummary{Status: res.Status, TrustScore: res.TrustScore, Reason: res.Reason}

	if s.shouldDelete(res) {
		lowTrust := res.TrustScore < s.moderator.Thresholds().RejectBelow
		s.notify(ctx, autoDeletedNotice(r, title, lowTrust))
		if err := s.store.DeleteReview(ctx, r.ID); err != nil {
			return nil, fmt.Errorf("failed to delete rejected review: %w", err)
		}
		s.logger.Info("review auto-deleted",
			zap.String("review_id", r.ID),
			zap.Int("trust_score", res.TrustScore),
			zap.String("policy", s.policy),
		)
		return &Outcome{
			Success:     false,
			Message:     fmt.Sprintf("Đánh giá của bạn không đạt tiêu chuẩn (Điểm tin cậy: %d/100). Lý do: %s", res.TrustScore, res.Reason),
			Moderation:  summary,
			AutoDeleted: true,
		}, nil
	}

	switch {
	case res.AutoRejected:
		s.notify(ctx, rejectedNotice(r, title, res.Reason, false))
	case res.Status == moderation.StatusPending:
		s.notify(ctx, pendingNotice(r, title))
	case res.AutoApproved:
		s.notify(ctx, approvedNotice(r, title, false))
		s.notifyLandlord(ctx, r, sub.UserName)
	}

	s.logger.Debug("review submitted",
		zap.String("review_id", r.ID),
		zap.String("status", string(res.Status)),
		zap.Int("trust_score", res.TrustScore),
	)

	return &Outcome{
		Success:    true,
		Message:    submitMessage(res),
		Review:     r,
		Moderation: summary,
	}, nil
}

// shouldDelete applies the configured delete policy to a fresh result
func (s *Service) shouldDelete(res moderation.Result) bool {
	switch s.policy {
	case config.DeleteAllRejected:
		return res.Status == moderation.StatusRejected
	case config.DeleteRetain:
		return false
	default:
		return res.TrustScore < s.moderator.Thresholds().RejectBelow
	}
}

func submitMessage(res moderation.Result) string {
	switch {
	case res.AutoApproved:
		return "Đánh giá của bạn đã được tự động phê duyệt và hiển thị công khai"
	case res.AutoRejected:
		return "Đánh giá của bạn đã bị từ chối. Lý do: " + res.Reason
	default:
		return "Đánh giá của bạn đang chờ kiểm duyệt và sẽ được hiển thị sau khi được phê duyệt"
	}
}

// SetStatus records an administrator's decision on a review and notifies
// the author, plus the landlord when the review is approved.
func (s *Service) SetStatus(ctx context.Context, id string, status moderation.Status, reason, adminID string) (*database.Review, error) {
	switch status {
	case moderation.StatusApproved, moderation.StatusRejected, moderation.StatusPending:
	default:
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	r, err := s.store.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, fmt.Errorf("review not found: %s", id)
	}

	if err := s.store.SetReviewStatus(ctx, id, status, reason, adminID); err != nil {
		return nil, err
	}

	updated, err := s.store.GetReview(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, fmt.Errorf("review not found: %s", id)
	}

	title := s.listingTitle(ctx, r.ListingID)
	switch status {
	case moderation.StatusApproved:
		s.notify(ctx, approvedNotice(updated, title, true))
		s.notifyLandlord(ctx, updated, "")
	case moderation.StatusRejected:
		s.notify(ctx, rejectedNotice(updated, title, reason, true))
	}

	s.logger.Info("review status set",
		zap.String("review_id", id),
		zap.String("status", string(status)),
		zap.String("moderated_by", adminID),
	)
	return updated, nil
}

// Moderator returns the moderator used for scoring
func (s *Service) Moderator() *moderation.Moderator {
	return s.moderator
}

func (s *Service) listingTitle(ctx context.Context, listingID string) string {
	l, err := s.store.GetListing(ctx, listingID)
	if err != nil || l == nil {
		return listingID
	}
	return l.Title
}

// notify stores a notification. Failures are logged and never fail the
// review operation.
func (s *Service) notify(ctx context.Context, n *database.Notification) {
	if err := s.store.CreateNotification(ctx, n); err != nil {
		s.logger.Warn("failed to create notification",
			zap.String("type", string(n.Type)),
			zap.String("user_id", n.UserID),
			zap.Error(err),
		)
	}
}

func (s *Service) notifyLandlord(ctx context.Context, r *database.Review, reviewerName string) {
	l, err := s.store.GetListing(ctx, r.ListingID)
	if err != nil || l == nil || l.LandlordID == "" {
		return
	}
	s.notify(ctx, newReviewNotice(r, l, reviewerName))
}
