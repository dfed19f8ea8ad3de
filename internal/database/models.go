package database

import (
	"database/sql"
	"time"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
)

// Review is a stored review together with its moderation outcome
type Review struct {
	ID           string                `json:"id"`
	ListingID    string                `json:"listingId"`
	UserID       string                `json:"userId"`
	Rating       int                   `json:"rating"`
	Title        string                `json:"title"`
	Comment      string                `json:"comment"`
	Type         moderation.ReviewType `json:"reviewType"`
	Verified     bool                  `json:"verified"`
	Status       moderation.Status     `json:"moderationStatus"`
	TrustScore   int                   `json:"trustScore"`
	AutoApproved bool                  `json:"autoApproved"`
	AutoRejected bool                  `json:"autoRejected"`
	Reason       string                `json:"moderationReason"`
	Details      *moderation.Details   `json:"moderationDetails,omitempty"`
	ModeratedBy  *string               `json:"moderatedBy,omitempty"`
	ModeratedAt  *time.Time            `json:"moderatedAt,omitempty"`
	CreatedAt    time.Time             `json:"createdAt"`
}

// Candidate returns the fields the moderator scores
func (r *Review) Candidate() moderation.Review {
	return moderation.Review{
		Rating:   r.Rating,
		Title:    r.Title,
		Comment:  r.Comment,
		Type:     r.Type,
		Verified: r.Verified,
	}
}

// ApplyModeration copies a moderation result onto the review
func (r *Review) ApplyModeration(res moderation.Result) {
	details := res.Details
	moderatedAt := res.ModeratedAt

	r.Status = res.Status
	r.TrustScore = res.TrustScore
	r.AutoApproved = res.AutoApproved
	r.AutoRejected = res.AutoRejected
	r.Reason = res.Reason
	r.Details = &details
	r.ModeratedAt = &moderatedAt
}

// ReviewListOptions contains options for listing reviews
type ReviewListOptions struct {
	Status    *moderation.Status
	ListingID *string
	UserID    *string
	Limit     int
	Offset    int
}

// ReviewStats counts reviews by moderation outcome
type ReviewStats struct {
	Total        int `json:"total"`
	Pending      int `json:"pending"`
	Approved     int `json:"approved"`
	Rejected     int `json:"rejected"`
	AutoApproved int `json:"autoApproved"`
	AutoRejected int `json:"autoRejected"`
}

// NotificationType identifies what a notification is about
type NotificationType string

const (
	NotifyReviewRejected NotificationType = "review_rejected"
	NotifyReviewPending  NotificationType = "review_pending"
	NotifyReviewApproved NotificationType = "review_approved"
	NotifyReviewNew      NotificationType = "review_new"
)

// Notification is a message for a user
type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Link      string           `json:"link,omitempty"`
	Data      map[string]any   `json:"data,omitempty"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ListingListOptions contains options for listing listings
type ListingListOptions struct {
	Status *string
	Limit  int
	Offset int
}

// NullString is a helper to convert *string to sql.NullString
func NullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// NullFloat64 is a helper to convert *float64 to sql.NullFloat64
func NullFloat64(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

// NullTime is a helper to convert *time.Time to sql.NullTime
func NullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// StringPtr converts sql.NullString to *string
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}

// Float64Ptr converts sql.NullFloat64 to *float64
func Float64Ptr(nf sql.NullFloat64) *float64 {
	if !nf.Valid {
		return nil
	}
	return &nf.Float64
}

// TimePtr converts sql.NullTime to *time.Time
func TimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	return &nt.Time
}
