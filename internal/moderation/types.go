// Package moderation scores reviews for trustworthiness and decides whether
// they are approved, held for a human, or rejected.
package moderation

import "time"

// Status is the moderation decision for a review
type Status string

const (
	StatusApproved Status = "approved"
	StatusPending  Status = "pending"
	StatusRejected Status = "rejected"
)

// ReviewType distinguishes reviews written after a viewing from reviews
// written by someone who actually rented the place.
type ReviewType string

const (
	ReviewViewing ReviewType = "viewing"
	ReviewRented  ReviewType = "rented"
)

// Severity grades how strongly a check fired
type Severity string

const (
	SeverityNone   Severity = ""
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Review is the candidate being moderated
type Review struct {
	Rating   int        `json:"rating"`
	Title    string     `json:"title"`
	Comment  string     `json:"comment"`
	Type     ReviewType `json:"reviewType"`
	Verified bool       `json:"verified"`
}

// History aggregates the author's previous moderation outcomes
type History struct {
	Total    int `json:"totalReviews"`
	Approved int `json:"approvedReviews"`
	Rejected int `json:"rejectedReviews"`
}

// Issue is a single finding from a check
type Issue struct {
	Type     string   `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity,omitempty"`
}

// KeywordCheck is the banned-keyword result
type KeywordCheck struct {
	HasBannedKeywords bool     `json:"hasBannedKeywords"`
	FoundKeywords     []string `json:"foundKeywords"`
	Severity          Severity `json:"severity,omitempty"`
}

// SpamCheck is the spam-pattern result
type SpamCheck struct {
	HasSpamPatterns bool     `json:"hasSpamPatterns"`
	Issues          []Issue  `json:"issues"`
	Severity        Severity `json:"severity,omitempty"`
}

// LengthStats are the measurements the length check is based on
type LengthStats struct {
	TotalLength  int `json:"totalLength"`
	CommentWords int `json:"commentWords"`
}

// LengthCheck is the content-length result
type LengthCheck struct {
	HasLengthIssues bool        `json:"hasLengthIssues"`
	Issues          []Issue     `json:"issues"`
	Stats           LengthStats `json:"stats"`
}

// HasHighSeverity reports whether any length issue is high severity
func (c LengthCheck) HasHighSeverity() bool {
	for _, issue := range c.Issues {
		if issue.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// RatingCheck is the rating-logic result
type RatingCheck struct {
	HasSuspiciousRating bool    `json:"hasSuspiciousRating"`
	Issues              []Issue `json:"issues"`
}

// Details carries every sub-check so a decision can be audited
type Details struct {
	BannedKeywords KeywordCheck `json:"bannedKeywords"`
	SpamPatterns   SpamCheck    `json:"spamPatterns"`
	ContentLength  LengthCheck  `json:"contentLength"`
	RatingLogic    RatingCheck  `json:"ratingLogic"`
}

// Result is the outcome of moderating one review
type Result struct {
	Status       Status    `json:"status"`
	TrustScore   int       `json:"trustScore"`
	AutoApproved bool      `json:"autoApproved"`
	AutoRejected bool      `json:"autoRejected"`
	Reason       string    `json:"moderationReason"`
	Details      Details   `json:"moderationDetails"`
	ModeratedAt  time.Time `json:"moderatedAt"`
}
