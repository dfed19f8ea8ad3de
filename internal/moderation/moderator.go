package moderation

import (
	"fmt"
	"strings"
	"time"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/config"
)

// Thresholds are the trust-score cut-offs used by the decision policy
type Thresholds struct {
	RejectBelow       int // Scores below this are rejected
	ApproveAt         int // Clean reviews at or above this are approved
	VerifiedApproveAt int // Verified reviews at or above this are approved
}

// DefaultThresholds returns the standard 40/70/65 cut-offs
func DefaultThresholds() Thresholds {
	return Thresholds{RejectBelow: 40, ApproveAt: 70, VerifiedApproveAt: 65}
}

// Moderator decides review outcomes. It holds no mutable state after
// construction and is safe for concurrent use.
type Moderator struct {
	keywords   *KeywordMatcher
	thresholds Thresholds
	now        func() time.Time
}

// New creates a Moderator from the moderation configuration
func New(cfg config.ModerationConfig) *Moderator {
	return &Moderator{
		keywords: NewKeywordMatcher(cfg.ExtraBannedKeywords),
		thresholds: Thresholds{
			RejectBelow:       cfg.RejectBelow,
			ApproveAt:         cfg.ApproveAt,
			VerifiedApproveAt: cfg.VerifiedApproveAt,
		},
		now: time.Now,
	}
}

// NewDefault creates a Moderator with the built-in keywords and default thresholds
func NewDefault() *Moderator {
	return &Moderator{
		keywords:   defaultKeywords,
		thresholds: DefaultThresholds(),
		now:        time.Now,
	}
}

// SetClock replaces the clock used to stamp ModeratedAt
func (m *Moderator) SetClock(now func() time.Time) {
	m.now = now
}

// Thresholds returns the cut-offs in use
func (m *Moderator) Thresholds() Thresholds {
	return m.thresholds
}

// Moderate runs every check, scores the review and applies the decision
// policy. The first matching rule decides:
//
//  1. high-severity banned keywords reject
//  2. high-severity spam patterns reject
//  3. a high-severity length issue on a 1-star review rejects
//  4. a score below RejectBelow rejects
//  5. a score of at least ApproveAt with no keywords or spam approves
//  6. a verified review scoring at least VerifiedApproveAt approves
//  7. anything else is held for a human with the collected warnings
func (m *Moderator) Moderate(review Review, history History) Result {
	text := review.Comment + " " + review.Title

	details := Details{
		BannedKeywords: m.keywords.Check(text),
		SpamPatterns:   CheckSpamPatterns(text),
		ContentLength:  CheckContentLength(review.Comment, review.Title),
		RatingLogic:    CheckRatingLogic(review.Rating, review.Comment, review.Title),
	}
	score := trustScore(review, history, details.BannedKeywords, details.SpamPatterns)

	result := Result{
		TrustScore:  score,
		Details:     details,
		ModeratedAt: m.now(),
	}

	var reasons []string
	kw, spam := details.BannedKeywords, details.SpamPatterns

	switch {
	case kw.HasBannedKeywords && kw.Severity == SeverityHigh:
		result.Status, result.AutoRejected = StatusRejected, true
		reasons = append(reasons, "Contains prohibited language: "+strings.Join(kw.FoundKeywords, ", "))

	case spam.HasSpamPatterns && spam.Severity == SeverityHigh:
		result.Status, result.AutoRejected = StatusRejected, true
		reasons = append(reasons, "Spam detected: "+strings.Join(issueMessages(spam.Issues), ", "))

	case details.ContentLength.HasHighSeverity() && review.Rating == 1:
		result.Status, result.AutoRejected = StatusRejected, true
		reasons = append(reasons, "Content too short for a 1-star rating (suspected spam)")

	case score < m.thresholds.RejectBelow:
		result.Status, result.AutoRejected = StatusRejected, true
		reasons = append(reasons, fmt.Sprintf("Low trust score (%d/100). The review looks like spam or lacks substance.", score))

	case score >= m.thresholds.ApproveAt && !kw.HasBannedKeywords && !spam.HasSpamPatterns:
		result.Status, result.AutoApproved = StatusApproved, true
		reasons = append(reasons, fmt.Sprintf("Auto-approved with high trust score (%d/100)", score))

	case review.Verified && score >= m.thresholds.VerifiedApproveAt:
		result.Status, result.AutoApproved = StatusApproved, true
		reasons = append(reasons, fmt.Sprintf("Verified review with good trust score (%d/100)", score))

	default:
		result.Status = StatusPending
		reasons = append(reasons, fmt.Sprintf("Needs manual review, trust score: %d/100", score))
		reasons = append(reasons, warnings(details)...)
	}

	result.Reason = strings.Join(reasons, ". ")
	return result
}

// warnings collects the sub-threshold signals a human reviewer should see
func warnings(d Details) []string {
	var out []string
	if d.BannedKeywords.HasBannedKeywords {
		out = append(out, fmt.Sprintf("Warning: questionable wording (%s)", strings.Join(firstN(d.BannedKeywords.FoundKeywords, 3), ", ")))
	}
	if d.SpamPatterns.HasSpamPatterns {
		out = append(out, "Spam warning: "+strings.Join(firstN(issueMessages(d.SpamPatterns.Issues), 2), ", "))
	}
	if d.RatingLogic.HasSuspiciousRating {
		out = append(out, "Warning: "+d.RatingLogic.Issues[0].Message)
	}
	return out
}

func issueMessages(issues []Issue) []string {
	msgs := make([]string, len(issues))
	for i, issue := range issues {
		msgs[i] = issue.Message
	}
	return msgs
}

func firstN(s []string, n int) []string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
