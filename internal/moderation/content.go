package moderation

import (
	"regexp"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/textnorm"
)

// Length limits, in characters of title plus comment
const (
	tooShortLength  = 10
	veryShortLength = 20
	tooLongLength   = 2000
	minCommentWords = 3
)

// combinedLength counts characters across comment and title
func combinedLength(comment, title string) int {
	return textnorm.RuneLen(comment) + textnorm.RuneLen(title)
}

// CheckContentLength flags content that is too short, too long, or has too
// few words in the comment.
func CheckContentLength(comment, title string) LengthCheck {
	total := combinedLength(comment, title)
	words := textnorm.WordCount(comment)

	issues := []Issue{}
	switch {
	case total < tooShortLength:
		issues = append(issues, Issue{Type: "tooShort", Message: "content is too short", Severity: SeverityHigh})
	case total < veryShortLength:
		issues = append(issues, Issue{Type: "veryShort", Message: "content is very short", Severity: SeverityMedium})
	}

	if total > tooLongLength {
		issues = append(issues, Issue{Type: "tooLong", Message: "content is too long", Severity: SeverityLow})
	}

	if words < minCommentWords {
		issues = append(issues, Issue{Type: "fewWords", Message: "too few words", Severity: SeverityHigh})
	}

	return LengthCheck{
		HasLengthIssues: len(issues) > 0,
		Issues:          issues,
		Stats:           LengthStats{TotalLength: total, CommentWords: words},
	}
}

var promoRe = regexp.MustCompile(`(?i)(mua ngay|giảm giá|khuyến mãi|liên hệ|inbox)`)

// CheckRatingLogic flags ratings that do not fit the content: a one-star
// review that is very short or promotional, or a five-star review with almost
// no text.
func CheckRatingLogic(rating int, comment, title string) RatingCheck {
	total := combinedLength(comment, title)
	issues := []Issue{}

	if rating == 1 && total < 30 {
		issues = append(issues, Issue{
			Type:     "lowRatingShortContent",
			Message:  "1 star with very short content (suspected spam)",
			Severity: SeverityHigh,
		})
	}

	if rating == 5 && total < 15 {
		issues = append(issues, Issue{
			Type:     "highRatingShortContent",
			Message:  "5 stars with very short content (suspected fake)",
			Severity: SeverityMedium,
		})
	}

	if rating == 1 && promoRe.MatchString(textnorm.NFC(comment + title)) {
		issues = append(issues, Issue{
			Type:     "lowRatingWithPromo",
			Message:  "1 star with promotional wording (spam)",
			Severity: SeverityHigh,
		})
	}

	return RatingCheck{
		HasSuspiciousRating: len(issues) > 0,
		Issues:              issues,
	}
}
