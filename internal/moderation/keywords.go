package moderation

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/textnorm"
)

// BannedKeywords is the built-in list, in reporting order
var BannedKeywords = []string{
	// profanity
	"đụ", "địt", "lồn", "cặc", "buồi", "đéo", "đĩ", "dmm", "dm", "vl", "vcl", "cc", "clgt",
	"fuck", "shit", "bitch", "ass", "dick", "pussy",

	// advertising
	"mua ngay", "giảm giá", "khuyến mãi", "liên hệ", "inbox", "zalo",
	"đặt hàng", "website", "www.", "http", ".com", ".vn",

	// scams
	"chuyển khoản", "bank", "stk", "số tài khoản", "momo", "chuyển tiền",
	"trúng thưởng", "miễn phí", "free",
}

// KeywordMatcher finds banned keywords as plain substrings. It is immutable
// once built and safe for concurrent use.
type KeywordMatcher struct {
	keywords []string
	matcher  *ahocorasick.Matcher
}

// NewKeywordMatcher builds a matcher over the built-in list plus extra.
// Extra keywords are lower-cased and duplicates are dropped.
func NewKeywordMatcher(extra []string) *KeywordMatcher {
	seen := make(map[string]bool, len(BannedKeywords)+len(extra))
	keywords := make([]string, 0, len(BannedKeywords)+len(extra))

	for _, kw := range append(append([]string{}, BannedKeywords...), extra...) {
		kw = textnorm.Lower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	return &KeywordMatcher{
		keywords: keywords,
		matcher:  ahocorasick.NewStringMatcher(keywords),
	}
}

// Keywords returns the keyword list the matcher was built from
func (m *KeywordMatcher) Keywords() []string {
	return append([]string(nil), m.keywords...)
}

// Check lower-cases text and reports every keyword it contains. Severity is
// high when more than two keywords match.
func (m *KeywordMatcher) Check(text string) KeywordCheck {
	hits := m.matcher.MatchThreadSafe([]byte(textnorm.Lower(text)))
	if len(hits) == 0 {
		return KeywordCheck{FoundKeywords: []string{}}
	}

	sort.Ints(hits)
	found := make([]string, 0, len(hits))
	for _, idx := range hits {
		found = append(found, m.keywords[idx])
	}

	severity := SeverityMedium
	if len(found) > 2 {
		severity = SeverityHigh
	}

	return KeywordCheck{
		HasBannedKeywords: true,
		FoundKeywords:     found,
		Severity:          severity,
	}
}

var defaultKeywords = NewKeywordMatcher(nil)

// CheckBannedKeywords runs the built-in keyword list over text
func CheckBannedKeywords(text string) KeywordCheck {
	return defaultKeywords.Check(text)
}
