package moderation

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckBannedKeywords(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantFound    []string
		wantSeverity Severity
	}{
		{"clean", "Phòng sạch sẽ, chủ nhà tốt", []string{}, SeverityNone},
		{"case insensitive", "Liên hệ ZALO 0909", []string{"liên hệ", "zalo"}, SeverityMedium},
		{"list order not text order", "momo hoặc chuyển khoản", []string{"chuyển khoản", "momo"}, SeverityMedium},
		{"three is high", "giảm giá khuyến mãi mua ngay", []string{"mua ngay", "giảm giá", "khuyến mãi"}, SeverityHigh},
		{"substring match", "website: abc.com", []string{"website", ".com"}, SeverityMedium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckBannedKeywords(tt.text)
			assert.Equal(t, tt.wantFound, check.FoundKeywords)
			assert.Equal(t, tt.wantSeverity, check.Severity)
			assert.Equal(t, len(tt.wantFound) > 0, check.HasBannedKeywords)
		})
	}
}

func TestKeywordMatcher_Extra(t *testing.T) {
	m := NewKeywordMatcher([]string{"Lừa Đảo", "dm", "  "})

	assert.Len(t, m.Keywords(), len(BannedKeywords)+1)

	check := m.Check("đồ LỪA ĐẢO")
	assert.Equal(t, []string{"lừa đảo"}, check.FoundKeywords)

	// the built-in list is untouched
	assert.False(t, CheckBannedKeywords("đồ lừa đảo").HasBannedKeywords)
}

func TestKeywordMatcher_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				check := CheckBannedKeywords("dmm lừa đảo vl")
				assert.Equal(t, []string{"dmm", "dm", "vl"}, check.FoundKeywords)
			}
		}()
	}
	wg.Wait()
}

func TestCheckSpamPatterns(t *testing.T) {
	tests := []struct {
		name         string
		text         string
		wantTypes    []string
		wantSeverity Severity
	}{
		{"clean", "Phòng sạch sẽ, giá hợp lý", nil, SeverityNone},
		{"repeated characters", "Phòng đẹppppp", []string{"repeatedChars"}, SeverityLow},
		{"all caps", "PHONG RAT DEP!!!", []string{"allCaps"}, SeverityLow},
		{"punctuation", "Tệ quá?!?!", []string{"excessivePunctuation"}, SeverityLow},
		{"phone with spaces", "Gọi 0912 345 678 nhé", []string{"phoneNumber"}, SeverityLow},
		{"international phone", "call +84912345678", []string{"phoneNumber"}, SeverityLow},
		{"email", "mail me at chu.nha@example.org", []string{"email"}, SeverityLow},
		{"url", "xem tại https://example.org/p/1", []string{"url"}, SeverityLow},
		{"whitespace run", "a     b", []string{"repeatedChars", "multipleSpaces"}, SeverityMedium},
		{
			"everything",
			"aaaaa!!!! 0901234567 x@y.org www.site.org",
			[]string{"repeatedChars", "excessivePunctuation", "phoneNumber", "email", "url"},
			SeverityHigh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckSpamPatterns(tt.text)

			var types []string
			for _, issue := range check.Issues {
				types = append(types, issue.Type)
			}
			assert.Equal(t, tt.wantTypes, types)
			assert.Equal(t, tt.wantSeverity, check.Severity)
			assert.Equal(t, len(tt.wantTypes) > 0, check.HasSpamPatterns)
		})
	}
}

func TestHasRepeatedRun(t *testing.T) {
	assert.True(t, hasRepeatedRun("ooooo"))
	assert.True(t, hasRepeatedRun("đẹp quááááá"))
	assert.False(t, hasRepeatedRun("oooo"))
	assert.False(t, hasRepeatedRun("\n\n\n\n\n\n"))
	assert.False(t, hasRepeatedRun(""))
}

func issueTypes(issues []Issue) []string {
	var types []string
	for _, issue := range issues {
		types = append(types, issue.Type)
	}
	return types
}

func TestCheckContentLength(t *testing.T) {
	tests := []struct {
		name      string
		comment   string
		title     string
		wantTypes []string
		wantHigh  bool
	}{
		{"empty", "", "", []string{"tooShort", "fewWords"}, true},
		{"very short", "Phòng ổn", "Tốt", []string{"veryShort", "fewWords"}, true},
		{"short but three words", "ổn lắm nha", "Tốt lắm", []string{"veryShort"}, false},
		{"fine", "Phòng sạch, chủ nhà thân thiện", "Hài lòng", nil, false},
		{"too long", strings.Repeat("phòng tốt ", 201), "Dài", []string{"tooLong"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckContentLength(tt.comment, tt.title)
			assert.Equal(t, tt.wantTypes, issueTypes(check.Issues))
			assert.Equal(t, tt.wantHigh, check.HasHighSeverity())
		})
	}
}

func TestCheckContentLength_CountsCharacters(t *testing.T) {
	// 9 characters but 19 bytes
	check := CheckContentLength("đẹp đẹp", "đẹ")
	assert.Equal(t, 9, check.Stats.TotalLength)
	assert.Equal(t, 2, check.Stats.CommentWords)
}

func TestCheckRatingLogic(t *testing.T) {
	tests := []struct {
		name      string
		rating    int
		comment   string
		title     string
		wantTypes []string
	}{
		{"short one star", 1, "tệ", "", []string{"lowRatingShortContent"}},
		{"short five star", 5, "tốt", "ok", []string{"highRatingShortContent"}},
		{"promo one star", 1, "Phòng chán lắm, bên mình có phòng tốt hơn, Inbox ngay nhé", "Không nên thuê", []string{"lowRatingWithPromo"}},
		{"short promo one star", 1, "inbox", "", []string{"lowRatingShortContent", "lowRatingWithPromo"}},
		{"normal", 4, "Phòng ổn, giá hợp lý so với khu vực", "Ổn", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := CheckRatingLogic(tt.rating, tt.comment, tt.title)
			assert.Equal(t, tt.wantTypes, issueTypes(check.Issues))
			assert.Equal(t, len(tt.wantTypes) > 0, check.HasSuspiciousRating)
		})
	}
}
