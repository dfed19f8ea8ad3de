package moderation

import "regexp"

// spamProbe is one spam heuristic
type spamProbe struct {
	issue Issue
	match func(text string) bool
}

var (
	allCapsRe     = regexp.MustCompile(`^[A-Z\s!]{10,}$`)
	punctuationRe = regexp.MustCompile(`[!?.]{4,}`)
	phoneRe       = regexp.MustCompile(`(?:\+84|0)(?:\d[\s.-]?){9,10}`)
	emailRe       = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	urlRe         = regexp.MustCompile(`(?i)(https?://|www\.)\S+`)
	spacesRe      = regexp.MustCompile(`\s{5,}`)
)

// spamProbes run in this order; issues are reported in the same order
var spamProbes = []spamProbe{
	{Issue{Type: "repeatedChars", Message: "too many repeated characters"}, hasRepeatedRun},
	{Issue{Type: "allCaps", Message: "written in all caps"}, allCapsRe.MatchString},
	{Issue{Type: "excessivePunctuation", Message: "excessive punctuation"}, punctuationRe.MatchString},
	{Issue{Type: "phoneNumber", Message: "contains a phone number"}, phoneRe.MatchString},
	{Issue{Type: "email", Message: "contains an email address"}, emailRe.MatchString},
	{Issue{Type: "url", Message: "contains a link"}, urlRe.MatchString},
	{Issue{Type: "multipleSpaces", Message: "unusual runs of whitespace"}, spacesRe.MatchString},
}

// minRepeatedRun is the shortest run of one character treated as spam
const minRepeatedRun = 5

// hasRepeatedRun reports whether any character other than a newline repeats
// minRepeatedRun or more times in a row.
func hasRepeatedRun(text string) bool {
	var prev rune
	run := 0
	for _, r := range text {
		if r == prev && r != '\n' {
			run++
		} else {
			prev, run = r, 1
		}
		if run >= minRepeatedRun {
			return true
		}
	}
	return false
}

// CheckSpamPatterns runs every spam probe over text. Severity is high when
// more than three probes fire, medium for two or three, low for one.
func CheckSpamPatterns(text string) SpamCheck {
	issues := []Issue{}
	for _, p := range spamProbes {
		if p.match(text) {
			issues = append(issues, p.issue)
		}
	}

	check := SpamCheck{
		HasSpamPatterns: len(issues) > 0,
		Issues:          issues,
	}
	switch {
	case len(issues) > 3:
		check.Severity = SeverityHigh
	case len(issues) > 1:
		check.Severity = SeverityMedium
	case len(issues) == 1:
		check.Severity = SeverityLow
	}
	return check
}
