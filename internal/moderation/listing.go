package moderation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/cloudflare/ahocorasick"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/textnorm"
)

// Listing score thresholds on the 0-1 scale
const (
	ListingApproveAt   = 0.85
	ListingRejectBelow = 0.60
)

// Component weights. They sum to one.
const (
	listingTextWeight         = 0.3125
	listingCompletenessWeight = 0.375
	listingPriceWeight        = 0.3125
)

var listingSpamKeywords = []string{
	"liên hệ ngay", "gọi ngay", "inbox", "zalo", "viber",
	"đảm bảo", "100%", "cực rẻ", "giá sốc", "hot hot",
	"siêu rẻ", "không mất phí", "miễn phí 100%",
}

var listingForbiddenWords = []string{
	"lừa đảo", "scam", "hack", "cờ bạc", "casino", "ma túy", "đồ cấm",
}

var (
	listingSpamMatcher      = ahocorasick.NewStringMatcher(listingSpamKeywords)
	listingForbiddenMatcher = ahocorasick.NewStringMatcher(listingForbiddenWords)

	titlePhoneRe = regexp.MustCompile(`\b0\d{9,10}\b`)
)

// priceRange is the plausible monthly rent for a property type, in VND
type priceRange struct {
	min, max float64
}

var listingPriceRanges = map[listing.PropertyType]priceRange{
	listing.PropertyRoom:          {500_000, 10_000_000},
	listing.PropertyHouse:         {3_000_000, 50_000_000},
	listing.PropertyApartment:     {2_000_000, 100_000_000},
	listing.PropertyMiniApartment: {1_500_000, 20_000_000},
	listing.PropertyHomestay:      {1_000_000, 30_000_000},
}

var defaultPriceRange = priceRange{500_000, 100_000_000}

// ListingScores holds the component scores of a listing check
type ListingScores struct {
	Text         float64 `json:"text"`
	Completeness float64 `json:"completeness"`
	Price        float64 `json:"price"`
}

// ListingResult is the outcome of ModerateListing
type ListingResult struct {
	Score    float64       `json:"score"`
	Decision string        `json:"decision"`
	Scores   ListingScores `json:"scores"`
	Reasons  []string      `json:"reasons"`
}

// ModerateListing grades a rental post on its text, the completeness of its
// fields and the plausibility of its price. The weighted score decides:
// ListingApproveAt and above is auto-approved, below ListingRejectBelow is
// rejected and anything between waits for a moderator.
func ModerateListing(l listing.Listing) ListingResult {
	var reasons []string

	text, r := checkListingText(l.Title, l.Description)
	reasons = append(reasons, r...)
	completeness, r := checkListingCompleteness(l)
	reasons = append(reasons, r...)
	price, r := checkListingPrice(l.Price, l.PropertyType, l.Area)
	reasons = append(reasons, r...)

	score := round3(text*listingTextWeight + completeness*listingCompletenessWeight + price*listingPriceWeight)

	decision := listing.DecisionPending
	switch {
	case score >= ListingApproveAt:
		decision = listing.DecisionAutoApproved
	case score < ListingRejectBelow:
		decision = listing.DecisionRejected
	}

	return ListingResult{
		Score:    score,
		Decision: decision,
		Scores: ListingScores{
			Text:         round3(text),
			Completeness: round3(completeness),
			Price:        round3(price),
		},
		Reasons: reasons,
	}
}

func checkListingText(title, description string) (float64, []string) {
	score := 1.0
	var reasons []string

	switch n := textnorm.RuneLen(title); {
	case n < 10:
		score -= 0.15
		reasons = append(reasons, "Title is too short (under 10 characters)")
	case n > 200:
		score -= 0.1
		reasons = append(reasons, "Title is too long (over 200 characters)")
	}

	descLen := textnorm.RuneLen(description)
	switch {
	case descLen < 50:
		score -= 0.2
		reasons = append(reasons, "Description is too short (under 50 characters)")
	case descLen > 5000:
		score -= 0.1
		reasons = append(reasons, "Description is too long (over 5000 characters)")
	}

	text := []byte(textnorm.Lower(title + " " + description))

	spam := len(listingSpamMatcher.MatchThreadSafe(text))
	switch {
	case spam > 3:
		score -= 0.3
		reasons = append(reasons, fmt.Sprintf("Found %d spam phrases", spam))
	case spam > 0:
		score -= 0.1 * float64(spam)
		reasons = append(reasons, fmt.Sprintf("Found %d suspicious phrases", spam))
	}

	if hits := listingForbiddenMatcher.MatchThreadSafe(text); len(hits) > 0 {
		words := make([]string, 0, len(hits))
		for _, idx := range hits {
			words = append(words, listingForbiddenWords[idx])
		}
		score -= 0.5
		reasons = append(reasons, "Contains forbidden words: "+strings.Join(words, ", "))
	}

	if capsRatio(title) > 0.5 {
		score -= 0.15
		reasons = append(reasons, "Too many capital letters in the title")
	}

	if titlePhoneRe.MatchString(title) {
		score -= 0.1
		reasons = append(reasons, "Phone number in the title")
	}

	if hasRepeatedRun(string(text)) {
		score -= 0.15
		reasons = append(reasons, "Repeated characters")
	}

	if descLen >= 200 && spam == 0 {
		score = math.Min(1, score+0.05)
	}

	return math.Max(0, score), reasons
}

func checkListingCompleteness(l listing.Listing) (float64, []string) {
	score := 1.0
	var reasons []string

	hasAddress := l.Address != (listing.Address{})

	var missing []string
	for _, f := range []struct {
		name    string
		present bool
	}{
		{"title", strings.TrimSpace(l.Title) != ""},
		{"description", strings.TrimSpace(l.Description) != ""},
		{"price", l.Price > 0},
		{"area", l.Area > 0},
		{"propertyType", l.PropertyType.Valid()},
		{"address", hasAddress},
	} {
		if !f.present {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		score -= 0.4
		reasons = append(reasons, "Missing required fields: "+strings.Join(missing, ", "))
	}

	amenities := len(l.Amenities.Requested())
	var thin []string
	if l.Bedrooms <= 0 {
		thin = append(thin, "bedrooms")
	}
	if l.Bathrooms <= 0 {
		thin = append(thin, "bathrooms")
	}
	if amenities == 0 {
		thin = append(thin, "amenities")
	}
	if len(thin) > 0 {
		score -= 0.1 * float64(len(thin))
		reasons = append(reasons, "Missing details: "+strings.Join(thin, ", "))
	}

	var partial []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"street", l.Address.Street},
		{"ward", l.Address.Ward},
		{"district", l.Address.District},
		{"city", l.Address.City},
	} {
		if strings.TrimSpace(f.value) == "" {
			partial = append(partial, f.name)
		}
	}
	if len(partial) > 0 {
		score -= 0.15
		reasons = append(reasons, "Incomplete address: missing "+strings.Join(partial, ", "))
	}

	if amenities == 0 {
		score -= 0.1
		reasons = append(reasons, "No amenities listed")
	}

	if len(missing) == 0 && len(thin) == 0 {
		score = math.Min(1, score+0.05)
	}

	return math.Max(0, score), reasons
}

func checkListingPrice(price float64, pt listing.PropertyType, area float64) (float64, []string) {
	if price <= 0 {
		return 0, []string{"Invalid price"}
	}

	score := 1.0
	var reasons []string

	r, ok := listingPriceRanges[pt]
	if !ok {
		r = defaultPriceRange
	}
	switch {
	case price < r.min:
		score -= 0.3
		reasons = append(reasons, fmt.Sprintf("Price below %.0f VND", r.min))
	case price > r.max:
		score -= 0.3
		reasons = append(reasons, fmt.Sprintf("Price above %.0f VND", r.max))
	}

	if pt == listing.PropertyRoom && area > 0 {
		switch perSqm := price / area; {
		case perSqm < 20_000:
			score -= 0.15
			reasons = append(reasons, "Price per m² is too low")
		case perSqm > 400_000:
			score -= 0.15
			reasons = append(reasons, "Price per m² is too high")
		}
	}

	return math.Max(0, score), reasons
}

// capsRatio is the share of upper-case letters among all characters of s
func capsRatio(s string) float64 {
	total, upper := 0, 0
	for _, r := range s {
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(upper) / float64(total)
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
