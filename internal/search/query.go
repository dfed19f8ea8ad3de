package search

import (
	"regexp"
	"strings"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
)

// collapsedRangeSlack widens a range whose bounds are equal, so a single
// number like "25m2" becomes 15-35 instead of an exact match.
const collapsedRangeSlack = 10

// BuildQuery translates a parsed filter into the broad-phase listing query.
// Only available, auto-approved listings are eligible.
func BuildQuery(f ParsedFilter) listing.Query {
	q := listing.Query{
		Status:             listing.StatusAvailable,
		ModerationDecision: listing.DecisionAutoApproved,
	}

	if f.PropertyType.Valid() {
		q.PropertyTypes = f.PropertyType.Spellings()
	}

	q.PriceMin, q.PriceMax = rangeBounds(f.PriceMin, f.PriceMax)
	q.AreaMin, q.AreaMax = rangeBounds(f.AreaMin, f.AreaMax)

	if city := strings.TrimSpace(str(f.Location.City)); city != "" {
		q.CityPattern = alternation(listing.CityVariants(city), false)
	}

	if district := strings.TrimSpace(str(f.Location.District)); district != "" {
		numeric := strings.HasPrefix(listing.CanonicalDistrict(district), "q")
		q.DistrictPattern = alternation(listing.DistrictVariants(district), numeric)
	}

	if ward := strings.TrimSpace(str(f.Location.Ward)); ward != "" {
		q.WardPattern = regexp.QuoteMeta(ward)
	}

	q.Amenities = f.Amenities.Requested()

	if f.Bedrooms != nil && *f.Bedrooms > 0 {
		q.MinBedrooms = ptr(*f.Bedrooms)
	}
	if f.Bathrooms != nil && *f.Bathrooms > 0 {
		q.MinBathrooms = ptr(*f.Bathrooms)
	}

	if keywords := f.ruleKeywords(); len(keywords) > 0 {
		q.RulesPattern = wordAlternation(keywords)
	}

	return q
}

// rangeBounds returns the query bounds for a filter range
func rangeBounds(minP, maxP *float64) (*float64, *float64) {
	lo, hasLo := positive(minP)
	hi, hasHi := positive(maxP)

	if hasLo && hasHi && lo == hi {
		return ptr(lo - collapsedRangeSlack), ptr(hi + collapsedRangeSlack)
	}

	var outLo, outHi *float64
	if hasLo {
		outLo = ptr(lo)
	}
	if hasHi {
		outHi = ptr(hi)
	}
	return outLo, outHi
}

// alternation joins literal variants into one regular expression. When
// numeric is set the match may not continue with a digit, so "Quận 1" does
// not select "Quận 10".
func alternation(variants []string, numeric bool) string {
	quoted := make([]string, 0, len(variants))
	for _, v := range variants {
		if v = strings.TrimSpace(v); v != "" {
			quoted = append(quoted, regexp.QuoteMeta(v))
		}
	}
	pattern := "(?:" + strings.Join(quoted, "|") + ")"
	if numeric {
		pattern += "(?:[^0-9]|$)"
	}
	return pattern
}

// wordAlternation is alternation anchored on word boundaries, so "male" does
// not select "female" and "nữ" does not select "nữa".
func wordAlternation(variants []string) string {
	const nonWord = `[^\p{L}\p{M}\p{N}]`
	return "(?:^|" + nonWord + ")" + alternation(variants, false) + "(?:" + nonWord + "|$)"
}
