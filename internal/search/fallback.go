package search

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/textnorm"
)

const million = 1_000_000

const (
	numberPattern    = `(\d+(?:[.,]\d+)?)`
	moneyUnitPattern = `\s*(?:triệu|trieu|tr|million)(?:$|[^\p{L}0-9])`
	areaUnitPattern  = `\s*(?:m2|m²|mét vuông|met vuong)`
)

// pricePattern extracts a price bound. Patterns are tried in order and the
// first match wins.
type pricePattern struct {
	re  *regexp.Regexp
	set func(f *ParsedFilter, m []string)
}

var pricePatterns = []pricePattern{
	{
		re: regexp.MustCompile(`(?i)` + numberPattern + `\s*-\s*` + numberPattern + moneyUnitPattern),
		set: func(f *ParsedFilter, m []string) {
			f.PriceMin = parseAmount(m[1], million)
			f.PriceMax = parseAmount(m[2], million)
		},
	},
	{
		re:  regexp.MustCompile(`(?i)(?:dưới|duoi|không quá|tối đa)\s*` + numberPattern + moneyUnitPattern),
		set: func(f *ParsedFilter, m []string) { f.PriceMax = parseAmount(m[1], million) },
	},
	{
		re:  regexp.MustCompile(`(?i)(?:trên|tren|từ|tối thiểu)\s*` + numberPattern + moneyUnitPattern),
		set: func(f *ParsedFilter, m []string) { f.PriceMin = parseAmount(m[1], million) },
	},
	{
		re:  regexp.MustCompile(`(?i)(?:under|below|max)\s*` + numberPattern + `\s*(?:million|m)(?:$|[^\p{L}0-9])`),
		set: func(f *ParsedFilter, m []string) { f.PriceMax = parseAmount(m[1], million) },
	},
	{
		re:  regexp.MustCompile(`(?i)(?:over|above|min)\s*` + numberPattern + `\s*(?:million|m)(?:$|[^\p{L}0-9])`),
		set: func(f *ParsedFilter, m []string) { f.PriceMin = parseAmount(m[1], million) },
	},
}

var (
	areaRangeRe = regexp.MustCompile(`(?i)` + numberPattern + `\s*-\s*` + numberPattern + `\s*(?:m2|m²|m)(?:$|[^\p{L}0-9])`)
	areaMinRe   = regexp.MustCompile(`(?i)(?:trên|tren|hơn|từ|over|from|at least)\s*` + numberPattern + areaUnitPattern)
	areaMaxRe   = regexp.MustCompile(`(?i)(?:dưới|duoi|under|below)\s*` + numberPattern + areaUnitPattern)
	bedroomsRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:phòng ngủ|phong ngu|pn|bedrooms?)(?:$|[^\p{L}])`)
)

// amenityWords maps each amenity to the words that request it
var amenityWords = []struct {
	amenity listing.Amenity
	words   []string
}{
	{listing.AmenityWifi, []string{"wifi", "wi-fi", "internet"}},
	{listing.AmenityAC, []string{"máy lạnh", "điều hòa", "điều hoà", "ac", "air con", "air conditioning"}},
	{listing.AmenityParking, []string{"đậu xe", "để xe", "giữ xe", "bãi xe", "parking"}},
	{listing.AmenityKitchen, []string{"bếp", "nấu ăn", "kitchen"}},
	{listing.AmenityWater, []string{"nước nóng", "water heater", "hot water"}},
	{listing.AmenityLaundry, []string{"máy giặt", "giặt đồ", "laundry", "washing machine"}},
	{listing.AmenityBalcony, []string{"ban công", "balcony"}},
	{listing.AmenitySecurity, []string{"bảo vệ", "an ninh", "camera", "security"}},
}

var (
	femaleWords = []string{"nữ", "female", "chị em", "girl", "girls", "women"}
	maleWords   = []string{"nam", "male", "anh em", "boy", "boys", "men"}
)

// FallbackParser extracts filters with regular expressions and keyword
// lists. It has lower recall than a language model but never fails.
type FallbackParser struct{}

// NewFallbackParser creates a FallbackParser
func NewFallbackParser() *FallbackParser {
	return &FallbackParser{}
}

// Name identifies the parser in logs and responses
func (p *FallbackParser) Name() string {
	return "fallback"
}

// Parse implements Strategy. It never returns an error.
func (p *FallbackParser) Parse(_ context.Context, query string) (*ParsedFilter, error) {
	f := p.ParseQuery(query)
	return &f, nil
}

// ParseQuery extracts price, area, property type, location, amenities,
// bedrooms and gender preference from query. Fields that are not found stay
// nil or empty; Intent is always the query itself.
func (p *FallbackParser) ParseQuery(query string) ParsedFilter {
	query = textnorm.NFC(query)
	lower := textnorm.Lower(query)

	f := ParsedFilter{
		Amenities: listing.Amenities{},
		Intent:    query,
	}

	for _, pp := range pricePatterns {
		if m := pp.re.FindStringSubmatch(lower); m != nil {
			pp.set(&f, m)
			break
		}
	}

	if m := areaRangeRe.FindStringSubmatch(lower); m != nil {
		f.AreaMin = parseAmount(m[1], 1)
		f.AreaMax = parseAmount(m[2], 1)
	} else if m := areaMinRe.FindStringSubmatch(lower); m != nil {
		f.AreaMin = parseAmount(m[1], 1)
	} else if m := areaMaxRe.FindStringSubmatch(lower); m != nil {
		f.AreaMax = parseAmount(m[1], 1)
	}

	if pt := listing.ParsePropertyType(lower); pt.Valid() {
		f.PropertyType = pt
	}

	if u, _, ok := listing.FindUniversity(lower); ok {
		f.Location.University = ptr(u.Name)
		f.Location.District = ptr(u.District)
		f.Location.City = ptr(u.City)
	}

	// an explicit district overrides the university's
	if name := listing.DistrictName(listing.CanonicalDistrict(lower)); name != "" {
		f.Location.District = ptr(name)
	}

	if name := listing.CityName(listing.FindCity(lower)); name != "" {
		f.Location.City = ptr(name)
	}

	for _, aw := range amenityWords {
		if textnorm.ContainsAnyWord(lower, aw.words...) {
			f.Amenities[aw.amenity] = true
		}
	}

	if m := bedroomsRe.FindStringSubmatch(lower); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			f.Bedrooms = ptr(n)
		}
	}

	switch {
	case textnorm.ContainsAnyWord(lower, femaleWords...):
		f.Preferences.Gender = ptr(GenderFemale)
	case textnorm.ContainsAnyWord(lower, maleWords...):
		f.Preferences.Gender = ptr(GenderMale)
	}

	return f
}

// parseAmount parses a number that may use a comma as the decimal separator
// and multiplies it by unit.
func parseAmount(s string, unit float64) *float64 {
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || v <= 0 {
		return nil
	}
	return ptr(v * unit)
}
