// Package search turns free-text rental queries into structured filters and
// ranks candidate listings by how well they match.
package search

import "github.com/vijay-prabhu/roomfinder-mcp/internal/listing"

// Gender is a tenant gender preference
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderAll    Gender = "all"
)

// genderKeywords are the words a listing's rules use for each preference
var genderKeywords = map[Gender][]string{
	GenderFemale: {"nữ", "female", "chị em"},
	GenderMale:   {"nam", "male", "anh em"},
}

// Keywords returns the rule keywords for g. GenderAll and unknown values have none.
func (g Gender) Keywords() []string {
	return genderKeywords[g]
}

// Location is where the searcher wants to live
type Location struct {
	City       *string `json:"city"`
	District   *string `json:"district"`
	Ward       *string `json:"ward"`
	University *string `json:"university"`
}

// Preferences are tenant-side constraints
type Preferences struct {
	Gender  *Gender `json:"gender"`
	Pets    *bool   `json:"pets"`
	Smoking *bool   `json:"smoking"`
}

// ParsedFilter is the structured form of a search query. Nil fields were not
// requested and never contribute to a score.
type ParsedFilter struct {
	PropertyType listing.PropertyType `json:"propertyType"`
	PriceMin     *float64             `json:"priceMin"`
	PriceMax     *float64             `json:"priceMax"`
	AreaMin      *float64             `json:"areaMin"`
	AreaMax      *float64             `json:"areaMax"`
	Location     Location             `json:"location"`
	Amenities    listing.Amenities    `json:"amenities"`
	Preferences  Preferences          `json:"preferences"`
	Bedrooms     *int                 `json:"bedrooms"`
	Bathrooms    *int                 `json:"bathrooms"`
	Intent       string               `json:"intent"`
}

// ruleKeywords returns the rule keywords for the requested gender, if any
func (f ParsedFilter) ruleKeywords() []string {
	if f.Preferences.Gender == nil {
		return nil
	}
	return f.Preferences.Gender.Keywords()
}

// applyUniversity fills district and city from the university dictionary
func (f *ParsedFilter) applyUniversity() {
	if f.Location.University == nil {
		return
	}
	u, ok := listing.LookupUniversity(*f.Location.University)
	if !ok {
		return
	}
	f.Location.District = ptr(u.District)
	f.Location.City = ptr(u.City)
}

// positive returns the value of p when it is set and greater than zero.
// Zero bounds are treated as absent.
func positive(p *float64) (float64, bool) {
	if p == nil || *p <= 0 {
		return 0, false
	}
	return *p, true
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func ptr[T any](v T) *T {
	return &v
}
