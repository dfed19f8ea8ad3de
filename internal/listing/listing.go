// Package listing defines rental listings and the closed vocabularies used to
// describe them: property types, amenities and canonical locations.
package listing

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/textnorm"
)

// PropertyType is the kind of rental. The zero value means unknown.
type PropertyType string

const (
	PropertyUnknown       PropertyType = ""
	PropertyRoom          PropertyType = "phong-tro"
	PropertyHouse         PropertyType = "nha-nguyen-can"
	PropertyApartment     PropertyType = "can-ho"
	PropertyMiniApartment PropertyType = "chung-cu-mini"
	PropertyHomestay      PropertyType = "homestay"
)

// propertyTypeSpellings lists every spelling a property type may be stored or
// typed under: slug, Vietnamese label (with and without tone marks), English.
var propertyTypeSpellings = []struct {
	typ       PropertyType
	spellings []string
}{
	{PropertyRoom, []string{"phong-tro", "phòng trọ", "phong tro", "room", "rental room"}},
	{PropertyHouse, []string{"nha-nguyen-can", "nhà nguyên căn", "nha nguyen can", "whole house", "house"}},
	{PropertyApartment, []string{"can-ho", "căn hộ", "can ho", "apartment", "flat"}},
	{PropertyMiniApartment, []string{"chung-cu-mini", "chung cư mini", "chung cu mini", "mini apartment"}},
	{PropertyHomestay, []string{"homestay", "home stay"}},
}

// ParsePropertyType maps any known spelling to its PropertyType. An exact
// spelling wins; otherwise the longest spelling contained in s is used, so
// "mini apartment" resolves to chung-cu-mini rather than can-ho.
func ParsePropertyType(s string) PropertyType {
	normalized := strings.TrimSpace(textnorm.Lower(s))
	if normalized == "" {
		return PropertyUnknown
	}

	for _, entry := range propertyTypeSpellings {
		for _, v := range entry.spellings {
			if normalized == v {
				return entry.typ
			}
		}
	}

	best, bestLen := PropertyUnknown, 0
	for _, entry := range propertyTypeSpellings {
		for _, v := range entry.spellings {
			if len(v) > bestLen && textnorm.ContainsWord(normalized, v) {
				best, bestLen = entry.typ, len(v)
			}
		}
	}
	return best
}

// Valid reports whether p is one of the known property types
func (p PropertyType) Valid() bool {
	return p != PropertyUnknown && len(p.Spellings()) > 0
}

// Spellings returns every stored spelling of p
func (p PropertyType) Spellings() []string {
	for _, entry := range propertyTypeSpellings {
		if entry.typ == p {
			return entry.spellings
		}
	}
	return nil
}

// MarshalJSON writes unknown types as null
func (p PropertyType) MarshalJSON() ([]byte, error) {
	if p == PropertyUnknown {
		return []byte("null"), nil
	}
	return json.Marshal(string(p))
}

// UnmarshalJSON accepts any known spelling. Unrecognised values decode to
// PropertyUnknown instead of failing, since the value often comes from an LLM.
func (p *PropertyType) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*p = PropertyUnknown
		return nil
	}
	*p = ParsePropertyType(*s)
	return nil
}

// Amenity is a boolean feature of a listing
type Amenity string

const (
	AmenityWifi     Amenity = "wifi"
	AmenityAC       Amenity = "ac"
	AmenityParking  Amenity = "parking"
	AmenityKitchen  Amenity = "kitchen"
	AmenityWater    Amenity = "water"
	AmenityLaundry  Amenity = "laundry"
	AmenityBalcony  Amenity = "balcony"
	AmenitySecurity Amenity = "security"
)

// AllAmenities lists the amenity vocabulary in display order
var AllAmenities = []Amenity{
	AmenityWifi, AmenityAC, AmenityParking, AmenityKitchen,
	AmenityWater, AmenityLaundry, AmenityBalcony, AmenitySecurity,
}

// Amenities is a set of amenity flags
type Amenities map[Amenity]bool

// Requested returns the amenities set to true, sorted for stable output
func (a Amenities) Requested() []Amenity {
	var out []Amenity
	for k, v := range a {
		if v {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Listing status and moderation decision values
const (
	StatusAvailable = "available"
	StatusRented    = "rented"
	StatusHidden    = "hidden"

	DecisionAutoApproved = "auto_approved"
	DecisionPending      = "pending"
	DecisionRejected     = "rejected"
)

// Address is the postal address of a listing
type Address struct {
	Street   string `json:"street"`
	Ward     string `json:"ward"`
	District string `json:"district"`
	City     string `json:"city"`
}

// Listing is a rental post
type Listing struct {
	ID                 string       `json:"id"`
	Title              string       `json:"title"`
	Description        string       `json:"description"`
	PropertyType       PropertyType `json:"propertyType"`
	Price              float64      `json:"price"`
	Area               float64      `json:"area"`
	Address            Address      `json:"address"`
	Bedrooms           int          `json:"bedrooms"`
	Bathrooms          int          `json:"bathrooms"`
	Amenities          Amenities    `json:"amenities"`
	Rules              string       `json:"rules,omitempty"`
	ModerationScore    *float64     `json:"moderationScore,omitempty"`
	Status             string       `json:"status"`
	ModerationDecision string       `json:"moderationDecision"`
	LandlordID         string       `json:"landlordId,omitempty"`
	CreatedAt          time.Time    `json:"createdAt"`
}

// Query is a storage-neutral broad-phase filter over listings. Patterns are
// case-insensitive regular expressions; nil bounds and empty patterns are not
// applied.
type Query struct {
	Status             string
	ModerationDecision string
	PropertyTypes      []string
	PriceMin           *float64
	PriceMax           *float64
	AreaMin            *float64
	AreaMax            *float64
	CityPattern        string
	DistrictPattern    string
	WardPattern        string
	RulesPattern       string
	Amenities          []Amenity
	MinBedrooms        *int
	MinBathrooms       *int
	Limit              int
}
