package search

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/config"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
	"github.com/vijay-prabhu/roomfinder-mcp/internal/textnorm"
)

// Signal names one scoring term
type Signal string

const (
	SignalPropertyType Signal = "propertyType"
	SignalDistrict     Signal = "district"
	SignalUniversity   Signal = "university"
	SignalPrice        Signal = "price"
	SignalArea         Signal = "area"
	SignalAmenities    Signal = "amenities"
	SignalGender       Signal = "gender"
	SignalQuality      Signal = "quality"
	SignalRecency      Signal = "recency"
)

// signals lists every signal in summation order
var signals = []Signal{
	SignalPropertyType, SignalDistrict, SignalUniversity, SignalPrice, SignalArea,
	SignalAmenities, SignalGender, SignalQuality, SignalRecency,
}

// Signal weights
const (
	weightPropertyType     = 15.0
	weightDistrict         = 25.0
	weightUniversityNamed  = 20.0
	weightUniversityNearby = 10.0
	weightPriceRange       = 20.0
	weightPriceOneSided    = 15.0
	weightAreaRange        = 10.0
	weightAreaOneSided     = 7.0
	weightAmenities        = 10.0
	weightGender           = 5.0
	weightQuality          = 5.0
	weightRecency          = 5.0

	recencyWindowDays = 7.0
)

// RankedListing is a listing with its relevance score and the per-signal
// breakdown that produced it.
type RankedListing struct {
	listing.Listing
	RelevanceScore float64            `json:"relevanceScore"`
	ScoreDetails   map[Signal]float64 `json:"scoreDetails"`
}

// Ranker scores candidate listings against a parsed filter
type Ranker struct {
	MinScore   float64 // Listings scoring below this are dropped
	MaxResults int     // Results are truncated to this many
	now        func() time.Time
}

// NewRanker creates a Ranker from the search configuration
func NewRanker(cfg config.SearchConfig) *Ranker {
	return &Ranker{
		MinScore:   cfg.MinScore,
		MaxResults: cfg.MaxResults,
		now:        time.Now,
	}
}

// SetClock replaces the clock used for the recency bonus
func (r *Ranker) SetClock(now func() time.Time) {
	r.now = now
}

// Rank scores every candidate, sorts by score descending keeping input order
// for ties, drops anything under MinScore and truncates to MaxResults.
func (r *Ranker) Rank(f ParsedFilter, candidates []listing.Listing) []RankedListing {
	now := r.now()

	ranked := make([]RankedListing, 0, len(candidates))
	for _, l := range candidates {
		ranked = append(ranked, score(f, l, now))
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	kept := ranked[:0]
	for _, rl := range ranked {
		if rl.RelevanceScore >= r.MinScore {
			kept = append(kept, rl)
		}
	}

	if r.MaxResults > 0 && len(kept) > r.MaxResults {
		kept = kept[:r.MaxResults]
	}
	return kept
}

// Score computes the relevance of a single listing
func (r *Ranker) Score(f ParsedFilter, l listing.Listing) RankedListing {
	return score(f, l, r.now())
}

func score(f ParsedFilter, l listing.Listing, now time.Time) RankedListing {
	details := make(map[Signal]float64)
	add := func(s Signal, points float64) {
		if points > 0 {
			details[s] = points
		}
	}

	if f.PropertyType.Valid() && f.PropertyType == l.PropertyType {
		add(SignalPropertyType, weightPropertyType)
	}

	if districtMatches(str(f.Location.District), l.Address.District) {
		add(SignalDistrict, weightDistrict)
	}

	add(SignalUniversity, universityScore(str(f.Location.University), l))
	add(SignalPrice, priceScore(f.PriceMin, f.PriceMax, l.Price))
	add(SignalArea, areaScore(f.AreaMin, f.AreaMax, l.Area))
	add(SignalAmenities, amenityScore(f.Amenities, l.Amenities))

	if keywords := f.ruleKeywords(); len(keywords) > 0 && l.Rules != "" {
		if textnorm.ContainsAnyWord(textnorm.Lower(l.Rules), keywords...) {
			add(SignalGender, weightGender)
		}
	}

	if l.ModerationScore != nil {
		add(SignalQuality, weightQuality*math.Min(math.Max(*l.ModerationScore, 0), 1))
	}

	add(SignalRecency, recencyScore(l.CreatedAt, now))

	total := 0.0
	for _, s := range signals {
		if points, ok := details[s]; ok {
			total += points
			details[s] = round1(points)
		}
	}

	return RankedListing{
		Listing:        l,
		RelevanceScore: round1(total),
		ScoreDetails:   details,
	}
}

// districtMatches compares districts by canonical code when both are known,
// so "Quận 1" matches "Q.1" but not "Quận 10". Otherwise it falls back to a
// diacritic-insensitive substring test in either direction.
func districtMatches(want, have string) bool {
	want, have = strings.TrimSpace(want), strings.TrimSpace(have)
	if want == "" || have == "" {
		return false
	}

	wantCode, haveCode := listing.CanonicalDistrict(want), listing.CanonicalDistrict(have)
	if wantCode != "" && haveCode != "" {
		return wantCode == haveCode
	}

	w, h := textnorm.Fold(want), textnorm.Fold(have)
	return strings.Contains(h, w) || strings.Contains(w, h)
}

// universityScore rewards listings that name the target university, or that
// sit in its district without naming a different one.
func universityScore(ref string, l listing.Listing) float64 {
	if strings.TrimSpace(ref) == "" {
		return 0
	}
	target, ok := listing.LookupUniversity(ref)
	if !ok {
		return 0
	}

	text := l.Title + " " + l.Description
	if target.MentionedIn(text) {
		return weightUniversityNamed
	}

	if !districtMatches(target.District, l.Address.District) {
		return 0
	}
	for _, other := range listing.Universities {
		if other.Name != target.Name && other.MentionedIn(text) {
			return 0
		}
	}
	return weightUniversityNearby
}

// priceScore is linear in the distance from the middle of the range when
// both bounds are given, and flat when only one is.
func priceScore(minP, maxP *float64, price float64) float64 {
	lo, hasLo := positive(minP)
	hi, hasHi := positive(maxP)

	switch {
	case hasLo && hasHi:
		if price < lo || price > hi {
			return 0
		}
		if hi == lo {
			return weightPriceRange
		}
		mid := (lo + hi) / 2
		return weightPriceRange * (1 - math.Abs(price-mid)/(hi-lo))
	case hasLo && price >= lo:
		return weightPriceOneSided
	case hasHi && price <= hi:
		return weightPriceOneSided
	}
	return 0
}

func areaScore(minA, maxA *float64, area float64) float64 {
	lo, hasLo := positive(minA)
	hi, hasHi := positive(maxA)

	switch {
	case hasLo && hasHi:
		if area >= lo && area <= hi {
			return weightAreaRange
		}
		return 0
	case hasLo && area >= lo:
		return weightAreaOneSided
	case hasHi && area <= hi:
		return weightAreaOneSided
	}
	return 0
}

// amenityScore is proportional to the share of requested amenities present
func amenityScore(requested, have listing.Amenities) float64 {
	wanted := requested.Requested()
	if len(wanted) == 0 {
		return 0
	}
	matched := 0
	for _, a := range wanted {
		if have[a] {
			matched++
		}
	}
	return weightAmenities * float64(matched) / float64(len(wanted))
}

// recencyScore decays linearly to zero over the first week. Listings without
// a creation time get nothing; timestamps in the future count as brand new.
func recencyScore(created, now time.Time) float64 {
	if created.IsZero() {
		return 0
	}
	days := now.Sub(created).Hours() / 24
	if days < 0 {
		days = 0
	}
	if days >= recencyWindowDays {
		return 0
	}
	return weightRecency * (1 - days/recencyWindowDays)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
