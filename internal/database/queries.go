package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/listing"
)

const listingColumns = `
	id, title, description, property_type, price, area,
	street, ward, district, city, bedrooms, bathrooms,
	amenities, rules, moderation_score, status, moderation_decision,
	landlord_id, created_at
`

// execer is satisfied by both *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// CreateListing inserts a new listing
func (db *DB) CreateListing(ctx context.Context, l *listing.Listing) error {
	return InsertListing(ctx, db.DB, l)
}

// InsertListing inserts a listing through ex, filling in the ID, creation
// time, status and moderation decision when they are unset. Use it with a
// *sql.Tx from Transaction for bulk imports.
func InsertListing(ctx context.Context, ex execer, l *listing.Listing) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	if l.Status == "" {
		l.Status = listing.StatusAvailable
	}
	if l.ModerationDecision == "" {
		l.ModerationDecision = listing.DecisionPending
	}

	amenities, err := json.Marshal(l.Amenities)
	if err != nil {
		return fmt.Errorf("failed to encode amenities: %w", err)
	}
	if l.Amenities == nil {
		amenities = []byte("{}")
	}

	_, err = ex.ExecContext(ctx, `
		INSERT INTO listings (`+listingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.ID, l.Title, l.Description, string(l.PropertyType), l.Price, l.Area,
		l.Address.Street, l.Address.Ward, l.Address.District, l.Address.City,
		l.Bedrooms, l.Bathrooms, string(amenities), l.Rules, NullFloat64(l.ModerationScore),
		l.Status, l.ModerationDecision, l.LandlordID, l.CreatedAt,
	)
	return err
}

// GetListing retrieves a listing by ID
func (db *DB) GetListing(ctx context.Context, id string) (*listing.Listing, error) {
	row := db.QueryRowContext(ctx, `SELECT `+listingColumns+` FROM listings WHERE id = ?`, id)
	l, err := scanListing(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListListings retrieves listings, newest first
func (db *DB) ListListings(ctx context.Context, opts ListingListOptions) ([]listing.Listing, error) {
	query := `SELECT ` + listingColumns + ` FROM listings WHERE 1=1`
	args := []interface{}{}

	if opts.Status != nil {
		query += " AND status = ?"
		args = append(args, *opts.Status)
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	return db.queryListings(ctx, query, args...)
}

// FindListings runs the broad-phase search query. Every pattern is a
// case-insensitive regular expression evaluated by the REGEXP function.
func (db *DB) FindListings(ctx context.Context, q listing.Query) ([]listing.Listing, error) {
	where, args := compileQuery(q)

	query := `SELECT ` + listingColumns + ` FROM listings WHERE ` + where + ` ORDER BY created_at DESC`
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}

	return db.queryListings(ctx, query, args...)
}

// compileQuery turns a listing query into a WHERE clause and its arguments
func compileQuery(q listing.Query) (string, []interface{}) {
	conds := []string{"1=1"}
	args := []interface{}{}

	add := func(cond string, arg interface{}) {
		conds = append(conds, cond)
		args = append(args, arg)
	}

	if q.Status != "" {
		add("status = ?", q.Status)
	}
	if q.ModerationDecision != "" {
		add("moderation_decision = ?", q.ModerationDecision)
	}
	if len(q.PropertyTypes) > 0 {
		quoted := make([]string, len(q.PropertyTypes))
		for i, t := range q.PropertyTypes {
			quoted[i] = regexp.QuoteMeta(t)
		}
		add("property_type REGEXP ?", "^(?:"+strings.Join(quoted, "|")+")$")
	}
	if q.PriceMin != nil {
		add("price >= ?", *q.PriceMin)
	}
	if q.PriceMax != nil {
		add("price <= ?", *q.PriceMax)
	}
	if q.AreaMin != nil {
		add("area >= ?", *q.AreaMin)
	}
	if q.AreaMax != nil {
		add("area <= ?", *q.AreaMax)
	}
	if q.CityPattern != "" {
		add("city REGEXP ?", q.CityPattern)
	}
	if q.DistrictPattern != "" {
		add("district REGEXP ?", q.DistrictPattern)
	}
	if q.WardPattern != "" {
		add("ward REGEXP ?", q.WardPattern)
	}
	if q.RulesPattern != "" {
		add("rules REGEXP ?", q.RulesPattern)
	}
	for _, a := range q.Amenities {
		add("json_extract(amenities, ?) = 1", "$."+string(a))
	}
	if q.MinBedrooms != nil {
		add("bedrooms >= ?", *q.MinBedrooms)
	}
	if q.MinBathrooms != nil {
		add("bathrooms >= ?", *q.MinBathrooms)
	}

	return strings.Join(conds, " AND "), args
}

// SetListingModeration records a moderation decision and quality score for a listing
func (db *DB) SetListingModeration(ctx context.Context, id, decision string, score *float64) error {
	result, err := db.ExecContext(ctx, `
		UPDATE listings SET moderation_decision = ?, moderation_score = ? WHERE id = ?
	`, decision, NullFloat64(score), id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("listing not found: %s", id)
	}
	return nil
}

func (db *DB) queryListings(ctx context.Context, query string, args ...interface{}) ([]listing.Listing, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []listing.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *l)
	}
	return listings, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(s scanner) (*listing.Listing, error) {
	l := &listing.Listing{}
	var propertyType, amenities string
	var score sql.NullFloat64

	err := s.Scan(
		&l.ID, &l.Title, &l.Description, &propertyType, &l.Price, &l.Area,
		&l.Address.Street, &l.Address.Ward, &l.Address.District, &l.Address.City,
		&l.Bedrooms, &l.Bathrooms, &amenities, &l.Rules, &score,
		&l.Status, &l.ModerationDecision, &l.LandlordID, &l.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.PropertyType = listing.ParsePropertyType(propertyType)
	l.ModerationScore = Float64Ptr(score)
	if err := json.Unmarshal([]byte(amenities), &l.Amenities); err != nil {
		return nil, fmt.Errorf("listing %s has invalid amenities: %w", l.ID, err)
	}
	return l, nil
}
