package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/moderation"
)

const reviewColumns = `
	id, listing_id, user_id, rating, title, comment, review_type, verified,
	status, trust_score, auto_approved, auto_rejected, reason, details,
	moderated_by, moderated_at, created_at
`

// CreateReview inserts a new review
func (db *DB) CreateReview(ctx context.Context, r *Review) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	if r.Status == "" {
		r.Status = moderation.StatusPending
	}

	details, err := encodeDetails(r.Details)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO reviews (`+reviewColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		r.ID, r.ListingID, r.UserID, r.Rating, r.Title, r.Comment, r.Type, r.Verified,
		r.Status, r.TrustScore, r.AutoApproved, r.AutoRejected, r.Reason, details,
		NullString(r.ModeratedBy), NullTime(r.ModeratedAt), r.CreatedAt,
	)
	return err
}

// GetReview retrieves a review by ID
func (db *DB) GetReview(ctx context.Context, id string) (*Review, error) {
	row := db.QueryRowContext(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = ?`, id)
	r, err := scanReview(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ListReviews retrieves reviews with optional filters, newest first
func (db *DB) ListReviews(ctx context.Context, opts ReviewListOptions) ([]Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE 1=1`
	args := []interface{}{}

	if opts.Status != nil {
		query += " AND status = ?"
		args = append(args, *opts.Status)
	}
	if opts.ListingID != nil {
		query += " AND listing_id = ?"
		args = append(args, *opts.ListingID)
	}
	if opts.UserID != nil {
		query += " AND user_id = ?"
		args = append(args, *opts.UserID)
	}

	query += " ORDER BY created_at DESC"

	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}
	if opts.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", opts.Offset)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []Review
	for rows.Next() {
		r, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, *r)
	}
	return reviews, rows.Err()
}

// UserReviewHistory aggregates a user's previous reviews by moderation status
func (db *DB) UserReviewHistory(ctx context.Context, userID string) (moderation.History, error) {
	var h moderation.History
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0)
		FROM reviews WHERE user_id = ?
	`, userID).Scan(&h.Total, &h.Approved, &h.Rejected)
	if err != nil {
		return moderation.History{}, fmt.Errorf("failed to aggregate review history: %w", err)
	}
	return h, nil
}

// UpdateReviewModeration stores a fresh automatic moderation result
func (db *DB) UpdateReviewModeration(ctx context.Context, r *Review) error {
	details, err := encodeDetails(r.Details)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx, `
		UPDATE reviews SET
			status = ?, trust_score = ?, auto_approved = ?, auto_rejected = ?,
			reason = ?, details = ?, moderated_at = ?
		WHERE id = ?
	`,
		r.Status, r.TrustScore, r.AutoApproved, r.AutoRejected,
		r.Reason, details, NullTime(r.ModeratedAt), r.ID,
	)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("review not found: %s", r.ID)
	}
	return nil
}

// SetReviewStatus records a manual moderation decision. An empty reason
// keeps the existing one.
func (db *DB) SetReviewStatus(ctx context.Context, id string, status moderation.Status, reason, moderatedBy string) error {
	now := time.Now()

	result, err := db.ExecContext(ctx, `
		UPDATE reviews SET
			status = ?,
			reason = CASE WHEN ? = '' THEN reason ELSE ? END,
			moderated_by = ?, moderated_at = ?
		WHERE id = ?
	`, status, reason, reason, moderatedBy, now, id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("review not found: %s", id)
	}
	return nil
}

// DeleteReview removes a review
func (db *DB) DeleteReview(ctx context.Context, id string) error {
	result, err := db.ExecContext(ctx, "DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("review not found: %s", id)
	}
	return nil
}

// GetReviewStats counts reviews by moderation outcome
func (db *DB) GetReviewStats(ctx context.Context) (*ReviewStats, error) {
	stats := &ReviewStats{}
	err := db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'approved' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(auto_approved), 0),
			COALESCE(SUM(auto_rejected), 0)
		FROM reviews
	`).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected, &stats.AutoApproved, &stats.AutoRejected)
	if err != nil {
		return nil, fmt.Errorf("failed to get review stats: %w", err)
	}
	return stats, nil
}

func encodeDetails(d *moderation.Details) (sql.NullString, error) {
	if d == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(d)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode moderation details: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func scanReview(s scanner) (*Review, error) {
	r := &Review{}
	var details, moderatedBy sql.NullString
	var moderatedAt sql.NullTime

	err := s.Scan(
		&r.ID, &r.ListingID, &r.UserID, &r.Rating, &r.Title, &r.Comment, &r.Type, &r.Verified,
		&r.Status, &r.TrustScore, &r.AutoApproved, &r.AutoRejected, &r.Reason, &details,
		&moderatedBy, &moderatedAt, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if details.Valid {
		var d moderation.Details
		if err := json.Unmarshal([]byte(details.String), &d); err != nil {
			return nil, fmt.Errorf("review %s has invalid moderation details: %w", r.ID, err)
		}
		r.Details = &d
	}
	r.ModeratedBy = StringPtr(moderatedBy)
	r.ModeratedAt = TimePtr(moderatedAt)
	return r, nil
}
