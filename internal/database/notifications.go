package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateNotification inserts a new notification
func (db *DB) CreateNotification(ctx context.Context, n *Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	var data sql.NullString
	if len(n.Data) > 0 {
		encoded, err := json.Marshal(n.Data)
		if err != nil {
			return fmt.Errorf("failed to encode notification data: %w", err)
		}
		data = sql.NullString{String: string(encoded), Valid: true}
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO notifications (id, user_id, type, title, message, link, data, is_read, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, n.ID, n.UserID, n.Type, n.Title, n.Message, n.Link, data, n.Read, n.CreatedAt)
	return err
}

// ListNotifications retrieves a user's notifications, newest first
func (db *DB) ListNotifications(ctx context.Context, userID string, limit int) ([]Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, link, data, is_read, created_at
		FROM notifications WHERE user_id = ?
		ORDER BY created_at DESC
	`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []Notification
	for rows.Next() {
		var n Notification
		var data sql.NullString
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &n.Link, &data, &n.Read, &n.CreatedAt); err != nil {
			return nil, err
		}
		if data.Valid {
			if err := json.Unmarshal([]byte(data.String), &n.Data); err != nil {
				return nil, fmt.Errorf("notification %s has invalid data: %w", n.ID, err)
			}
		}
		notifications = append(notifications, n)
	}
	return notifications, rows.Err()
}
