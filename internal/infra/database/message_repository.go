package database

import (
	"context"
	"database/sql"

	"github.com/luminafoto/lumina-api/internal/entity"
)

type MessageRepository struct {
	DB *sql.DB
}

func NewMessageRepository(db *sql.DB) *MessageRepository {
	return &MessageRepository{DB: db}
}

func (r *MessageRepository) Create(ctx context.Context, msg *entity.Message) error {
	query := `
		INSERT INTO messages (id, studio_id, lead_id, channel, direction, body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.DB.ExecContext(ctx, query,
		msg.ID, msg.StudioID, msg.LeadID, string(msg.Channel), msg.Direction, msg.Body, msg.CreatedAt)
	return err
}

func (r *MessageRepository) ListByLead(ctx context.Context, studioID, leadID string, limit int) ([]entity.Message, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	query := `
		SELECT id, studio_id, lead_id, channel, direction, body, created_at
		FROM messages
		WHERE studio_id = $1 AND lead_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.DB.QueryContext(ctx, query, studioID, leadID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []entity.Message
	for rows.Next() {
		var msg entity.Message
		var channel string
		if err := rows.Scan(&msg.ID, &msg.StudioID, &msg.LeadID, &channel, &msg.Direction, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, err
		}
		msg.Channel = entity.Channel(channel)
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}
