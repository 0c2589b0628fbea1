package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Message é uma mensagem de conversa atribuída a um lead.
type Message struct {
	ID        string    `json:"id"`
	StudioID  string    `json:"studio_id"`
	LeadID    string    `json:"lead_id"`
	Channel   Channel   `json:"channel"`
	Direction string    `json:"direction"` // INBOUND, OUTBOUND
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func NewInboundMessage(studioID, leadID string, ch Channel, body string) *Message {
	return &Message{
		ID:        uuid.New().String(),
		StudioID:  studioID,
		LeadID:    leadID,
		Channel:   ch,
		Direction: "INBOUND",
		Body:      body,
		CreatedAt: time.Now().UTC(),
	}
}

type MessageRepositoryInterface interface {
	Create(ctx context.Context, msg *Message) error
	ListByLead(ctx context.Context, studioID, leadID string, limit int) ([]Message, error)
}
