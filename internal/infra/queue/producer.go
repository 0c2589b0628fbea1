package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	KindLeadMerged     = "lead.merged"
	KindProposalSigned = "proposal.signed"
)

// NotificationPayload é o evento que atravessa a fila. Kind decide quais
// campos importam; o worker roteia por ele.
type NotificationPayload struct {
	Kind     string `json:"kind"`
	StudioID string `json:"studio_id"`

	// lead.merged
	LeadID   string `json:"lead_id,omitempty"`
	LeadName string `json:"lead_name,omitempty"`

	// proposal.signed
	ProposalID    string `json:"proposal_id,omitempty"`
	ProposalTitle string `json:"proposal_title,omitempty"`
	TotalCents    int    `json:"total_cents,omitempty"`
	SignerName    string `json:"signer_name,omitempty"`
	SignerEmail   string `json:"signer_email,omitempty"`

	// contato do estúdio para os envios
	StudioEmail string `json:"studio_email,omitempty"`
	StudioPhone string `json:"studio_phone,omitempty"`
}

type QueueProducerInterface interface {
	PublishNotification(ctx context.Context, payload NotificationPayload) error
}

type RabbitMQProducer struct {
	Conn *amqp.Connection
	Ch   *amqp.Channel
}

func NewProducer(conn *amqp.Connection, ch *amqp.Channel) *RabbitMQProducer {
	return &RabbitMQProducer{Conn: conn, Ch: ch}
}

func (p *RabbitMQProducer) PublishNotification(ctx context.Context, payload NotificationPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("erro ao converter payload: %v", err)
	}

	err = p.Ch.PublishWithContext(ctx,
		ExchangeName,
		RoutingKey,
		false, // Mandatory
		false, // Immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent, // Mensagem salva no disco
		},
	)
	if err != nil {
		return fmt.Errorf("falha ao publicar no RabbitMQ: %v", err)
	}

	return nil
}
