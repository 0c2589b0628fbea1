package usecase

import (
	"context"

	"github.com/luminafoto/lumina-api/internal/entity"
	"github.com/luminafoto/lumina-api/internal/infra/queue"
)

type ChatIntakeInput struct {
	StudioID    string             `json:"studio_id"`
	Identifiers entity.Identifiers `json:"identifiers"`
	Message     string             `json:"message"`
	Collected   CollectedData      `json:"collected_data"`
}

type ChatIntakeOutput struct {
	LeadID       string         `json:"lead_id"`
	IsNew        bool           `json:"is_new"`
	MatchedBy    entity.Channel `json:"matched_by,omitempty"`
	Merged       bool           `json:"merged"`
	Completeness int            `json:"completeness"`
}

type SignProposalInput struct {
	ProposalID  string `json:"proposal_id"`
	SignerName  string `json:"signer_name"`
	SignerEmail string `json:"signer_email"`
}

type SignProposalOutput struct {
	ProposalID string `json:"proposal_id"`
	Status     string `json:"status"`
	SignedAt   string `json:"signed_at"`
}

type QueueProducerInterface interface {
	PublishNotification(ctx context.Context, payload queue.NotificationPayload) error
}

type EmailService interface {
	SendProposalSigned(to, signerName, proposalTitle string, totalCents int) error
}

type WhatsAppService interface {
	NotifyStudio(phone, templateName string, params []string) error
}

// Resolver é o que o chat intake precisa do LeadResolver. Interface própria
// para os testes mockarem a resolução sem banco.
type Resolver interface {
	Resolve(ctx context.Context, studioID string, ids entity.Identifiers) (*ResolveResult, error)
}
