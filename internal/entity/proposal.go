package entity

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrProposalNotFound      = errors.New("proposta não encontrada")
	ErrProposalAlreadySigned = errors.New("proposta já assinada")
)

type Proposal struct {
	ID          string     `json:"id"`
	StudioID    string     `json:"studio_id"`
	LeadID      string     `json:"lead_id"`
	Title       string     `json:"title"`
	Body        string     `json:"body"` // template com tokens {{client_name}} etc
	TotalCents  int        `json:"total_cents"`
	Status      string     `json:"status"` // DRAFT, SENT, SIGNED
	SignerName  string     `json:"signer_name,omitempty"`
	SignerEmail string     `json:"signer_email,omitempty"`
	SignedAt    *time.Time `json:"signed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// RenderBody substitui os tokens {{chave}} do corpo da proposta.
// Token sem valor correspondente (ou com valor vazio) fica intacto no
// texto — melhor visível no contrato do que sumir silenciosamente.
func (p *Proposal) RenderBody(vars map[string]string) string {
	out := p.Body
	for key, value := range vars {
		if value == "" {
			continue
		}
		out = strings.ReplaceAll(out, "{{"+key+"}}", value)
	}
	return out
}

func (p *Proposal) Sign(name, email string, at time.Time) error {
	if p.Status == "SIGNED" {
		return ErrProposalAlreadySigned
	}
	p.Status = "SIGNED"
	p.SignerName = name
	p.SignerEmail = email
	p.SignedAt = &at
	p.UpdatedAt = at
	return nil
}

type ProposalRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Proposal, error)
	MarkSigned(ctx context.Context, id, signerName, signerEmail string, at time.Time) error
}
