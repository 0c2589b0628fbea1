package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/luminafoto/lumina-api/internal/entity"
)

type ProposalRepository struct {
	DB *sql.DB
}

func NewProposalRepository(db *sql.DB) *ProposalRepository {
	return &ProposalRepository{DB: db}
}

func (r *ProposalRepository) FindByID(ctx context.Context, id string) (*entity.Proposal, error) {
	query := `
		SELECT id, studio_id, lead_id, title, body, total_cents, status,
		       signer_name, signer_email, signed_at, created_at, updated_at
		FROM proposals
		WHERE id = $1
	`

	var p entity.Proposal
	var signerName, signerEmail sql.NullString
	var signedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.StudioID, &p.LeadID, &p.Title, &p.Body, &p.TotalCents, &p.Status,
		&signerName, &signerEmail, &signedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrProposalNotFound
		}
		return nil, err
	}

	p.SignerName = signerName.String
	p.SignerEmail = signerEmail.String
	if signedAt.Valid {
		t := signedAt.Time
		p.SignedAt = &t
	}
	return &p, nil
}

// MarkSigned só transiciona proposta ainda não assinada; o WHERE protege
// contra assinatura dupla concorrente.
func (r *ProposalRepository) MarkSigned(ctx context.Context, id, signerName, signerEmail string, at time.Time) error {
	query := `
		UPDATE proposals
		SET status = 'SIGNED', signer_name = $2, signer_email = $3, signed_at = $4, updated_at = $4
		WHERE id = $1 AND status <> 'SIGNED'
	`
	result, err := r.DB.ExecContext(ctx, query, id, signerName, signerEmail, at)
	if err != nil {
		return err
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return entity.ErrProposalAlreadySigned
	}
	return nil
}
