package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/luminafoto/lumina-api/internal/entity"
	"github.com/luminafoto/lumina-api/internal/infra/queue"
)

type SignProposalUseCase struct {
	ProposalRepo entity.ProposalRepositoryInterface
	StudioRepo   entity.StudioRepositoryInterface
	Queue        QueueProducerInterface
}

func NewSignProposalUseCase(
	proposalRepo entity.ProposalRepositoryInterface,
	studioRepo entity.StudioRepositoryInterface,
	producer QueueProducerInterface,
) *SignProposalUseCase {
	return &SignProposalUseCase{
		ProposalRepo: proposalRepo,
		StudioRepo:   studioRepo,
		Queue:        producer,
	}
}

func (uc *SignProposalUseCase) Execute(ctx context.Context, input SignProposalInput) (*SignProposalOutput, error) {
	validationErrors := ValidateSignProposalInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: errMsg}
	}

	proposal, err := uc.ProposalRepo.FindByID(ctx, input.ProposalID)
	if err != nil {
		if errors.Is(err, entity.ErrProposalNotFound) {
			return nil, &DomainError{Code: "PROPOSAL_NOT_FOUND", Message: "proposta inválida"}
		}
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: err.Error()}
	}

	now := time.Now().UTC()
	if err := proposal.Sign(input.SignerName, input.SignerEmail, now); err != nil {
		return nil, &DomainError{Code: "ALREADY_SIGNED", Message: err.Error()}
	}

	if err := uc.ProposalRepo.MarkSigned(ctx, proposal.ID, input.SignerName, input.SignerEmail, now); err != nil {
		return nil, &TechnicalError{Code: "DATABASE_ERROR", Message: "falha ao gravar assinatura: " + err.Error()}
	}

	studio, err := uc.StudioRepo.FindByID(ctx, proposal.StudioID)
	if err != nil {
		log.Printf("⚠️ Assinatura gravada, mas estúdio %s não carregou: %v", proposal.StudioID, err)
	}

	payload := queue.NotificationPayload{
		Kind:          queue.KindProposalSigned,
		StudioID:      proposal.StudioID,
		ProposalID:    proposal.ID,
		ProposalTitle: proposal.Title,
		TotalCents:    proposal.TotalCents,
		SignerName:    input.SignerName,
		SignerEmail:   input.SignerEmail,
	}
	if studio != nil {
		payload.StudioEmail = studio.Email
		payload.StudioPhone = studio.Whatsapp
	}

	if err := uc.Queue.PublishNotification(ctx, payload); err != nil {
		// Assinado no banco; notificação perdida não desfaz contrato.
		log.Printf("⚠️ CRITICAL: Assinado no banco, mas falha na fila: %v", err)
	}

	return &SignProposalOutput{
		ProposalID: proposal.ID,
		Status:     proposal.Status,
		SignedAt:   now.Format(time.RFC3339),
	}, nil
}
