package usecase

import (
	"context"
	"log"
	"time"

	"github.com/luminafoto/lumina-api/internal/entity"
	"github.com/luminafoto/lumina-api/internal/infra/queue"
)

// ChatIntakeUseCase processa um evento inbound do widget de chat (ou do
// webhook de Instagram/WhatsApp): resolve o lead, cria se não existir,
// registra a mensagem e dispara notificação quando houve merge cross-channel.
type ChatIntakeUseCase struct {
	Resolver    Resolver
	LeadRepo    entity.LeadRepositoryInterface
	MessageRepo entity.MessageRepositoryInterface
	Queue       QueueProducerInterface
}

func NewChatIntakeUseCase(
	resolver Resolver,
	leadRepo entity.LeadRepositoryInterface,
	messageRepo entity.MessageRepositoryInterface,
	producer QueueProducerInterface,
) *ChatIntakeUseCase {
	return &ChatIntakeUseCase{
		Resolver:    resolver,
		LeadRepo:    leadRepo,
		MessageRepo: messageRepo,
		Queue:       producer,
	}
}

func (uc *ChatIntakeUseCase) Execute(ctx context.Context, input ChatIntakeInput) (*ChatIntakeOutput, error) {
	validationErrors := ValidateChatIntakeInput(input)
	if len(validationErrors) > 0 {
		errMsg := "validation failed: "
		for _, e := range validationErrors {
			errMsg += e.Field + " (" + e.Message + "), "
		}
		return nil, &DomainError{
			Code:    "VALIDATION_ERROR",
			Message: errMsg,
		}
	}

	// Falha de resolução aborta o turno: melhor o widget tentar de novo do
	// que a conversa cair no lead errado.
	result, err := uc.Resolver.Resolve(ctx, input.StudioID, input.Identifiers)
	if err != nil {
		return nil, &TechnicalError{
			Code:    "RESOLUTION_FAILED",
			Message: "falha ao resolver lead: " + err.Error(),
		}
	}

	now := time.Now().UTC()
	lead := result.Lead

	if lead == nil {
		lead = entity.NewLead(input.StudioID, input.Identifiers)
		applyCollected(lead, input.Collected)

		msg := entity.NewInboundMessage(input.StudioID, lead.ID, primaryChannel(input.Identifiers), input.Message)

		txn := NewTransaction()
		txn.AddOperation("create_lead", func(ctx context.Context) error {
			return uc.LeadRepo.Create(ctx, lead)
		})
		txn.AddCompensation("delete_lead", func(ctx context.Context) error {
			return uc.LeadRepo.Delete(ctx, lead.StudioID, lead.ID)
		})
		txn.AddOperation("create_message", func(ctx context.Context) error {
			return uc.MessageRepo.Create(ctx, msg)
		})

		if err := txn.Execute(ctx); err != nil {
			return nil, &TechnicalError{
				Code:    "DATABASE_ERROR",
				Message: "failed to persist lead and message: " + err.Error(),
			}
		}
	} else {
		if err := uc.LeadRepo.Touch(ctx, lead.StudioID, lead.ID, now); err != nil {
			log.Printf("⚠️ Falha ao atualizar last_interaction_at do lead %s: %v", lead.ID, err)
		}
		if hasCollected(input.Collected) {
			if err := uc.LeadRepo.UpdateProfile(ctx, lead.StudioID, lead.ID,
				input.Collected.Name, input.Collected.ServiceType,
				input.Collected.EventDate, input.Collected.EventLocation); err != nil {
				log.Printf("⚠️ Falha ao enriquecer perfil do lead %s: %v", lead.ID, err)
			}
		}

		msg := entity.NewInboundMessage(input.StudioID, lead.ID, result.MatchedBy, input.Message)
		if err := uc.MessageRepo.Create(ctx, msg); err != nil {
			return nil, &TechnicalError{
				Code:    "DATABASE_ERROR",
				Message: "failed to persist message: " + err.Error(),
			}
		}
	}

	if result.Merged {
		payload := queue.NotificationPayload{
			Kind:     queue.KindLeadMerged,
			StudioID: input.StudioID,
			LeadID:   lead.ID,
			LeadName: lead.Name,
		}
		if err := uc.Queue.PublishNotification(ctx, payload); err != nil {
			// Merge já está no banco; a fila é só aviso.
			log.Printf("⚠️ Merge salvo, mas falha ao publicar notificação: %v", err)
		}
	}

	return &ChatIntakeOutput{
		LeadID:       lead.ID,
		IsNew:        result.IsNew,
		MatchedBy:    result.MatchedBy,
		Merged:       result.Merged,
		Completeness: CalculateCompleteness(mergeCollected(lead, input.Collected)),
	}, nil
}

// primaryChannel escolhe o canal da mensagem pelo identificador mais forte presente.
func primaryChannel(ids entity.Identifiers) entity.Channel {
	switch {
	case ids.InstagramID != "":
		return entity.ChannelInstagram
	case ids.BrowserFingerprint != "":
		return entity.ChannelFingerprint
	case ids.Whatsapp != "":
		return entity.ChannelWhatsapp
	default:
		return entity.ChannelEmail
	}
}

func applyCollected(lead *entity.Lead, data CollectedData) {
	if data.Name != "" {
		lead.Name = data.Name
	}
	if data.ServiceType != "" {
		lead.ServiceType = data.ServiceType
	}
	if data.EventDate != "" {
		lead.EventDate = data.EventDate
	}
	if data.EventLocation != "" {
		lead.EventLocation = data.EventLocation
	}
	if data.Whatsapp != "" && lead.Whatsapp == "" {
		lead.Whatsapp = data.Whatsapp
	}
}

func hasCollected(data CollectedData) bool {
	return data.Name != "" || data.ServiceType != "" || data.EventDate != "" || data.EventLocation != ""
}

// mergeCollected calcula a completude pós-evento: o que o lead já tinha mais
// o que acabou de chegar.
func mergeCollected(lead *entity.Lead, data CollectedData) CollectedData {
	out := CollectedData{
		Name:          lead.Name,
		Whatsapp:      lead.Whatsapp,
		ServiceType:   lead.ServiceType,
		EventDate:     lead.EventDate,
		EventLocation: lead.EventLocation,
	}
	if out.Name == "" {
		out.Name = data.Name
	}
	if out.Whatsapp == "" {
		out.Whatsapp = data.Whatsapp
	}
	if out.ServiceType == "" {
		out.ServiceType = data.ServiceType
	}
	if out.EventDate == "" {
		out.EventDate = data.EventDate
	}
	if out.EventLocation == "" {
		out.EventLocation = data.EventLocation
	}
	return out
}
