package queue

import (
	"encoding/json"
	"fmt"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Contratos dos canais de saída que o worker aciona.
type EmailNotifier interface {
	SendProposalSigned(to, signerName, proposalTitle string, totalCents int) error
}

type WhatsAppNotifier interface {
	NotifyStudio(phone, templateName string, params []string) error
}

type Worker struct {
	Channel  *amqp.Channel
	Email    EmailNotifier
	WhatsApp WhatsAppNotifier
}

func NewWorker(ch *amqp.Channel, email EmailNotifier, whatsapp WhatsAppNotifier) *Worker {
	return &Worker{
		Channel:  ch,
		Email:    email,
		WhatsApp: whatsapp,
	}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // auto-ack (manual é mais seguro)
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		log.Fatalf("❌ Falha ao registrar consumidor RabbitMQ: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload NotificationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] JSON Inválido: %s", err)
				// Mensagem podre. Rejeita sem requeue para não travar a fila.
				d.Nack(false, false)
				continue
			}

			log.Printf("📥 [WORKER] Notificação recebida: %s (estúdio %s)", payload.Kind, payload.StudioID)

			if err := w.ProcessNotification(payload); err != nil {
				log.Printf("❌ [WORKER] Erro no envio: %s", err)
				d.Nack(false, false)
			} else {
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] Worker rodando e aguardando na fila '%s'", queueName)
	<-forever
}

// ProcessNotification roteia pelo kind do evento.
func (w *Worker) ProcessNotification(payload NotificationPayload) error {
	switch payload.Kind {
	case KindProposalSigned:
		if payload.StudioEmail != "" {
			if err := w.Email.SendProposalSigned(payload.StudioEmail, payload.SignerName, payload.ProposalTitle, payload.TotalCents); err != nil {
				return fmt.Errorf("email de proposta assinada: %w", err)
			}
		}
		if payload.StudioPhone != "" {
			return w.WhatsApp.NotifyStudio(payload.StudioPhone, "proposta_assinada",
				[]string{payload.SignerName, payload.ProposalTitle})
		}
		return nil

	case KindLeadMerged:
		log.Printf("🔗 [WORKER] Lead %s unificado entre canais", payload.LeadID)
		if payload.StudioPhone != "" {
			return w.WhatsApp.NotifyStudio(payload.StudioPhone, "lead_unificado",
				[]string{payload.LeadName})
		}
		return nil

	default:
		log.Printf("⚠️ Notificação desconhecida: %s. Apenas logando.", payload.Kind)
		// ACK para tirar da fila, já que não sabemos tratar
		return nil
	}
}
