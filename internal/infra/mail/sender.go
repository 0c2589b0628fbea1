package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

var proposalSignedTmpl = template.Must(template.New("proposal_signed").Parse(`
<p>Boa notícia! <strong>{{.SignerName}}</strong> acabou de assinar a proposta
<strong>{{.ProposalTitle}}</strong>.</p>
<p>Valor fechado: <strong>{{.Total}}</strong></p>
<p>O contrato assinado já está disponível no seu painel Lumina.</p>
`))

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = "nao-responda@lumina.foto"
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) SendProposalSigned(to, signerName, proposalTitle string, totalCents int) error {
	data := ProposalSignedEmailData{
		SignerName:    signerName,
		ProposalTitle: proposalTitle,
		Total:         formatBRL(totalCents),
	}

	var body bytes.Buffer
	if err := proposalSignedTmpl.Execute(&body, data); err != nil {
		return fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("✍️ Proposta assinada: %s", proposalTitle))
	m.SetBody("text/html", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}

	return nil
}

func formatBRL(cents int) string {
	return fmt.Sprintf("R$ %d,%02d", cents/100, cents%100)
}
