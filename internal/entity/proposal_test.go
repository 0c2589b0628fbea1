package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRenderBodyReplacesTokens(t *testing.T) {
	p := &Proposal{
		Body: "Proposta para {{client_name}}, evento em {{event_date}} ({{event_location}}).",
	}

	out := p.RenderBody(map[string]string{
		"client_name":    "Mariana Souza",
		"event_date":     "2026-11-21",
		"event_location": "Campinas",
	})

	assert.Equal(t, "Proposta para Mariana Souza, evento em 2026-11-21 (Campinas).", out)
}

// Token sem valor fica visível no texto, nunca some quieto.
func TestRenderBodyKeepsUnknownTokens(t *testing.T) {
	p := &Proposal{Body: "Olá {{client_name}}, pacote {{package_name}}."}

	out := p.RenderBody(map[string]string{"client_name": "Carla"})

	assert.Equal(t, "Olá Carla, pacote {{package_name}}.", out)
}

// Lead sem email preenchido não pode apagar o token do contrato.
func TestRenderBodyKeepsTokenWhenValueEmpty(t *testing.T) {
	p := &Proposal{Body: "Contato: {{client_email}} / {{client_name}}"}

	out := p.RenderBody(map[string]string{
		"client_email": "",
		"client_name":  "Carla",
	})

	assert.Equal(t, "Contato: {{client_email}} / Carla", out)
}

func TestRenderBodyRepeatedToken(t *testing.T) {
	p := &Proposal{Body: "{{client_name}} e {{client_name}}"}
	assert.Equal(t, "Ana e Ana", p.RenderBody(map[string]string{"client_name": "Ana"}))
}

func TestSignTransitionsStatus(t *testing.T) {
	p := &Proposal{ID: "prop-1", Status: "SENT"}
	at := time.Date(2026, 8, 15, 14, 0, 0, 0, time.UTC)

	err := p.Sign("Mariana Souza", "mariana@gmail.com", at)

	assert.NoError(t, err)
	assert.Equal(t, "SIGNED", p.Status)
	assert.Equal(t, "Mariana Souza", p.SignerName)
	assert.Equal(t, at, *p.SignedAt)
}

func TestSignTwiceFails(t *testing.T) {
	p := &Proposal{ID: "prop-1", Status: "SENT"}
	at := time.Now().UTC()

	assert.NoError(t, p.Sign("Mariana", "mariana@gmail.com", at))
	err := p.Sign("Outra Pessoa", "outra@gmail.com", at.Add(time.Hour))

	assert.ErrorIs(t, err, ErrProposalAlreadySigned)
	// Primeira assinatura intacta.
	assert.Equal(t, "Mariana", p.SignerName)
}
