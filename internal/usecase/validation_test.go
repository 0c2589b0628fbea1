package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/luminafoto/lumina-api/internal/entity"
)

func TestValidateChatIntakeInputValid(t *testing.T) {
	input := ChatIntakeInput{
		StudioID:    "studio-1",
		Identifiers: entity.Identifiers{Whatsapp: "+5511988887777", Email: "carla@gmail.com"},
		Message:     "Oi, quanto custa?",
		Collected:   CollectedData{EventDate: "2026-11-21"},
	}
	assert.Empty(t, ValidateChatIntakeInput(input))
}

func TestValidateChatIntakeInputMissingFields(t *testing.T) {
	errs := ValidateChatIntakeInput(ChatIntakeInput{})

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Contains(t, fields, "studio_id")
	assert.Contains(t, fields, "message")
}

func TestValidateChatIntakeInputBadIdentifiers(t *testing.T) {
	input := ChatIntakeInput{
		StudioID:    "studio-1",
		Message:     "oi",
		Identifiers: entity.Identifiers{Whatsapp: "abc", Email: "não-é-email"},
	}
	errs := ValidateChatIntakeInput(input)
	assert.Len(t, errs, 2)
}

func TestValidateChatIntakeInputPhoneFormats(t *testing.T) {
	valid := []string{"+5511988887777", "5511988887777", "11 98888-7777"}
	for _, phone := range valid {
		assert.True(t, isValidPhoneNumber(phone), phone)
	}

	invalid := []string{"123", "abc", "0000000000"}
	for _, phone := range invalid {
		assert.False(t, isValidPhoneNumber(phone), phone)
	}
}

func TestValidateChatIntakeInputMessageTooLong(t *testing.T) {
	input := ChatIntakeInput{
		StudioID: "studio-1",
		Message:  strings.Repeat("a", 4001),
	}
	errs := ValidateChatIntakeInput(input)
	assert.Len(t, errs, 1)
	assert.Equal(t, "message", errs[0].Field)
}

func TestValidateChatIntakeInputBadEventDate(t *testing.T) {
	input := ChatIntakeInput{
		StudioID:  "studio-1",
		Message:   "oi",
		Collected: CollectedData{EventDate: "21/11/2026"},
	}
	errs := ValidateChatIntakeInput(input)
	assert.Len(t, errs, 1)
	assert.Equal(t, "collected_data.event_date", errs[0].Field)
}

func TestValidateSignProposalInput(t *testing.T) {
	errs := ValidateSignProposalInput(SignProposalInput{
		ProposalID:  "prop-1",
		SignerName:  "Mariana Souza",
		SignerEmail: "mariana@gmail.com",
	})
	assert.Empty(t, errs)

	errs = ValidateSignProposalInput(SignProposalInput{
		ProposalID:  "prop-1",
		SignerName:  "Ma",
		SignerEmail: "inválido",
	})
	assert.Len(t, errs, 2)
}
