package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateCompletenessEmpty(t *testing.T) {
	assert.Equal(t, 0, CalculateCompleteness(CollectedData{}))
}

func TestCalculateCompletenessFull(t *testing.T) {
	data := CollectedData{
		Name:          "Mariana Souza",
		Whatsapp:      "+5511988887777",
		ServiceType:   "casamento",
		EventDate:     "2026-11-21",
		EventLocation: "Campinas",
	}
	assert.Equal(t, 100, CalculateCompleteness(data))
}

func TestCalculateCompletenessPartial(t *testing.T) {
	data := CollectedData{
		Name:     "Mariana",
		Whatsapp: "+5511988887777",
	}
	assert.Equal(t, 40, CalculateCompleteness(data))
}

func TestCalculateCompletenessIgnoresWhitespace(t *testing.T) {
	data := CollectedData{
		Name:        "  ",
		ServiceType: "ensaio",
	}
	assert.Equal(t, 20, CalculateCompleteness(data))
}
