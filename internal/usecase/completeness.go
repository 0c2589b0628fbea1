package usecase

import (
	"math"
	"strings"
)

// CollectedData são os campos que o assistente tenta coletar na conversa.
type CollectedData struct {
	Name          string `json:"name,omitempty"`
	Whatsapp      string `json:"whatsapp,omitempty"`
	ServiceType   string `json:"service_type,omitempty"`
	EventDate     string `json:"event_date,omitempty"`
	EventLocation string `json:"event_location,omitempty"`
}

// CalculateCompleteness devolve 0..100: quantos dos cinco campos rastreados
// já foram coletados. Heurística de triagem para o dashboard, nada decide
// admissão com base nisso.
func CalculateCompleteness(data CollectedData) int {
	fields := []string{data.Name, data.Whatsapp, data.ServiceType, data.EventDate, data.EventLocation}

	filled := 0
	for _, f := range fields {
		if strings.TrimSpace(f) != "" {
			filled++
		}
	}

	return int(math.Round(float64(filled) / float64(len(fields)) * 100))
}
