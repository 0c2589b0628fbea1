package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrLeadNotFound = errors.New("lead não encontrado")

// Canais de identificação, em ordem de confiança.
type Channel string

const (
	ChannelInstagram   Channel = "instagram_id"
	ChannelFingerprint Channel = "browser_fingerprint"
	ChannelWhatsapp    Channel = "whatsapp"
	ChannelEmail       Channel = "email"
)

type HeatLevel string

const (
	HeatCold HeatLevel = "COLD"
	HeatWarm HeatLevel = "WARM"
	HeatHot  HeatLevel = "HOT"
)

// Identifiers carrega os identificadores extraídos de um evento de conversa.
// Todos os campos são opcionais; vazio significa "não veio nesse evento".
type Identifiers struct {
	InstagramID        string `json:"instagram_id,omitempty"`
	BrowserFingerprint string `json:"browser_fingerprint,omitempty"`
	Whatsapp           string `json:"whatsapp,omitempty"`
	Email              string `json:"email,omitempty"`
}

func (i Identifiers) Empty() bool {
	return i.InstagramID == "" && i.BrowserFingerprint == "" && i.Whatsapp == "" && i.Email == ""
}

type Lead struct {
	ID       string `json:"id"`
	StudioID string `json:"studio_id"`

	// Identidade por canal. Vazio = NULL no banco. Únicos por estúdio
	// quando não nulos (índices parciais em migrations/001_init.sql).
	InstagramID        string `json:"instagram_id,omitempty"`
	BrowserFingerprint string `json:"browser_fingerprint,omitempty"`
	Whatsapp           string `json:"whatsapp,omitempty"`
	Email              string `json:"email,omitempty"`

	Name          string    `json:"name,omitempty"`
	ServiceType   string    `json:"service_type,omitempty"`
	EventDate     string    `json:"event_date,omitempty"`
	EventLocation string    `json:"event_location,omitempty"`
	HeatLevel     HeatLevel `json:"heat_level"`

	LastInteractionAt time.Time `json:"last_interaction_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Factory
func NewLead(studioID string, ids Identifiers) *Lead {
	now := time.Now().UTC()
	return &Lead{
		ID:                 uuid.New().String(),
		StudioID:           studioID,
		InstagramID:        ids.InstagramID,
		BrowserFingerprint: ids.BrowserFingerprint,
		Whatsapp:           ids.Whatsapp,
		Email:              ids.Email,
		HeatLevel:          HeatCold,
		LastInteractionAt:  now,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

func (l *Lead) Identifier(ch Channel) string {
	switch ch {
	case ChannelInstagram:
		return l.InstagramID
	case ChannelFingerprint:
		return l.BrowserFingerprint
	case ChannelWhatsapp:
		return l.Whatsapp
	case ChannelEmail:
		return l.Email
	}
	return ""
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, studioID, id string) (*Lead, error)

	// FindByChannel retorna (nil, nil) quando não há match — "não achou"
	// não é erro para a cadeia de resolução.
	FindByChannel(ctx context.Context, studioID string, ch Channel, value string) (*Lead, error)

	// MergeChannelIDs preenche instagram_id/browser_fingerprint APENAS se
	// estiverem NULL no banco (COALESCE). Idempotente.
	MergeChannelIDs(ctx context.Context, studioID, leadID, instagramID, fingerprint string) error

	Touch(ctx context.Context, studioID, leadID string, at time.Time) error
	UpdateProfile(ctx context.Context, studioID, leadID string, name, serviceType, eventDate, eventLocation string) error
	UpdateHeat(ctx context.Context, studioID, leadID string, heat HeatLevel) error
	Upsert(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, studioID, id string) error
}
