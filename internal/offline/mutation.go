package offline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/luminafoto/lumina-api/internal/entity"
)

// ErrUnknownMutation: o registro guardado não bate com nenhuma variante
// conhecida. Erro alto em vez de no-op silencioso.
var ErrUnknownMutation = errors.New("mutação desconhecida")

// Kind identifica o par (tabela, operação). Conjunto fechado: só existem as
// combinações que a aplicação realmente usa.
type Kind string

const (
	KindLeadInsert     Kind = "leads.insert"
	KindLeadUpdate     Kind = "leads.update"
	KindLeadDelete     Kind = "leads.delete"
	KindFavoriteInsert Kind = "gallery_favorites.insert"
	KindFavoriteDelete Kind = "gallery_favorites.delete"
)

// Mutation é uma variante tipada de escrita adiável.
type Mutation interface {
	Kind() Kind
}

type LeadInsert struct {
	Lead entity.Lead `json:"lead"`
}

func (LeadInsert) Kind() Kind { return KindLeadInsert }

// LeadPatch são os campos de perfil que o update offline pode tocar.
type LeadPatch struct {
	Name          string           `json:"name,omitempty"`
	ServiceType   string           `json:"service_type,omitempty"`
	EventDate     string           `json:"event_date,omitempty"`
	EventLocation string           `json:"event_location,omitempty"`
	HeatLevel     entity.HeatLevel `json:"heat_level,omitempty"`
}

type LeadUpdate struct {
	StudioID string    `json:"studio_id"`
	LeadID   string    `json:"lead_id"`
	Patch    LeadPatch `json:"patch"`
}

func (LeadUpdate) Kind() Kind { return KindLeadUpdate }

type LeadDelete struct {
	StudioID string `json:"studio_id"`
	LeadID   string `json:"lead_id"`
}

func (LeadDelete) Kind() Kind { return KindLeadDelete }

type FavoriteInsert struct {
	Favorite entity.Favorite `json:"favorite"`
}

func (FavoriteInsert) Kind() Kind { return KindFavoriteInsert }

type FavoriteDelete struct {
	StudioID           string `json:"studio_id"`
	GalleryID          string `json:"gallery_id"`
	PhotoID            string `json:"photo_id"`
	BrowserFingerprint string `json:"browser_fingerprint"`
}

func (FavoriteDelete) Kind() Kind { return KindFavoriteDelete }

// Applier aplica uma mutação no armazenamento remoto. Implementado sobre os
// repositórios Postgres em infra/database.
type Applier interface {
	Apply(ctx context.Context, m Mutation) error
}

// Record é o envelope durável de uma mutação pendente no cache local.
type Record struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
}

func EncodeMutation(id string, m Mutation, createdAt time.Time) (Record, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return Record{}, fmt.Errorf("erro ao serializar mutação %s: %w", m.Kind(), err)
	}
	return Record{
		ID:        id,
		Kind:      m.Kind(),
		Payload:   payload,
		CreatedAt: createdAt,
	}, nil
}

// Decode reconstrói a variante tipada. Switch exaustivo sobre os Kinds; o
// default é ErrUnknownMutation, nunca um descarte quieto.
func (r Record) Decode() (Mutation, error) {
	switch r.Kind {
	case KindLeadInsert:
		var m LeadInsert
		return decodeInto(r, &m)
	case KindLeadUpdate:
		var m LeadUpdate
		return decodeInto(r, &m)
	case KindLeadDelete:
		var m LeadDelete
		return decodeInto(r, &m)
	case KindFavoriteInsert:
		var m FavoriteInsert
		return decodeInto(r, &m)
	case KindFavoriteDelete:
		var m FavoriteDelete
		return decodeInto(r, &m)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMutation, r.Kind)
	}
}

func decodeInto[M Mutation](r Record, m *M) (Mutation, error) {
	if err := json.Unmarshal(r.Payload, m); err != nil {
		return nil, fmt.Errorf("payload inválido para %s: %w", r.Kind, err)
	}
	return *m, nil
}
