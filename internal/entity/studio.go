package entity

import (
	"context"
	"errors"
	"time"
)

var ErrStudioNotFound = errors.New("estúdio não encontrado")

// Studio é o tenant: um fotógrafo/corretor. Todo lead, galeria e proposta
// pertence a exatamente um estúdio.
type Studio struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Whatsapp  string    `json:"whatsapp,omitempty"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"created_at"`
}

type StudioRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Studio, error)
}
