package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrGalleryNotFound = errors.New("galeria não encontrada")

type Gallery struct {
	ID         string     `json:"id"`
	StudioID   string     `json:"studio_id"`
	Slug       string     `json:"slug"`
	Title      string     `json:"title"`
	CoverURL   string     `json:"cover_url,omitempty"`
	PhotoCount int        `json:"photo_count"`
	Status     string     `json:"status"` // ACTIVE, EXPIRED
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// Favorite marca uma foto favoritada por um visitante da galeria pública.
// O visitante é reconhecido pelo fingerprint do navegador, igual ao chat.
type Favorite struct {
	ID                 string    `json:"id"`
	StudioID           string    `json:"studio_id"`
	GalleryID          string    `json:"gallery_id"`
	PhotoID            string    `json:"photo_id"`
	BrowserFingerprint string    `json:"browser_fingerprint"`
	CreatedAt          time.Time `json:"created_at"`
}

func NewFavorite(studioID, galleryID, photoID, fingerprint string) *Favorite {
	return &Favorite{
		ID:                 uuid.New().String(),
		StudioID:           studioID,
		GalleryID:          galleryID,
		PhotoID:            photoID,
		BrowserFingerprint: fingerprint,
		CreatedAt:          time.Now().UTC(),
	}
}

type GalleryRepositoryInterface interface {
	FindBySlug(ctx context.Context, slug string) (*Gallery, error)
	CreateFavorite(ctx context.Context, fav *Favorite) error
	DeleteFavorite(ctx context.Context, studioID, galleryID, photoID, fingerprint string) error
	ListFavorites(ctx context.Context, studioID, galleryID string) ([]Favorite, error)
}
