package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/luminafoto/lumina-api/internal/entity"
	"github.com/luminafoto/lumina-api/internal/offline"
)

// MutationApplier aplica mutações da fila offline contra o Postgres.
// Type switch exaustivo sobre as variantes; variante nova sem case aqui cai
// no ErrUnknownMutation em vez de sumir quieta.
type MutationApplier struct {
	Leads     *LeadRepository
	Galleries *GalleryRepository
}

func NewMutationApplier(leads *LeadRepository, galleries *GalleryRepository) *MutationApplier {
	return &MutationApplier{
		Leads:     leads,
		Galleries: galleries,
	}
}

func (a *MutationApplier) Apply(ctx context.Context, m offline.Mutation) error {
	switch mut := m.(type) {
	case offline.LeadInsert:
		err := a.Leads.Create(ctx, &mut.Lead)
		if errors.Is(err, ErrDuplicateIdentifier) {
			// Replay depois de um apply parcialmente confirmado: a linha já
			// existe, a mutação cumpriu o que prometia.
			return nil
		}
		return err

	case offline.LeadUpdate:
		patch := mut.Patch
		if patch.HeatLevel != "" {
			if err := a.Leads.UpdateHeat(ctx, mut.StudioID, mut.LeadID, patch.HeatLevel); err != nil {
				return err
			}
		}
		if patch.Name != "" || patch.ServiceType != "" || patch.EventDate != "" || patch.EventLocation != "" {
			return a.Leads.UpdateProfile(ctx, mut.StudioID, mut.LeadID,
				patch.Name, patch.ServiceType, patch.EventDate, patch.EventLocation)
		}
		return nil

	case offline.LeadDelete:
		return a.Leads.Delete(ctx, mut.StudioID, mut.LeadID)

	case offline.FavoriteInsert:
		err := a.Galleries.CreateFavorite(ctx, &mut.Favorite)
		if errors.Is(err, entity.ErrGalleryNotFound) {
			// Galeria apagada enquanto a mutação esperava offline; nada a aplicar.
			return nil
		}
		return err

	case offline.FavoriteDelete:
		return a.Galleries.DeleteFavorite(ctx, mut.StudioID, mut.GalleryID, mut.PhotoID, mut.BrowserFingerprint)

	default:
		return fmt.Errorf("%w: %T", offline.ErrUnknownMutation, m)
	}
}
