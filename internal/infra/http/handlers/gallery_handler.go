package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/luminafoto/lumina-api/internal/entity"
	"github.com/luminafoto/lumina-api/internal/offline"
)

type GalleryHandler struct {
	galleryRepo entity.GalleryRepositoryInterface
	syncQueue   *offline.Queue
	snapshots   offline.SnapshotStore
}

func NewGalleryHandler(galleryRepo entity.GalleryRepositoryInterface, syncQueue *offline.Queue, snapshots offline.SnapshotStore) *GalleryHandler {
	return &GalleryHandler{
		galleryRepo: galleryRepo,
		syncQueue:   syncQueue,
		snapshots:   snapshots,
	}
}

// GetGallery serve a galeria pública. Se o banco estiver fora, cai no
// snapshot da última leitura boa (header X-Lumina-Stale marca isso).
func (h *GalleryHandler) GetGallery(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	data, stale, err := offline.ReadThrough(r.Context(), h.snapshots, "public", "gallery:"+slug,
		func(ctx context.Context) ([]byte, error) {
			gallery, err := h.galleryRepo.FindBySlug(ctx, slug)
			if err != nil {
				return nil, err
			}
			return json.Marshal(gallery)
		})
	if err != nil {
		if errors.Is(err, entity.ErrGalleryNotFound) {
			writeJSONError(w, http.StatusNotFound, "gallery not found")
			return
		}
		writeJSONError(w, http.StatusServiceUnavailable, "gallery unavailable")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if stale {
		w.Header().Set("X-Lumina-Stale", "true")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// resolveGallery acha a galeria pelo slug da URL. Offline, serve o snapshot
// da última leitura boa; sem snapshot não há como saber studio/gallery id.
func (h *GalleryHandler) resolveGallery(ctx context.Context, slug string) (*entity.Gallery, error) {
	gallery, err := h.galleryRepo.FindBySlug(ctx, slug)
	if err == nil {
		return gallery, nil
	}
	if errors.Is(err, entity.ErrGalleryNotFound) || h.syncQueue.IsOnline() {
		return nil, err
	}

	snap, snapErr := h.snapshots.GetSnapshot(ctx, "public", "gallery:"+slug)
	if snapErr != nil {
		return nil, err
	}
	var cached entity.Gallery
	if jsonErr := json.Unmarshal(snap.Data, &cached); jsonErr != nil {
		return nil, err
	}
	return &cached, nil
}

type FavoriteRequest struct {
	PhotoID            string `json:"photo_id"`
	BrowserFingerprint string `json:"browser_fingerprint"`
}

// AddFavorite grava direto no banco quando online; offline, a escrita vira
// mutação pendente e o visitante recebe 202. Erro com o banco de pé é erro
// de verdade, não vai para a fila.
func (h *GalleryHandler) AddFavorite(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req FavoriteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.PhotoID == "" || req.BrowserFingerprint == "" {
		writeJSONError(w, http.StatusBadRequest, "photo_id and browser_fingerprint are required")
		return
	}

	gallery, err := h.resolveGallery(r.Context(), slug)
	if err != nil {
		if errors.Is(err, entity.ErrGalleryNotFound) {
			writeJSONError(w, http.StatusNotFound, "gallery not found")
			return
		}
		writeJSONError(w, http.StatusServiceUnavailable, "gallery unavailable")
		return
	}

	fav := entity.NewFavorite(gallery.StudioID, gallery.ID, req.PhotoID, req.BrowserFingerprint)

	if !h.syncQueue.IsOnline() {
		log.Printf("🔌 Favorito enfileirado para sync (offline): gallery=%s photo=%s", gallery.ID, req.PhotoID)
		if enqErr := h.syncQueue.Enqueue(r.Context(), offline.FavoriteInsert{Favorite: *fav}); enqErr != nil {
			writeJSONError(w, http.StatusInternalServerError, "could not save favorite")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(map[string]any{"success": true, "queued": true, "favorite_id": fav.ID})
		return
	}

	if err := h.galleryRepo.CreateFavorite(r.Context(), fav); err != nil {
		if errors.Is(err, entity.ErrGalleryNotFound) {
			writeJSONError(w, http.StatusNotFound, "gallery not found")
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "could not save favorite")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{"success": true, "favorite_id": fav.ID})
}

// RemoveFavorite usa o fingerprint da query string: DELETE com body não
// atravessa proxy de forma confiável.
func (h *GalleryHandler) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	photoID := chi.URLParam(r, "photoId")
	fingerprint := r.URL.Query().Get("fingerprint")

	if fingerprint == "" {
		writeJSONError(w, http.StatusBadRequest, "fingerprint query parameter is required")
		return
	}

	gallery, err := h.resolveGallery(r.Context(), slug)
	if err != nil {
		if errors.Is(err, entity.ErrGalleryNotFound) {
			writeJSONError(w, http.StatusNotFound, "gallery not found")
			return
		}
		writeJSONError(w, http.StatusServiceUnavailable, "gallery unavailable")
		return
	}

	if !h.syncQueue.IsOnline() {
		log.Printf("🔌 Remoção de favorito enfileirada para sync (offline): gallery=%s photo=%s", gallery.ID, photoID)
		if enqErr := h.syncQueue.Enqueue(r.Context(), offline.FavoriteDelete{
			StudioID:           gallery.StudioID,
			GalleryID:          gallery.ID,
			PhotoID:            photoID,
			BrowserFingerprint: fingerprint,
		}); enqErr != nil {
			writeJSONError(w, http.StatusInternalServerError, "could not remove favorite")
			return
		}
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if err := h.galleryRepo.DeleteFavorite(r.Context(), gallery.StudioID, gallery.ID, photoID, fingerprint); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "could not remove favorite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
