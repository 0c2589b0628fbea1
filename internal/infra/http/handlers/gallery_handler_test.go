package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/luminafoto/lumina-api/internal/entity"
	"github.com/luminafoto/lumina-api/internal/offline"
)

// MockGalleryRepository
type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Gallery, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) CreateFavorite(ctx context.Context, fav *entity.Favorite) error {
	args := m.Called(ctx, fav)
	return args.Error(0)
}

func (m *MockGalleryRepository) DeleteFavorite(ctx context.Context, studioID, galleryID, photoID, fingerprint string) error {
	args := m.Called(ctx, studioID, galleryID, photoID, fingerprint)
	return args.Error(0)
}

func (m *MockGalleryRepository) ListFavorites(ctx context.Context, studioID, galleryID string) ([]entity.Favorite, error) {
	args := m.Called(ctx, studioID, galleryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Favorite), args.Error(1)
}

func newGalleryRouter(h *GalleryHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/galleries/{slug}", h.GetGallery)
	r.Post("/galleries/{slug}/favorites", h.AddFavorite)
	r.Delete("/galleries/{slug}/favorites/{photoId}", h.RemoveFavorite)
	return r
}

func testGallery() *entity.Gallery {
	return &entity.Gallery{
		ID:       "gal-1",
		StudioID: "studio-1",
		Slug:     "casamento-ana",
		Title:    "Casamento Ana & Bruno",
		Status:   "ACTIVE",
	}
}

// ============ TESTES DO HANDLER ============

func TestAddFavoriteOnlineCreates(t *testing.T) {
	mockRepo := new(MockGalleryRepository)
	mockRepo.On("FindBySlug", mock.Anything, "casamento-ana").Return(testGallery(), nil)
	mockRepo.On("CreateFavorite", mock.Anything, mock.MatchedBy(func(f *entity.Favorite) bool {
		return f.StudioID == "studio-1" && f.GalleryID == "gal-1" && f.PhotoID == "photo-7"
	})).Return(nil)

	queue := newTestSyncQueue()
	handler := NewGalleryHandler(mockRepo, queue, offline.NewMemorySnapshotStore())
	router := newGalleryRouter(handler)

	body, _ := json.Marshal(map[string]string{
		"photo_id":            "photo-7",
		"browser_fingerprint": "fp-abc",
	})
	req := httptest.NewRequest(http.MethodPost, "/galleries/casamento-ana/favorites", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)

	pending, err := queue.Pending(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, pending)
	mockRepo.AssertExpectations(t)
}

// Erro do banco com a fila online é erro de verdade: sobe como 500 e NÃO
// vira mutação pendente — senão um registro inválido ficaria falhando no
// replay para sempre.
func TestAddFavoritePermanentErrorIsNotQueued(t *testing.T) {
	mockRepo := new(MockGalleryRepository)
	mockRepo.On("FindBySlug", mock.Anything, "casamento-ana").Return(testGallery(), nil)
	mockRepo.On("CreateFavorite", mock.Anything, mock.Anything).
		Return(errors.New(`pq: invalid input syntax for type uuid: "photo-7"`))

	queue := newTestSyncQueue()
	handler := NewGalleryHandler(mockRepo, queue, offline.NewMemorySnapshotStore())
	router := newGalleryRouter(handler)

	body, _ := json.Marshal(map[string]string{
		"photo_id":            "photo-7",
		"browser_fingerprint": "fp-abc",
	})
	req := httptest.NewRequest(http.MethodPost, "/galleries/casamento-ana/favorites", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	pending, err := queue.Pending(context.Background())
	assert.NoError(t, err)
	assert.Zero(t, pending)
}

// Offline, a galeria é resolvida pelo snapshot da última leitura boa e o
// favorito vira mutação pendente.
func TestAddFavoriteOfflineQueuesFromSnapshot(t *testing.T) {
	mockRepo := new(MockGalleryRepository)
	mockRepo.On("FindBySlug", mock.Anything, "casamento-ana").
		Return(nil, errors.New("dial tcp: connection refused"))

	snapshots := offline.NewMemorySnapshotStore()
	data, _ := json.Marshal(testGallery())
	_ = snapshots.PutSnapshot(context.Background(), offline.Snapshot{
		StudioID: "public",
		Key:      "gallery:casamento-ana",
		Data:     data,
	})

	queue := newTestSyncQueue()
	queue.SetOnline(false)

	handler := NewGalleryHandler(mockRepo, queue, snapshots)
	router := newGalleryRouter(handler)

	body, _ := json.Marshal(map[string]string{
		"photo_id":            "photo-7",
		"browser_fingerprint": "fp-abc",
	})
	req := httptest.NewRequest(http.MethodPost, "/galleries/casamento-ana/favorites", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]any
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["queued"])

	pending, err := queue.Pending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, pending)
	mockRepo.AssertNotCalled(t, "CreateFavorite", mock.Anything, mock.Anything)
}

// Offline e sem snapshot não há como saber studio/gallery: 503.
func TestAddFavoriteOfflineWithoutSnapshotFails(t *testing.T) {
	mockRepo := new(MockGalleryRepository)
	mockRepo.On("FindBySlug", mock.Anything, "casamento-ana").
		Return(nil, errors.New("dial tcp: connection refused"))

	queue := newTestSyncQueue()
	queue.SetOnline(false)

	handler := NewGalleryHandler(mockRepo, queue, offline.NewMemorySnapshotStore())
	router := newGalleryRouter(handler)

	body, _ := json.Marshal(map[string]string{
		"photo_id":            "photo-7",
		"browser_fingerprint": "fp-abc",
	})
	req := httptest.NewRequest(http.MethodPost, "/galleries/casamento-ana/favorites", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestAddFavoriteGalleryNotFound(t *testing.T) {
	mockRepo := new(MockGalleryRepository)
	mockRepo.On("FindBySlug", mock.Anything, "nao-existe").Return(nil, entity.ErrGalleryNotFound)

	handler := NewGalleryHandler(mockRepo, newTestSyncQueue(), offline.NewMemorySnapshotStore())
	router := newGalleryRouter(handler)

	body, _ := json.Marshal(map[string]string{
		"photo_id":            "photo-7",
		"browser_fingerprint": "fp-abc",
	})
	req := httptest.NewRequest(http.MethodPost, "/galleries/nao-existe/favorites", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// O DELETE identifica tudo pela URL: slug e photoId no path, fingerprint na
// query string.
func TestRemoveFavoriteUsesURLParams(t *testing.T) {
	mockRepo := new(MockGalleryRepository)
	mockRepo.On("FindBySlug", mock.Anything, "casamento-ana").Return(testGallery(), nil)
	mockRepo.On("DeleteFavorite", mock.Anything, "studio-1", "gal-1", "photo-7", "fp-abc").Return(nil)

	handler := NewGalleryHandler(mockRepo, newTestSyncQueue(), offline.NewMemorySnapshotStore())
	router := newGalleryRouter(handler)

	req := httptest.NewRequest(http.MethodDelete, "/galleries/casamento-ana/favorites/photo-7?fingerprint=fp-abc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	mockRepo.AssertExpectations(t)
}

func TestRemoveFavoriteMissingFingerprint(t *testing.T) {
	handler := NewGalleryHandler(new(MockGalleryRepository), newTestSyncQueue(), offline.NewMemorySnapshotStore())
	router := newGalleryRouter(handler)

	req := httptest.NewRequest(http.MethodDelete, "/galleries/casamento-ana/favorites/photo-7", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRemoveFavoriteOfflineQueues(t *testing.T) {
	mockRepo := new(MockGalleryRepository)
	mockRepo.On("FindBySlug", mock.Anything, "casamento-ana").
		Return(nil, errors.New("dial tcp: connection refused"))

	snapshots := offline.NewMemorySnapshotStore()
	data, _ := json.Marshal(testGallery())
	_ = snapshots.PutSnapshot(context.Background(), offline.Snapshot{
		StudioID: "public",
		Key:      "gallery:casamento-ana",
		Data:     data,
	})

	queue := newTestSyncQueue()
	queue.SetOnline(false)

	handler := NewGalleryHandler(mockRepo, queue, snapshots)
	router := newGalleryRouter(handler)

	req := httptest.NewRequest(http.MethodDelete, "/galleries/casamento-ana/favorites/photo-7?fingerprint=fp-abc", nil)
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	pending, err := queue.Pending(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, pending)
	mockRepo.AssertNotCalled(t, "DeleteFavorite", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
