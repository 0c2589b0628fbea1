package offline

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"
)

var ErrSnapshotNotFound = errors.New("snapshot não encontrado")

// Snapshot é o resultado de uma leitura bem-sucedida, guardado para servir
// leituras offline. Nunca é autoritativo: leitura fresca sempre o substitui.
type Snapshot struct {
	StudioID  string          `json:"studio_id"`
	Key       string          `json:"key"`
	Data      json.RawMessage `json:"data"`
	FetchedAt time.Time       `json:"fetched_at"`
}

type SnapshotStore interface {
	PutSnapshot(ctx context.Context, snap Snapshot) error
	GetSnapshot(ctx context.Context, studioID, key string) (*Snapshot, error)
}

// ReadThrough tenta a leitura remota e atualiza o snapshot; se o remoto
// falhar, serve o snapshot anterior (stale=true). Erro só quando nem remoto
// nem cache têm resposta.
func ReadThrough(ctx context.Context, store SnapshotStore, studioID, key string, fetch func(context.Context) ([]byte, error)) (data []byte, stale bool, err error) {
	fresh, fetchErr := fetch(ctx)
	if fetchErr == nil {
		snap := Snapshot{StudioID: studioID, Key: key, Data: fresh, FetchedAt: time.Now().UTC()}
		if putErr := store.PutSnapshot(ctx, snap); putErr != nil {
			// Cache é conveniência; a leitura fresca já respondeu.
			return fresh, false, nil
		}
		return fresh, false, nil
	}

	snap, getErr := store.GetSnapshot(ctx, studioID, key)
	if getErr != nil || snap == nil {
		return nil, false, fetchErr
	}
	return snap.Data, true, nil
}

// MemorySnapshotStore é o par em memória do MemoryStore.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	snaps map[string]Snapshot
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{snaps: make(map[string]Snapshot)}
}

func (s *MemorySnapshotStore) PutSnapshot(ctx context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps[snap.StudioID+"|"+snap.Key] = snap
	return nil
}

func (s *MemorySnapshotStore) GetSnapshot(ctx context.Context, studioID, key string) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snaps[studioID+"|"+key]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	return &snap, nil
}
