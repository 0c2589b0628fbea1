package offline

import (
	"context"
	"sync"
)

// Store é o cache local durável de mutações pendentes. Injetado para a fila
// poder ser testada com um fake em memória.
type Store interface {
	Put(ctx context.Context, rec Record) error

	// All devolve os registros pendentes em ordem de criação (FIFO).
	All(ctx context.Context) ([]Record, error)

	Delete(ctx context.Context, id string) error
}

// MemoryStore guarda os registros em memória preservando a ordem de
// inserção. Usado nos testes e como fallback quando o arquivo sqlite não
// pôde ser aberto.
type MemoryStore struct {
	mu   sync.Mutex
	recs []Record
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Put(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemoryStore) All(ctx context.Context) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Record, len(s.recs))
	copy(out, s.recs)
	return out, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, rec := range s.recs {
		if rec.ID == id {
			s.recs = append(s.recs[:i], s.recs[i+1:]...)
			return nil
		}
	}
	return nil
}
