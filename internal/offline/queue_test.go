package offline

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/luminafoto/lumina-api/internal/entity"
)

// fakeApplier grava a ordem em que as mutações chegaram e falha nas que o
// teste mandar falhar.
type fakeApplier struct {
	mu      sync.Mutex
	applied []Mutation
	failOn  func(Mutation) error
	block   chan struct{}
}

func (a *fakeApplier) Apply(ctx context.Context, m Mutation) error {
	if a.block != nil {
		<-a.block
	}
	if a.failOn != nil {
		if err := a.failOn(m); err != nil {
			return err
		}
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.applied = append(a.applied, m)
	return nil
}

func (a *fakeApplier) appliedKinds() []Kind {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Kind, 0, len(a.applied))
	for _, m := range a.applied {
		out = append(out, m.Kind())
	}
	return out
}

func leadUpdate(leadID, name string) LeadUpdate {
	return LeadUpdate{StudioID: "studio-1", LeadID: leadID, Patch: LeadPatch{Name: name}}
}

// ============ TESTES ============

// TestReplayPreservesFIFO - as mutações saem na ordem em que entraram.
func TestReplayPreservesFIFO(t *testing.T) {
	ctx := context.Background()
	applier := &fakeApplier{}
	q := NewQueue(NewMemoryStore(), applier)

	assert.NoError(t, q.Enqueue(ctx, LeadInsert{Lead: entity.Lead{ID: "lead-1", StudioID: "studio-1"}}))
	assert.NoError(t, q.Enqueue(ctx, leadUpdate("lead-1", "Carla")))
	assert.NoError(t, q.Enqueue(ctx, FavoriteInsert{Favorite: entity.Favorite{ID: "fav-1", GalleryID: "gal-1"}}))

	report, err := q.Replay(ctx)

	assert.NoError(t, err)
	assert.Equal(t, Report{Succeeded: 3, Failed: 0}, report)
	assert.Equal(t, []Kind{KindLeadInsert, KindLeadUpdate, KindFavoriteInsert}, applier.appliedKinds())

	pending, _ := q.Pending(ctx)
	assert.Zero(t, pending)
}

// TestReplayPartialFailure - item que falha conta no Failed, fica no cache e
// não trava os seguintes.
func TestReplayPartialFailure(t *testing.T) {
	ctx := context.Background()
	applier := &fakeApplier{
		failOn: func(m Mutation) error {
			if lu, ok := m.(LeadUpdate); ok && lu.LeadID == "lead-ruim" {
				return errors.New("constraint violation")
			}
			return nil
		},
	}
	q := NewQueue(NewMemoryStore(), applier)

	assert.NoError(t, q.Enqueue(ctx, leadUpdate("lead-1", "A")))
	assert.NoError(t, q.Enqueue(ctx, leadUpdate("lead-ruim", "B")))
	assert.NoError(t, q.Enqueue(ctx, leadUpdate("lead-3", "C")))

	report, err := q.Replay(ctx)

	assert.NoError(t, err)
	assert.Equal(t, Report{Succeeded: 2, Failed: 1}, report)

	// Só a que falhou continua pendente.
	pending, _ := q.Pending(ctx)
	assert.Equal(t, 1, pending)

	// E sai no próximo passe quando o problema resolver.
	applier.failOn = nil
	report, err = q.Replay(ctx)
	assert.NoError(t, err)
	assert.Equal(t, Report{Succeeded: 1, Failed: 0}, report)
}

// TestReplayKeepsUndecodableRecord - registro com kind desconhecido conta no
// Failed e fica no cache, nunca é descartado quieto.
func TestReplayKeepsUndecodableRecord(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	store.Put(ctx, Record{ID: "rec-podre", Kind: "tabela_removida.insert", Payload: []byte(`{}`)})

	q := NewQueue(store, &fakeApplier{})

	report, err := q.Replay(ctx)

	assert.NoError(t, err)
	assert.Equal(t, Report{Succeeded: 0, Failed: 1}, report)

	recs, _ := store.All(ctx)
	assert.Len(t, recs, 1)
}

// TestReplaySingleFlight - um segundo Replay concorrente é no-op com Report
// zerado; nenhuma mutação aplica duas vezes.
func TestReplaySingleFlight(t *testing.T) {
	ctx := context.Background()
	applier := &fakeApplier{block: make(chan struct{})}
	q := NewQueue(NewMemoryStore(), applier)

	assert.NoError(t, q.Enqueue(ctx, leadUpdate("lead-1", "A")))

	done := make(chan Report)
	go func() {
		report, _ := q.Replay(ctx)
		done <- report
	}()

	// Espera o primeiro passe entrar no apply bloqueado.
	time.Sleep(50 * time.Millisecond)

	second, err := q.Replay(ctx)
	assert.NoError(t, err)
	assert.Equal(t, Report{}, second)

	close(applier.block)
	first := <-done
	assert.Equal(t, Report{Succeeded: 1, Failed: 0}, first)
	assert.Len(t, applier.appliedKinds(), 1)
}

// TestSetOnlineEdgeTriggersReplay - só a borda offline→online dispara o
// replay automático; repetir online=true não re-dispara.
func TestSetOnlineEdgeTriggersReplay(t *testing.T) {
	ctx := context.Background()
	applier := &fakeApplier{}

	reports := make(chan Report, 4)
	q := NewQueue(NewMemoryStore(), applier, WithReplayCallback(func(r Report) {
		reports <- r
	}))

	assert.NoError(t, q.Enqueue(ctx, leadUpdate("lead-1", "A")))

	q.SetOnline(false)
	assert.False(t, q.IsOnline())

	q.SetOnline(true)

	select {
	case report := <-reports:
		assert.Equal(t, Report{Succeeded: 1, Failed: 0}, report)
	case <-time.After(2 * time.Second):
		t.Fatal("replay automático não disparou na borda offline→online")
	}

	// online→online: nada acontece.
	q.SetOnline(true)
	select {
	case <-reports:
		t.Fatal("replay disparou sem transição de borda")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestSetOnlineWhileAlreadyOnlineIsNoop - estado inicial é online; confirmar
// online não dispara replay.
func TestSetOnlineWhileAlreadyOnlineIsNoop(t *testing.T) {
	reports := make(chan Report, 1)
	q := NewQueue(NewMemoryStore(), &fakeApplier{}, WithReplayCallback(func(r Report) {
		reports <- r
	}))

	q.SetOnline(true)

	select {
	case <-reports:
		t.Fatal("replay não devia disparar")
	case <-time.After(100 * time.Millisecond):
	}
}

// TestEnqueueSurvivesOffline - enfileirar não depende de conectividade.
func TestEnqueueSurvivesOffline(t *testing.T) {
	ctx := context.Background()
	q := NewQueue(NewMemoryStore(), &fakeApplier{})

	q.SetOnline(false)
	assert.NoError(t, q.Enqueue(ctx, leadUpdate("lead-1", "A")))
	assert.NoError(t, q.Enqueue(ctx, FavoriteDelete{StudioID: "studio-1", GalleryID: "gal-1", PhotoID: "p1", BrowserFingerprint: "fp"}))

	pending, err := q.Pending(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, pending)
}
