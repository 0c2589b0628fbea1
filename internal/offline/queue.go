package offline

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Report resume um passe de replay, para a notificação
// "N alterações sincronizadas, M falharam".
type Report struct {
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Queue captura escritas feitas sem conectividade e as reaplica no remoto
// quando a conexão volta. Uma mutação só sai do cache local depois de um
// apply confirmado; falha deixa o registro intacto para a próxima tentativa.
type Queue struct {
	store    Store
	applier  Applier
	onReplay func(Report)

	mu        sync.Mutex
	online    bool
	replaying bool
}

type QueueOption func(*Queue)

// WithReplayCallback registra o hook chamado após cada replay automático
// (o disparado pela transição offline→online).
func WithReplayCallback(fn func(Report)) QueueOption {
	return func(q *Queue) { q.onReplay = fn }
}

func NewQueue(store Store, applier Applier, opts ...QueueOption) *Queue {
	q := &Queue{
		store:   store,
		applier: applier,
		online:  true,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue persiste a mutação no cache local. Falha aqui sobe direto: não
// existe um segundo fallback, e engolir uma escrita é bug de correção.
func (q *Queue) Enqueue(ctx context.Context, m Mutation) error {
	rec, err := EncodeMutation(uuid.New().String(), m, time.Now().UTC())
	if err != nil {
		return err
	}
	return q.store.Put(ctx, rec)
}

// Replay drena as mutações pendentes em ordem de criação. Falha de um item
// não trava os demais: conta no Failed e segue. Só um passe por vez — um
// gatilho concorrente enquanto outro passe roda é no-op e devolve Report
// zerado, evitando apply duplicado por corrida de dois replays.
func (q *Queue) Replay(ctx context.Context) (Report, error) {
	q.mu.Lock()
	if q.replaying {
		q.mu.Unlock()
		return Report{}, nil
	}
	q.replaying = true
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		q.replaying = false
		q.mu.Unlock()
	}()

	recs, err := q.store.All(ctx)
	if err != nil {
		return Report{}, err
	}

	var report Report
	for _, rec := range recs {
		m, err := rec.Decode()
		if err != nil {
			// Registro podre (kind desconhecido ou payload corrompido).
			// Fica no cache para inspeção manual; nunca descartamos quieto.
			log.Printf("❌ [SYNC] Registro %s não decodifica: %v", rec.ID, err)
			report.Failed++
			continue
		}

		if err := q.applier.Apply(ctx, m); err != nil {
			log.Printf("⚠️ [SYNC] Mutação %s (%s) falhou, mantida para retry: %v", rec.ID, rec.Kind, err)
			report.Failed++
			continue
		}

		// Remoção só depois do apply confirmado: é isso que dá o
		// "no máximo uma aplicação com sucesso".
		if err := q.store.Delete(ctx, rec.ID); err != nil {
			log.Printf("❌ [SYNC] Aplicada mas não removida do cache local: %s: %v", rec.ID, err)
			report.Failed++
			continue
		}
		report.Succeeded++
	}

	if report.Succeeded > 0 || report.Failed > 0 {
		log.Printf("🔄 [SYNC] Replay: %d ok, %d pendentes", report.Succeeded, report.Failed)
	}
	return report, nil
}

// SetOnline reage ao sinal de conectividade do host. A borda offline→online
// dispara um replay automático; não há retry por timer.
func (q *Queue) SetOnline(online bool) {
	q.mu.Lock()
	wasOnline := q.online
	q.online = online
	q.mu.Unlock()

	if online && !wasOnline {
		log.Println("🌐 [SYNC] Conexão voltou, replay automático")
		go func() {
			report, err := q.Replay(context.Background())
			if err != nil {
				log.Printf("❌ [SYNC] Replay automático falhou: %v", err)
				return
			}
			if q.onReplay != nil {
				q.onReplay(report)
			}
		}()
	}
}

func (q *Queue) IsOnline() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.online
}

// Pending conta as mutações ainda não aplicadas.
func (q *Queue) Pending(ctx context.Context) (int, error) {
	recs, err := q.store.All(ctx)
	if err != nil {
		return 0, err
	}
	return len(recs), nil
}
