package offline

import (
	"context"
	"log"
	"time"
)

// Monitor é o adaptador do sinal de conectividade: sonda o remoto num
// intervalo fixo e alimenta a fila com o booleano online/offline. A fila só
// enxerga SetOnline; de onde vem o sinal é problema daqui.
type Monitor struct {
	queue        *Queue
	ping         func(context.Context) error
	tickInterval time.Duration
}

func NewMonitor(queue *Queue, ping func(context.Context) error) *Monitor {
	return &Monitor{
		queue:        queue,
		ping:         ping,
		tickInterval: 15 * time.Second,
	}
}

func (m *Monitor) Start(ctx context.Context) {
	log.Println("🕒 Monitor de conectividade iniciado (15s)")

	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	m.check(ctx)

	for {
		select {
		case <-ctx.Done():
			log.Println("⚠️ Monitor de conectividade encerrado")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *Monitor) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := m.ping(pingCtx)
	if err != nil && m.queue.IsOnline() {
		log.Printf("🔌 [SYNC] Remoto inacessível, entrando em modo offline: %v", err)
	}
	m.queue.SetOnline(err == nil)
}
