package usecase

import (
	"sync"
	"time"
)

// Throttle é o valor explícito que substitui o velho "último check" em
// variável de módulo: intervalo mínimo + última invocação, testável com
// qualquer relógio.
type Throttle struct {
	MinInterval time.Duration
	last        time.Time
}

func NewThrottle(minInterval time.Duration) *Throttle {
	return &Throttle{MinInterval: minInterval}
}

// ShouldProceed decide e registra. Primeira chamada sempre passa.
func (t *Throttle) ShouldProceed(now time.Time) bool {
	if !t.last.IsZero() && now.Sub(t.last) < t.MinInterval {
		return false
	}
	t.last = now
	return true
}

// KeyedThrottle aplica um Throttle por chave (ex: IP do visitante).
// Entradas paradas são varridas num goroutine de limpeza.
type KeyedThrottle struct {
	mu          sync.Mutex
	minInterval time.Duration
	entries     map[string]*Throttle
	quit        chan struct{}
	stopOnce    sync.Once
}

func NewKeyedThrottle(minInterval time.Duration) *KeyedThrottle {
	kt := &KeyedThrottle{
		minInterval: minInterval,
		entries:     make(map[string]*Throttle),
		quit:        make(chan struct{}),
	}
	go kt.cleanup()
	return kt
}

// Stop encerra o goroutine de limpeza. Seguro chamar mais de uma vez.
func (kt *KeyedThrottle) Stop() {
	kt.stopOnce.Do(func() {
		close(kt.quit)
	})
}

func (kt *KeyedThrottle) Allow(key string, now time.Time) bool {
	kt.mu.Lock()
	defer kt.mu.Unlock()

	t, ok := kt.entries[key]
	if !ok {
		t = NewThrottle(kt.minInterval)
		kt.entries[key] = t
	}
	return t.ShouldProceed(now)
}

func (kt *KeyedThrottle) cleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-kt.quit:
			return
		case <-ticker.C:
			kt.mu.Lock()
			now := time.Now()
			for key, t := range kt.entries {
				if now.Sub(t.last) > kt.minInterval*2 {
					delete(kt.entries, key)
				}
			}
			kt.mu.Unlock()
		}
	}
}
