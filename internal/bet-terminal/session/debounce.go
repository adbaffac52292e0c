package session

import (
	"sync"
	"time"
)

// Debouncer coalesce rajadas de eventos numa única execução: cada Trigger
// cancela e reinicia a janela em vez de enfileirar um segundo disparo.
// Usado para os pushes da tabela de risco, que chegam em frequência
// imprevisível.
type Debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	fn      func()
	timer   *time.Timer
	stopped bool
}

// NewDebouncer cria o debouncer com a janela dada (≈1s para risco).
func NewDebouncer(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger (re)inicia a janela. Vários Triggers dentro da janela resultam em
// uma única execução de fn após o último.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Stop cancela qualquer disparo pendente e ignora Triggers futuros.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
