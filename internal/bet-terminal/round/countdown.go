package round

import (
	"sync"
	"time"
)

// Countdown é o handle cancelável da contagem regressiva de uma rodada.
// O instante alvo é fixado na criação e nunca recalculado: mudanças de
// agenda só valem no próximo carregamento da rodada.
type Countdown struct {
	stop chan struct{}
	once sync.Once
}

// StartCountdown inicia um timer repetitivo de 1s que recalcula o tempo
// restante até target. Antes de expirar, onTick recebe o restante a cada
// batida; no instante em que o restante chega a zero, onExpire dispara
// exatamente uma vez e o timer para.
func StartCountdown(target time.Time, onTick func(remaining time.Duration), onExpire func()) *Countdown {
	return startCountdown(target, time.Second, time.Now, onTick, onExpire)
}

// startCountdown permite injetar intervalo e relógio nos testes.
func startCountdown(target time.Time, interval time.Duration, now func() time.Time, onTick func(time.Duration), onExpire func()) *Countdown {
	c := &Countdown{stop: make(chan struct{})}

	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-t.C:
				remaining := target.Sub(now())
				if remaining <= 0 {
					onExpire()
					c.Stop()
					return
				}
				onTick(remaining)
			}
		}
	}()

	return c
}

// Stop cancela a contagem. Idempotente: cancelar um handle já expirado ou
// já cancelado é no-op.
func (c *Countdown) Stop() {
	c.once.Do(func() { close(c.stop) })
}
