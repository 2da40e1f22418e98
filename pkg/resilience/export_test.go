package resilience

import "time"

// SetClock подменяет источник времени breaker в тестах.
func (b *Breaker) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
	b.changedAt = now()
}
