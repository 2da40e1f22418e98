package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"recetario/pkg/logger"
)

// State - состояние circuit breaker.
type State int

const (
	// StateClosed - запросы проходят.
	StateClosed State = iota
	// StateOpen - запросы отклоняются до истечения Timeout.
	StateOpen
	// StateHalfOpen - пропускаются пробные запросы.
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	LogBreakerStateChange = "circuit breaker state changed"
	LogBreakerReject      = "circuit breaker rejected request"
)

// ErrCircuitOpen возвращается, пока breaker открыт.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// BreakerConfig содержит пороги переключения.
type BreakerConfig struct {
	ErrorThreshold   int
	SuccessThreshold int
	Timeout          time.Duration
}

// DefaultBreakerConfig возвращает настройки по умолчанию.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		ErrorThreshold:   5,
		SuccessThreshold: 2,
		Timeout:          10 * time.Second,
	}
}

// Breaker реализует circuit breaker.
type Breaker struct {
	name   string
	config BreakerConfig
	now    func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	changedAt time.Time
}

// NewBreaker создает breaker в закрытом состоянии.
func NewBreaker(name string, config BreakerConfig) *Breaker {
	def := DefaultBreakerConfig()
	if config.ErrorThreshold <= 0 {
		config.ErrorThreshold = def.ErrorThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = def.SuccessThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = def.Timeout
	}
	return &Breaker{
		name:      name,
		config:    config,
		now:       time.Now,
		state:     StateClosed,
		changedAt: time.Now(),
	}
}

// Execute выполняет fn, если breaker разрешает запрос, и учитывает результат.
func (b *Breaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !b.Allow(ctx) {
		return ErrCircuitOpen
	}
	err := fn(ctx)
	b.Record(ctx, err)
	return err
}

// Allow сообщает, можно ли выполнить запрос.
func (b *Breaker) Allow(ctx context.Context) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StateOpen {
		return true
	}
	if b.now().Sub(b.changedAt) >= b.config.Timeout {
		b.setState(ctx, StateHalfOpen)
		return true
	}

	logger.Log(ctx).Debug(ctx, LogBreakerReject, zap.String("circuit_breaker", b.name))
	return false
}

// Record учитывает результат запроса.
func (b *Breaker) Record(ctx context.Context, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.successes = 0
		switch b.state {
		case StateClosed:
			b.failures++
			if b.failures >= b.config.ErrorThreshold {
				b.setState(ctx, StateOpen)
			}
		case StateHalfOpen:
			b.setState(ctx, StateOpen)
		}
		return
	}

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.config.SuccessThreshold {
			b.setState(ctx, StateClosed)
		}
	}
}

// State возвращает текущее состояние.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) setState(ctx context.Context, state State) {
	logger.Log(ctx).Warn(ctx, LogBreakerStateChange,
		zap.String("circuit_breaker", b.name),
		zap.Stringer("from", b.state),
		zap.Stringer("to", state))

	b.state = state
	b.changedAt = b.now()
	b.failures = 0
	b.successes = 0
}
