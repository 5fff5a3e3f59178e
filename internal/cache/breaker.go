package cache

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("cache circuit breaker open")

const (
	stateClosed   = "closed"
	stateOpen     = "open"
	stateHalfOpen = "half_open"
)

type BreakerConfig struct {
	Timeout          time.Duration // hard timeout per call
	FailureThreshold int           // consecutive failures to open circuit
	Cooldown         time.Duration // how long to stay open before half-open
	HalfOpenMaxCalls int           // allow N trial calls in half-open
}

// Breaker stops a dead cache from adding its timeout to every request.
type Breaker struct {
	cfg BreakerConfig
	mu  sync.Mutex
	now func() time.Time

	state string

	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 250 * time.Millisecond
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 15 * time.Second
	}
	if cfg.HalfOpenMaxCalls <= 0 {
		cfg.HalfOpenMaxCalls = 1
	}

	return &Breaker{
		cfg:   cfg,
		now:   time.Now,
		state: stateClosed,
	}
}

// Do runs fn under the per-call timeout. A nil Breaker just runs fn.
func (b *Breaker) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if b == nil {
		return fn(ctx)
	}

	if !b.allowRequest() {
		return ErrCircuitOpen
	}

	callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
	defer cancel()

	err := fn(callCtx)

	b.afterRequest(err)

	return err
}

func (b *Breaker) State() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Breaker) allowRequest() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateOpen:
		if b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
			b.state = stateHalfOpen
			b.halfOpenInFlight = 1
			return true
		}
		return false
	case stateHalfOpen:
		if b.halfOpenInFlight >= b.cfg.HalfOpenMaxCalls {
			return false
		}
		b.halfOpenInFlight++
		return true
	default:
		return true
	}
}

func (b *Breaker) afterRequest(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateHalfOpen && b.halfOpenInFlight > 0 {
		b.halfOpenInFlight--
	}

	if err == nil {
		b.consecutiveFailures = 0
		b.state = stateClosed
		return
	}

	b.consecutiveFailures++

	// a failed trial reopens immediately
	if b.state == stateHalfOpen {
		b.state = stateOpen
		b.openedAt = b.now()
		return
	}

	if b.consecutiveFailures >= b.cfg.FailureThreshold {
		b.state = stateOpen
		b.openedAt = b.now()
	}
}
