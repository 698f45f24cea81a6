package cache

import (
	"errors"
	"sync"
	"time"
)

type CircuitBreakerState int

const (
	CircuitBreakerClosed CircuitBreakerState = iota
	CircuitBreakerOpen
	CircuitBreakerHalfOpen
)

func (s CircuitBreakerState) String() string {
	switch s {
	case CircuitBreakerOpen:
		return "open"
	case CircuitBreakerHalfOpen:
		return "half-open"
	default:
		return "closed"
	}
}

var ErrCircuitBreakerOpen = errors.New("circuit breaker is open")

type CircuitBreakerConfig struct {
	MaxFailures      int           `json:"max_failures"`
	Timeout          time.Duration `json:"timeout"`
	HalfOpenMaxCalls int           `json:"half_open_max_calls"`
}

func DefaultCircuitBreakerConfig() *CircuitBreakerConfig {
	return &CircuitBreakerConfig{
		MaxFailures:      5,
		Timeout:          30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

// CircuitBreaker guards calls to an external collaborator. The quote
// provider sits behind one so repeated upstream failures stop producing
// outbound requests until the timeout elapses.
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu          sync.RWMutex
	state       CircuitBreakerState
	failures    int
	trialsOK    int
	lastFailure time.Time
}

func NewCircuitBreaker(config *CircuitBreakerConfig) *CircuitBreaker {
	if config == nil {
		config = DefaultCircuitBreakerConfig()
	}
	return &CircuitBreaker{cfg: *config, state: CircuitBreakerClosed}
}

// Execute runs fn unless the breaker is open and its timeout has not
// elapsed yet, in which case ErrCircuitBreakerOpen is returned without
// invoking fn.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitBreakerOpen
	}
	if err := fn(); err != nil {
		cb.onFailure()
		return err
	}
	cb.onSuccess()
	return nil
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.RLock()
	defer cb.mu.RUnlock()

	switch cb.state {
	case CircuitBreakerClosed:
		return true
	case CircuitBreakerOpen:
		return cb.timedOut()
	case CircuitBreakerHalfOpen:
		// Probe budget: once enough trial calls went through, stop
		// letting more in until the state settles.
		return cb.trialsOK < cb.cfg.HalfOpenMaxCalls
	}
	return false
}

func (cb *CircuitBreaker) timedOut() bool {
	return time.Since(cb.lastFailure) >= cb.cfg.Timeout
}

func (cb *CircuitBreaker) onFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()

	switch cb.state {
	case CircuitBreakerClosed:
		if cb.failures >= cb.cfg.MaxFailures {
			cb.state = CircuitBreakerOpen
		}
	case CircuitBreakerHalfOpen:
		// A failed probe reopens immediately.
		cb.state = CircuitBreakerOpen
		cb.trialsOK = 0
	}
}

func (cb *CircuitBreaker) onSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitBreakerClosed:
		cb.failures = 0
	case CircuitBreakerOpen:
		if cb.timedOut() {
			cb.state = CircuitBreakerHalfOpen
			cb.trialsOK = 1
		}
	case CircuitBreakerHalfOpen:
		cb.trialsOK++
		if cb.trialsOK >= cb.cfg.HalfOpenMaxCalls {
			cb.state = CircuitBreakerClosed
			cb.failures = 0
			cb.trialsOK = 0
		}
	}
}

func (cb *CircuitBreaker) GetState() CircuitBreakerState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}
