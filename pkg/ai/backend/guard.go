package backend

import (
	"context"
	"errors"
	"time"

	"github.com/sony/gobreaker"
)

// Observer is told about every failed guarded call.
type Observer func(op string, kind Kind)

type GuardConfig struct {
	Name             string
	Timeout          time.Duration
	MinRequests      uint32
	FailureThreshold float64
	Cooldown         time.Duration
	OnStateChange    func(name string, from, to string)
}

// Guard bounds one collaborator: every call gets a deadline and runs
// through a circuit breaker that opens after sustained failures.
type Guard struct {
	name     string
	timeout  time.Duration
	breaker  *gobreaker.CircuitBreaker
	observer Observer
}

func DefaultGuardConfig(name string, timeout time.Duration) GuardConfig {
	return GuardConfig{
		Name:             name,
		Timeout:          timeout,
		MinRequests:      5,
		FailureThreshold: 0.6,
		Cooldown:         30 * time.Second,
	}
}

func NewGuard(cfg GuardConfig, observer Observer) *Guard {
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     cfg.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		// Caller cancellation says nothing about backend health
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
	}
	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}

	return &Guard{
		name:     cfg.Name,
		timeout:  cfg.Timeout,
		breaker:  gobreaker.NewCircuitBreaker(settings),
		observer: observer,
	}
}

func (g *Guard) Name() string {
	return g.name
}

// Call runs fn under the guard's deadline and breaker. A nil guard runs fn as is.
func Call[T any](ctx context.Context, g *Guard, op string, fn func(ctx context.Context) (T, error)) Result[T] {
	if g == nil {
		v, err := fn(ctx)
		if err != nil {
			return Fail[T](op, Classify(err), err)
		}
		return Ok(v)
	}

	callCtx := ctx
	if g.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	out, err := g.breaker.Execute(func() (interface{}, error) {
		return fn(callCtx)
	})
	if err != nil {
		kind := Classify(err)
		if g.observer != nil {
			g.observer(op, kind)
		}
		return Fail[T](op, kind, err)
	}

	v, _ := out.(T)
	return Ok(v)
}
