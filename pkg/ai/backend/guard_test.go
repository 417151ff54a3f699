package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCallSuccess(t *testing.T) {
	g := NewGuard(DefaultGuardConfig("llm", time.Second), nil)

	res := Call(context.Background(), g, "generate", func(ctx context.Context) (string, error) {
		return "hello", nil
	})

	assert.True(t, res.OK())
	assert.Equal(t, "hello", res.Value)
}

func TestCallTimeoutIsClassified(t *testing.T) {
	var observed []Kind
	g := NewGuard(DefaultGuardConfig("llm", 20*time.Millisecond), func(op string, kind Kind) {
		observed = append(observed, kind)
	})

	res := Call(context.Background(), g, "generate", func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	assert.False(t, res.OK())
	assert.Equal(t, KindTimeout, res.Err.Kind)
	assert.Equal(t, "generate", res.Err.Op)
	assert.ErrorIs(t, res.Err, context.DeadlineExceeded)
	assert.Equal(t, []Kind{KindTimeout}, observed)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	cfg := DefaultGuardConfig("translate", time.Second)
	cfg.MinRequests = 2
	cfg.FailureThreshold = 0.5
	cfg.Cooldown = time.Hour
	g := NewGuard(cfg, nil)

	boom := errors.New("503 from upstream")
	calls := 0
	failing := func(ctx context.Context) (string, error) {
		calls++
		return "", boom
	}

	first := Call(context.Background(), g, "translate", failing)
	second := Call(context.Background(), g, "translate", failing)
	third := Call(context.Background(), g, "translate", failing)

	assert.Equal(t, KindUnavailable, first.Err.Kind)
	assert.Equal(t, KindUnavailable, second.Err.Kind)
	assert.Equal(t, KindCircuitOpen, third.Err.Kind)
	assert.Equal(t, 2, calls)
}

func TestNilGuardRunsDirectly(t *testing.T) {
	res := Call(context.Background(), nil, "op", func(ctx context.Context) (int, error) {
		return 0, &Error{Kind: KindMalformed, Op: "inner", Err: errors.New("bad json")}
	})

	assert.Equal(t, KindMalformed, res.Err.Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "timeout", KindTimeout.String())
	assert.Equal(t, "circuit_open", KindCircuitOpen.String())
	assert.Equal(t, "unavailable", KindUnavailable.String())
}
