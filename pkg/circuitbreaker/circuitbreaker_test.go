package circuitbreaker

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errUnavailable = errors.New("redis unavailable")

func fail() error    { return errUnavailable }
func succeed() error { return nil }

func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker("test-closed", Config{Interval: 10 * time.Second})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(succeed))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test-open", Config{Timeout: 30 * time.Second})

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, cb.Execute(fail), errUnavailable)
	}
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断器打开时不应调用实际函数")
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	newTripped := func(t *testing.T) *CircuitBreaker {
		cb := NewCircuitBreaker("test-half-open", Config{
			MaxRequests: 1,
			Timeout:     50 * time.Millisecond,
			ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 2 },
		})
		_ = cb.Execute(fail)
		_ = cb.Execute(fail)
		require.Equal(t, StateOpen, cb.State())
		time.Sleep(80 * time.Millisecond)
		require.Equal(t, StateHalfOpen, cb.State())
		return cb
	}

	t.Run("探测成功恢复CLOSED", func(t *testing.T) {
		cb := newTripped(t)
		require.NoError(t, cb.Execute(succeed))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("探测失败回到OPEN", func(t *testing.T) {
		cb := newTripped(t)
		_ = cb.Execute(fail)
		assert.Equal(t, StateOpen, cb.State())
	})
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errMiss := errors.New("cache miss")
	cb := NewCircuitBreaker("test-successful", Config{
		ReadyToTrip:  func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
		IsSuccessful: func(err error) bool { return err == nil || errors.Is(err, errMiss) },
	})

	for i := 0; i < 3; i++ {
		assert.ErrorIs(t, cb.Execute(func() error { return errMiss }), errMiss)
	}
	assert.Equal(t, StateClosed, cb.State(), "未命中不应计为依赖故障")
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	cb := NewCircuitBreaker("test-callback", Config{
		ReadyToTrip: func(c Counts) bool { return c.ConsecutiveFailures >= 1 },
	})

	var transitions []string
	cb.SetStateChangeCallback(func(name string, from, to State) {
		transitions = append(transitions, from.String()+"->"+to.String())
	})

	_ = cb.Execute(fail)
	assert.Equal(t, []string{"CLOSED->OPEN"}, transitions)
}

func TestCircuitBreaker_Concurrent(t *testing.T) {
	cb := NewCircuitBreaker("test-concurrent", Config{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = cb.Execute(succeed)
		}()
	}
	wg.Wait()

	assert.Equal(t, uint32(50), cb.Counts().TotalSuccesses)
}

func TestCounts_FailureRate(t *testing.T) {
	c := Counts{}
	assert.Equal(t, float64(0), c.FailureRate())

	c = Counts{Requests: 4, TotalFailures: 1}
	assert.Equal(t, 0.25, c.FailureRate())
}
