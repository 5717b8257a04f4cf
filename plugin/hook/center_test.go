package hook

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pass(_ context.Context, _ string, d any) (any, error) { return d, nil }

func TestTrigger_NoHandlers(t *testing.T) {
	c := New()
	out, err := c.Trigger(context.Background(), "noop", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, out)
}

func TestTrigger_NilCenter(t *testing.T) {
	var c *Center
	out, err := c.Trigger(context.Background(), DecisionCommitted, "x")
	require.NoError(t, err)
	assert.Equal(t, "x", out)
}

func TestTrigger_DataPassThrough(t *testing.T) {
	c := New()
	c.Register("ev", 0, "double", func(_ context.Context, _ string, data any) (any, error) {
		return data.(int) * 2, nil
	})
	c.Register("ev", 1, "addTen", func(_ context.Context, _ string, data any) (any, error) {
		return data.(int) + 10, nil
	})
	out, err := c.Trigger(context.Background(), "ev", 5)
	require.NoError(t, err)
	assert.Equal(t, 20, out) // (5*2)+10
}

func TestTrigger_PriorityOrder(t *testing.T) {
	c := New()
	var order []int
	for _, p := range []int{10, 1, 5} {
		c.Register("ev", p, "h", func(_ context.Context, _ string, d any) (any, error) {
			order = append(order, p)
			return d, nil
		})
	}
	c.Trigger(context.Background(), "ev", nil)
	assert.Equal(t, []int{1, 5, 10}, order)
}

func TestRegister_StableForEqualPriority(t *testing.T) {
	c := New()
	c.Register(DecisionCommitted, 0, "journal", pass)
	c.Register(DecisionCommitted, 0, "relay", pass)
	c.Register(DecisionCommitted, -1, "first", pass)
	assert.Equal(t, []string{"first", "journal", "relay"}, c.Handlers(DecisionCommitted))
}

func TestTrigger_ErrInterrupt(t *testing.T) {
	c := New()
	var secondCalled bool
	c.Register(DecisionBefore, 0, "veto", func(_ context.Context, _ string, d any) (any, error) {
		return d, ErrInterrupt
	})
	c.Register(DecisionBefore, 1, "should_not_run", func(_ context.Context, _ string, d any) (any, error) {
		secondCalled = true
		return d, nil
	})
	_, err := c.Trigger(context.Background(), DecisionBefore, nil)
	assert.True(t, errors.Is(err, ErrInterrupt))
	assert.False(t, secondCalled)
}

func TestTrigger_ErrorsJoinedChainContinues(t *testing.T) {
	c := New()
	var secondCalled bool
	c.Register("ev", 0, "broken", func(_ context.Context, _ string, d any) (any, error) {
		return nil, errors.New("disk full")
	})
	c.Register("ev", 1, "second", func(_ context.Context, _ string, d any) (any, error) {
		secondCalled = true
		return d, nil
	})
	out, err := c.Trigger(context.Background(), "ev", "payload")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hook broken: disk full")
	assert.False(t, errors.Is(err, ErrInterrupt))
	assert.True(t, secondCalled)
	assert.Equal(t, "payload", out, "failed handler does not replace data")
}

func TestTrigger_PanicRecovered(t *testing.T) {
	c := New()
	var after bool
	c.Register("ev", 0, "panicky", func(context.Context, string, any) (any, error) { panic("boom") })
	c.Register("ev", 1, "after", func(_ context.Context, _ string, d any) (any, error) { after = true; return d, nil })

	var err error
	require.NotPanics(t, func() { _, err = c.Trigger(context.Background(), "ev", nil) })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: boom")
	assert.True(t, after)
}

func TestUnregister_OnlyNamed(t *testing.T) {
	c := New()
	var c1, c2 bool
	c.Register("ev", 0, "h1", func(_ context.Context, _ string, d any) (any, error) { c1 = true; return d, nil })
	c.Register("ev", 1, "h2", func(_ context.Context, _ string, d any) (any, error) { c2 = true; return d, nil })
	c.Unregister("ev", "h1")
	c.Trigger(context.Background(), "ev", nil)
	assert.False(t, c1)
	assert.True(t, c2)
}
