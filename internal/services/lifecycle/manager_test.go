package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdown_ReverseOrderAndErrors(t *testing.T) {
	m := New(time.Second, nil)
	var order []string
	record := func(name string, err error) ShutdownFunc {
		return func(context.Context) error {
			order = append(order, name)
			return err
		}
	}
	m.Register("store", record("store", nil))
	m.Register("monitor", record("monitor", errors.New("stuck")))
	m.Register("http", record("http", nil))
	m.Register("ignored", nil)

	err := m.Shutdown(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monitor: stuck")
	assert.Equal(t, []string{"http", "monitor", "store"}, order)

	// Hooks run once.
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Len(t, order, 3)

	m.Register("late", record("late", nil))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Len(t, order, 3)
}

func TestShutdown_HooksSeeDeadline(t *testing.T) {
	m := New(50*time.Millisecond, nil)
	var hadDeadline bool
	m.Register("healthcheck", func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})
	require.NoError(t, m.Shutdown(context.Background()))
	assert.True(t, hadDeadline)
}

func TestListen_ParentCancellation(t *testing.T) {
	m := New(0, nil)
	parent, cancelParent := context.WithCancel(context.Background())
	ctx, cancel := m.Listen(parent)
	defer cancel()

	cancelParent()
	select {
	case <-ctx.Done():
	case <-time.After(time.Second):
		t.Fatal("context not cancelled")
	}
}
