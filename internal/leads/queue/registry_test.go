package queue

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadqueue_backend/platform/apperr"
	"leadqueue_backend/platform/datefmt"
)

func TestRegistry(t *testing.T) {
	store := &mockStore{}
	r := NewRegistry(func(operator string) *Controller {
		return New(Options{Operator: operator, Store: store, Formatter: datefmt.NewFormatter(time.UTC)})
	})

	c1, created := r.Get("op-1")
	assert.True(t, created)
	again, created := r.Get("op-1")
	assert.False(t, created)
	assert.Same(t, c1, again)

	_, _ = r.Get("op-2")
	assert.Equal(t, 2, r.Len())

	require.NoError(t, r.Close("op-2", false))
	require.NoError(t, r.Close("missing", false))
	assert.Equal(t, 1, r.Len())
}

func TestRegistryCloseWithUnsavedEdits(t *testing.T) {
	c, _, _ := loadedController(t, baseLeads())
	r := NewRegistry(func(string) *Controller { return c })
	_, _ = r.Get("op-1")

	require.NoError(t, c.SetDraft("a", "rascunho", ""))

	err := r.Close("op-1", false)
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.Equal(t, 1, r.Len())

	require.NoError(t, r.Close("op-1", true))
	assert.Equal(t, 0, r.Len())
}
