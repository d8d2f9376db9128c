package poller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/euthiagoalves10/TH-DRINKS/internal/models"
	"github.com/euthiagoalves10/TH-DRINKS/internal/store"
)

func waitForSnapshot(t *testing.T, updates <-chan Snapshot) Snapshot {
	t.Helper()
	select {
	case snap := <-updates:
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return Snapshot{}
	}
}

func TestPollerPublishesChanges(t *testing.T) {
	st := store.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := New(st, 10*time.Millisecond)
	done := make(chan error, 1)
	go func() { done <- p.Start(ctx) }()

	// First read is always published.
	initial := waitForSnapshot(t, p.Updates())
	assert.Empty(t, initial.Orders)

	require.NoError(t, st.UpsertOrder(ctx, models.Order{
		ID:        "o1",
		UserID:    "u1",
		Status:    models.StatusPending,
		Timestamp: time.Now(),
	}))

	changed := waitForSnapshot(t, p.Updates())
	require.Len(t, changed.Orders, 1)
	assert.Equal(t, "o1", changed.Orders[0].ID)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop on cancel")
	}
}

func TestPollerSkipsUnchangedState(t *testing.T) {
	st := store.NewMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := New(st, 10*time.Millisecond)
	go func() { _ = p.Start(ctx) }()

	waitForSnapshot(t, p.Updates())

	// No writes happened, so no further snapshot may arrive.
	select {
	case <-p.Updates():
		t.Fatal("received a snapshot without a state change")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPollerIsRestartable(t *testing.T) {
	st := store.NewMemoryStore()
	p := New(st, 10*time.Millisecond)

	ctx1, cancel1 := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Start(ctx1) }()
	waitForSnapshot(t, p.Updates())
	cancel1()
	<-done

	ctx2, cancel2 := context.WithCancel(context.Background())
	defer cancel2()
	go func() { _ = p.Start(ctx2) }()

	require.NoError(t, st.UpsertDrink(ctx2, models.Drink{ID: "d1", Name: "Neon Sunset", Ingredients: []string{"Vodka"}, Cost: 1}))

	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-p.Updates():
			if len(snap.Drinks) == 1 {
				assert.Equal(t, "d1", snap.Drinks[0].ID)
				return
			}
		case <-deadline:
			t.Fatal("never observed the drink after restart")
		}
	}
}
