package queue

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueDequeueFIFO(t *testing.T) {
	q := New()

	for i := 0; i < 5; i++ {
		q.Enqueue(NewRequest(fmt.Sprintf("task %d", i), nil))
	}
	require.Equal(t, 5, q.Len())

	for i := 0; i < 5; i++ {
		req, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("task %d", i), req.Text)
	}
	assert.Equal(t, 0, q.Len())
}

func TestDequeueBlocksUntilEnqueue(t *testing.T) {
	q := New()

	got := make(chan Request, 1)
	go func() {
		req, err := q.Dequeue(context.Background())
		if err == nil {
			got <- req
		}
	}()

	select {
	case <-got:
		t.Fatal("Dequeue returned before anything was enqueued")
	case <-time.After(20 * time.Millisecond):
	}

	q.Enqueue(NewRequest("wake up", nil))

	select {
	case req := <-got:
		assert.Equal(t, "wake up", req.Text)
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not wake after enqueue")
	}
}

func TestDequeueReturnsOnCancellation(t *testing.T) {
	q := New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		_, err := q.Dequeue(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Dequeue did not return after cancellation")
	}
}

func TestEnqueueNeverRejectsWhileBusy(t *testing.T) {
	q := New()
	q.SetBusy(true)

	q.Enqueue(NewRequest("queued behind in-flight work", nil))

	assert.Equal(t, 1, q.Len())
	assert.True(t, q.Busy())
}

func TestBusyFlag(t *testing.T) {
	q := New()
	assert.False(t, q.Busy())

	q.SetBusy(true)
	assert.True(t, q.Busy())

	q.SetBusy(false)
	assert.False(t, q.Busy())
}

func TestNewRequestAssignsID(t *testing.T) {
	a := NewRequest("one", nil)
	b := NewRequest("two", &Correlation{ThreadID: "t", SenderID: "s"})

	assert.NotEmpty(t, a.ID)
	assert.NotEmpty(t, b.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.Nil(t, a.Correlation)
	require.NotNil(t, b.Correlation)
	assert.Equal(t, "t", b.Correlation.ThreadID)
}
