package intake

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/queue"
)

func testLogger() *logging.Logger {
	return logging.NewWithWriter("intake-test", io.Discard)
}

func drain(t *testing.T, q *queue.Queue) []queue.Request {
	t.Helper()
	var out []queue.Request
	for q.Len() > 0 {
		req, err := q.Dequeue(context.Background())
		require.NoError(t, err)
		out = append(out, req)
	}
	return out
}

func TestManualEnqueuesTrimmedInput(t *testing.T) {
	q := queue.New()
	var out bytes.Buffer
	m := NewManual(q, strings.NewReader("  check the news  \nexit\n"), &out, testLogger())

	err := m.Run(context.Background())
	assert.ErrorIs(t, err, ErrExit)

	requests := drain(t, q)
	require.Len(t, requests, 1)
	assert.Equal(t, "check the news", requests[0].Text)
	assert.Nil(t, requests[0].Correlation)
}

func TestManualSkipsEmptyInput(t *testing.T) {
	q := queue.New()
	var out bytes.Buffer
	m := NewManual(q, strings.NewReader("\n   \n\t\nexit\n"), &out, testLogger())

	err := m.Run(context.Background())
	assert.ErrorIs(t, err, ErrExit)
	assert.Equal(t, 0, q.Len())

	// Each discarded line re-prompts.
	assert.GreaterOrEqual(t, strings.Count(out.String(), "INPUT"), 4)
}

func TestManualExitIsCaseInsensitiveExactMatch(t *testing.T) {
	q := queue.New()
	m := NewManual(q, strings.NewReader("EXIT\n"), io.Discard, testLogger())
	assert.ErrorIs(t, m.Run(context.Background()), ErrExit)

	// "exit now" is a task, not the keyword.
	q2 := queue.New()
	m2 := NewManual(q2, strings.NewReader("exit now\nExIt\n"), io.Discard, testLogger())
	assert.ErrorIs(t, m2.Run(context.Background()), ErrExit)
	requests := drain(t, q2)
	require.Len(t, requests, 1)
	assert.Equal(t, "exit now", requests[0].Text)
}

func TestManualEOFBehavesLikeExit(t *testing.T) {
	q := queue.New()
	m := NewManual(q, strings.NewReader(""), io.Discard, testLogger())
	assert.ErrorIs(t, m.Run(context.Background()), ErrExit)
}

func TestManualBusyNoticePrintedOnceAndStillEnqueued(t *testing.T) {
	q := queue.New()
	q.SetBusy(true)
	var out bytes.Buffer
	m := NewManual(q, strings.NewReader("while busy\nexit\n"), &out, testLogger())

	err := m.Run(context.Background())
	assert.ErrorIs(t, err, ErrExit)

	// Exactly one busy notice, and the request queued anyway.
	assert.Equal(t, 1, strings.Count(out.String(), "queued behind"))
	requests := drain(t, q)
	require.Len(t, requests, 1)
	assert.Equal(t, "while busy", requests[0].Text)
}

func TestManualReturnsOnCancellation(t *testing.T) {
	q := queue.New()
	ctx, cancel := context.WithCancel(context.Background())

	// A reader that never produces a line.
	blocked, w := io.Pipe()
	defer w.Close()
	m := NewManual(q, blocked, io.Discard, testLogger())

	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}
