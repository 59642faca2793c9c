package dispatch

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/queue"
	"github.com/entrhq/surf/pkg/retry"
)

type fakeSender struct {
	threadIDs []string
	contents  []string
	mentions  [][]string
	err       error
}

func (s *fakeSender) SendMessage(ctx context.Context, threadID, content string, mentions []string) error {
	if s.err != nil {
		return s.err
	}
	s.threadIDs = append(s.threadIDs, threadID)
	s.contents = append(s.contents, content)
	s.mentions = append(s.mentions, mentions)
	return nil
}

func testLogger() *logging.Logger {
	return logging.NewWithWriter("dispatch-test", io.Discard)
}

func TestLocalDispatchPrints(t *testing.T) {
	var buf bytes.Buffer
	d := NewLocal(&buf, testLogger())

	err := d.Dispatch(context.Background(), "the page title is Example", nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "AGENT:")
	assert.Contains(t, buf.String(), "the page title is Example")
}

func TestLocalDispatchMarksErrors(t *testing.T) {
	var buf bytes.Buffer
	d := NewLocal(&buf, testLogger())

	err := d.Dispatch(context.Background(), "Error: model unavailable", nil)
	require.NoError(t, err)

	assert.Contains(t, buf.String(), "AGENT ERROR:")
}

func TestRemoteDispatchSendsToThread(t *testing.T) {
	sender := &fakeSender{}
	d := NewRemote(sender, retry.Fixed(0), testLogger())

	corr := &queue.Correlation{ThreadID: "t-1", SenderID: "planner"}
	err := d.Dispatch(context.Background(), "done", corr)
	require.NoError(t, err)

	require.Len(t, sender.contents, 1)
	assert.Equal(t, "t-1", sender.threadIDs[0])
	assert.Equal(t, "done", sender.contents[0])
	assert.Equal(t, []string{"planner"}, sender.mentions[0])
}

func TestRemoteDispatchPropagatesSendFailure(t *testing.T) {
	sender := &fakeSender{err: errors.New("hub down")}
	d := NewRemote(sender, retry.Fixed(0), testLogger())

	err := d.Dispatch(context.Background(), "done", &queue.Correlation{ThreadID: "t", SenderID: "s"})
	assert.Error(t, err)
}

func TestRemoteDispatchAppliesCourtesyPause(t *testing.T) {
	sender := &fakeSender{}
	d := NewRemote(sender, retry.Fixed(20*time.Millisecond), testLogger())

	start := time.Now()
	err := d.Dispatch(context.Background(), "done", &queue.Correlation{ThreadID: "t", SenderID: "s"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestCorrelationWithoutSenderFails(t *testing.T) {
	d := NewLocal(io.Discard, testLogger())

	err := d.Dispatch(context.Background(), "done", &queue.Correlation{ThreadID: "t", SenderID: "s"})
	assert.Error(t, err)
}
