package intake

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/entrhq/surf/pkg/dispatch"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/queue"
)

// exitKeyword terminates the manual loop on a case-insensitive exact match.
const exitKeyword = "exit"

// prompt is the manual-mode input prompt.
const prompt = "INPUT (type 'exit' to quit): "

// Manual reads tasks from a local line-oriented prompt.
type Manual struct {
	queue *queue.Queue
	in    io.Reader
	out   io.Writer
	log   *logging.Logger
}

// NewManual creates a manual source reading from in and prompting on out.
func NewManual(q *queue.Queue, in io.Reader, out io.Writer, log *logging.Logger) *Manual {
	return &Manual{queue: q, in: in, out: out, log: log}
}

// Run loops over the prompt until the exit keyword, end of input, or
// cancellation. Empty input after trimming re-prompts without enqueueing.
// If the worker is busy when a task is submitted, one busy notice is
// printed and the task is still enqueued.
//
// The blocking read runs on a dedicated goroutine so a stalled terminal
// never stops the worker from draining the queue. That goroutine may stay
// blocked in a read after cancellation; it holds no resources beyond the
// input stream, which the process owns.
func (m *Manual) Run(ctx context.Context) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(m.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprint(m.out, prompt)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				// End of input behaves like the exit keyword.
				return ErrExit
			}

			text := strings.TrimSpace(line)
			if text == "" {
				m.log.Infof("empty input, skipping")
				continue
			}
			if strings.EqualFold(text, exitKeyword) {
				m.log.Infof("exit requested by operator")
				return ErrExit
			}

			if m.queue.Busy() {
				fmt.Fprintln(m.out, dispatch.BusyStyle.Render(BusyNotice))
			}
			m.queue.Enqueue(queue.NewRequest(text, nil))
		}
	}
}
