package queue

import (
	"context"
	"fmt"

	"github.com/entrhq/surf/pkg/history"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/retry"
)

// Gateway is the opaque reasoning call: a request plus formatted history
// in, a textual answer out. Implementations may take arbitrarily long and
// may fail; the worker converts failures into answer text.
type Gateway interface {
	Answer(ctx context.Context, query, historyText string) (string, error)
}

// Dispatcher routes a finished response back to its requester.
type Dispatcher interface {
	Dispatch(ctx context.Context, responseText string, correlation *Correlation) error
}

// historyTokenBudget caps the rendered history passed to the gateway.
// Oldest exchanges are dropped first when the ring's text exceeds it.
const historyTokenBudget = 4096

// Worker is the single consumer. It drains the queue one request at a
// time: at most one gateway call is in flight per process, and responses
// leave in exactly the order requests arrived.
type Worker struct {
	queue      *Queue
	gateway    Gateway
	dispatcher Dispatcher
	ring       *history.Ring
	tokens     *history.Counter
	log        *logging.Logger
	backoff    retry.Policy
}

// NewWorker wires a worker to its collaborators. backoff is the pause
// after an unexpected processing failure before the loop resumes.
func NewWorker(q *Queue, gw Gateway, d Dispatcher, ring *history.Ring, log *logging.Logger, backoff retry.Policy) *Worker {
	tokens, err := history.NewCounter()
	if err != nil {
		log.Warnf("token encoding unavailable, using byte estimate: %v", err)
	}
	return &Worker{
		queue:      q,
		gateway:    gw,
		dispatcher: d,
		ring:       ring,
		tokens:     tokens,
		log:        log,
		backoff:    backoff,
	}
}

// Run drains the queue until ctx is cancelled. A request that has already
// been dequeued when cancellation arrives is processed to completion
// before Run returns, so no accepted request is dropped mid-flight.
//
// The loop never exits on a processing error: gateway failures become
// response text, and anything unexpected is logged and retried after the
// backoff interval.
func (w *Worker) Run(ctx context.Context) error {
	for {
		req, err := w.queue.Dequeue(ctx)
		if err != nil {
			return err
		}

		// Shield the in-flight request from cancellation: once dequeued
		// it finishes and its response is dispatched.
		if err := w.processOne(context.WithoutCancel(ctx), req); err != nil {
			w.log.Errorf("request %s failed: %v", req.ID, err)
			w.log.Debugf("request %s failure detail: %+v", req.ID, err)
			if werr := w.backoff.Wait(ctx); werr != nil {
				return werr
			}
		}
	}
}

// processOne handles a single request end to end. Returns an error only
// for failures outside the gateway call (dispatch, panics); gateway
// errors are captured as the response.
func (w *Worker) processOne(ctx context.Context, req Request) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while processing request: %v", r)
		}
	}()

	w.queue.SetBusy(true)
	defer w.queue.SetBusy(false)

	w.log.Infof("processing request %s", req.ID)

	response, gerr := w.gateway.Answer(ctx, req.Text, w.ring.FormatBudget(w.tokens, historyTokenBudget))
	if gerr != nil {
		// The requester always gets a reply; errors travel the same
		// path as answers.
		w.log.Errorf("gateway call failed for request %s: %v", req.ID, gerr)
		response = fmt.Sprintf("Error: %v", gerr)
	}

	w.ring.Append(req.Text, response)

	if derr := w.dispatcher.Dispatch(ctx, response, req.Correlation); derr != nil {
		return fmt.Errorf("failed to dispatch response for request %s: %w", req.ID, derr)
	}

	w.log.Infof("completed request %s", req.ID)
	return nil
}
