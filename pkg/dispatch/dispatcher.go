// Package dispatch routes completed responses back to whichever channel
// issued the request: the local terminal for manual requests, the
// coordination hub for remote mentions.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/queue"
	"github.com/entrhq/surf/pkg/retry"
)

// errorPrefix is how captured failures start; manual mode styles them
// differently from normal responses.
const errorPrefix = "Error:"

// MessageSender posts a reply into a hub thread. *hub.Client implements it.
type MessageSender interface {
	SendMessage(ctx context.Context, threadID, content string, mentions []string) error
}

// Dispatcher implements queue.Dispatcher for both input modes. A request
// without correlation is answered on the local writer; one with
// correlation is answered on the hub, followed by a short courtesy pause
// so back-to-back replies don't hammer the hub.
type Dispatcher struct {
	out    io.Writer
	sender MessageSender
	pause  retry.Policy
	log    *logging.Logger
}

// NewLocal creates a dispatcher for manual mode: responses go to out.
func NewLocal(out io.Writer, log *logging.Logger) *Dispatcher {
	return &Dispatcher{out: out, log: log}
}

// NewRemote creates a dispatcher for remote mode. pause is the courtesy
// interval after each hub send.
func NewRemote(sender MessageSender, pause retry.Policy, log *logging.Logger) *Dispatcher {
	return &Dispatcher{sender: sender, pause: pause, log: log}
}

// Dispatch delivers one response. Remote errors travel as ordinary
// message content, so from the hub's perspective a failed request looks
// like any other reply.
func (d *Dispatcher) Dispatch(ctx context.Context, responseText string, correlation *queue.Correlation) error {
	if correlation == nil {
		d.printLocal(responseText)
		return nil
	}

	if d.sender == nil {
		return fmt.Errorf("no hub connection to answer thread %s", correlation.ThreadID)
	}

	if err := d.sender.SendMessage(ctx, correlation.ThreadID, responseText, []string{correlation.SenderID}); err != nil {
		return err
	}

	// The courtesy pause is best-effort; an aborted pause is not a
	// delivery failure.
	_ = d.pause.Wait(ctx)
	return nil
}

func (d *Dispatcher) printLocal(responseText string) {
	if d.out == nil {
		return
	}

	header := ResponseHeaderStyle.Render("AGENT:")
	if strings.HasPrefix(responseText, errorPrefix) {
		header = ErrorStyle.Render("AGENT ERROR:")
	}
	fmt.Fprintf(d.out, "%s %s\n", header, responseText)
}
