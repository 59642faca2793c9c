// Package session owns the process lifetime: it acquires the browser
// tool server and (in remote mode) the hub connection, wires the producer
// and consumer together, and guarantees teardown in reverse acquisition
// order on every exit path.
package session

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/entrhq/surf/pkg/browser"
	"github.com/entrhq/surf/pkg/config"
	"github.com/entrhq/surf/pkg/dispatch"
	"github.com/entrhq/surf/pkg/gateway"
	"github.com/entrhq/surf/pkg/history"
	"github.com/entrhq/surf/pkg/hub"
	"github.com/entrhq/surf/pkg/intake"
	"github.com/entrhq/surf/pkg/logging"
	"github.com/entrhq/surf/pkg/queue"
	"github.com/entrhq/surf/pkg/retry"
)

// Session is one running agent process: connections, queue, worker, and
// input source.
type Session struct {
	cfg     *config.Config
	log     *logging.Logger
	browser *browser.Server
	hub     *hub.Client
	queue   *queue.Queue
	worker  *queue.Worker
	source  intake.Source
	closers closerStack
}

// Open establishes connections in order (browser tool server first, hub
// second) and builds the processing pipeline. On any failure everything
// already acquired is released before returning.
func Open(ctx context.Context, cfg *config.Config, log *logging.Logger, in io.Reader, out io.Writer) (*Session, error) {
	s := &Session{cfg: cfg, log: log, queue: queue.New()}

	browserServer, err := browser.Connect(ctx, cfg.BrowserServer, log)
	if err != nil {
		return nil, err
	}
	s.browser = browserServer
	s.closers.Push(browserServer)

	if cfg.Mode == config.ModeRemote {
		hubClient, err := hub.Connect(ctx, cfg.HubURL, cfg.AgentID, cfg.AgentDesc, log)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.hub = hubClient
		s.closers.Push(hubClient)

		if summary, rerr := hubClient.ResourceSummary(ctx); rerr == nil {
			log.Infof("hub resources at startup:\n%s", summary)
		}
	}

	if err := s.buildPipeline(in, out); err != nil {
		s.Close()
		return nil, err
	}

	return s, nil
}

// buildPipeline wires provider, gateway, dispatcher, worker, and source
// for the configured mode.
func (s *Session) buildPipeline(in io.Reader, out io.Writer) error {
	provider, err := newProvider(s.cfg)
	if err != nil {
		return err
	}

	engine := gateway.New(provider, s.browser, s.browser.Catalog(), s.cfg.RequestTimeout, s.log)
	ring := history.NewRing(s.cfg.HistorySize)

	var dispatcher queue.Dispatcher
	if s.cfg.Mode == config.ModeRemote {
		dispatcher = dispatch.NewRemote(s.hub, retry.Fixed(s.cfg.PollInterval), s.log)
	} else {
		dispatcher = dispatch.NewLocal(out, s.log)
	}

	s.worker = queue.NewWorker(s.queue, engine, dispatcher, ring, s.log, retry.Fixed(s.cfg.ErrorRetryInterval))

	if s.cfg.Mode == config.ModeRemote {
		whitelist, werr := config.NewSenderWhitelist(s.cfg.AllowedSenders)
		if werr != nil {
			return werr
		}
		s.source = intake.NewMentionSource(s.queue, s.hub, whitelist, s.cfg, s.log)
	} else {
		s.source = intake.NewManual(s.queue, in, out, s.log)
	}

	return nil
}

// Catalog returns the browser tool catalog for operator display.
func (s *Session) Catalog() browser.Catalog {
	return s.browser.Catalog()
}

// Run drives the producer and consumer until the source stops (exit
// keyword, end of input) or ctx is cancelled. Shutdown drains: the
// producer stops first, then the worker finishes any request it already
// dequeued before Run returns.
func (s *Session) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerDone := make(chan error, 1)
	go func() {
		workerDone <- s.worker.Run(runCtx)
	}()

	err := s.source.Run(runCtx)

	// Draining: no new requests can arrive. An operator exit lets the
	// queue empty out first; either way the worker completes its
	// in-flight item before acknowledging cancellation.
	if errors.Is(err, intake.ErrExit) {
		s.awaitIdle(runCtx)
	}
	cancel()
	<-workerDone

	if errors.Is(err, intake.ErrExit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// awaitIdle waits until the queue is empty and the worker is between
// requests, or ctx is cancelled.
func (s *Session) awaitIdle(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()

	for s.queue.Len() > 0 || s.queue.Busy() {
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// Close releases the connections exactly once, in reverse acquisition
// order. Safe to call multiple times and on partially opened sessions.
func (s *Session) Close() error {
	return s.closers.Close()
}
