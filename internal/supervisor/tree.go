// Package supervisor runs the long-lived parts of the server under a suture
// supervision tree: the HTTP listener, the catalog refresher and the
// idempotency janitor. A crashed service is restarted with backoff while
// the others keep running.
package supervisor

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

// TreeConfig tunes restart behaviour. Zero values take suture's defaults.
type TreeConfig struct {
	FailureThreshold float64
	FailureDecay     float64
	FailureBackoff   time.Duration
	ShutdownTimeout  time.Duration
}

func (c TreeConfig) withDefaults() TreeConfig {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.FailureDecay <= 0 {
		c.FailureDecay = 30
	}
	if c.FailureBackoff <= 0 {
		c.FailureBackoff = 15 * time.Second
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	return c
}

// Tree has two layers. Background jobs live under "background" so a
// misbehaving refresher can never take the API layer into backoff.
type Tree struct {
	root       *suture.Supervisor
	background *suture.Supervisor
	api        *suture.Supervisor
}

// New builds the tree and routes supervisor events to logger.
func New(logger zerolog.Logger, cfg TreeConfig) *Tree {
	cfg = cfg.withDefaults()

	spec := func(hook suture.EventHook) suture.Spec {
		return suture.Spec{
			EventHook:        hook,
			FailureThreshold: cfg.FailureThreshold,
			FailureDecay:     cfg.FailureDecay,
			FailureBackoff:   cfg.FailureBackoff,
			Timeout:          cfg.ShutdownTimeout,
		}
	}

	// Children inherit the root's hook when added.
	root := suture.New("cocktails", spec(EventHook(logger)))
	background := suture.New("background", spec(nil))
	api := suture.New("api", spec(nil))
	root.Add(background)
	root.Add(api)

	return &Tree{root: root, background: background, api: api}
}

// AddBackground supervises a background job.
func (t *Tree) AddBackground(svc suture.Service) suture.ServiceToken {
	return t.background.Add(svc)
}

// AddAPI supervises a request-serving service.
func (t *Tree) AddAPI(svc suture.Service) suture.ServiceToken {
	return t.api.Add(svc)
}

// Serve blocks until ctx is canceled and every service has stopped.
func (t *Tree) Serve(ctx context.Context) error { return t.root.Serve(ctx) }

// ServeBackground starts the tree and reports its exit on the channel.
func (t *Tree) ServeBackground(ctx context.Context) <-chan error {
	return t.root.ServeBackground(ctx)
}

// UnstoppedServiceReport lists services that ignored the shutdown timeout.
func (t *Tree) UnstoppedServiceReport() ([]suture.UnstoppedService, error) {
	return t.root.UnstoppedServiceReport()
}

// EventHook logs suture events through zerolog. Panics and stop timeouts
// are errors, terminations warnings, backoff transitions info.
func EventHook(logger zerolog.Logger) suture.EventHook {
	return func(e suture.Event) {
		var ev *zerolog.Event
		switch e.Type() {
		case suture.EventTypeServicePanic, suture.EventTypeStopTimeout:
			ev = logger.Error()
		case suture.EventTypeServiceTerminate:
			ev = logger.Warn()
		default:
			ev = logger.Info()
		}
		ev.Fields(e.Map()).Str("event", eventNames[e.Type()]).Msg(e.String())
	}
}

var eventNames = map[suture.EventType]string{
	suture.EventTypeStopTimeout:      "stop_timeout",
	suture.EventTypeServicePanic:     "service_panic",
	suture.EventTypeServiceTerminate: "service_terminate",
	suture.EventTypeBackoff:          "backoff",
	suture.EventTypeResume:           "resume",
}
