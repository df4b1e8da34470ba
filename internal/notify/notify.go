// Package notify delivers upgrade workflow events to people. Delivery is
// best effort: callers dispatch after commit and never roll back on failure.
package notify

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Kind string

const (
	RequestCreated  Kind = "request_created"
	RequestApproved Kind = "request_approved"
	RequestRejected Kind = "request_rejected"
)

// Event carries what a message needs; it is built from committed rows.
type Event struct {
	Kind         Kind
	RequestID    uint
	AccountID    uint
	AccountName  string
	AccountEmail string
	PlanName     string
	Notes        string
	AdminNotes   string
}

type Dispatcher interface {
	Notify(ctx context.Context, ev Event) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) Notify(context.Context, Event) error { return nil }

// LogDispatcher writes events to the log; used when SMTP is not configured.
type LogDispatcher struct{}

func (LogDispatcher) Notify(_ context.Context, ev Event) error {
	log.Info().
		Str("event", string(ev.Kind)).
		Uint("request_id", ev.RequestID).
		Uint("account_id", ev.AccountID).
		Str("plan", ev.PlanName).
		Msg("notification")
	return nil
}

// Multi delivers to every dispatcher concurrently and joins their errors.
type Multi []Dispatcher

func (m Multi) Notify(ctx context.Context, ev Event) error {
	var g errgroup.Group
	errs := make([]error, len(m))
	for i, d := range m {
		g.Go(func() error {
			errs[i] = d.Notify(ctx, ev)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
