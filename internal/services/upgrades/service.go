// Package upgrades runs the plan-upgrade workflow: teachers file requests,
// admins approve or reject them. Every mutation for an account happens in
// one transaction under that account's lock.
package upgrades

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	domain "entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/metrics"
	"entitlements-app/internal/notify"
	"entitlements-app/internal/store"
)

type Option func(*deps)

// WithClock overrides time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(d *deps) { d.now = now }
}

func WithLogger(l zerolog.Logger) Option {
	return func(d *deps) { d.log = l }
}

func WithNotifier(n notify.Dispatcher) Option {
	return func(d *deps) {
		if n != nil {
			d.notify = n
		}
	}
}

type deps struct {
	store  *store.Store
	notify notify.Dispatcher
	now    func() time.Time
	log    zerolog.Logger
}

func newDeps(st *store.Store, opts []Option) deps {
	d := deps{
		store:  st,
		notify: notify.Nop{},
		now:    time.Now,
		log:    log.Logger.With().Str("component", "upgrades").Logger(),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// dispatch runs after commit; delivery errors are logged, never returned.
func (d deps) dispatch(ctx context.Context, ev notify.Event) {
	if err := d.notify.Notify(ctx, ev); err != nil {
		d.log.Warn().Err(err).Str("event", string(ev.Kind)).Uint("request_id", ev.RequestID).
			Msg("notification dispatch failed")
	}
}

// outcome is the metrics label for err.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrAuthorization):
		return "unauthorized"
	case errors.Is(err, domain.ErrDuplicateRequest):
		return "duplicate"
	case errors.Is(err, domain.ErrInvalidUpgradeTarget):
		return "invalid_target"
	case errors.Is(err, domain.ErrInvalidPlan):
		return "invalid_plan"
	case errors.Is(err, domain.ErrMissingEntitlement):
		return "missing_entitlement"
	case errors.Is(err, domain.ErrInvalidStateTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrRequestNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrContention):
		return "contention"
	}
	return "error"
}

// observe records duration and contention for one transactional operation.
func observe(operation string, start time.Time, err error) {
	metrics.TxDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if errors.Is(err, domain.ErrContention) {
		metrics.AccountLockContentionTotal.Inc()
	}
}
