package notify

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"entitlements-app/internal/metrics"
)

// Async hands events to next in a goroutine with its own timeout, so a slow
// mail server never holds up the caller. Failures are logged and dropped.
type Async struct {
	next    Dispatcher
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewAsync(next Dispatcher, timeout time.Duration) *Async {
	return &Async{next: next, timeout: timeout}
}

func (a *Async) Notify(_ context.Context, ev Event) error {
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		// detached from the request context, which ends with the response
		ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
		defer cancel()

		if err := a.next.Notify(ctx, ev); err != nil {
			metrics.NotificationsTotal.WithLabelValues(string(ev.Kind), "failed").Inc()
			log.Warn().Err(err).
				Str("event", string(ev.Kind)).
				Uint("request_id", ev.RequestID).
				Msg("notification delivery failed")
			return
		}
		metrics.NotificationsTotal.WithLabelValues(string(ev.Kind), "sent").Inc()
	}()
	return nil
}

// Wait blocks until in-flight deliveries finish; called on shutdown.
func (a *Async) Wait() {
	a.wg.Wait()
}
