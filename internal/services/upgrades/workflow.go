package upgrades

import (
	"context"
	"errors"
	"time"

	"entitlements-app/internal/domain/access"
	"entitlements-app/internal/domain/subscriptions"
	domain "entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/domain/users"
	"entitlements-app/internal/metrics"
	"entitlements-app/internal/notify"
	"entitlements-app/internal/store"
)

// Workflow is the admin-facing state machine: pending -> approved | rejected.
type Workflow struct {
	deps
}

func NewWorkflow(st *store.Store, opts ...Option) *Workflow {
	return &Workflow{deps: newDeps(st, opts)}
}

// ListPending returns every pending request with display names.
func (w *Workflow) ListPending(ctx context.Context, adminID uint) ([]domain.PendingView, error) {
	tx := w.store.Read(ctx)
	if _, err := requireAdmin(tx, adminID); err != nil {
		return nil, err
	}
	return tx.ListPendingViews()
}

// Approve marks the request approved and moves the account's subscription to
// the requested plan for a fresh period starting today. Both writes commit
// together or not at all.
func (w *Workflow) Approve(ctx context.Context, adminID, requestID uint, in domain.DecisionInput) (*domain.UpgradeRequest, error) {
	return w.decide(ctx, "approve", adminID, requestID, in, func(tx *store.Tx, req *domain.UpgradeRequest, now time.Time) (string, error) {
		sub, err := tx.ActiveSubscription(req.AccountID)
		if err != nil {
			return "", err
		}
		if !sub.IsLive(now) {
			return "", domain.ErrMissingEntitlement
		}

		plan, err := tx.PlanUnscoped(req.RequestedPlanID)
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.ErrInvalidPlan
		}
		if err != nil {
			return "", err
		}
		if !plan.Usable() {
			return "", domain.ErrInvalidPlan
		}

		req.Status = domain.StatusApproved
		if err := tx.DecideRequest(req); err != nil {
			return "", err
		}

		start, end := subscriptions.Period(now, plan.DurationDays)
		if err := tx.RenewSubscription(sub.ID, plan.ID, start, end); err != nil {
			return "", err
		}
		return plan.Name, nil
	})
}

// Reject marks the request rejected. The subscription is not touched.
func (w *Workflow) Reject(ctx context.Context, adminID, requestID uint, in domain.DecisionInput) (*domain.UpgradeRequest, error) {
	return w.decide(ctx, "reject", adminID, requestID, in, func(tx *store.Tx, req *domain.UpgradeRequest, _ time.Time) (string, error) {
		req.Status = domain.StatusRejected
		if err := tx.DecideRequest(req); err != nil {
			return "", err
		}
		// name is only for the notification; a vanished plan does not block a rejection
		plan, err := tx.PlanUnscoped(req.RequestedPlanID)
		if errors.Is(err, store.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", err
		}
		return plan.Name, nil
	})
}

type applyFunc func(tx *store.Tx, req *domain.UpgradeRequest, now time.Time) (planName string, err error)

func (w *Workflow) decide(ctx context.Context, decision string, adminID, requestID uint, in domain.DecisionInput, apply applyFunc) (*domain.UpgradeRequest, error) {
	in.Normalize()
	start := time.Now()

	// the account id is immutable, so it can be read before taking its lock
	probe, err := w.store.Read(ctx).Request(requestID)
	if err != nil {
		metrics.UpgradeDecisionsTotal.WithLabelValues(decision, outcome(err)).Inc()
		return nil, err
	}

	var (
		req *domain.UpgradeRequest
		ev  notify.Event
	)
	err = w.store.InAccountTx(ctx, probe.AccountID, func(tx *store.Tx) error {
		admin, err := requireAdmin(tx, adminID)
		if err != nil {
			return err
		}

		req, err = tx.Request(requestID)
		if err != nil {
			return err
		}
		if !req.IsPending() {
			return domain.ErrInvalidStateTransition
		}
		if !access.CanDecide(admin, req) {
			return domain.ErrAuthorization
		}

		now := w.now()
		req.AdminNotes = in.AdminNotes
		req.ApprovedBy = &adminID
		req.ApprovedAt = &now

		planName, err := apply(tx, req, now)
		if err != nil {
			return err
		}

		acc, err := tx.Account(req.AccountID)
		if err != nil {
			return err
		}
		ev = notify.Event{
			Kind:         notify.RequestApproved,
			RequestID:    req.ID,
			AccountID:    acc.ID,
			AccountName:  acc.Name,
			AccountEmail: acc.Email,
			PlanName:     planName,
			AdminNotes:   req.AdminNotes,
		}
		if req.IsRejected() {
			ev.Kind = notify.RequestRejected
		}
		return nil
	})
	observe(decision, start, err)
	metrics.UpgradeDecisionsTotal.WithLabelValues(decision, outcome(err)).Inc()
	if err != nil {
		w.log.Warn().Err(err).Str("decision", decision).Uint("request_id", requestID).Uint("admin_id", adminID).
			Msg("upgrade decision rolled back")
		return nil, err
	}

	w.log.Info().Str("decision", decision).Uint("request_id", req.ID).Uint("account_id", req.AccountID).
		Uint("admin_id", adminID).Msg("upgrade request decided")
	w.dispatch(ctx, ev)
	return req, nil
}

func requireAdmin(tx *store.Tx, adminID uint) (*users.Account, error) {
	admin, err := tx.Account(adminID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, domain.ErrAuthorization
	}
	if err != nil {
		return nil, err
	}
	if !access.CanManageRequests(admin) {
		return nil, domain.ErrAuthorization
	}
	return admin, nil
}
