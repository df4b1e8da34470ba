package upgrades

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entitlements-app/internal/domain/access"
	domain "entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/metrics"
	"entitlements-app/internal/notify"
	"entitlements-app/internal/store"
)

// RequestService is the teacher-facing side of the workflow.
type RequestService struct {
	deps
}

func NewRequestService(st *store.Store, opts ...Option) *RequestService {
	return &RequestService{deps: newDeps(st, opts)}
}

// CreateRequest files a pending upgrade for accountID. Checks run in order
// under the account lock: eligibility, no other pending request, strictly
// larger capacity, plan still usable.
func (s *RequestService) CreateRequest(ctx context.Context, accountID uint, in domain.CreateRequestInput) (*domain.UpgradeRequest, error) {
	in.Normalize()
	start := time.Now()
	today := s.now()

	var (
		req *domain.UpgradeRequest
		ev  notify.Event
	)
	err := s.store.InAccountTx(ctx, accountID, func(tx *store.Tx) error {
		acc, err := tx.Account(accountID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrAuthorization
		}
		if err != nil {
			return err
		}
		sub, err := tx.ActiveSubscription(accountID)
		if err != nil {
			return err
		}
		if !access.CanRequestUpgrade(acc, sub, today) {
			return domain.ErrAuthorization
		}

		pending, err := tx.PendingRequest(accountID)
		if err != nil {
			return err
		}
		if pending != nil {
			return domain.ErrDuplicateRequest
		}

		current, err := tx.PlanUnscoped(sub.PlanID)
		if err != nil {
			return fmt.Errorf("current plan %d: %w", sub.PlanID, err)
		}
		requested, err := tx.PlanUnscoped(in.RequestedPlanID)
		if errors.Is(err, store.ErrNotFound) {
			return domain.ErrInvalidPlan
		}
		if err != nil {
			return err
		}
		if requested.MaxStudents <= current.MaxStudents {
			return domain.ErrInvalidUpgradeTarget
		}
		if !requested.Usable() {
			return domain.ErrInvalidPlan
		}

		req = &domain.UpgradeRequest{
			AccountID:       accountID,
			CurrentPlanID:   current.ID,
			RequestedPlanID: requested.ID,
			Notes:           in.Notes,
		}
		if err := tx.InsertRequest(req); err != nil {
			return err
		}

		ev = notify.Event{
			Kind:         notify.RequestCreated,
			RequestID:    req.ID,
			AccountID:    acc.ID,
			AccountName:  acc.Name,
			AccountEmail: acc.Email,
			PlanName:     requested.Name,
			Notes:        req.Notes,
		}
		return nil
	})
	observe("create", start, err)
	metrics.UpgradeRequestsTotal.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		s.log.Warn().Err(err).Uint("account_id", accountID).Uint("requested_plan_id", in.RequestedPlanID).
			Msg("upgrade request refused")
		return nil, err
	}

	s.log.Info().Uint("request_id", req.ID).Uint("account_id", accountID).
		Uint("current_plan_id", req.CurrentPlanID).Uint("requested_plan_id", req.RequestedPlanID).
		Msg("upgrade request created")
	s.dispatch(ctx, ev)
	return req, nil
}

// PendingRequest returns the account's pending request, or nil.
func (s *RequestService) PendingRequest(ctx context.Context, accountID uint) (*domain.UpgradeRequest, error) {
	return s.store.Read(ctx).PendingRequest(accountID)
}

// History lists every request of the account, newest first.
func (s *RequestService) History(ctx context.Context, accountID uint) ([]domain.UpgradeRequest, error) {
	return s.store.Read(ctx).RequestsForAccount(accountID)
}
