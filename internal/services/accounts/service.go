// Package accounts approves accounts and grants their first entitlement.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"entitlements-app/internal/domain/access"
	"entitlements-app/internal/domain/subscriptions"
	"entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/domain/users"
	"entitlements-app/internal/store"
)

var ErrAccountNotFound = errors.New("account not found")

type Service struct {
	store *store.Store
	now   func() time.Time
}

func NewService(st *store.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: st, now: now}
}

// ApproveResult is the account after approval plus the subscription it was
// granted, nil when it already had one.
type ApproveResult struct {
	Account *users.Account              `json:"account"`
	Granted *subscriptions.Subscription `json:"granted_subscription,omitempty"`
}

// Approve sets is_approved and, for teachers without any subscription yet,
// grants the trial (or default) plan for its duration.
func (s *Service) Approve(ctx context.Context, adminID, accountID uint) (*ApproveResult, error) {
	var res ApproveResult
	err := s.store.InAccountTx(ctx, accountID, func(tx *store.Tx) error {
		admin, err := tx.Account(adminID)
		if errors.Is(err, store.ErrNotFound) {
			return upgrades.ErrAuthorization
		}
		if err != nil {
			return err
		}
		if !access.CanManageRequests(admin) {
			return upgrades.ErrAuthorization
		}

		if err := tx.ApproveAccount(accountID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrAccountNotFound
			}
			return err
		}
		acc, err := tx.Account(accountID)
		if err != nil {
			return err
		}
		res.Account = acc

		if !acc.IsTeacher() {
			return nil
		}
		has, err := tx.HasSubscription(accountID)
		if err != nil || has {
			return err
		}

		plan, err := tx.GrantPlan()
		if err != nil {
			return fmt.Errorf("no trial or default plan to grant: %w", err)
		}
		start, end := subscriptions.Period(s.now(), plan.DurationDays)
		sub := &subscriptions.Subscription{
			AccountID: accountID,
			PlanID:    plan.ID,
			StartDate: start,
			EndDate:   end,
			IsActive:  true,
		}
		if err := tx.CreateSubscription(sub); err != nil {
			return err
		}
		res.Granted = sub
		return nil
	})
	if err != nil {
		return nil, err
	}

	ev := log.Info().Uint("account_id", accountID).Uint("admin_id", adminID)
	if res.Granted != nil {
		ev = ev.Uint("plan_id", res.Granted.PlanID)
	}
	ev.Msg("account approved")
	return &res, nil
}

// List returns every account with its current plan; admins only.
func (s *Service) List(ctx context.Context, adminID uint) ([]store.AccountSummary, error) {
	tx := s.store.Read(ctx)
	admin, err := tx.Account(adminID)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}
	if !access.CanManageRequests(admin) {
		return nil, upgrades.ErrAuthorization
	}
	return tx.ListAccounts()
}

// Profile is what /me shows.
type Profile struct {
	Account        *users.Account              `json:"account"`
	Subscription   *subscriptions.Subscription `json:"subscription"`
	Entitlement    access.Entitlement          `json:"entitlement"`
	PendingRequest *upgrades.UpgradeRequest    `json:"pending_request"`
}

func (s *Service) Profile(ctx context.Context, accountID uint) (*Profile, error) {
	tx := s.store.Read(ctx)
	acc, err := tx.Account(accountID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}

	sub, err := tx.ActiveSubscription(accountID)
	if err != nil {
		return nil, err
	}
	p := &Profile{Account: acc, Subscription: sub}
	if sub != nil {
		plan, err := tx.PlanUnscoped(sub.PlanID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		p.Entitlement = access.ComputeEntitlement(s.now(), sub, plan)
	} else {
		p.Entitlement = access.ComputeEntitlement(s.now(), nil, nil)
	}

	if p.PendingRequest, err = tx.PendingRequest(accountID); err != nil {
		return nil, err
	}
	return p, nil
}
