package store

import (
	"errors"
	"fmt"
	"time"

	"entitlements-app/internal/domain/subscriptions"
	"entitlements-app/internal/domain/upgrades"
)

// ActiveSubscription returns the account's is_active row, or nil when there
// is none. Whether it is still live is for the caller to decide.
func (t *Tx) ActiveSubscription(accountID uint) (*subscriptions.Subscription, error) {
	var sub subscriptions.Subscription
	err := t.db.Where("account_id = ? AND is_active = ?", accountID, true).First(&sub).Error
	if err != nil {
		if err = translate(err); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

func (t *Tx) HasSubscription(accountID uint) (bool, error) {
	var n int64
	err := t.db.Model(&subscriptions.Subscription{}).Where("account_id = ?", accountID).Count(&n).Error
	return n > 0, translate(err)
}

func (t *Tx) CreateSubscription(sub *subscriptions.Subscription) error {
	if err := t.db.Create(sub).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("account %d already has an active subscription: %w", sub.AccountID, ErrConflict)
		}
		return translate(err)
	}
	return nil
}

// RenewSubscription points the active row at planID for [start, end]. It
// only touches a row that is still active; otherwise ErrMissingEntitlement.
func (t *Tx) RenewSubscription(subID, planID uint, start, end time.Time) error {
	res := t.db.Model(&subscriptions.Subscription{}).
		Where("id = ? AND is_active = ?", subID, true).
		Updates(map[string]any{
			"plan_id":    planID,
			"start_date": start,
			"end_date":   end,
			"is_active":  true,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return upgrades.ErrMissingEntitlement
	}
	return nil
}
