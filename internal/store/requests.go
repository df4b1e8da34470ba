package store

import (
	"errors"
	"fmt"

	"entitlements-app/internal/domain/upgrades"
)

// PendingRequest returns the account's pending request or nil.
func (t *Tx) PendingRequest(accountID uint) (*upgrades.UpgradeRequest, error) {
	var r upgrades.UpgradeRequest
	err := t.db.Where("account_id = ? AND status = ?", accountID, upgrades.StatusPending).First(&r).Error
	if err != nil {
		if err = translate(err); errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (t *Tx) Request(id uint) (*upgrades.UpgradeRequest, error) {
	var r upgrades.UpgradeRequest
	if err := t.db.First(&r, id).Error; err != nil {
		if err = translate(err); errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("request %d: %w", id, upgrades.ErrRequestNotFound)
		}
		return nil, err
	}
	return &r, nil
}

// InsertRequest writes a new pending row. The one-pending-per-account index
// turns a lost race into ErrDuplicateRequest.
func (t *Tx) InsertRequest(r *upgrades.UpgradeRequest) error {
	r.Status = upgrades.StatusPending
	if err := t.db.Create(r).Error; err != nil {
		if isUniqueViolation(err) {
			return upgrades.ErrDuplicateRequest
		}
		return translate(err)
	}
	return nil
}

// DecideRequest persists r's terminal state, only if the row is still pending.
func (t *Tx) DecideRequest(r *upgrades.UpgradeRequest) error {
	if !r.Status.IsTerminal() {
		return upgrades.ErrInvalidStateTransition
	}
	res := t.db.Model(&upgrades.UpgradeRequest{}).
		Where("id = ? AND status = ?", r.ID, upgrades.StatusPending).
		Updates(map[string]any{
			"status":      r.Status,
			"admin_notes": r.AdminNotes,
			"approved_by": r.ApprovedBy,
			"approved_at": r.ApprovedAt,
		})
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return upgrades.ErrInvalidStateTransition
	}
	return nil
}

// ListPendingViews returns pending requests, oldest first, with names joined in.
func (t *Tx) ListPendingViews() ([]upgrades.PendingView, error) {
	var rows []upgrades.PendingView
	err := t.db.Table("upgrade_requests AS r").
		Select(`r.id, r.account_id, a.name AS account_name, a.email AS account_email,
			r.current_plan_id, cp.name AS current_plan_name,
			r.requested_plan_id, rp.name AS requested_plan_name,
			r.notes, r.created_at`).
		Joins("JOIN accounts a ON a.id = r.account_id").
		Joins("LEFT JOIN plans cp ON cp.id = r.current_plan_id").
		Joins("LEFT JOIN plans rp ON rp.id = r.requested_plan_id").
		Where("r.status = ?", upgrades.StatusPending).
		Order("r.created_at ASC, r.id ASC").
		Scan(&rows).Error
	return rows, translate(err)
}

// RequestsForAccount returns every request of the account, newest first.
func (t *Tx) RequestsForAccount(accountID uint) ([]upgrades.UpgradeRequest, error) {
	var out []upgrades.UpgradeRequest
	err := t.db.Where("account_id = ?", accountID).Order("created_at DESC, id DESC").Find(&out).Error
	return out, translate(err)
}

// CountRequests counts every request the account ever made.
func (t *Tx) CountRequests(accountID uint) (int64, error) {
	var n int64
	err := t.db.Model(&upgrades.UpgradeRequest{}).Where("account_id = ?", accountID).Count(&n).Error
	return n, translate(err)
}
