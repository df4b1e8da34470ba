package upgrades

import "time"

// Status is the lifecycle state of an UpgradeRequest.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// CanTransitionTo allows only pending -> approved and pending -> rejected.
func (s Status) CanTransitionTo(next Status) bool {
	return s == StatusPending && next.IsTerminal()
}

// UpgradeRequest asks an administrator to move an account to a bigger plan.
// A row is written once as pending and mutated once into a terminal state.
type UpgradeRequest struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	AccountID       uint       `gorm:"not null;index" json:"account_id"`
	CurrentPlanID   uint       `gorm:"not null" json:"current_plan_id"`
	RequestedPlanID uint       `gorm:"not null" json:"requested_plan_id"`
	Status          Status     `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	Notes           string     `gorm:"type:text" json:"notes"`
	AdminNotes      string     `gorm:"type:text" json:"admin_notes"`
	ApprovedBy      *uint      `json:"approved_by"`
	ApprovedAt      *time.Time `json:"approved_at"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"-"`
}

func (r UpgradeRequest) IsPending() bool  { return r.Status == StatusPending }
func (r UpgradeRequest) IsApproved() bool { return r.Status == StatusApproved }
func (r UpgradeRequest) IsRejected() bool { return r.Status == StatusRejected }

// PendingView is a pending request joined with account and plan names for
// the admin review list.
type PendingView struct {
	ID                uint      `json:"id"`
	AccountID         uint      `json:"account_id"`
	AccountName       string    `json:"account_name"`
	AccountEmail      string    `json:"account_email"`
	CurrentPlanID     uint      `json:"current_plan_id"`
	CurrentPlanName   string    `json:"current_plan_name"`
	RequestedPlanID   uint      `json:"requested_plan_id"`
	RequestedPlanName string    `json:"requested_plan_name"`
	Notes             string    `json:"notes"`
	CreatedAt         time.Time `json:"created_at"`
}
