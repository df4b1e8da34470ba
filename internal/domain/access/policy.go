package access

import (
	"time"

	"entitlements-app/internal/domain/subscriptions"
	"entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/domain/users"
)

// CanRequestUpgrade: approved, non-admin teacher holding a live subscription.
func CanRequestUpgrade(acc *users.Account, sub *subscriptions.Subscription, today time.Time) bool {
	if acc == nil {
		return false
	}
	return acc.Role == users.RoleTeacher &&
		!acc.IsAdmin &&
		acc.IsApproved &&
		sub.IsLive(today)
}

func CanManageRequests(acc *users.Account) bool {
	return acc != nil && acc.IsAdmin
}

// CanDecide only holds while the request is still pending.
func CanDecide(acc *users.Account, req *upgrades.UpgradeRequest) bool {
	return CanManageRequests(acc) && req != nil && req.IsPending()
}
