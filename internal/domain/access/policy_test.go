package access

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"entitlements-app/internal/domain/subscriptions"
	"entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/domain/users"
)

var today = time.Date(2025, 3, 10, 15, 0, 0, 0, time.UTC)

func liveSub() *subscriptions.Subscription {
	return &subscriptions.Subscription{
		AccountID: 1, PlanID: 1, IsActive: true,
		StartDate: today.AddDate(0, 0, -5),
		EndDate:   today.AddDate(0, 0, 25),
	}
}

func TestCanRequestUpgrade_TruthTable(t *testing.T) {
	for _, role := range []string{users.RoleTeacher, users.RoleAssistant, users.RoleAdmin} {
		for _, isAdmin := range []bool{false, true} {
			for _, approved := range []bool{false, true} {
				acc := &users.Account{ID: 1, Role: role, IsAdmin: isAdmin, IsApproved: approved}
				want := role == users.RoleTeacher && !isAdmin && approved
				name := fmt.Sprintf("%s/admin=%v/approved=%v", role, isAdmin, approved)
				assert.Equal(t, want, CanRequestUpgrade(acc, liveSub(), today), name)
			}
		}
	}
}

func TestCanRequestUpgrade_NeedsLiveSubscription(t *testing.T) {
	acc := &users.Account{ID: 1, Role: users.RoleTeacher, IsApproved: true}

	assert.False(t, CanRequestUpgrade(acc, nil, today))

	inactive := liveSub()
	inactive.IsActive = false
	assert.False(t, CanRequestUpgrade(acc, inactive, today))

	expired := liveSub()
	expired.EndDate = today.AddDate(0, 0, -1)
	assert.False(t, CanRequestUpgrade(acc, expired, today))

	lastDay := liveSub()
	lastDay.EndDate = today
	assert.True(t, CanRequestUpgrade(acc, lastDay, today))

	assert.False(t, CanRequestUpgrade(nil, liveSub(), today))
}

func TestCanDecide(t *testing.T) {
	admin := &users.Account{ID: 9, Role: users.RoleAdmin, IsAdmin: true, IsApproved: true}
	teacher := &users.Account{ID: 1, Role: users.RoleTeacher, IsApproved: true}

	pending := &upgrades.UpgradeRequest{Status: upgrades.StatusPending}
	approved := &upgrades.UpgradeRequest{Status: upgrades.StatusApproved}
	rejected := &upgrades.UpgradeRequest{Status: upgrades.StatusRejected}

	assert.True(t, CanManageRequests(admin))
	assert.False(t, CanManageRequests(teacher))
	assert.False(t, CanManageRequests(nil))

	assert.True(t, CanDecide(admin, pending))
	assert.False(t, CanDecide(admin, approved))
	assert.False(t, CanDecide(admin, rejected))
	assert.False(t, CanDecide(admin, nil))
	assert.False(t, CanDecide(teacher, pending))
}
