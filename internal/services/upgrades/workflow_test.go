package upgrades

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"entitlements-app/internal/domain/subscriptions"
	domain "entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/domain/users"
	"entitlements-app/internal/notify"
)

func TestApprove_MovesSubscription(t *testing.T) {
	e := newEnv(t)
	req := e.request(e.teacher, e.pro, "")

	e.now = baseNow.AddDate(0, 0, 3)
	got, err := e.wf.Approve(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "payment verified"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, got.Status)

	stored := e.stored(req.ID)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	assert.Equal(t, "payment verified", stored.AdminNotes)
	require.NotNil(t, stored.ApprovedBy)
	assert.Equal(t, e.admin.ID, *stored.ApprovedBy)
	require.NotNil(t, stored.ApprovedAt)

	sub := e.subscription(e.teacher)
	today := subscriptions.Day(e.now)
	assert.Equal(t, e.pro.ID, sub.PlanID)
	assert.True(t, subscriptions.Day(sub.StartDate).Equal(today))
	assert.True(t, subscriptions.Day(sub.EndDate).Equal(today.AddDate(0, 0, 30)))
	assert.True(t, sub.IsActive)

	pending, err := e.svc.PendingRequest(context.Background(), e.teacher.ID)
	require.NoError(t, err)
	assert.Nil(t, pending)

	events := e.events.all()
	require.Len(t, events, 2)
	assert.Equal(t, notify.RequestApproved, events[1].Kind)
	assert.Equal(t, e.teacher.Email, events[1].AccountEmail)
	assert.Equal(t, "payment verified", events[1].AdminNotes)
}

func TestApprove_TwiceMutatesOnce(t *testing.T) {
	e := newEnv(t)
	req := e.request(e.teacher, e.pro, "")

	_, err := e.wf.Approve(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "first"})
	require.NoError(t, err)
	first := e.subscription(e.teacher)

	e.now = baseNow.AddDate(0, 0, 5)
	_, err = e.wf.Approve(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "second"})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
	_, err = e.wf.Reject(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "third"})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	after := e.subscription(e.teacher)
	assert.True(t, subscriptions.Day(first.EndDate).Equal(subscriptions.Day(after.EndDate)))
	assert.Equal(t, "first", e.stored(req.ID).AdminNotes)
	assert.Equal(t, domain.StatusApproved, e.stored(req.ID).Status)
}

func TestReject_LeavesSubscriptionUntouched(t *testing.T) {
	e := newEnv(t)
	req := e.request(e.teacher, e.pro, "")
	before := e.subscription(e.teacher)

	got, err := e.wf.Reject(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "insufficient proof"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)

	stored := e.stored(req.ID)
	assert.Equal(t, domain.StatusRejected, stored.Status)
	assert.Equal(t, "insufficient proof", stored.AdminNotes)
	assert.NotNil(t, stored.ApprovedAt)

	after := e.subscription(e.teacher)
	assert.Equal(t, before.PlanID, after.PlanID)
	assert.True(t, subscriptions.Day(before.EndDate).Equal(subscriptions.Day(after.EndDate)))

	_, err = e.wf.Approve(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	events := e.events.all()
	require.Len(t, events, 2)
	assert.Equal(t, notify.RequestRejected, events[1].Kind)
}

func TestDecide_RequiresAdmin(t *testing.T) {
	e := newEnv(t)
	req := e.request(e.teacher, e.pro, "")
	notAdmin := e.account("Staff", users.RoleAdmin, false, true)

	for _, actor := range []uint{e.teacher.ID, notAdmin.ID, 424242} {
		_, err := e.wf.Approve(context.Background(), actor, req.ID, domain.DecisionInput{})
		assert.ErrorIs(t, err, domain.ErrAuthorization)
		_, err = e.wf.Reject(context.Background(), actor, req.ID, domain.DecisionInput{})
		assert.ErrorIs(t, err, domain.ErrAuthorization)
		_, err = e.wf.ListPending(context.Background(), actor)
		assert.ErrorIs(t, err, domain.ErrAuthorization)
	}
	assert.Equal(t, domain.StatusPending, e.stored(req.ID).Status)
}

func TestDecide_UnknownRequest(t *testing.T) {
	e := newEnv(t)
	_, err := e.wf.Approve(context.Background(), e.admin.ID, 999, domain.DecisionInput{})
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	_, err = e.wf.Reject(context.Background(), e.admin.ID, 999, domain.DecisionInput{})
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestApprove_ExpiredSubscriptionKeepsRequestPending(t *testing.T) {
	e := newEnv(t)
	req := e.request(e.teacher, e.pro, "")

	e.now = baseNow.AddDate(0, 0, 31)
	_, err := e.wf.Approve(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{})
	assert.ErrorIs(t, err, domain.ErrMissingEntitlement)
	assert.Equal(t, domain.StatusPending, e.stored(req.ID).Status)

	// an admin can still close it
	_, err = e.wf.Reject(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "expired"})
	require.NoError(t, err)
}

func TestApprove_DeactivatedSubscription(t *testing.T) {
	e := newEnv(t)
	req := e.request(e.teacher, e.pro, "")

	require.NoError(t, e.db.Model(&subscriptions.Subscription{}).
		Where("account_id = ?", e.teacher.ID).Update("is_active", false).Error)

	_, err := e.wf.Approve(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{})
	assert.ErrorIs(t, err, domain.ErrMissingEntitlement)
	assert.Equal(t, domain.StatusPending, e.stored(req.ID).Status)
}

func TestApprove_RetiredPlan(t *testing.T) {
	e := newEnv(t)
	req := e.request(e.teacher, e.pro, "")
	require.NoError(t, e.tx().RetirePlan(e.pro.ID))

	_, err := e.wf.Approve(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{})
	assert.ErrorIs(t, err, domain.ErrInvalidPlan)
	assert.Equal(t, domain.StatusPending, e.stored(req.ID).Status)
	assert.Equal(t, e.basic.ID, e.subscription(e.teacher).PlanID)
}

func TestApprove_RollsBackWhenSubscriptionWriteFails(t *testing.T) {
	e := newEnv(t)
	req := e.request(e.teacher, e.pro, "")
	before := e.subscription(e.teacher)

	diskFull := errors.New("disk full")
	require.NoError(t, e.db.Callback().Update().Before("gorm:update").Register("test:fail_subscriptions", func(tx *gorm.DB) {
		if tx.Statement.Table == "subscriptions" {
			_ = tx.AddError(diskFull)
		}
	}))

	_, err := e.wf.Approve(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "payment verified"})
	assert.ErrorIs(t, err, diskFull)

	stored := e.stored(req.ID)
	assert.Equal(t, domain.StatusPending, stored.Status)
	assert.Empty(t, stored.AdminNotes)
	assert.Nil(t, stored.ApprovedBy)
	assert.Equal(t, before.PlanID, e.subscription(e.teacher).PlanID)
	assert.Len(t, e.events.all(), 1)

	// retry succeeds once the store recovers
	require.NoError(t, e.db.Callback().Update().Remove("test:fail_subscriptions"))
	_, err = e.wf.Approve(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "payment verified"})
	require.NoError(t, err)
	assert.Equal(t, e.pro.ID, e.subscription(e.teacher).PlanID)
}

func TestReject_PlanLookupFailureRollsBack(t *testing.T) {
	e := newEnv(t)
	req := e.request(e.teacher, e.pro, "")

	connReset := errors.New("connection reset")
	require.NoError(t, e.db.Callback().Query().Before("gorm:query").Register("test:fail_plans", func(tx *gorm.DB) {
		if tx.Statement.Table == "plans" {
			_ = tx.AddError(connReset)
		}
	}))

	_, err := e.wf.Reject(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "no"})
	assert.ErrorIs(t, err, connReset)
	assert.Equal(t, domain.StatusPending, e.stored(req.ID).Status)

	require.NoError(t, e.db.Callback().Query().Remove("test:fail_plans"))
	got, err := e.wf.Reject(context.Background(), e.admin.ID, req.ID, domain.DecisionInput{AdminNotes: "no"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
}

func TestListPending(t *testing.T) {
	e := newEnv(t)
	other := e.account("Eve", users.RoleTeacher, false, true)
	e.subscribe(other, e.pro)

	e.request(e.teacher, e.pro, "class B")
	r2 := e.request(other, e.premium, "")

	views, err := e.wf.ListPending(context.Background(), e.admin.ID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Ana", views[0].AccountName)
	assert.Equal(t, "Basic", views[0].CurrentPlanName)
	assert.Equal(t, "Pro", views[0].RequestedPlanName)

	_, err = e.wf.Approve(context.Background(), e.admin.ID, r2.ID, domain.DecisionInput{})
	require.NoError(t, err)
	views, err = e.wf.ListPending(context.Background(), e.admin.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, e.teacher.ID, views[0].AccountID)
}
