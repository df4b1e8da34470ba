package accounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entitlements-app/internal/domain/access"
	"entitlements-app/internal/domain/plans"
	"entitlements-app/internal/domain/subscriptions"
	"entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/domain/users"
	"entitlements-app/internal/store"
	"entitlements-app/internal/testdb"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func setup(t *testing.T) (*Service, *store.Store, *users.Account) {
	t.Helper()
	st := store.New(testdb.New(t), store.NewMemoryLocker(time.Second))
	tx := st.Read(context.Background())

	admin := &users.Account{Name: "Root", Email: "root@school.test", Role: users.RoleAdmin, IsAdmin: true, IsApproved: true}
	require.NoError(t, tx.CreateAccount(admin))
	require.NoError(t, tx.CreatePlan(&plans.Plan{Name: "Trial", MaxStudents: 20, DurationDays: 14, IsTrial: true}))
	require.NoError(t, tx.CreatePlan(&plans.Plan{Name: "Basic", MaxStudents: 50, DurationDays: 30, IsDefault: true}))

	return NewService(st, func() time.Time { return now }), st, admin
}

func TestApproveGrantsTrial(t *testing.T) {
	svc, st, admin := setup(t)
	tx := st.Read(context.Background())

	teacher := &users.Account{Name: "Ana", Email: "ana@school.test", Role: users.RoleTeacher}
	require.NoError(t, tx.CreateAccount(teacher))

	res, err := svc.Approve(context.Background(), admin.ID, teacher.ID)
	require.NoError(t, err)
	assert.True(t, res.Account.IsApproved)
	require.NotNil(t, res.Granted)
	assert.True(t, subscriptions.Day(res.Granted.EndDate).Equal(subscriptions.Day(now).AddDate(0, 0, 14)))

	// approving again does not grant a second subscription
	res, err = svc.Approve(context.Background(), admin.ID, teacher.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Granted)

	p, err := svc.Profile(context.Background(), teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, access.EntitlementActive, p.Entitlement.State)
	assert.Equal(t, 20, p.Entitlement.MaxStudents)
	assert.Equal(t, plans.TierTrial, p.Entitlement.Tier)
	assert.Nil(t, p.PendingRequest)
}

func TestApproveAssistantGetsNoSubscription(t *testing.T) {
	svc, st, admin := setup(t)
	assistant := &users.Account{Name: "Bo", Email: "bo@school.test", Role: users.RoleAssistant}
	require.NoError(t, st.Read(context.Background()).CreateAccount(assistant))

	res, err := svc.Approve(context.Background(), admin.ID, assistant.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Granted)

	p, err := svc.Profile(context.Background(), assistant.ID)
	require.NoError(t, err)
	assert.Equal(t, access.EntitlementNone, p.Entitlement.State)
}

func TestApproveRequiresAdmin(t *testing.T) {
	svc, st, admin := setup(t)
	teacher := &users.Account{Name: "Ana", Email: "ana@school.test", Role: users.RoleTeacher, IsApproved: true}
	require.NoError(t, st.Read(context.Background()).CreateAccount(teacher))

	_, err := svc.Approve(context.Background(), teacher.ID, teacher.ID)
	assert.ErrorIs(t, err, upgrades.ErrAuthorization)

	_, err = svc.Approve(context.Background(), admin.ID, 999)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.List(context.Background(), teacher.ID)
	assert.ErrorIs(t, err, upgrades.ErrAuthorization)

	list, err := svc.List(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestProfileUnknownAccount(t *testing.T) {
	svc, _, _ := setup(t)
	_, err := svc.Profile(context.Background(), 404)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}
