package upgrades

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"entitlements-app/internal/domain/plans"
	"entitlements-app/internal/domain/subscriptions"
	domain "entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/domain/users"
	"entitlements-app/internal/notify"
	"entitlements-app/internal/store"
	"entitlements-app/internal/testdb"
)

var baseNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

type captured struct {
	mu     sync.Mutex
	events []notify.Event
	err    error
}

func (c *captured) Notify(_ context.Context, ev notify.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return c.err
}

func (c *captured) all() []notify.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]notify.Event(nil), c.events...)
}

type env struct {
	t      *testing.T
	db     *gorm.DB
	store  *store.Store
	svc    *RequestService
	wf     *Workflow
	events *captured
	now    time.Time
	seq    int

	admin   *users.Account
	teacher *users.Account
	small   *plans.Plan
	basic   *plans.Plan
	pro     *plans.Plan
	premium *plans.Plan
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testdb.New(t)
	e := &env{
		t:      t,
		db:     db,
		store:  store.New(db, store.NewMemoryLocker(5*time.Second)),
		events: &captured{},
		now:    baseNow,
	}
	clock := func() time.Time { return e.now }
	e.svc = NewRequestService(e.store, WithClock(clock), WithNotifier(e.events))
	e.wf = NewWorkflow(e.store, WithClock(clock), WithNotifier(e.events))

	e.small = e.plan("Small", 20, 30)
	e.basic = e.plan("Basic", 50, 30)
	e.pro = e.plan("Pro", 200, 30)
	e.premium = e.plan("Premium", 500, 60)

	e.admin = e.account("Root", users.RoleAdmin, true, true)
	e.teacher = e.account("Ana", users.RoleTeacher, false, true)
	e.subscribe(e.teacher, e.basic)
	return e
}

func (e *env) tx() *store.Tx { return e.store.Read(context.Background()) }

func (e *env) plan(name string, maxStudents, days int) *plans.Plan {
	p := &plans.Plan{Name: name, MaxStudents: maxStudents, DurationDays: days}
	require.NoError(e.t, e.tx().CreatePlan(p))
	return p
}

func (e *env) account(name, role string, isAdmin, approved bool) *users.Account {
	e.seq++
	acc := &users.Account{
		Name:       name,
		Email:      fmt.Sprintf("%s-%d@school.test", strings.ToLower(name), e.seq),
		Role:       role,
		IsAdmin:    isAdmin,
		IsApproved: approved,
	}
	require.NoError(e.t, e.tx().CreateAccount(acc))
	return acc
}

func (e *env) subscribe(acc *users.Account, p *plans.Plan) *subscriptions.Subscription {
	start, end := subscriptions.Period(e.now, p.DurationDays)
	sub := &subscriptions.Subscription{AccountID: acc.ID, PlanID: p.ID, StartDate: start, EndDate: end, IsActive: true}
	require.NoError(e.t, e.tx().CreateSubscription(sub))
	return sub
}

func (e *env) subscription(acc *users.Account) *subscriptions.Subscription {
	sub, err := e.tx().ActiveSubscription(acc.ID)
	require.NoError(e.t, err)
	require.NotNil(e.t, sub)
	return sub
}

func (e *env) request(acc *users.Account, p *plans.Plan, notes string) *domain.UpgradeRequest {
	req, err := e.svc.CreateRequest(context.Background(), acc.ID, domain.CreateRequestInput{RequestedPlanID: p.ID, Notes: notes})
	require.NoError(e.t, err)
	return req
}

func (e *env) count(acc *users.Account) int64 {
	n, err := e.tx().CountRequests(acc.ID)
	require.NoError(e.t, err)
	return n
}

func (e *env) stored(id uint) *domain.UpgradeRequest {
	req, err := e.tx().Request(id)
	require.NoError(e.t, err)
	return req
}
