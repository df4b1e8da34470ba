package access

import (
	"time"

	"entitlements-app/internal/domain/plans"
	"entitlements-app/internal/domain/subscriptions"
)

// Entitlement is the effective capacity an account gets from its subscription.
type Entitlement struct {
	State         EntitlementState `json:"state"`
	Tier          string           `json:"tier"`
	PlanID        uint             `json:"plan_id,omitempty"`
	PlanName      string           `json:"plan_name,omitempty"`
	MaxStudents   int              `json:"max_students"`
	MaxAssistants int              `json:"max_assistants"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	DaysLeft      int              `json:"days_left"`
}

// ComputeEntitlement derives the effective entitlement. Expired or missing
// subscriptions grant no capacity.
func ComputeEntitlement(now time.Time, sub *subscriptions.Subscription, plan *plans.Plan) Entitlement {
	if sub == nil {
		return Entitlement{State: EntitlementNone, Tier: plans.TierNone}
	}

	end := subscriptions.Day(sub.EndDate)
	e := Entitlement{
		State:   EntitlementExpired,
		Tier:    plans.PlanTier(plan),
		PlanID:  sub.PlanID,
		EndDate: &end,
	}
	if plan != nil {
		e.PlanName = plan.Name
	}

	if !sub.IsLive(now) {
		return e
	}

	e.State = EntitlementActive
	e.DaysLeft = sub.DaysLeft(now)
	if plan != nil {
		e.MaxStudents = plan.MaxStudents
		e.MaxAssistants = plan.MaxAssistants
	}
	return e
}
