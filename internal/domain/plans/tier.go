package plans

import "strings"

// Tier constants (single source of truth)
const (
	TierNone    = "none"
	TierTrial   = "trial"
	TierBasic   = "basic"
	TierPro     = "pro"
	TierPremium = "premium"
)

// PlanTier returns the effective tier for a plan.
// Priority:
// 1. Explicit Tier stored in DB
// 2. Trial flag
// 3. Inference by student capacity
func PlanTier(p *Plan) string {
	if p == nil {
		return TierNone
	}

	tier := strings.ToLower(strings.TrimSpace(p.Tier))
	switch tier {
	case TierTrial, TierBasic, TierPro, TierPremium:
		return tier
	}

	if p.IsTrial {
		return TierTrial
	}
	return inferTierFromCapacity(p.MaxStudents)
}

// inferTierFromCapacity covers plans imported without a tier label.
func inferTierFromCapacity(maxStudents int) string {
	switch {
	case maxStudents >= 500:
		return TierPremium
	case maxStudents >= 200:
		return TierPro
	default:
		return TierBasic
	}
}
