package plans

import (
	"errors"
	"strconv"
	"strings"

	"entitlements-app/internal/domain/plans"
	"entitlements-app/internal/store"
)

const defaultDurationDays = 30

type SyncResult struct {
	Created   int `json:"created"`
	Replaced  int `json:"replaced"`
	Unchanged int `json:"unchanged"`
	Retired   int `json:"retired"`
	Skipped   int `json:"skipped"`
}

// applyPrices mirrors the Stripe catalog into plans. A changed price never
// edits its row: the old row is retired and a new one created, so
// subscriptions keep pointing at the terms they were granted.
func applyPrices(tx *store.Tx, prices []Price) (SyncResult, error) {
	var res SyncResult
	seen := map[string]bool{}

	for _, pr := range prices {
		want, ok := planFromPrice(pr)
		if !ok {
			res.Skipped++
			continue
		}
		seen[pr.ID] = true

		existing, err := tx.PlanByStripePriceID(pr.ID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			if err := tx.CreatePlan(want); err != nil {
				return res, err
			}
			res.Created++
			continue
		case err != nil:
			return res, err
		}

		if sameTerms(existing, want) {
			res.Unchanged++
			continue
		}
		if err := tx.RetirePlan(existing.ID); err != nil {
			return res, err
		}
		if err := tx.CreatePlan(want); err != nil {
			return res, err
		}
		res.Replaced++
	}

	current, err := tx.ListPlans()
	if err != nil {
		return res, err
	}
	for _, p := range current {
		if p.StripePriceID == nil || seen[*p.StripePriceID] {
			continue
		}
		if err := tx.RetirePlan(p.ID); err != nil {
			return res, err
		}
		res.Retired++
	}
	return res, nil
}

// planFromPrice needs max_students in the price metadata; the other limits
// default to zero assistants and 30 days.
func planFromPrice(pr Price) (*plans.Plan, bool) {
	maxStudents, err := strconv.Atoi(strings.TrimSpace(pr.Metadata["max_students"]))
	if err != nil || maxStudents <= 0 {
		return nil, false
	}
	maxAssistants, _ := strconv.Atoi(strings.TrimSpace(pr.Metadata["max_assistants"]))
	duration, err := strconv.Atoi(strings.TrimSpace(pr.Metadata["duration_days"]))
	if err != nil || duration <= 0 {
		duration = defaultDurationDays
	}

	id := pr.ID
	p := &plans.Plan{
		Name:          pr.Name,
		PriceEUR:      float64(pr.UnitAmount) / 100.0,
		MaxStudents:   maxStudents,
		MaxAssistants: maxAssistants,
		DurationDays:  duration,
		IsTrial:       pr.Metadata["is_trial"] == "true",
		StripePriceID: &id,
		Tier:          strings.ToLower(strings.TrimSpace(pr.Metadata["tier"])),
	}
	return p, true
}

func sameTerms(a, b *plans.Plan) bool {
	return a.Name == b.Name &&
		a.PriceEUR == b.PriceEUR &&
		a.MaxStudents == b.MaxStudents &&
		a.MaxAssistants == b.MaxAssistants &&
		a.DurationDays == b.DurationDays &&
		a.IsTrial == b.IsTrial &&
		a.Tier == b.Tier
}
