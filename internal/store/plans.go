package store

import (
	"errors"

	"entitlements-app/internal/domain/plans"
)

// Plan returns a usable plan.
func (t *Tx) Plan(id uint) (*plans.Plan, error) {
	var p plans.Plan
	if err := t.db.First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// PlanUnscoped also returns retired plans; callers check Usable.
func (t *Tx) PlanUnscoped(id uint) (*plans.Plan, error) {
	var p plans.Plan
	if err := t.db.Unscoped().First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// ListPlans returns usable plans, smallest first.
func (t *Tx) ListPlans() ([]plans.Plan, error) {
	var out []plans.Plan
	err := t.db.Order("max_students ASC, id ASC").Find(&out).Error
	return out, translate(err)
}

func (t *Tx) PlanByStripePriceID(priceID string) (*plans.Plan, error) {
	var p plans.Plan
	if err := t.db.Where("stripe_price_id = ?", priceID).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

// GrantPlan is what a newly approved account starts on: the trial plan, else
// the default plan.
func (t *Tx) GrantPlan() (*plans.Plan, error) {
	var p plans.Plan
	err := t.db.Where("is_trial = ?", true).Order("id ASC").First(&p).Error
	if err == nil {
		return &p, nil
	}
	if err = translate(err); !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err := t.db.Where("is_default = ?", true).Order("id ASC").First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (t *Tx) CreatePlan(p *plans.Plan) error {
	if err := t.db.Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrConflict
		}
		return translate(err)
	}
	return nil
}

// RetirePlan soft-deletes a plan and frees its stripe price id for the
// replacement row. Subscriptions keep pointing at the retired row.
func (t *Tx) RetirePlan(id uint) error {
	if err := t.db.Model(&plans.Plan{}).Where("id = ?", id).Update("stripe_price_id", nil).Error; err != nil {
		return translate(err)
	}
	res := t.db.Delete(&plans.Plan{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
