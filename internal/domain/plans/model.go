package plans

import (
	"time"

	"gorm.io/gorm"
)

// Plan is a purchasable tier. Rows are never edited once a Subscription
// points at them; a pricing or limit change creates a new row and retires
// the old one through DeletedAt.
type Plan struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"not null" json:"name"`
	PriceEUR      float64        `json:"price_eur"`
	MaxStudents   int            `gorm:"not null" json:"max_students"`
	MaxAssistants int            `gorm:"not null;default:0" json:"max_assistants"`
	DurationDays  int            `gorm:"not null" json:"duration_days"`
	IsTrial       bool           `gorm:"not null;default:false" json:"is_trial"`
	IsDefault     bool           `gorm:"not null;default:false" json:"is_default"`
	StripePriceID *string        `gorm:"column:stripe_price_id;uniqueIndex:idx_plans_stripe_price_id" json:"stripe_price_id,omitempty"`
	Tier          string         `gorm:"column:tier" json:"tier"`
	CreatedAt     time.Time      `json:"created_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Usable reports whether the plan can still be requested or granted.
func (p Plan) Usable() bool {
	return !p.DeletedAt.Valid
}
