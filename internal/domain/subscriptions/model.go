package subscriptions

import "time"

// Subscription binds one account to one plan for a date range.
// At most one row per account has IsActive set (partial unique index).
type Subscription struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"not null;index" json:"account_id"`
	PlanID    uint      `gorm:"not null;index" json:"plan_id"`
	StartDate time.Time `gorm:"type:date;not null" json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null" json:"end_date"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsLive reports whether the row grants an entitlement on day today.
// The end date is inclusive.
func (s *Subscription) IsLive(today time.Time) bool {
	if s == nil || !s.IsActive {
		return false
	}
	return !Day(s.EndDate).Before(Day(today))
}

// DaysLeft counts whole days until EndDate, never negative.
func (s *Subscription) DaysLeft(today time.Time) int {
	if s == nil {
		return 0
	}
	d := int(Day(s.EndDate).Sub(Day(today)).Hours() / 24)
	if d < 0 {
		return 0
	}
	return d
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Period returns the [start, end] dates of a grant of durationDays starting on now's day.
func Period(now time.Time, durationDays int) (time.Time, time.Time) {
	start := Day(now)
	return start, start.AddDate(0, 0, durationDays)
}
