package users

import "time"

// Roles
const (
	RoleTeacher   = "teacher"
	RoleAssistant = "assistant"
	RoleAdmin     = "admin"
)

// Account is the identity record the upgrade workflow authorises against.
type Account struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `json:"name"`
	Email        string  `gorm:"not null;uniqueIndex:idx_accounts_email" json:"email"`
	Password     *string `gorm:"" json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_accounts_google_sub" json:"-"`
	Role         string  `gorm:"type:varchar(20);not null" json:"role"`
	IsAdmin      bool    `gorm:"not null;default:false" json:"is_admin"`
	IsApproved   bool    `gorm:"not null;default:false" json:"is_approved"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (a Account) IsTeacher() bool { return a.Role == RoleTeacher }

// ValidRole reports whether role may be chosen at self-registration.
func ValidRole(role string) bool {
	return role == RoleTeacher || role == RoleAssistant
}
