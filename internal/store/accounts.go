package store

import (
	"fmt"
	"strings"
	"time"

	"entitlements-app/internal/domain/users"
)

// AccountSummary is an account row with its active plan for the admin list.
type AccountSummary struct {
	ID         uint       `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	IsAdmin    bool       `json:"is_admin"`
	IsApproved bool       `json:"is_approved"`
	PlanName   *string    `json:"plan_name"`
	EndDate    *time.Time `json:"end_date"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (t *Tx) Account(id uint) (*users.Account, error) {
	var acc users.Account
	if err := t.db.First(&acc, id).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

func (t *Tx) AccountByEmail(email string) (*users.Account, error) {
	var acc users.Account
	err := t.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&acc).Error
	if err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

func (t *Tx) AccountByGoogleSub(sub string) (*users.Account, error) {
	var acc users.Account
	if err := t.db.Where("google_sub = ?", sub).First(&acc).Error; err != nil {
		return nil, translate(err)
	}
	return &acc, nil
}

// CreateAccount inserts acc; a taken email yields ErrConflict.
func (t *Tx) CreateAccount(acc *users.Account) error {
	acc.Email = strings.ToLower(strings.TrimSpace(acc.Email))
	if err := t.db.Create(acc).Error; err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("email %s: %w", acc.Email, ErrConflict)
		}
		return translate(err)
	}
	return nil
}

func (t *Tx) LinkGoogleSub(accountID uint, sub string) error {
	res := t.db.Model(&users.Account{}).Where("id = ?", accountID).Update("google_sub", sub)
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrConflict
		}
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (t *Tx) ApproveAccount(accountID uint) error {
	res := t.db.Model(&users.Account{}).Where("id = ?", accountID).Update("is_approved", true)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListAccounts returns every account, newest first, with its active plan if any.
func (t *Tx) ListAccounts() ([]AccountSummary, error) {
	var rows []AccountSummary
	err := t.db.Table("accounts AS a").
		Select(`a.id, a.name, a.email, a.role, a.is_admin, a.is_approved, a.created_at,
			p.name AS plan_name, s.end_date AS end_date`).
		Joins("LEFT JOIN subscriptions s ON s.account_id = a.id AND s.is_active").
		Joins("LEFT JOIN plans p ON p.id = s.plan_id").
		Order("a.created_at DESC, a.id DESC").
		Scan(&rows).Error
	return rows, translate(err)
}

func (t *Tx) SetPassword(accountID uint, hash string) error {
	res := t.db.Model(&users.Account{}).Where("id = ?", accountID).Update("password", hash)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
