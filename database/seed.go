package database

import (
	"errors"
	"fmt"
	"strings"

	"entitlements-app/internal/domain/plans"
	"entitlements-app/internal/domain/users"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPlans is the catalog written by `seed-plans`.
var DefaultPlans = []plans.Plan{
	{Name: "Trial", PriceEUR: 0, MaxStudents: 20, MaxAssistants: 0, DurationDays: 14, IsTrial: true, Tier: plans.TierTrial},
	{Name: "Basic", PriceEUR: 9, MaxStudents: 50, MaxAssistants: 1, DurationDays: 30, IsDefault: true, Tier: plans.TierBasic},
	{Name: "Pro", PriceEUR: 29, MaxStudents: 200, MaxAssistants: 5, DurationDays: 30, Tier: plans.TierPro},
	{Name: "Premium", PriceEUR: 79, MaxStudents: 500, MaxAssistants: 20, DurationDays: 30, Tier: plans.TierPremium},
}

// SeedPlans inserts each default plan whose name is not taken by a usable row.
// It returns how many rows were created.
func SeedPlans(db *gorm.DB) (int, error) {
	created := 0
	err := db.Transaction(func(tx *gorm.DB) error {
		for _, p := range DefaultPlans {
			var n int64
			if err := tx.Model(&plans.Plan{}).Where("name = ?", p.Name).Count(&n).Error; err != nil {
				return err
			}
			if n > 0 {
				continue
			}
			row := p
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("seed plan %s: %w", p.Name, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	log.Info().Int("created", created).Msg("plans seeded")
	return created, nil
}

// SeedAdmin makes sure an approved admin account exists for email.
func SeedAdmin(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return errors.New("admin email and password are required")
	}

	var existing users.Account
	err := db.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return db.Model(&existing).Updates(map[string]any{
			"is_admin":    true,
			"is_approved": true,
			"role":        users.RoleAdmin,
		}).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	pw := string(hash)
	return db.Create(&users.Account{
		Name:         "Administrator",
		Email:        email,
		Password:     &pw,
		AuthProvider: "local",
		Role:         users.RoleAdmin,
		IsAdmin:      true,
		IsApproved:   true,
	}).Error
}
