package users

import "time"

type MeResponse struct {
	User           UserDTO            `json:"user"`
	Entitlement    EntitlementDTO     `json:"entitlement"`
	Subscription   *SubscriptionDTO   `json:"subscription"`
	PendingRequest *PendingRequestDTO `json:"pending_request"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	IsAdmin      bool   `json:"is_admin"`
	IsApproved   bool   `json:"is_approved"`
	AuthProvider string `json:"auth_provider"`
}

/* ---------- ENTITLEMENT ---------- */

type EntitlementDTO struct {
	State         string  `json:"state"` // active|expired|none
	Tier          string  `json:"tier"`
	PlanID        *uint   `json:"plan_id"`
	PlanName      *string `json:"plan_name"`
	MaxStudents   int     `json:"max_students"`
	MaxAssistants int     `json:"max_assistants"`
	DaysLeft      int     `json:"days_left"`
}

type SubscriptionDTO struct {
	ID        uint      `json:"id"`
	PlanID    uint      `json:"plan_id"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	IsActive  bool      `json:"is_active"`
}

/* ---------- UPGRADE ---------- */

type PendingRequestDTO struct {
	ID              uint      `json:"id"`
	RequestedPlanID uint      `json:"requested_plan_id"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}
