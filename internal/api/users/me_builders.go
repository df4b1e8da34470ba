package users

import (
	"entitlements-app/internal/domain/access"
	"entitlements-app/internal/domain/subscriptions"
	"entitlements-app/internal/domain/upgrades"
	"entitlements-app/internal/services/accounts"
)

func BuildMeResponse(p *accounts.Profile) MeResponse {
	return MeResponse{
		User: UserDTO{
			ID:           p.Account.ID,
			Email:        p.Account.Email,
			Name:         p.Account.Name,
			Role:         p.Account.Role,
			IsAdmin:      p.Account.IsAdmin,
			IsApproved:   p.Account.IsApproved,
			AuthProvider: p.Account.AuthProvider,
		},
		Entitlement:    BuildEntitlementDTO(p.Entitlement),
		Subscription:   BuildSubscriptionDTO(p.Subscription),
		PendingRequest: BuildPendingRequestDTO(p.PendingRequest),
	}
}

func BuildEntitlementDTO(e access.Entitlement) EntitlementDTO {
	dto := EntitlementDTO{
		State:         string(e.State),
		Tier:          e.Tier,
		MaxStudents:   e.MaxStudents,
		MaxAssistants: e.MaxAssistants,
		DaysLeft:      e.DaysLeft,
	}
	if e.PlanID != 0 {
		id := e.PlanID
		dto.PlanID = &id
	}
	if e.PlanName != "" {
		name := e.PlanName
		dto.PlanName = &name
	}
	return dto
}

func BuildSubscriptionDTO(s *subscriptions.Subscription) *SubscriptionDTO {
	if s == nil {
		return nil
	}
	return &SubscriptionDTO{
		ID:        s.ID,
		PlanID:    s.PlanID,
		StartDate: subscriptions.Day(s.StartDate),
		EndDate:   subscriptions.Day(s.EndDate),
		IsActive:  s.IsActive,
	}
}

func BuildPendingRequestDTO(r *upgrades.UpgradeRequest) *PendingRequestDTO {
	if r == nil {
		return nil
	}
	return &PendingRequestDTO{
		ID:              r.ID,
		RequestedPlanID: r.RequestedPlanID,
		Notes:           r.Notes,
		CreatedAt:       r.CreatedAt,
	}
}
