package upgrades

import "strings"

const maxNotesLen = 2000

// CreateRequestInput is the teacher's upgrade request body.
type CreateRequestInput struct {
	RequestedPlanID uint   `json:"requested_plan_id" binding:"required,gt=0"`
	Notes           string `json:"notes" binding:"max=2000"`
}

// Normalize trims free text in place.
func (in *CreateRequestInput) Normalize() {
	in.Notes = clip(strings.TrimSpace(in.Notes))
}

// DecisionInput is the admin's approve/reject body.
type DecisionInput struct {
	AdminNotes string `json:"admin_notes" binding:"max=2000"`
}

func (in *DecisionInput) Normalize() {
	in.AdminNotes = clip(strings.TrimSpace(in.AdminNotes))
}

func clip(s string) string {
	if r := []rune(s); len(r) > maxNotesLen {
		return string(r[:maxNotesLen])
	}
	return s
}
