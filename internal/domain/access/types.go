package access

// EntitlementState is what an account can use right now.
type EntitlementState string

const (
	EntitlementActive  EntitlementState = "active"
	EntitlementExpired EntitlementState = "expired"
	EntitlementNone    EntitlementState = "none"
)
