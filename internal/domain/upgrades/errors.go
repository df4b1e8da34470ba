package upgrades

import "errors"

var (
	// ErrAuthorization: role, approval or admin checks failed.
	ErrAuthorization = errors.New("not permitted")
	// ErrDuplicateRequest: a pending request already exists for the account.
	ErrDuplicateRequest = errors.New("you already have a pending request")
	// ErrInvalidUpgradeTarget: requested plan does not strictly exceed current capacity.
	ErrInvalidUpgradeTarget = errors.New("requested plan must allow more students than the current plan")
	// ErrInvalidPlan: referenced plan is missing or retired.
	ErrInvalidPlan = errors.New("plan is missing or no longer available")
	// ErrMissingEntitlement: no live subscription for the account at decision time.
	ErrMissingEntitlement = errors.New("account has no live subscription")
	// ErrInvalidStateTransition: the request already reached a terminal state.
	ErrInvalidStateTransition = errors.New("request has already been decided")
	// ErrContention: the per-account lock could not be taken in time. Retryable.
	ErrContention = errors.New("account is busy, retry later")
	// ErrRequestNotFound: no request with the given id.
	ErrRequestNotFound = errors.New("upgrade request not found")
)

// IsRetryable reports whether the caller may back off and retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrContention)
}
