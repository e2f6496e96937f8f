package intent

import "errors"

var (
	ErrPlanRequired     = errors.New("intent: a plan is required")
	ErrFreePlan         = errors.New("intent: free plans do not use payment intents")
	ErrInvalidAmounts   = errors.New("intent: gateway returned inconsistent amounts")
	ErrRetriesExhausted = errors.New("intent: creation failed")
)
