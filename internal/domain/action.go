package domain

import "context"

// Action is one staged write with rollback capability. Application services
// stage actions while mutating aggregates and execute them together once
// every aggregate touched by the operation has validated its change.
type Action interface {
	// Execute performs the action.
	Execute(ctx context.Context) error

	// Rollback reverses the effect of a previously successful Execute call.
	// It is only called if Execute returned nil.
	Rollback(ctx context.Context) error

	// Description is used for logging (e.g., "save workspace ws-1").
	Description() string
}
