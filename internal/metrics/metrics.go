// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Outcome labels.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// Image operations.
const (
	OpUpload = "upload"
	OpDelete = "delete"
	OpSign   = "sign"
)

// Recorder captures domain events for the marketplace.
type Recorder interface {
	// Accounts
	IncSignUp(status string) // status: "success", "duplicate", "invalid"
	IncLogIn(status string)  // status: "success", "failure"

	// Listings
	IncListingCreated()
	IncListingDeleted()
	IncListingDeleteDenied(reason string) // reason: "unauthenticated", "forbidden", "not_found"

	// Object storage
	IncImageOperation(op, status string)
}
