package service

import "time"

// Operations and outcomes reported to an AuthRecorder.
const (
	AuthOperationSignup = "signup"
	AuthOperationSignin = "signin"

	AuthOutcomeSuccess   = "success"
	AuthOutcomeDuplicate = "duplicate"
	AuthOutcomeNotFound  = "not_found"
	AuthOutcomeInvalid   = "invalid"
	AuthOutcomeMalformed = "malformed"
	AuthOutcomeError     = "error"
)

// AuthRecorder observes credential operations. Implementations must be safe
// for concurrent use.
type AuthRecorder interface {
	// RecordOutcome counts a signup or signin by its result.
	RecordOutcome(operation, outcome string)

	// ObserveDerivation records the time one key derivation took.
	ObserveDerivation(d time.Duration)

	// DerivationStarted and DerivationFinished track derivations in flight.
	DerivationStarted()
	DerivationFinished()
}
