package models

// AuthPhase enumerates the states of the client auth state machine.
type AuthPhase string

const (
	// AuthLoading means session resolution is still in flight.
	AuthLoading AuthPhase = "loading"

	// AuthAuthenticated means a valid session exists; User, Profile and
	// Organization are populated (possibly from the local cache when
	// offline).
	AuthAuthenticated AuthPhase = "authenticated"

	// AuthUnauthenticated means no usable session exists and the user must
	// sign in.
	AuthUnauthenticated AuthPhase = "unauthenticated"

	// AuthError means session resolution failed for a reason other than
	// "no session" (for example a local store failure).
	AuthError AuthPhase = "error"
)

// AuthState is the explicit auth context handed to client surfaces instead
// of a bundle of nullable fields. Exactly one phase is active; the entity
// pointers are non-nil only in the authenticated phase.
type AuthState struct {
	Phase        AuthPhase
	User         *User
	Profile      *UserProfile
	Organization *Organization

	// Offline is true when the authenticated state was served from the
	// local cache because the remote was unreachable.
	Offline bool

	// Err carries the failure detail for the error phase.
	Err error
}

// Authenticated reports whether the state machine is in the authenticated
// phase.
func (s AuthState) Authenticated() bool {
	return s.Phase == AuthAuthenticated
}
