package session

import "github.com/kmande/chuo/core/user"

// AccessState is the outcome of evaluating one navigation attempt.
type AccessState int

const (
	// StateChecking: the initial restore has not completed; no redirect
	// decision may be made yet.
	StateChecking AccessState = iota
	// StateUnauthenticated: nobody is logged in; redirect to the auth entry view.
	StateUnauthenticated
	// StateRoleMismatch: logged in, but the view's allowed roles exclude this
	// identity's role; redirect to the identity's own landing view.
	StateRoleMismatch
	// StateAuthorized: render the wrapped view.
	StateAuthorized
)

func (s AccessState) String() string {
	switch s {
	case StateChecking:
		return "checking"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateRoleMismatch:
		return "role-mismatch"
	case StateAuthorized:
		return "authorized"
	}
	return "unknown"
}

// Decision carries the state plus the redirect target, when one applies.
type Decision struct {
	State    AccessState
	Redirect string
}

func (d Decision) Authorized() bool { return d.State == StateAuthorized }

// Decide evaluates the access-control state machine for one navigation
// attempt, strictly in order: Checking, then Unauthenticated, then
// RoleMismatch/Authorized.
//
// An empty allowedRoles set admits any authenticated identity — never
// anonymous visitors, who are always caught by the Unauthenticated branch
// first. A role outside the closed set (unreachable given the registration
// invariant) redirects to the auth entry view rather than looping.
func Decide(loading bool, sess *Session, allowedRoles ...user.Role) Decision {
	if loading {
		return Decision{State: StateChecking}
	}
	if sess == nil {
		return Decision{State: StateUnauthenticated, Redirect: user.AuthEntryRoute}
	}
	if len(allowedRoles) == 0 {
		return Decision{State: StateAuthorized}
	}
	for _, role := range allowedRoles {
		if sess.Role == role {
			return Decision{State: StateAuthorized}
		}
	}
	// HomeRoute falls back to the auth entry view for unknown roles.
	return Decision{State: StateRoleMismatch, Redirect: sess.Role.HomeRoute()}
}
