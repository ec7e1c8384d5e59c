package session

import (
	"testing"

	"github.com/kmande/chuo/core/user"
)

func TestDecide(t *testing.T) {
	student := &Session{ID: "1", Name: "Hero", Email: "hero@test.cd", Role: user.RoleStudent}
	admin := &Session{ID: "2", Name: "Admin", Email: "admin@test.cd", Role: user.RoleAdmin}
	unknown := &Session{ID: "3", Name: "X", Email: "x@test.cd", Role: "principal"}

	tests := []struct {
		name         string
		loading      bool
		sess         *Session
		allowedRoles []user.Role
		wantState    AccessState
		wantRedirect string
	}{
		{
			// nothing may be decided until the restore completes
			name: "loading wins over everything", loading: true, sess: admin,
			allowedRoles: []user.Role{user.RoleAdmin},
			wantState:    StateChecking,
		},
		{
			name: "anonymous goes to the auth entry view", sess: nil,
			allowedRoles: []user.Role{user.RoleStudent},
			wantState:    StateUnauthenticated, wantRedirect: user.AuthEntryRoute,
		},
		{
			// an open role set never admits anonymous visitors
			name: "anonymous with open role set", sess: nil,
			wantState: StateUnauthenticated, wantRedirect: user.AuthEntryRoute,
		},
		{
			name: "open role set admits any identity", sess: student,
			wantState: StateAuthorized,
		},
		{
			name: "matching role", sess: student,
			allowedRoles: []user.Role{user.RoleStudent},
			wantState:    StateAuthorized,
		},
		{
			name: "matching one of several", sess: admin,
			allowedRoles: []user.Role{user.RoleFaculty, user.RoleAdmin},
			wantState:    StateAuthorized,
		},
		{
			name: "role mismatch goes home", sess: student,
			allowedRoles: []user.Role{user.RoleFaculty, user.RoleAdmin},
			wantState:    StateRoleMismatch, wantRedirect: "/student/dashboard",
		},
		{
			// HomeRoute falls back to the auth entry view; no redirect loop
			name: "unknown role lands on auth entry", sess: unknown,
			allowedRoles: []user.Role{user.RoleAdmin},
			wantState:    StateRoleMismatch, wantRedirect: user.AuthEntryRoute,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.loading, tt.sess, tt.allowedRoles...)
			if got.State != tt.wantState {
				t.Errorf("Decide() state = %v, want %v", got.State, tt.wantState)
			}
			if got.Redirect != tt.wantRedirect {
				t.Errorf("Decide() redirect = %v, want %v", got.Redirect, tt.wantRedirect)
			}
			if got.Authorized() != (tt.wantState == StateAuthorized) {
				t.Errorf("Decide() authorized = %v", got.Authorized())
			}
		})
	}
}

func TestAccessStateString(t *testing.T) {
	tests := []struct {
		state AccessState
		want  string
	}{
		{StateChecking, "checking"},
		{StateUnauthenticated, "unauthenticated"},
		{StateRoleMismatch, "role-mismatch"},
		{StateAuthorized, "authorized"},
		{AccessState(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %v, want %v", got, tt.want)
		}
	}
}
