package session

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/user"
)

// Manager is the single source of truth for "who is currently using the
// application". The current identity and the persisted blob are only ever
// written under mu; Login, Register, Logout and Restore cannot interleave.
type Manager struct {
	mu       sync.Mutex
	svc      user.ServiceInterface
	storage  Storage
	nav      Navigator
	validate *validator.Validate

	current *Session
	loading bool // true only until Restore completes
}

func NewManager(svc user.ServiceInterface, storage Storage, nav Navigator, validate *validator.Validate) *Manager {
	if nav == nil {
		nav = NopNavigator
	}
	return &Manager{
		svc:      svc,
		storage:  storage,
		nav:      nav,
		validate: validate,
		loading:  true,
	}
}

// Restore rehydrates the current identity from the persisted blob. A missing
// blob leaves the manager logged out; a corrupt blob is discarded silently so
// bad local state can never block startup. Loading flips false either way,
// and this is the only path that flips it.
func (m *Manager) Restore(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.loading = false }()

	blob, err := m.storage.Load(ctx)
	if err != nil {
		return // absent or unreadable: logged out
	}

	var sess Session
	if err := json.Unmarshal(blob, &sess); err != nil || !sess.Valid() {
		_ = m.storage.Delete(ctx) // corrupt: discard, never surface
		return
	}
	m.current = &sess
}

// Login authenticates email+secret against the claimed role, persists the
// resulting session and navigates to the role's landing view.
// Failures: user.ErrNotFound (no identity for email+role),
// user.ErrInvalidCredential (hash mismatch), user.ErrAccountDeactivated;
// anything else is a backend failure the caller should present generically.
func (m *Manager) Login(ctx context.Context, email, secret string, role user.Role) (Session, error) {
	if email == "" || secret == "" || !role.Valid() {
		return Session{}, user.ErrNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	usr, err := m.svc.Authenticate(ctx, email, secret, role)
	if err != nil {
		return Session{}, err
	}
	return m.open(ctx, usr)
}

// Register creates a new identity and opens a session for it, exactly as
// Login does. Validation failures (duplicate email, short password) come
// back as *core.ValidationError / validator.ValidationErrors.
func (m *Manager) Register(ctx context.Context, nu user.NewUser) (Session, error) {
	if err := nu.Validate(m.validate, m.svc); err != nil {
		return Session{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	usr, err := m.svc.Register(ctx, nu)
	if err != nil {
		return Session{}, err
	}
	return m.open(ctx, usr)
}

// open persists the session blob, publishes the identity and fires the
// role-landing navigation. Callers hold mu.
func (m *Manager) open(ctx context.Context, usr user.User) (Session, error) {
	sess := New(usr)
	blob, err := json.Marshal(sess)
	if err != nil {
		return Session{}, errors.Wrap(err, "encoding session")
	}
	if err := m.storage.Save(ctx, blob); err != nil {
		return Session{}, errors.Wrap(err, "persisting session")
	}
	m.current = &sess
	m.nav.Navigate(sess.Role.HomeRoute())
	return sess, nil
}

// Logout clears the current identity and deletes the persisted blob. It is
// idempotent: logging out while logged out is a no-op, not an error.
func (m *Manager) Logout(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = nil
	_ = m.storage.Delete(ctx)
	m.nav.Navigate("/")
}

// Current returns a snapshot of the authenticated session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return Session{}, false
	}
	return *m.current, true
}

// Loading reports whether the initial Restore is still pending.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// CheckAccess is a pure query: false when nobody is logged in, otherwise
// whether the current role is in allowedRoles. It never mutates state and
// never navigates; views use it to decide whether to show privileged actions.
func (m *Manager) CheckAccess(allowedRoles ...user.Role) bool {
	sess, ok := m.Current()
	if !ok {
		return false
	}
	for _, role := range allowedRoles {
		if sess.Role == role {
			return true
		}
	}
	return false
}

// Decide runs the access-control state machine against the manager's
// current state.
func (m *Manager) Decide(allowedRoles ...user.Role) Decision {
	m.mu.Lock()
	loading, current := m.loading, m.current
	m.mu.Unlock()

	var sess *Session
	if current != nil {
		snapshot := *current
		sess = &snapshot
	}
	return Decide(loading, sess, allowedRoles...)
}

// ValidationFields flattens a Login/Register failure into field errors the
// presentation layer can render, mirroring the HTTP error handler's mapping.
func ValidationFields(err error) map[string]string {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		flds := make(map[string]string, len(origErr))
		for _, vErr := range origErr {
			flds[vErr.Field()] = vErr.Tag()
		}
		return flds
	case *core.ValidationError:
		return origErr.FieldMap()
	}
	return nil
}
