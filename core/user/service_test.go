package user_test

import (
	"context"
	"net/mail"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/user"
	appfs "github.com/kmande/chuo/fs"
	emailsvc "github.com/kmande/chuo/services/email"
	dummydb "github.com/kmande/chuo/storage/database/dummy"
)

func newTestService(t *testing.T) (user.ServiceInterface, user.Repository, *core.Config) {
	t.Helper()

	conf := &core.Config{
		TestMode:                  true,
		AppName:                   "Chuo",
		SecretKey:                 "secret",
		FrontendBaseURL:           "http://localhost:3000",
		DefaultFromEmail:          mail.Address{Name: "Chuo", Address: "noreply@test.cd"},
		PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
	}
	core.InitEmailTemplates(appfs.FS, conf)

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed, %v", err)
	}
	repo := dummydb.NewUserRepository(db)
	return user.NewServiceMock(repo, emailsvc.NewConsoleServiceMock(conf), conf), repo, conf
}

func createTestUser(t *testing.T, repo user.Repository, email string, role user.Role, pwd string, active bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{Name: "Someone", Email: email, Role: role, CreatedAt: now, UpdatedAt: now}
	usr.SetActive(active)
	if err := usr.SetPassword(pwd); err != nil {
		t.Fatalf("SetPassword() failed, %v", err)
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	return usr
}

func TestService_Authenticate(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	student := createTestUser(t, repo, "hero@test.cd", user.RoleStudent, "LolC@t123", true)
	createTestUser(t, repo, "ndog@test.cd", user.RoleStudent, "LolC@t123", false)

	tests := []struct {
		name    string
		email   string
		pwd     string
		role    user.Role
		wantErr error
	}{
		{name: "unknown email", email: "lol@test.cd", pwd: "LolC@t123", role: user.RoleStudent, wantErr: user.ErrNotFound},
		// identity is (email, role); the right email under the wrong role does not exist
		{name: "wrong role", email: student.Email, pwd: "LolC@t123", role: user.RoleAdmin, wantErr: user.ErrNotFound},
		{name: "wrong password", email: student.Email, pwd: "nope", role: user.RoleStudent, wantErr: user.ErrInvalidCredential},
		// the password check runs before the active check; a wrong password on a
		// deactivated account must not reveal the deactivation
		{name: "deactivated, wrong password", email: "ndog@test.cd", pwd: "nope", role: user.RoleStudent, wantErr: user.ErrInvalidCredential},
		{name: "deactivated, right password", email: "ndog@test.cd", pwd: "LolC@t123", role: user.RoleStudent, wantErr: user.ErrAccountDeactivated},
		{name: "email is case-insensitive", email: "HERO@test.cd", pwd: "LolC@t123", role: user.RoleStudent},
		{name: "authenticated", email: student.Email, pwd: "LolC@t123", role: user.RoleStudent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := svc.Authenticate(ctx, tt.email, tt.pwd, tt.role)
			if errors.Cause(err) != tt.wantErr {
				t.Fatalf("Authenticate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				if usr.ID != student.ID {
					t.Errorf("Authenticate() user = %v, want %v", usr.ID, student.ID)
				}
				if usr.LastLogin.IsZero() {
					t.Error("Authenticate() did not set LastLogin")
				}
			}
		})
	}
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)
	emailsvc.SentMessages = nil // reset

	usr, err := svc.Register(ctx, user.NewUser{
		Name:     "Jane",
		Email:    "jane@test.cd",
		Password: "LolC@t123",
		Role:     user.RoleFaculty,
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if usr.ID == "" {
		t.Error("Register() returned empty ID")
	}
	if !usr.Active() {
		t.Error("new accounts must start active")
	}
	if err := usr.CheckPassword("LolC@t123"); err != nil {
		t.Errorf("CheckPassword() failed on fresh account, %v", err)
	}

	// a welcome email pointing at the role's landing view
	if len(emailsvc.SentMessages) != 1 {
		t.Fatalf("len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
	}
	msg := emailsvc.SentMessages[0]
	if msg.To[0].Address != usr.Email {
		t.Errorf("To = %v; want %v", msg.To[0].Address, usr.Email)
	}
	if !strings.Contains(msg.TextContent, "/faculty/dashboard") {
		t.Errorf("welcome mail does not mention the landing view:\n%s", msg.TextContent)
	}
}

func TestService_CheckUniqueness(t *testing.T) {
	svc, repo, _ := newTestService(t)
	existing := createTestUser(t, repo, "hero@test.cd", user.RoleStudent, "LolC@t123", true)

	if err := svc.CheckUniqueness("new@test.cd"); err != nil {
		t.Errorf("CheckUniqueness() error = %v", err)
	}

	err := svc.CheckUniqueness(existing.Email)
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("CheckUniqueness() error = %v, want *core.ValidationError", err)
	}
	if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "email" {
		t.Errorf("fields = %+v", vErr.Fields)
	}

	// the offending account itself may be excluded, e.g. during self-update
	if err := svc.CheckUniqueness(existing.Email, existing); err != nil {
		t.Errorf("CheckUniqueness() with exclusion error = %v", err)
	}
}

func TestService_PasswordResetFlow(t *testing.T) {
	ctx := context.Background()
	svc, repo, conf := newTestService(t)

	student := createTestUser(t, repo, "hero@test.cd", user.RoleStudent, "LolC@t123", true)

	t.Run("unknown email bubbles ErrNotFound", func(t *testing.T) {
		if err := svc.RequestPasswordReset(ctx, "lol@test.cd"); errors.Cause(err) != user.ErrNotFound {
			t.Errorf("RequestPasswordReset() error = %v", err)
		}
	})

	t.Run("reset with a mailed token", func(t *testing.T) {
		emailsvc.SentMessages = nil // reset

		if err := svc.RequestPasswordReset(ctx, student.Email); err != nil {
			t.Fatalf("RequestPasswordReset() error = %v", err)
		}
		if len(emailsvc.SentMessages) != 1 {
			t.Fatalf("len(SentMessages) = %d; want 1", len(emailsvc.SentMessages))
		}

		// the mail carries uid and token; regenerate them the same way rather
		// than scraping the body
		uid := user.EncodeUID(student)
		token, err := user.MakeToken(conf, student)
		if err != nil {
			t.Fatalf("MakeToken() error = %v", err)
		}

		err = svc.ResetPassword(ctx, user.ResetUserPassword{
			UID:             uid,
			Token:           token,
			Password:        "NewC@t123",
			PasswordConfirm: "NewC@t123",
		})
		if err != nil {
			t.Fatalf("ResetPassword() error = %v", err)
		}

		refreshed, err := repo.GetUser(ctx, user.GetFilter{ID: student.ID})
		if err != nil {
			t.Fatalf("GetUser() failed, %v", err)
		}
		if err := refreshed.CheckPassword("NewC@t123"); err != nil {
			t.Errorf("CheckPassword() failed after reset, %v", err)
		}
	})

	t.Run("garbage uid", func(t *testing.T) {
		err := svc.ResetPassword(ctx, user.ResetUserPassword{
			UID: "$$$", Token: "lol", Password: "NewC@t123", PasswordConfirm: "NewC@t123",
		})
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			t.Errorf("ResetPassword() error = %v, want *core.ValidationError", err)
		}
	})

	t.Run("tampered token", func(t *testing.T) {
		err := svc.ResetPassword(ctx, user.ResetUserPassword{
			UID: user.EncodeUID(student), Token: "HE4TS-sigsig-sig", Password: "NewC@t123", PasswordConfirm: "NewC@t123",
		})
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			t.Errorf("ResetPassword() error = %v, want *core.ValidationError", err)
		}
	})
}
