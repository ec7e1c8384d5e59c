package tests

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/kmande/chuo/core/user"
)

func Test_userApi_query(t *testing.T) {
	app := setup(t)

	path := func(search string, createdFrom, createdTo time.Time, isActive *bool, roles ...user.Role) string {
		v := make(url.Values)
		if search != "" {
			v.Add("search", search)
		}
		if isActive != nil {
			v.Add("is_active", strconv.FormatBool(*isActive))
		}
		if !createdFrom.IsZero() {
			v.Add("created_from", createdFrom.Format(time.RFC3339))
		}
		if !createdTo.IsZero() {
			v.Add("created_to", createdTo.Format(time.RFC3339))
		}
		for _, r := range roles {
			v.Add("role", r.String())
		}
		return "/v1/users?" + v.Encode()
	}
	bPtr := func(b bool) *bool { return &b }

	now := time.Now().UTC()
	t1 := now.Add(1 * time.Hour)
	t2 := now.Add(2 * time.Hour)
	t4 := now.Add(4 * time.Hour)
	t5 := now.Add(5 * time.Hour)

	student := createUser(t, "Hero", "hero@test.cd", user.RoleStudent, "LolC@t123", true)
	faculty := createUser(t, "Dr. Jones", "jones@test.cd", user.RoleFaculty, "LolC@t123", true)
	admin := createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, "LolC@t123", true)
	naughty := createUser(t, "N Dog", "ndog@test.cd", user.RoleStudent, "LolC@t123", false)

	// push two accounts into a later creation window for the date filters
	late1 := user.User{Name: "Late One", Email: "late1@test.cd", Role: user.RoleStudent, CreatedAt: t1, UpdatedAt: t1}
	late1.SetActive(true)
	late1, err := usrRepo.CreateUser(context.Background(), late1)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}
	late2 := user.User{Name: "Late Two", Email: "late2@test.cd", Role: user.RoleFaculty, CreatedAt: t2, UpdatedAt: t2}
	late2.SetActive(true)
	late2, err = usrRepo.CreateUser(context.Background(), late2)
	if err != nil {
		t.Fatalf("CreateUser() failed, %v", err)
	}

	adminToken := getToken(t, admin)
	empty := marchallList(t)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/users", token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "Get all", path: "/v1/users", token: adminToken,
			wantData: marchallList(t, student, faculty, admin, naughty, late1, late2),
		},
		// filtering
		{name: "search (unknown)", path: path("lol", time.Time{}, time.Time{}, nil), token: adminToken, wantData: empty},
		{
			name: "search=HERO", path: path("HERO", time.Time{}, time.Time{}, nil),
			token: adminToken, wantData: marchallList(t, student),
		},
		{
			name: "search matches email too", path: path("test.cd", time.Time{}, time.Time{}, nil),
			token: adminToken, wantData: marchallList(t, student, faculty, admin, naughty, late1, late2),
		},
		{name: "role (unknown)", path: path("", time.Time{}, time.Time{}, nil, "principal"), token: adminToken, wantData: empty},
		{
			name: "role=admin", path: path("", time.Time{}, time.Time{}, nil, user.RoleAdmin),
			token: adminToken, wantData: marchallList(t, admin),
		},
		{
			name: "role=student,faculty", path: path("", time.Time{}, time.Time{}, nil, user.RoleStudent, user.RoleFaculty),
			token: adminToken, wantData: marchallList(t, student, faculty, naughty, late1, late2),
		},
		{
			name: "is_active=true", path: path("", time.Time{}, time.Time{}, bPtr(true)),
			token: adminToken, wantData: marchallList(t, student, faculty, admin, late1, late2),
		},
		{name: "is_active=false", path: path("", time.Time{}, time.Time{}, bPtr(false)), token: adminToken, wantData: marchallList(t, naughty)},
		{
			name: "created_from", path: path("", t1, time.Time{}, nil),
			token: adminToken, wantData: marchallList(t, late1, late2),
		},
		{
			name: "created_to", path: path("", time.Time{}, t1, nil),
			token: adminToken, wantData: marchallList(t, student, faculty, admin, naughty, late1),
		},
		{name: "created_from - created_to (empty)", path: path("", t4, t5, nil), token: adminToken, wantData: empty},
		{name: "created_from - created_to (found)", path: path("", t1, t2, nil), token: adminToken, wantData: marchallList(t, late1, late2)},
		{name: "all combo (empty)", path: path("late", t1, t5, bPtr(true), user.RoleAdmin), token: adminToken, wantData: empty},
		{
			name: "all combo (found)", path: path("late", t1, t5, bPtr(true), user.RoleFaculty),
			token: adminToken, wantData: marchallList(t, late2),
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_queryRoles(t *testing.T) {
	app := setup(t)

	admin := createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, "LolC@t123", true)
	student := createUser(t, "Hero", "hero@test.cd", user.RoleStudent, "LolC@t123", true)

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "Admin required", token: getToken(t, student), wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})},
		{name: "Get roles", token: getToken(t, admin), wantCode: http.StatusOK, wantData: marchallObj(t, user.AllRoles)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.path = "/v1/users/roles"

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	app := setup(t)

	admin := createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, "LolC@t123", true)
	student := createUser(t, "Hero", "hero@test.cd", user.RoleStudent, "LolC@t123", true)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "Auth required", path: "/v1/users/" + student.ID, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", path: "/v1/users/" + student.ID, token: getToken(t, student),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Not found", path: "/v1/users/nope", token: adminToken, wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{name: "Get user", path: "/v1/users/" + student.ID, token: adminToken, wantCode: http.StatusOK, wantData: marchallObj(t, student)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_userApi_update(t *testing.T) {
	app := setup(t)

	admin := createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, "LolC@t123", true)
	student := createUser(t, "Hero", "hero@test.cd", user.RoleStudent, "LolC@t123", true)
	adminToken := getToken(t, admin)
	bPtr := func(b bool) *bool { return &b }

	type extraTest struct {
		wantName   string
		wantAvatar string
		wantActive bool
	}
	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, student), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "invalid avatar URL", token: adminToken, wantCode: http.StatusBadRequest,
			body:     marchallObj(t, user.UpdateUser{Avatar: "lol"}),
			wantData: marchallObj(t, map[string]string{"avatar": "avatar must be a valid URL"}),
		},
		{
			name: "rename", token: adminToken, wantCode: http.StatusOK,
			body:  marchallObj(t, user.UpdateUser{Name: "Hero Renamed"}),
			extra: extraTest{wantName: "Hero Renamed", wantActive: true},
		},
		{
			name: "deactivate", token: adminToken, wantCode: http.StatusOK,
			body:  marchallObj(t, user.UpdateUser{IsActive: bPtr(false)}),
			extra: extraTest{wantName: "Hero Renamed", wantActive: false},
		},
		{
			name: "reactivate with avatar", token: adminToken, wantCode: http.StatusOK,
			body:  marchallObj(t, user.UpdateUser{Avatar: "https://cdn.test.cd/pic.png", IsActive: bPtr(true)}),
			extra: extraTest{wantName: "Hero Renamed", wantAvatar: "https://cdn.test.cd/pic.png", wantActive: true},
		},
	}
	for _, tt := range tests {
		tt.method = http.MethodPut
		tt.path = "/v1/users/" + student.ID

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)

			if extra, ok := tt.extra.(extraTest); ok {
				checkCode(t, tt.wantCode, rec)

				refreshed, err := usrRepo.GetUser(req.Context(), user.GetFilter{ID: student.ID})
				if err != nil {
					t.Fatalf("GetUser() failed, %v", err)
				}
				if refreshed.Name != extra.wantName {
					t.Errorf("failed! name = %v; want %v", refreshed.Name, extra.wantName)
				}
				if extra.wantAvatar != "" && refreshed.Avatar != extra.wantAvatar {
					t.Errorf("failed! avatar = %v; want %v", refreshed.Avatar, extra.wantAvatar)
				}
				if refreshed.Active() != extra.wantActive {
					t.Errorf("failed! active = %v; want %v", refreshed.Active(), extra.wantActive)
				}
				if refreshed.Role != user.RoleStudent {
					t.Errorf("failed! role changed to %v", refreshed.Role)
				}
				return
			}
			checkCodeAndData(t, tt, rec)
		})
	}
}
