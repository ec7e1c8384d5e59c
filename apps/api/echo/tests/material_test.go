package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/kmande/chuo/core/material"
	"github.com/kmande/chuo/core/user"
)

func createMaterial(t *testing.T, title, subject, dept string, uploader user.User, uploadedAt time.Time) material.Material {
	t.Helper()
	mat, err := matRepo.CreateMaterial(context.Background(), material.Material{
		Title:      title,
		Subject:    subject,
		Department: dept,
		Type:       "notes",
		FileURL:    "https://cdn.test.cd/" + url.PathEscape(title) + ".pdf",
		FileSize:   1024,
		UploadedBy: uploader.Profile(),
		UploadDate: uploadedAt,
	})
	if err != nil {
		t.Fatalf("CreateMaterial() failed, %v", err)
	}
	return mat
}

func Test_materialApi_query(t *testing.T) {
	app := setup(t)

	faculty := createUser(t, "Dr. Jones", "jones@test.cd", user.RoleFaculty, "LolC@t123", true)

	now := time.Now().UTC()
	calc := createMaterial(t, "Calculus II Notes", "Mathematics", "Science", faculty, now.Add(-2*time.Hour))
	chem := createMaterial(t, "Organic Chemistry Lab", "Chemistry", "Science", faculty, now.Add(-1*time.Hour))
	hist := createMaterial(t, "World History Slides", "History", "Humanities", faculty, now)

	tests := []httpTest{
		// newest upload first
		{name: "Get all", path: "/v1/materials", wantData: marchallList(t, hist, chem, calc)},
		{name: "department filter", path: "/v1/materials?department=Humanities", wantData: marchallList(t, hist)},
		{name: "department is case-insensitive", path: "/v1/materials?department=science", wantData: marchallList(t, chem, calc)},
		{name: "search matches title", path: "/v1/materials?search=calculus", wantData: marchallList(t, calc)},
		{name: "search matches subject", path: "/v1/materials?search=chemistry", wantData: marchallList(t, chem)},
		{name: "search (unknown)", path: "/v1/materials?search=quantum", wantData: marchallList(t)},
		{name: "department & search", path: "/v1/materials?department=Science&search=lab", wantData: marchallList(t, chem)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet
		tt.wantCode = http.StatusOK

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_materialApi_retrieve(t *testing.T) {
	app := setup(t)

	faculty := createUser(t, "Dr. Jones", "jones@test.cd", user.RoleFaculty, "LolC@t123", true)
	mat := createMaterial(t, "Calculus II Notes", "Mathematics", "Science", faculty, time.Now().UTC())

	tests := []httpTest{
		{name: "Not found", path: "/v1/materials/nope", wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})},
		{name: "Get material", path: "/v1/materials/" + mat.ID, wantCode: http.StatusOK, wantData: marchallObj(t, mat)},
	}
	for _, tt := range tests {
		tt.method = http.MethodGet

		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_materialApi_create(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero@test.cd", user.RoleStudent, "LolC@t123", true)

	newMat := material.NewMaterial{
		Title:      "Data Structures Notes",
		Subject:    "Computer Science",
		Department: "Engineering",
		Type:       "notes",
		FileURL:    "https://cdn.test.cd/ds.pdf",
		FileSize:   2048,
	}

	t.Run("anonymous is redirected to the auth entry view", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/materials", marchallObj(t, newMat))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusFound, rec)
		want := "/auth/choice?next=" + url.QueryEscape("/v1/materials")
		if loc := rec.Header().Get("Location"); loc != want {
			t.Errorf("failed! Location = %v; want %v", loc, want)
		}
	})

	t.Run("a garbage token counts as no session", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/materials", "not.a.token", marchallObj(t, newMat))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusFound, rec)
	})

	t.Run("required fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/materials", getToken(t, student), []byte("{}"))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title":      "this field is required",
				"subject":    "this field is required",
				"department": "this field is required",
				"type":       "this field is required",
				"file_url":   "this field is required",
			}),
		}, rec)
	})

	t.Run("any member can share", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/materials", getToken(t, student), marchallObj(t, newMat))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusCreated, rec)

		var mat material.Material
		if err := json.Unmarshal(rec.Body.Bytes(), &mat); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if mat.ID == "" {
			t.Error("failed! empty material ID")
		}
		if mat.UploadedBy.ID != student.ID {
			t.Errorf("failed! uploaded_by = %v; want %v", mat.UploadedBy.ID, student.ID)
		}
		if mat.Downloads != 0 {
			t.Errorf("failed! downloads = %v; want 0", mat.Downloads)
		}
	})
}

func Test_materialApi_download(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero@test.cd", user.RoleStudent, "LolC@t123", true)
	faculty := createUser(t, "Dr. Jones", "jones@test.cd", user.RoleFaculty, "LolC@t123", true)
	mat := createMaterial(t, "Calculus II Notes", "Mathematics", "Science", faculty, time.Now().UTC())
	token := getToken(t, student)

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/materials/"+mat.ID+"/download")
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusFound, rec)
	})

	t.Run("not found", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/materials/nope/download", token)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})

	t.Run("each download bumps the counter", func(t *testing.T) {
		for want := 1; want <= 2; want++ {
			req, rec := newAuthRequest(http.MethodPost, "/v1/materials/"+mat.ID+"/download", token)
			app.ServeHTTP(rec, req)
			checkCode(t, http.StatusOK, rec)

			var got material.Material
			if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
				t.Fatalf("json.Unmarshal() failed! err %v", err)
			}
			if got.Downloads != want {
				t.Errorf("failed! downloads = %v; want %v", got.Downloads, want)
			}
		}
	})
}
