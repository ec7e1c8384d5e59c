package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/kmande/chuo/core/event"
	"github.com/kmande/chuo/core/user"
)

func createEvent(t *testing.T, title string, start time.Time, creator user.User) event.Event {
	t.Helper()
	evt, err := evtRepo.CreateEvent(context.Background(), event.Event{
		Title:      title,
		Category:   "Academic",
		Department: "Science",
		Venue:      "Main Hall",
		StartDate:  start,
		CreatedBy:  creator.Profile(),
		CreatedAt:  time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("CreateEvent() failed, %v", err)
	}
	return evt
}

func Test_eventApi_query(t *testing.T) {
	app := setup(t)

	faculty := createUser(t, "Dr. Jones", "jones@test.cd", user.RoleFaculty, "LolC@t123", true)

	now := time.Now().UTC()
	later := createEvent(t, "Science Fair", now.Add(48*time.Hour), faculty)
	soon := createEvent(t, "Guest Lecture", now.Add(2*time.Hour), faculty)

	req, rec := newRequest(http.MethodGet, "/v1/events")
	app.ServeHTTP(rec, req)
	// soonest first
	checkCodeAndData(t, httpTest{wantCode: http.StatusOK, wantData: marchallList(t, soon, later)}, rec)
}

func Test_eventApi_create(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero@test.cd", user.RoleStudent, "LolC@t123", true)
	faculty := createUser(t, "Dr. Jones", "jones@test.cd", user.RoleFaculty, "LolC@t123", true)
	admin := createUser(t, "Admin", "admin@test.cd", user.RoleAdmin, "LolC@t123", true)

	newEvt := event.NewEvent{
		Title:      "Career Week",
		Category:   "Career",
		Department: "All",
		Venue:      "Auditorium",
		StartDate:  time.Now().UTC().Add(72 * time.Hour),
		Attachments: []event.NewAttachment{
			{Name: "Agenda", URL: "https://cdn.test.cd/agenda.pdf", Type: "pdf"},
		},
	}

	t.Run("anonymous is redirected to the auth entry view", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/events", marchallObj(t, newEvt))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusFound, rec)
		want := "/auth/choice?next=" + url.QueryEscape("/v1/events")
		if loc := rec.Header().Get("Location"); loc != want {
			t.Errorf("failed! Location = %v; want %v", loc, want)
		}
	})

	t.Run("students are sent back to their dashboard", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/events", getToken(t, student), marchallObj(t, newEvt))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusFound, rec)
		if loc := rec.Header().Get("Location"); loc != "/student/dashboard" {
			t.Errorf("failed! Location = %v; want /student/dashboard", loc)
		}
	})

	t.Run("required fields", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/events", getToken(t, faculty), []byte("{}"))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"title":      "this field is required",
				"category":   "this field is required",
				"department": "this field is required",
				"venue":      "this field is required",
				"start_date": "this field is required",
			}),
		}, rec)
	})

	for _, host := range []user.User{faculty, admin} {
		t.Run("hosted by "+host.Role.String(), func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/events", getToken(t, host), marchallObj(t, newEvt))
			app.ServeHTTP(rec, req)
			checkCode(t, http.StatusCreated, rec)

			var evt event.Event
			if err := json.Unmarshal(rec.Body.Bytes(), &evt); err != nil {
				t.Fatalf("json.Unmarshal() failed! err %v", err)
			}
			if evt.ID == "" {
				t.Error("failed! empty event ID")
			}
			if evt.CreatedBy.ID != host.ID {
				t.Errorf("failed! created_by = %v; want %v", evt.CreatedBy.ID, host.ID)
			}
			if len(evt.Attachments) != 1 || evt.Attachments[0].ID == "" {
				t.Errorf("failed! attachments = %+v", evt.Attachments)
			}
		})
	}
}

func Test_eventApi_rsvp(t *testing.T) {
	app := setup(t)

	student := createUser(t, "Hero", "hero@test.cd", user.RoleStudent, "LolC@t123", true)
	buddy := createUser(t, "Buddy", "buddy@test.cd", user.RoleStudent, "LolC@t123", true)
	faculty := createUser(t, "Dr. Jones", "jones@test.cd", user.RoleFaculty, "LolC@t123", true)
	evt := createEvent(t, "Science Fair", time.Now().UTC().Add(48*time.Hour), faculty)

	rsvpPath := "/v1/events/" + evt.ID + "/rsvp"
	going := marchallObj(t, event.NewRSVP{Status: event.StatusGoing})

	t.Run("auth required", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, rsvpPath, going)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusFound, rec)
	})

	t.Run("invalid status", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, rsvpPath, getToken(t, student), marchallObj(t, event.NewRSVP{Status: "maybe"}))
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"status": "status must be one of [going interested declined]"}),
		}, rec)
	})

	t.Run("unknown event", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/events/nope/rsvp", getToken(t, student), going)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusNotFound, rec)
	})

	t.Run("rsvp then change of heart", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, rsvpPath, getToken(t, student), going)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var rsvp event.RSVP
		if err := json.Unmarshal(rec.Body.Bytes(), &rsvp); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if rsvp.Status != event.StatusGoing {
			t.Errorf("failed! status = %v; want %v", rsvp.Status, event.StatusGoing)
		}

		// re-submitting replaces the previous status; the count stays at one
		req, rec = newAuthRequest(http.MethodPut, rsvpPath, getToken(t, student), marchallObj(t, event.NewRSVP{Status: event.StatusDeclined}))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		// a second member makes it two
		req, rec = newAuthRequest(http.MethodPut, rsvpPath, getToken(t, buddy), marchallObj(t, event.NewRSVP{Status: event.StatusInterested}))
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		req, rec = newRequest(http.MethodGet, "/v1/events/"+evt.ID)
		app.ServeHTTP(rec, req)
		checkCode(t, http.StatusOK, rec)

		var got event.Event
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("json.Unmarshal() failed! err %v", err)
		}
		if got.RSVPCount != 2 {
			t.Errorf("failed! rsvp_count = %v; want 2", got.RSVPCount)
		}
		if len(got.RSVPs) != 2 {
			t.Fatalf("failed! len(rsvps) = %v; want 2", len(got.RSVPs))
		}
		for _, rsvp := range got.RSVPs {
			if rsvp.User.ID == student.ID && rsvp.Status != event.StatusDeclined {
				t.Errorf("failed! status = %v; want %v", rsvp.Status, event.StatusDeclined)
			}
		}
	})
}
