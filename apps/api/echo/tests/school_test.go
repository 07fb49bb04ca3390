package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/shuletech/shule/core/finance"
	"github.com/shuletech/shule/core/school"
	"github.com/shuletech/shule/core/user"
	testutil "github.com/shuletech/shule/tests"
)

func Test_schoolApi_site(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdminOwner}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teacher@test.cd", "", []string{user.RoleTeacher}, true)

	adminToken := getToken(t, admin)

	t.Run("site is public", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/school/site")
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, school.Site{Sections: []school.Section{}, Announcements: []school.Announcement{}}),
		}
		checkCodeAndData(t, tt, rec)
	})

	tests := []httpTest{
		{
			name:     "profile edit requires token",
			method:   http.MethodPut,
			path:     "/v1/school/profile",
			body:     marchallObj(t, school.UpdateProfile{Name: "Shule Academy"}),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, errMissingToken),
		},
		{
			name:     "profile edit requires admin",
			method:   http.MethodPut,
			path:     "/v1/school/profile",
			body:     marchallObj(t, school.UpdateProfile{Name: "Shule Academy"}),
			token:    getToken(t, teacher),
			wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name:     "profile name required",
			method:   http.MethodPut,
			path:     "/v1/school/profile",
			body:     marchallObj(t, school.UpdateProfile{Email: "info@shule.cd"}),
			token:    adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "this field is required"}),
		},
		{
			name:   "profile email must be valid",
			method: http.MethodPut,
			path:   "/v1/school/profile",
			body:   marchallObj(t, school.UpdateProfile{Name: "Shule Academy", Email: "nope"}),
			token:    adminToken,
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "email must be a valid email address"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	var profile school.Profile

	t.Run("profile update", func(t *testing.T) {
		body := marchallObj(t, school.UpdateProfile{
			Name: "Shule Academy", Motto: "Elimu ni nuru", Email: "info@shule.cd", Phone: "+243 999 000 111",
		})
		req, rec := newAuthRequest(http.MethodPut, "/v1/school/profile", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &profile); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if profile.Name != "Shule Academy" {
			t.Errorf("Name = %q; want %q", profile.Name, "Shule Academy")
		}
	})

	var history, contact school.Section

	t.Run("sections", func(t *testing.T) {
		create := func(ns school.NewSection) school.Section {
			req, rec := newAuthRequest(http.MethodPost, "/v1/school/sections", adminToken, marchallObj(t, ns))
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusCreated {
				t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
			}
			var s school.Section
			if err := json.Unmarshal(rec.Body.Bytes(), &s); err != nil {
				t.Fatalf("json.Unmarshal() failed: %v", err)
			}
			return s
		}
		contact = create(school.NewSection{Title: "Contact us", Body: "PO Box 123", Position: 2})
		history = create(school.NewSection{Title: "Our history", Body: "Founded in 1996.", Position: 1})

		// replace keeps the id
		body := marchallObj(t, school.NewSection{Title: "Our history", Body: "Founded in 1996, Goma.", Position: 1})
		req, rec := newAuthRequest(http.MethodPut, "/v1/school/sections/"+history.ID, adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &history); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
	})

	t.Run("delete unknown section", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/school/sections/lol", adminToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		checkCodeAndData(t, tt, rec)
	})

	var notice school.Announcement

	t.Run("announcements", func(t *testing.T) {
		body := marchallObj(t, school.NewAnnouncement{Title: "Term opens", Body: "Classes resume on Monday."})
		req, rec := newAuthRequest(http.MethodPost, "/v1/school/announcements", adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &notice); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
	})

	t.Run("site assembles profile, ordered sections and notices", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/school/site")
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, school.Site{
				Profile:       profile,
				Sections:      []school.Section{history, contact}, // by position
				Announcements: []school.Announcement{notice},
			}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("delete announcement", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/school/announcements/"+notice.ID, adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}

func Test_schoolApi_stats(t *testing.T) {
	resetDB(t)

	owner := testutil.CreateUser(t, usrRepo, "Owner", "owner1", "owner@test.cd", "", []string{user.RoleAdminOwner}, true)
	testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	// inactive staff and students do not count
	testutil.CreateUser(t, usrRepo, "Gone", "gone01", "gone@test.cd", "", []string{user.RoleTeacher}, false)
	testutil.CreateUser(t, usrRepo, "Hero", "hero01", "hero@test.cd", "", []string{user.RoleStudent}, true)

	st1 := testutil.CreateStudent(t, studentRepo, "Alice M", "adm001", 4, "Mary M", "")
	testutil.CreateStudent(t, studentRepo, "Brian K", "adm002", 5, "Jane K", "")
	archived := testutil.CreateStudent(t, studentRepo, "Carol N", "adm003", 6, "Rose N", "")

	token := getToken(t, owner)

	req, rec := newAuthRequest(http.MethodPost, "/v1/students/"+archived.ID+"/archive", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	body := marchallObj(t, finance.NewTransaction{Amount: decimal.NewFromInt(1000), Description: "Term 1 fees"})
	req, rec = newAuthRequest(http.MethodPost, "/v1/fees/accounts/"+st1.ID+"/payments", token, body)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
	}

	t.Run("stats require admin", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/school/stats")
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("stats are recomputed from the records", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/school/stats", token)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var stats school.Stats
		if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if stats.ActiveStudents != 2 {
			t.Errorf("ActiveStudents = %d; want 2", stats.ActiveStudents)
		}
		if stats.StaffMembers != 2 { // owner and the active teacher
			t.Errorf("StaffMembers = %d; want 2", stats.StaffMembers)
		}
		if !stats.FeesCollected.Equal(decimal.NewFromInt(1000)) {
			t.Errorf("FeesCollected = %s; want 1000", stats.FeesCollected)
		}
	})
}
