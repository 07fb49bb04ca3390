package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shuletech/shule/core/finance"
	"github.com/shuletech/shule/core/student"
	"github.com/shuletech/shule/core/user"
	testutil "github.com/shuletech/shule/tests"
)

func Test_studentApi_crud(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin1", "admin@test.cd", "", []string{user.RoleAdminOwner}, true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teach1", "teacher@test.cd", "", []string{user.RoleTeacher}, true)
	studentUsr := testutil.CreateUser(t, usrRepo, "Hero", "hero01", "user3@test.cd", "", []string{user.RoleStudent}, true)

	adminToken := getToken(t, admin)
	teacherToken := getToken(t, teacher)

	newStudent := marchallObj(t, student.NewStudent{
		Name:          "Alice M",
		AdmissionNo:   "adm001",
		Grade:         4,
		GuardianName:  "Mary M",
		GuardianEmail: "mary@test.cd",
	})

	var created student.Student

	t.Run("create requires admin", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/students", teacherToken, newStudent)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("create", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/students", adminToken, newStudent)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if created.AdmissionNo != "adm001" || !created.Active() {
			t.Errorf("unexpected student created: %+v", created)
		}
	})

	t.Run("duplicate admission number rejected", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/students", adminToken, newStudent)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"admission_no": "a student with this admission number already exists"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("query requires staff", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students", getToken(t, studentUsr))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("failed! code = %v; want %v", rec.Code, http.StatusForbidden)
		}
	})

	t.Run("query", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students?grade=4", teacherToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, created)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+created.ID, teacherToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, created)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/lol", teacherToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("update moves grade", func(t *testing.T) {
		grade := 5
		body := marchallObj(t, student.UpdateStudent{Grade: &grade})
		req, rec := newAuthRequest(http.MethodPut, "/v1/students/"+created.ID, adminToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		refreshed, err := studentRepo.GetStudent(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetStudent() failed: %v", err)
		}
		if refreshed.Grade != 5 {
			t.Errorf("Grade = %d; want 5", refreshed.Grade)
		}
		if refreshed.AdmissionNo != created.AdmissionNo {
			t.Errorf("AdmissionNo changed: %q", refreshed.AdmissionNo)
		}
	})

	t.Run("archive", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/students/"+created.ID+"/archive", adminToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		refreshed, err := studentRepo.GetStudent(context.Background(), created.ID)
		if err != nil {
			t.Fatalf("GetStudent() failed: %v", err)
		}
		if refreshed.Active() {
			t.Error("student still active after archiving")
		}
	})
}

func Test_studentApi_derivedReadModels(t *testing.T) {
	resetDB(t)

	bursar := testutil.CreateUser(t, usrRepo, "Bursar", "bursa1", "bursar@test.cd", "", []string{user.RoleAdminBursar}, true)
	st := testutil.CreateStudent(t, studentRepo, "Alice M", "adm001", 4, "Mary M", "")

	bursarToken := getToken(t, bursar)
	d1 := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC)
	d3 := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	post := func(t *testing.T, path string, nt finance.NewTransaction) {
		t.Helper()
		req, rec := newAuthRequest(http.MethodPost, path, bursarToken, marchallObj(t, nt))
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
	}

	// charges and a payment, deliberately posted out of date order
	post(t, "/v1/fees/accounts/"+st.ID+"/charges", finance.NewTransaction{
		Amount: decimal.NewFromInt(300), Date: d3, Description: "Term 2 fees",
	})
	post(t, "/v1/fees/accounts/"+st.ID+"/charges", finance.NewTransaction{
		Amount: decimal.NewFromInt(700), Date: d1, Description: "Term 1 fees",
	})
	post(t, "/v1/fees/accounts/"+st.ID+"/payments", finance.NewTransaction{
		Amount: decimal.NewFromInt(500), Date: d2, Description: "Mpesa deposit",
	})

	t.Run("balance", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+st.ID+"/balance", bursarToken)
		app.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantData: marchallObj(t, map[string]decimal.Decimal{"balance": decimal.NewFromInt(500)})}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("statement folds newest first", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/students/"+st.ID+"/statement", bursarToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		var lines []finance.StatementLine
		if err := json.Unmarshal(rec.Body.Bytes(), &lines); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(lines) != 3 {
			t.Fatalf("len(lines) = %d; want 3", len(lines))
		}

		wantBalances := []int64{500, 200, 700} // d3 charge, d2 payment, d1 charge
		wantDates := []time.Time{d3, d2, d1}
		for i, line := range lines {
			if !line.Balance.Equal(decimal.NewFromInt(wantBalances[i])) {
				t.Errorf("lines[%d].Balance = %s; want %d", i, line.Balance, wantBalances[i])
			}
			if !line.Date.Equal(wantDates[i]) {
				t.Errorf("lines[%d].Date = %s; want %s", i, line.Date, wantDates[i])
			}
		}
	})

	t.Run("requirements standing", func(t *testing.T) {
		body := marchallObj(t, finance.NewRequirement{
			Name: "Reams of paper", Grade: 4, UnitPrice: decimal.NewFromInt(1000), QuantityNeeded: 3, IsCompulsory: true,
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/fees/requirements", bursarToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}

		req, rec = newAuthRequest(http.MethodGet, "/v1/students/"+st.ID+"/requirements", bursarToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body %s", rec.Code, rec.Body.String())
		}
		var settlements []finance.Settlement
		if err := json.Unmarshal(rec.Body.Bytes(), &settlements); err != nil {
			t.Fatalf("json.Unmarshal() failed: %v", err)
		}
		if len(settlements) != 1 {
			t.Fatalf("len(settlements) = %d; want 1", len(settlements))
		}
		s := settlements[0]
		if s.Status != finance.StatusPending {
			t.Errorf("Status = %s; want %s", s.Status, finance.StatusPending)
		}
		if !s.NetBalanceDue.Equal(decimal.NewFromInt(3000)) {
			t.Errorf("NetBalanceDue = %s; want 3000", s.NetBalanceDue)
		}
	})
}
