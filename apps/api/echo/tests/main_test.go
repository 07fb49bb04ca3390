package tests

import (
	"fmt"
	"os"
	"testing"

	echoapi "github.com/shuletech/shule/apps/api/echo"
	"github.com/shuletech/shule/core"
	"github.com/shuletech/shule/core/finance"
	"github.com/shuletech/shule/core/payroll"
	"github.com/shuletech/shule/core/report"
	"github.com/shuletech/shule/core/school"
	"github.com/shuletech/shule/core/student"
	"github.com/shuletech/shule/core/user"
	emailsvc "github.com/shuletech/shule/services/email"
	inmemdb "github.com/shuletech/shule/storage/database/inmem"
)

var (
	db  *inmemdb.DB
	app echoapi.Server

	usrRepo     user.Repository
	studentRepo student.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

// nopLogger discards everything; server errors are asserted via HTTP codes.
type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

func TestMain(m *testing.M) {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true

	core.InitValidation()
	user.InitValidators()

	var err error
	if db, err = inmemdb.Open(); err != nil {
		fmt.Printf("inmemdb.Open(): %v", err)
		os.Exit(1)
	}

	usrRepo = inmemdb.NewUserRepository(db)
	studentRepo = inmemdb.NewStudentRepository(db)
	financeRepo := inmemdb.NewFinanceRepository(db)
	payrollRepo := inmemdb.NewPayrollRepository(db)
	reportRepo := inmemdb.NewReportRepository(db)
	schoolRepo := inmemdb.NewSchoolRepository(db)

	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewService(usrRepo, mailSvc)
	studentSvc := student.NewService(studentRepo)
	financeSvc := finance.NewService(financeRepo, studentSvc, mailSvc)
	payrollSvc := payroll.NewService(payrollRepo, financeSvc, usrSvc, mailSvc)
	reportSvc := report.NewService(reportRepo, studentSvc, mailSvc)
	schoolSvc := school.NewService(schoolRepo, studentSvc, usrSvc, financeSvc)

	shutdown := make(chan os.Signal, 1)
	app = echoapi.NewServer(
		&echoapi.Options{
			DisableReqLogs: true,
			Logger:         nopLogger{},
			UserSvc:        usrSvc,
			StudentSvc:     studentSvc,
			FinanceSvc:     financeSvc,
			PayrollSvc:     payrollSvc,
			ReportSvc:      reportSvc,
			SchoolSvc:      schoolSvc,
		},
		shutdown,
	)

	os.Exit(m.Run())
}
