package echoapi

import (
	"context"
	"net/http"
	"os"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/shuletech/shule/core"
	"github.com/shuletech/shule/core/finance"
	"github.com/shuletech/shule/core/payroll"
	"github.com/shuletech/shule/core/report"
	"github.com/shuletech/shule/core/school"
	"github.com/shuletech/shule/core/student"
	"github.com/shuletech/shule/core/user"
)

type (
	Options struct {
		Address        string
		DisableReqLogs bool

		Logger     core.Logger
		UserSvc    user.ServiceInterface
		StudentSvc student.ServiceInterface
		FinanceSvc finance.ServiceInterface
		PayrollSvc payroll.ServiceInterface
		ReportSvc  report.ServiceInterface
		SchoolSvc  school.ServiceInterface
	}

	Server interface {
		http.Handler
		Start() error
		Stop(context.Context) error
	}

	server struct {
		opts     *Options
		app      *echo.Echo
		shutdown chan<- os.Signal
	}
)

var _ Server = (*server)(nil)

// NewServer builds the API server. shutdown receives SIGTERM when an
// unrecoverable error surfaces in a handler.
func NewServer(opts *Options, shutdown chan<- os.Signal) Server {
	s := &server{
		opts:     opts,
		app:      echo.New(),
		shutdown: shutdown,
	}
	s.setup()
	return s
}

func (s *server) signalShutdown() {
	s.shutdown <- syscall.SIGTERM
}

func (s *server) setup() {
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !s.opts.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(core.Conf.Debug || core.Conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.opts.Logger, s.signalShutdown)
	s.app.Debug = core.Conf.Debug
	s.app.HideBanner = true

	s.app.GET("/", home)

	v1 := s.app.Group("/v1")
	jwt := jwtMiddleware()

	registerUserAPI(v1, jwt, s.opts.UserSvc)
	registerStudentAPI(v1, jwt, s.opts.StudentSvc, s.opts.FinanceSvc, s.opts.ReportSvc)
	registerFinanceAPI(v1, jwt, s.opts.FinanceSvc)
	registerPayrollAPI(v1, jwt, s.opts.PayrollSvc)
	registerReportAPI(v1, jwt, s.opts.ReportSvc)
	registerSchoolAPI(v1, jwt, s.opts.SchoolSvc)
}

func (s *server) Start() error {
	return s.app.Start(s.opts.Address)
}

func (s *server) Stop(ctx context.Context) error {
	return s.app.Shutdown(ctx)
}

func (s *server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to "+core.Conf.AppName+" API!")
}
