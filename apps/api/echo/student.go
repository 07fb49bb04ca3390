package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core/finance"
	"github.com/shuletech/shule/core/report"
	"github.com/shuletech/shule/core/student"
)

// orderable student columns
var studentOrderFields = []string{"name", "admission_no", "grade", "is_active", "created_at", "updated_at"}

type studentApi struct {
	svc        student.ServiceInterface
	financeSvc finance.ServiceInterface
	reportSvc  report.ServiceInterface
}

func registerStudentAPI(
	g *echo.Group,
	jwt echo.MiddlewareFunc,
	svc student.ServiceInterface,
	financeSvc finance.ServiceInterface,
	reportSvc report.ServiceInterface,
) {
	api := studentApi{svc: svc, financeSvc: financeSvc, reportSvc: reportSvc}

	sg := g.Group("/students", jwt)
	sg.POST("", api.create, adminMiddleware())
	sg.GET("", api.query, staffMiddleware())

	dg := sg.Group("/:id", staffMiddleware())
	dg.GET("", api.retrieve)
	dg.PUT("", api.update, adminMiddleware())
	dg.POST("/archive", api.archive, adminMiddleware())
	dg.DELETE("", api.destroy, adminMiddleware())

	// derived, per-student read models
	dg.GET("/statement", api.statement)
	dg.GET("/balance", api.balance)
	dg.GET("/requirements", api.requirements)
	dg.GET("/report-card", api.reportCard)
	dg.POST("/report-card/send", api.sendReportCard, adminMiddleware())
}

// Handlers

func (api *studentApi) create(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	st, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating student")
	}
	return ctx.JSON(http.StatusCreated, st)
}

func (api *studentApi) query(ctx echo.Context) error {
	filter := new(student.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []student.Student{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx, studentOrderFields...)

	students, err := api.svc.Query(ctx.Request().Context(), filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapNotFoundErr(err, student.ErrNotFound)
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) update(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapNotFoundErr(err, student.ErrNotFound)
	}

	var data student.UpdateStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateStudent")
	}
	if err := data.Validate(st); err != nil {
		return err
	}

	st, err = api.svc.Update(ctx.Request().Context(), st.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating student")
	}
	return ctx.JSON(http.StatusOK, st)
}

func (api *studentApi) archive(ctx echo.Context) error {
	if err := api.svc.Archive(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return trapNotFoundErr(err, student.ErrNotFound)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return trapNotFoundErr(err, student.ErrNotFound)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) statement(ctx echo.Context) error {
	lines, err := api.financeSvc.Statement(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building statement")
	}
	if lines == nil {
		lines = []finance.StatementLine{}
	}
	return ctx.JSON(http.StatusOK, lines)
}

func (api *studentApi) balance(ctx echo.Context) error {
	balance, err := api.financeSvc.Balance(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "computing balance")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"balance": balance})
}

// requirements derives the student's settlement standing on every requirement
// of their grade.
func (api *studentApi) requirements(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapNotFoundErr(err, student.ErrNotFound)
	}

	settlements, err := api.financeSvc.StudentRequirements(ctx.Request().Context(), st.ID, st.Grade)
	if err != nil {
		return errors.Wrap(err, "deriving settlements")
	}
	if settlements == nil {
		settlements = []finance.Settlement{}
	}
	return ctx.JSON(http.StatusOK, settlements)
}

func (api *studentApi) reportCard(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapNotFoundErr(err, student.ErrNotFound)
	}

	card, err := api.reportSvc.BuildReportCard(ctx.Request().Context(), st.ID, st.Grade, ctx.QueryParam("term"))
	if err != nil {
		return trapNotFoundErr(err, report.ErrConfigNotFound, report.ErrNoScores)
	}
	return ctx.JSON(http.StatusOK, card)
}

func (api *studentApi) sendReportCard(ctx echo.Context) error {
	st, err := api.svc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapNotFoundErr(err, student.ErrNotFound)
	}

	if err := api.reportSvc.SendReportCard(ctx.Request().Context(), st.ID, st.Grade, ctx.QueryParam("term")); err != nil {
		return trapNotFoundErr(err, report.ErrConfigNotFound, report.ErrNoScores, student.ErrNotFound)
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Report card sent to guardian."})
}
