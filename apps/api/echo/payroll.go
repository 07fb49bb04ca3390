package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core/finance"
	"github.com/shuletech/shule/core/payroll"
	"github.com/shuletech/shule/core/user"
)

type payrollApi struct {
	svc payroll.ServiceInterface
}

func registerPayrollAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc payroll.ServiceInterface) {
	api := payrollApi{svc: svc}

	// payroll is the owner's and bursar's business
	pg := g.Group("/payroll/staff/:id", jwt,
		adminMiddleware(user.RoleAdminBursar, user.RoleAdminOwner, user.RoleAdminPrincipal))

	pg.PUT("/salary-structure", api.setSalaryStructure)
	pg.GET("/salary-structure", api.getSalaryStructure)
	pg.GET("/payslips/:period", api.payslip)
	pg.POST("/payslips/:period/send", api.sendPayslip)
	pg.POST("/advances", api.recordAdvance)
	pg.POST("/repayments", api.recordRepayment)
	pg.GET("/statement", api.statement)
}

// Handlers

func (api *payrollApi) setSalaryStructure(ctx echo.Context) error {
	var data payroll.NewSalaryStructure
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSalaryStructure")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	ss, err := api.svc.SetSalaryStructure(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "setting salary structure")
	}
	return ctx.JSON(http.StatusOK, ss)
}

func (api *payrollApi) getSalaryStructure(ctx echo.Context) error {
	ss, err := api.svc.GetSalaryStructure(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapNotFoundErr(err, payroll.ErrStructureNotFound)
	}
	return ctx.JSON(http.StatusOK, ss)
}

func (api *payrollApi) payslip(ctx echo.Context) error {
	slip, err := api.svc.GeneratePayslip(ctx.Request().Context(), ctx.Param("id"), ctx.Param("period"))
	if err != nil {
		return trapNotFoundErr(err, payroll.ErrStructureNotFound)
	}
	return ctx.JSON(http.StatusOK, slip)
}

func (api *payrollApi) sendPayslip(ctx echo.Context) error {
	if err := api.svc.SendPayslip(ctx.Request().Context(), ctx.Param("id"), ctx.Param("period")); err != nil {
		return trapNotFoundErr(err, payroll.ErrStructureNotFound, user.ErrNotFound)
	}
	return ctx.JSON(http.StatusOK, SuccessResponse{Success: "Payslip sent."})
}

func (api *payrollApi) recordAdvance(ctx echo.Context) error {
	var data finance.NewTransaction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tx, err := api.svc.RecordAdvance(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "recording advance")
	}
	return ctx.JSON(http.StatusCreated, tx)
}

func (api *payrollApi) recordRepayment(ctx echo.Context) error {
	var data finance.NewTransaction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tx, err := api.svc.RecordRepayment(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "recording repayment")
	}
	return ctx.JSON(http.StatusCreated, tx)
}

func (api *payrollApi) statement(ctx echo.Context) error {
	lines, err := api.svc.Statement(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building statement")
	}
	if lines == nil {
		lines = []finance.StatementLine{}
	}
	return ctx.JSON(http.StatusOK, lines)
}
