package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core/finance"
	"github.com/shuletech/shule/core/user"
)

type financeApi struct {
	svc finance.ServiceInterface
}

func registerFinanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc finance.ServiceInterface) {
	api := financeApi{svc: svc}

	fg := g.Group("/fees", jwt)

	// ledger; money movements are restricted to the bursar's office
	ag := fg.Group("/accounts/:id", adminMiddleware(user.RoleAdminBursar, user.RoleAdminOwner, user.RoleAdminPrincipal))
	ag.POST("/charges", api.charge)
	ag.POST("/payments", api.recordPayment)
	fg.GET("/accounts/:id/statement", api.statement, staffMiddleware())
	fg.DELETE("/transactions/:id", api.void, adminMiddleware(user.RoleAdminBursar, user.RoleAdminOwner, user.RoleAdminPrincipal))

	// requirements
	rg := fg.Group("/requirements")
	rg.POST("", api.createRequirement, adminMiddleware())
	rg.GET("", api.queryRequirements, staffMiddleware())
	rg.GET("/:id", api.retrieveRequirement, staffMiddleware())

	sg := rg.Group("/:id/students/:studentID")
	sg.POST("/contributions", api.contribute, adminMiddleware())
	sg.POST("/exemption", api.exempt, adminMiddleware())
	sg.GET("/settlement", api.settlement, staffMiddleware())
}

// Handlers

func (api *financeApi) charge(ctx echo.Context) error {
	var data finance.NewTransaction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tx, err := api.svc.Charge(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "recording charge")
	}
	return ctx.JSON(http.StatusCreated, tx)
}

func (api *financeApi) recordPayment(ctx echo.Context) error {
	var data finance.NewTransaction
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTransaction")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	tx, err := api.svc.RecordPayment(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "recording payment")
	}
	return ctx.JSON(http.StatusCreated, tx)
}

func (api *financeApi) statement(ctx echo.Context) error {
	lines, err := api.svc.Statement(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return errors.Wrap(err, "building statement")
	}
	if lines == nil {
		lines = []finance.StatementLine{}
	}
	return ctx.JSON(http.StatusOK, lines)
}

func (api *financeApi) void(ctx echo.Context) error {
	if err := api.svc.Void(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return trapNotFoundErr(err, finance.ErrTransactionNotFound)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *financeApi) createRequirement(ctx echo.Context) error {
	var data finance.NewRequirement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequirement")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	req, err := api.svc.CreateRequirement(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating requirement")
	}
	return ctx.JSON(http.StatusCreated, req)
}

func (api *financeApi) queryRequirements(ctx echo.Context) error {
	var filter finance.RequirementFilter
	if err := ctx.Bind(&filter); err != nil {
		return ctx.JSON(http.StatusOK, []finance.Requirement{})
	}

	reqs, err := api.svc.QueryRequirements(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying requirements")
	}
	if reqs == nil {
		reqs = []finance.Requirement{}
	}
	return ctx.JSON(http.StatusOK, reqs)
}

func (api *financeApi) retrieveRequirement(ctx echo.Context) error {
	req, err := api.svc.GetRequirement(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		return trapNotFoundErr(err, finance.ErrRequirementNotFound)
	}
	return ctx.JSON(http.StatusOK, req)
}

func (api *financeApi) contribute(ctx echo.Context) error {
	var data finance.NewContribution
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewContribution")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	settlement, err := api.svc.Contribute(ctx.Request().Context(), ctx.Param("id"), ctx.Param("studentID"), data)
	if err != nil {
		return trapNotFoundErr(err, finance.ErrRequirementNotFound)
	}
	return ctx.JSON(http.StatusCreated, settlement)
}

func (api *financeApi) exempt(ctx echo.Context) error {
	if err := api.svc.Exempt(ctx.Request().Context(), ctx.Param("id"), ctx.Param("studentID")); err != nil {
		return trapNotFoundErr(err, finance.ErrRequirementNotFound)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *financeApi) settlement(ctx echo.Context) error {
	settlement, err := api.svc.SettlementStatus(ctx.Request().Context(), ctx.Param("id"), ctx.Param("studentID"))
	if err != nil {
		return trapNotFoundErr(err, finance.ErrRequirementNotFound)
	}
	return ctx.JSON(http.StatusOK, settlement)
}
