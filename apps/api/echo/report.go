package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core"
	"github.com/shuletech/shule/core/report"
)

type reportApi struct {
	svc report.ServiceInterface
}

func registerReportAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc report.ServiceInterface) {
	api := reportApi{svc: svc}

	rg := g.Group("/reports", jwt)

	// weighting schemes are an admin concern; teachers record scores
	rg.PUT("/weight-configs", api.setWeightConfig, adminMiddleware())
	rg.GET("/weight-configs", api.getWeightConfig, staffMiddleware())
	rg.POST("/scores", api.recordScore, staffMiddleware())
	rg.GET("/students/:id/scores", api.studentScores, staffMiddleware())
}

// Handlers

func (api *reportApi) setWeightConfig(ctx echo.Context) error {
	var data report.NewWeightConfig
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewWeightConfig")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	cfg, err := api.svc.SetWeightConfig(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "saving weight config")
	}
	return ctx.JSON(http.StatusOK, cfg)
}

func (api *reportApi) getWeightConfig(ctx echo.Context) error {
	grade, err := strconv.Atoi(ctx.QueryParam("grade"))
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "grade", Error: "a valid grade is required"})
	}

	cfg, err := api.svc.GetWeightConfig(ctx.Request().Context(), grade, ctx.QueryParam("term"))
	if err != nil {
		return trapNotFoundErr(err, report.ErrConfigNotFound)
	}
	return ctx.JSON(http.StatusOK, cfg)
}

func (api *reportApi) recordScore(ctx echo.Context) error {
	var data report.NewScore
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewScore")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	score, err := api.svc.RecordScore(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "recording score")
	}
	return ctx.JSON(http.StatusCreated, score)
}

func (api *reportApi) studentScores(ctx echo.Context) error {
	scores, err := api.svc.StudentScores(ctx.Request().Context(), ctx.Param("id"), ctx.QueryParam("term"))
	if err != nil {
		return errors.Wrap(err, "querying scores")
	}
	if scores == nil {
		scores = []report.Score{}
	}
	return ctx.JSON(http.StatusOK, scores)
}
