package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/shuletech/shule/core/school"
)

type schoolApi struct {
	svc school.ServiceInterface
}

func registerSchoolAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc school.ServiceInterface) {
	api := schoolApi{svc: svc}

	sg := g.Group("/school")

	// the micro-site is public; edits require an admin token
	sg.GET("/site", api.site)

	ag := sg.Group("", jwt, adminMiddleware())
	ag.PUT("/profile", api.updateProfile)
	ag.POST("/sections", api.createSection)
	ag.PUT("/sections/:id", api.updateSection)
	ag.DELETE("/sections/:id", api.destroySection)
	ag.POST("/announcements", api.postAnnouncement)
	ag.DELETE("/announcements/:id", api.destroyAnnouncement)
	ag.GET("/stats", api.stats)
}

// Handlers

func (api *schoolApi) site(ctx echo.Context) error {
	site, err := api.svc.Site(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "assembling site")
	}
	return ctx.JSON(http.StatusOK, site)
}

func (api *schoolApi) updateProfile(ctx echo.Context) error {
	var data school.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	profile, err := api.svc.UpdateProfile(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, profile)
}

func (api *schoolApi) createSection(ctx echo.Context) error {
	var data school.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	section, err := api.svc.UpsertSection(ctx.Request().Context(), "", data)
	if err != nil {
		return errors.Wrap(err, "creating section")
	}
	return ctx.JSON(http.StatusCreated, section)
}

func (api *schoolApi) updateSection(ctx echo.Context) error {
	var data school.NewSection
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSection")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	section, err := api.svc.UpsertSection(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(err, "updating section")
	}
	return ctx.JSON(http.StatusOK, section)
}

func (api *schoolApi) destroySection(ctx echo.Context) error {
	if err := api.svc.DeleteSection(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return trapNotFoundErr(err, school.ErrSectionNotFound)
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *schoolApi) postAnnouncement(ctx echo.Context) error {
	var data school.NewAnnouncement
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAnnouncement")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	announcement, err := api.svc.PostAnnouncement(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "posting announcement")
	}
	return ctx.JSON(http.StatusCreated, announcement)
}

func (api *schoolApi) destroyAnnouncement(ctx echo.Context) error {
	if err := api.svc.DeleteAnnouncement(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return trapNotFoundErr(err, school.ErrAnnouncementNotFound)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// stats recomputes dashboard figures from the source records on each call.
func (api *schoolApi) stats(ctx echo.Context) error {
	stats, err := api.svc.Stats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
