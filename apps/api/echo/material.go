package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/material"
)

type materialApi struct {
	deps ServerDeps
}

func registerMaterialAPI(g *echo.Group, _ echo.MiddlewareFunc, deps ServerDeps) {
	api := materialApi{deps: deps}

	mg := g.Group("/materials")

	// reads are public
	mg.GET("", api.query)
	mg.GET("/:id", api.retrieve)

	// any authenticated member can share materials
	mg.POST("", api.create, guard(deps.Conf))
	mg.POST("/:id/download", api.download, guard(deps.Conf))
}

func (api *materialApi) query(ctx echo.Context) error {
	filter := new(material.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []material.Material{})
	}
	filter.Clean()

	mats, err := api.deps.MaterialSvc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying materials")
	}
	if mats == nil {
		mats = []material.Material{}
	}
	return ctx.JSON(http.StatusOK, mats)
}

func (api *materialApi) retrieve(ctx echo.Context) error {
	mat, err := api.deps.MaterialSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == material.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting material")
	}
	return ctx.JSON(http.StatusOK, mat)
}

func (api *materialApi) create(ctx echo.Context) error {
	var data material.NewMaterial
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMaterial")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	uploader, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	mat, err := api.deps.MaterialSvc.Upload(ctx.Request().Context(), data, uploader)
	if err != nil {
		return errors.Wrap(err, "uploading material")
	}
	return ctx.JSON(http.StatusCreated, mat)
}

func (api *materialApi) download(ctx echo.Context) error {
	mat, err := api.deps.MaterialSvc.RecordDownload(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == material.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recording download")
	}
	return ctx.JSON(http.StatusOK, mat)
}
