package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/notice"
	"github.com/kmande/chuo/core/user"
)

type noticeApi struct {
	deps ServerDeps
}

func registerNoticeAPI(g *echo.Group, _ echo.MiddlewareFunc, deps ServerDeps) {
	api := noticeApi{deps: deps}

	ng := g.Group("/notices")

	// reads are public
	ng.GET("", api.query)
	ng.GET("/:id", api.retrieve)

	// only admins publish on the notice board
	ng.POST("", api.create, guard(deps.Conf, user.RoleAdmin))
}

func (api *noticeApi) query(ctx echo.Context) error {
	category := core.CleanString(ctx.QueryParam("category"))

	notices, err := api.deps.NoticeSvc.Query(ctx.Request().Context(), category)
	if err != nil {
		return errors.Wrap(err, "querying notices")
	}
	if notices == nil {
		notices = []notice.Notice{}
	}
	return ctx.JSON(http.StatusOK, notices)
}

func (api *noticeApi) retrieve(ctx echo.Context) error {
	ntc, err := api.deps.NoticeSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == notice.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting notice")
	}
	return ctx.JSON(http.StatusOK, ntc)
}

func (api *noticeApi) create(ctx echo.Context) error {
	var data notice.NewNotice
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewNotice")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	author, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	ntc, err := api.deps.NoticeSvc.Create(ctx.Request().Context(), data, author)
	if err != nil {
		return errors.Wrap(err, "creating notice")
	}
	return ctx.JSON(http.StatusCreated, ntc)
}
