package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/event"
	"github.com/kmande/chuo/core/user"
)

type eventApi struct {
	deps ServerDeps
}

func registerEventAPI(g *echo.Group, _ echo.MiddlewareFunc, deps ServerDeps) {
	api := eventApi{deps: deps}

	eg := g.Group("/events")

	// reads are public
	eg.GET("", api.query)
	eg.GET("/:id", api.retrieve)

	// only faculty and admins host events
	eg.POST("", api.create, guard(deps.Conf, user.RoleFaculty, user.RoleAdmin))
	// any authenticated member can RSVP
	eg.PUT("/:id/rsvp", api.rsvp, guard(deps.Conf))
}

func (api *eventApi) query(ctx echo.Context) error {
	events, err := api.deps.EventSvc.QueryAll(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying events")
	}
	if events == nil {
		events = []event.Event{}
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) retrieve(ctx echo.Context) error {
	evt, err := api.deps.EventSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting event")
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) create(ctx echo.Context) error {
	var data event.NewEvent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEvent")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	creator, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	evt, err := api.deps.EventSvc.Create(ctx.Request().Context(), data, creator)
	if err != nil {
		return errors.Wrap(err, "creating event")
	}
	return ctx.JSON(http.StatusCreated, evt)
}

func (api *eventApi) rsvp(ctx echo.Context) error {
	var data event.NewRSVP
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRSVP")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	usr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	rsvp, err := api.deps.EventSvc.RSVP(ctx.Request().Context(), ctx.Param("id"), usr, data.Status)
	if err != nil {
		if errors.Cause(err) == event.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "saving RSVP")
	}
	return ctx.JSON(http.StatusOK, rsvp)
}
