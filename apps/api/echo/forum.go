package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/forum"
)

type forumApi struct {
	deps ServerDeps
}

func registerForumAPI(g *echo.Group, _ echo.MiddlewareFunc, deps ServerDeps) {
	api := forumApi{deps: deps}

	fg := g.Group("/forum/posts")

	// reads are public
	fg.GET("", api.query)
	fg.GET("/:id", api.retrieve)

	// any authenticated member can post, reply and vote
	fg.POST("", api.create, guard(deps.Conf))
	fg.POST("/:id/comments", api.comment, guard(deps.Conf))
	fg.POST("/:id/vote", api.vote, guard(deps.Conf))
}

func (api *forumApi) query(ctx echo.Context) error {
	category := core.CleanString(ctx.QueryParam("category"))

	posts, err := api.deps.ForumSvc.Query(ctx.Request().Context(), category)
	if err != nil {
		return errors.Wrap(err, "querying posts")
	}
	if posts == nil {
		posts = []forum.Post{}
	}
	return ctx.JSON(http.StatusOK, posts)
}

// retrieve counts a view; the post comes back with its comment tree.
func (api *forumApi) retrieve(ctx echo.Context) error {
	post, err := api.deps.ForumSvc.GetByID(ctx.Request().Context(), ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == forum.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting post")
	}
	return ctx.JSON(http.StatusOK, post)
}

func (api *forumApi) create(ctx echo.Context) error {
	var data forum.NewPost
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewPost")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	author, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	post, err := api.deps.ForumSvc.CreatePost(ctx.Request().Context(), data, author)
	if err != nil {
		return errors.Wrap(err, "creating post")
	}
	return ctx.JSON(http.StatusCreated, post)
}

func (api *forumApi) comment(ctx echo.Context) error {
	var data forum.NewComment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewComment")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	author, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}

	cmt, err := api.deps.ForumSvc.Comment(ctx.Request().Context(), ctx.Param("id"), data, author)
	if err != nil {
		switch errors.Cause(err) {
		case forum.ErrNotFound:
			return errHttpNotFound
		case forum.ErrParentNotFound:
			return core.NewValidationError(nil, core.FieldError{Field: "parent_id", Error: "parent comment not found"})
		}
		return errors.Wrap(err, "creating comment")
	}
	return ctx.JSON(http.StatusCreated, cmt)
}

func (api *forumApi) vote(ctx echo.Context) error {
	var data forum.NewVote
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVote")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	post, err := api.deps.ForumSvc.Vote(ctx.Request().Context(), ctx.Param("id"), data.Type)
	if err != nil {
		if errors.Cause(err) == forum.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "recording vote")
	}
	return ctx.JSON(http.StatusOK, post)
}
