package echoapi

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"

	"github.com/kmande/chuo/core"
	"github.com/kmande/chuo/core/session"
	"github.com/kmande/chuo/core/user"
)

// sessionFromRequest rebuilds the session state from the bearer token.
// A missing, expired or otherwise invalid token is treated the same as no
// session at all; it is never an error by itself.
func sessionFromRequest(ctx echo.Context, conf *core.Config) *session.Session {
	auth := ctx.Request().Header.Get(echo.HeaderAuthorization)
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return nil
	}

	claims := new(Claims)
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(auth, prefix), claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(conf.SecretKey), nil
	})
	if err != nil || !token.Valid {
		return nil
	}

	sess := claims.Session()
	if !sess.Valid() {
		return nil
	}
	ctx.Set(contextTokenKey, claims)
	return &sess
}

// guard gates a route on the caller's role. Unauthenticated callers are
// redirected to the auth entry view with the requested route as `next`;
// authenticated callers of the wrong role are redirected to their own
// role's home. An empty role list admits any authenticated caller.
func guard(conf *core.Config, allowedRoles ...user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			sess := sessionFromRequest(ctx, conf)

			decision := session.Decide(false, sess, allowedRoles...)
			if decision.Authorized() {
				return next(ctx)
			}

			redirect := decision.Redirect
			if decision.State == session.StateUnauthenticated {
				redirect += "?next=" + url.QueryEscape(ctx.Request().RequestURI)
			}
			return ctx.Redirect(http.StatusFound, redirect)
		}
	}
}

// adminMiddleware admits admins only; it runs behind the JWT middleware and
// rejects with 403 rather than redirecting, for the management endpoints.
func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return err
			}
			if user.Role(claims.Role) == user.RoleAdmin {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}
