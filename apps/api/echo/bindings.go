package echoapi

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kmande/chuo/core"
)

const orderingParam = "ordering"

// Ordering binds the "ordering" query param: comma-separated field names,
// "-" prefix for descending, e.g. ?ordering=-created_at,name.
type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	raw := ctx.QueryParam(orderingParam)
	if raw == "" {
		return
	}
	for _, field := range strings.Split(raw, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		asc := true
		if trimmed := strings.TrimPrefix(field, "-"); trimmed != field {
			field, asc = trimmed, false
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: asc})
	}
}
