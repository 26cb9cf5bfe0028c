package echoweb

import (
	"github.com/labstack/echo/v4"

	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/services/backend"
)

// itemTexts are the notifications of a list screen.
type itemTexts struct {
	readFailed   string
	added        string
	addFailed    string
	removed      string
	removeFailed string
	updated      string
	updateFailed string
}

// listItems fetches and sorts the items of a list screen.
// On failure the list is empty; loggedOut reports that the failure ended the session.
func listItems[T any](s *Server, ctx echo.Context, b *browser, res *backend.Resource[T], fields content.Comparators[T], txt itemTexts) (items []T, loggedOut bool) {
	items, err := res.List(ctx.Request().Context())
	if err != nil {
		return nil, s.fail(ctx, b, err, txt.readFailed)
	}
	var ord Ordering
	ord.Bind(ctx)
	content.Sort(items, ord.Orderings, fields)
	return items, false
}

func createItem[T any](s *Server, ctx echo.Context, b *browser, res *backend.Resource[T], body backend.Body, txt itemTexts) bool {
	if err := res.Create(ctx.Request().Context(), body); err != nil {
		s.fail(ctx, b, err, txt.addFailed)
		return false
	}
	b.notices.Success(txt.added)
	return true
}

// updateItem replaces item `id`; the list is re-fetched by the next page load.
func updateItem[T any](s *Server, ctx echo.Context, b *browser, res *backend.Resource[T], id string, body backend.Body, txt itemTexts) {
	if id == "" {
		b.notices.Error(txt.updateFailed)
		return
	}
	if _, err := res.Update(ctx.Request().Context(), id, body); err != nil {
		s.fail(ctx, b, err, txt.updateFailed)
		return
	}
	b.notices.Success(txt.updated)
}

// removeItem deletes item `id`; it stays listed unless the backend answered 204.
func removeItem[T any](s *Server, ctx echo.Context, b *browser, res *backend.Resource[T], id string, txt itemTexts) {
	if id == "" {
		b.notices.Error(txt.removeFailed)
		return
	}
	if _, err := res.Delete(ctx.Request().Context(), id); err != nil {
		s.fail(ctx, b, err, txt.removeFailed)
		return
	}
	b.notices.Success(txt.removed)
}
