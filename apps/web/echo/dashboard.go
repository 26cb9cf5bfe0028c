package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduport/admin/core/preview"
	"github.com/eduport/admin/core/route"
)

type dashboardScreens struct {
	s *Server
}

type homeView struct {
	LoggedIn bool
}

func registerDashboardScreens(s *Server) {
	screens := dashboardScreens{s: s}

	s.screen(route.ScreenHome, screens.home, nil)
	s.screen(route.ScreenProfile, screens.static, nil)
	s.screen(route.ScreenCalendar, screens.static, nil)

	s.app.GET("/previews/:handle", screens.preview)
}

func (screens dashboardScreens) home(ctx echo.Context, b *browser, d route.Decision) error {
	st := b.store.Snapshot()
	d.Protected = st.LoggedIn
	return screens.s.render(ctx, b, http.StatusOK, d, homeView{LoggedIn: st.LoggedIn})
}

func (screens dashboardScreens) static(ctx echo.Context, b *browser, d route.Decision) error {
	return screens.s.render(ctx, b, http.StatusOK, d, nil)
}

// preview serves a file uploaded to a form of the browser, until it is submitted or replaced.
func (screens dashboardScreens) preview(ctx echo.Context) error {
	b, err := getContextBrowser(ctx)
	if err != nil {
		return err
	}
	f, err := b.previews.Open(preview.Handle(ctx.Param("handle")))
	if err != nil {
		return errHttpNotFound
	}
	ctype := f.ContentType
	if ctype == "" {
		ctype = echo.MIMEOctetStream
	}
	ctx.Response().Header().Set("Cache-Control", "no-store")
	return ctx.Blob(http.StatusOK, ctype, f.Data)
}
