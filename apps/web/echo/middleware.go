package echoweb

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/route"
	"github.com/eduport/admin/core/session"
)

// screenHandler handles a screen the route guard granted.
type screenHandler func(ctx echo.Context, b *browser, d route.Decision) error

// pattern returns the route pattern of `screen`.
func pattern(screen route.Screen) string {
	for _, r := range route.Routes {
		if r.Screen == screen {
			return r.Pattern
		}
	}
	panic("no route for screen " + string(screen))
}

// screen registers the GET and POST handlers of `screen` behind the route guard.
func (s *Server) screen(screen route.Screen, get, post screenHandler) {
	p := pattern(screen)
	s.app.GET(p, s.guard(screen, "", get))
	if post != nil {
		s.app.POST(p, s.guard(screen, "", post))
	}
}

// guard only calls `h` when the route guard grants `screen`; it renders the guard decision otherwise.
// The decision is made on the request path, or on `path` when set.
func (s *Server) guard(screen route.Screen, path string, h screenHandler) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		b, err := getContextBrowser(ctx)
		if err != nil {
			return err
		}
		d := s.resolve(ctx, b, path)
		if !d.Granted(screen) {
			return s.renderDecision(ctx, b, d)
		}
		return h(ctx, b, d)
	}
}

func (s *Server) resolve(ctx echo.Context, b *browser, path string) route.Decision {
	if path == "" {
		path = ctx.Request().URL.Path
	}
	return route.Resolve(path, b.store.Snapshot())
}

// renderDecision renders a screen replacing the requested one (sign in, loading, not found).
func (s *Server) renderDecision(ctx echo.Context, b *browser, d route.Decision) error {
	switch d.Screen {
	case route.ScreenNotFound:
		return s.render(ctx, b, http.StatusNotFound, d, nil)
	case route.ScreenSignIn:
		return s.render(ctx, b, http.StatusOK, d, signInView{Next: ctx.Request().URL.RequestURI()})
	case route.ScreenLoading:
		ctx.Response().Header().Set("Refresh", "1")
		return s.render(ctx, b, http.StatusOK, d, nil)
	}
	return s.render(ctx, b, http.StatusOK, d, nil)
}

// fail reports a failed backend call with `msg`.
// A 401 re-runs the session refresh instead, which notifies the expiry once;
// it returns true when the browser ended up logged out.
func (s *Server) fail(ctx echo.Context, b *browser, err error, msg string) bool {
	if errors.Cause(err) == core.ErrUnauthorized {
		if prof := b.store.Refresh(ctx.Request().Context()); prof != nil {
			b.notices.Error(msg)
			return false
		}
		return true
	}
	b.notices.Error(msg)

	var prof *session.Profile
	if p, ok := b.store.Profile(); ok {
		prof = &p
	}
	s.logger.Warn(msg, err, prof)
	return false
}

// reload redirects to the current page (Post/Redirect/Get).
func reload(ctx echo.Context) error {
	return ctx.Redirect(http.StatusSeeOther, ctx.Request().URL.RequestURI())
}

// invalid notifies the first validation message of `err`; it returns false for other errors.
func (s *Server) invalid(b *browser, err error) bool {
	switch origErr := errors.Cause(err).(type) {
	case validator.ValidationErrors:
		if len(origErr) > 0 {
			b.notices.Error(origErr[0].Field() + ": " + origErr[0].Translate(s.translator))
		}
		return true
	case *core.ValidationError:
		b.notices.Error(origErr.Error())
		return true
	}
	return false
}

// safeNext only allows redirections to a local path.
func safeNext(next, fallback string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	return next
}
