// Package route gates the admin screens behind the session status.
package route

import (
	"strings"

	"github.com/eduport/admin/core/session"
)

type Screen string

const (
	ScreenHome          Screen = "home"
	ScreenSignIn        Screen = "signin"
	ScreenSignUp        Screen = "signup"
	ScreenResetPassword Screen = "reset-password"
	ScreenVerifyEmail   Screen = "verify-email"
	ScreenProfile       Screen = "profile"
	ScreenCalendar      Screen = "calendar"
	ScreenCourseAdd     Screen = "course-add"
	ScreenCourseList    Screen = "course-list"
	ScreenCourseBuys    Screen = "course-buys"
	ScreenNotesAdd      Screen = "notes-add"
	ScreenNotesList     Screen = "notes-list"
	ScreenBlogAdd       Screen = "blog-add"
	ScreenBlogList      Screen = "blog-list"
	ScreenCategoryAdd   Screen = "category-add"
	ScreenCategoryList  Screen = "category-list"
	ScreenSectionList   Screen = "sectionlist"
	ScreenPageList      Screen = "tutpagelist"
	ScreenNotFound      Screen = "not-found"
	ScreenLoading       Screen = "loading"
)

type Route struct {
	Pattern   string
	Screen    Screen
	Protected bool
}

// Routes is the routing surface of the admin.
var Routes = []Route{
	{Pattern: "/", Screen: ScreenHome},
	{Pattern: "/signin", Screen: ScreenSignIn},
	{Pattern: "/signup", Screen: ScreenSignUp},
	{Pattern: "/reset-password", Screen: ScreenResetPassword},
	{Pattern: "/verify-email", Screen: ScreenVerifyEmail},

	{Pattern: "/profile", Screen: ScreenProfile, Protected: true},
	{Pattern: "/calendar", Screen: ScreenCalendar, Protected: true},
	{Pattern: "/course-add", Screen: ScreenCourseAdd, Protected: true},
	{Pattern: "/course-list", Screen: ScreenCourseList, Protected: true},
	{Pattern: "/course-buys", Screen: ScreenCourseBuys, Protected: true},
	{Pattern: "/notes-add", Screen: ScreenNotesAdd, Protected: true},
	{Pattern: "/notes-list", Screen: ScreenNotesList, Protected: true},
	{Pattern: "/blog-add", Screen: ScreenBlogAdd, Protected: true},
	{Pattern: "/blog-list", Screen: ScreenBlogList, Protected: true},
	{Pattern: "/category-add", Screen: ScreenCategoryAdd, Protected: true},
	{Pattern: "/category-list", Screen: ScreenCategoryList, Protected: true},
	{Pattern: "/sectionlist/:categoryId", Screen: ScreenSectionList, Protected: true},
	{Pattern: "/tutpagelist/:categoryId/:sectionId", Screen: ScreenPageList, Protected: true},
}

// Decision is what to render for a path.
type Decision struct {
	Screen    Screen
	Params    map[string]string
	Protected bool // rendered within the authenticated layout
}

// Granted reports whether the requested screen itself is rendered.
func (d Decision) Granted(target Screen) bool {
	return d.Screen == target
}

// Match finds the route matching `path`.
func Match(path string) (Route, map[string]string, bool) {
	segs := split(path)
	for _, r := range Routes {
		if params, ok := matchSegments(split(r.Pattern), segs); ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

// Resolve decides what to render for `path` given the session state.
// Protected paths render the sign in screen in place (the URL is kept) when logged out,
// and a neutral loading screen while the status is not known yet.
func Resolve(path string, state session.State) Decision {
	r, params, ok := Match(path)
	if !ok {
		return Decision{Screen: ScreenNotFound}
	}
	if !r.Protected {
		return Decision{Screen: r.Screen, Params: params}
	}
	switch {
	case state.LoggedIn && state.Profile != nil:
		return Decision{Screen: r.Screen, Params: params, Protected: true}
	case state.Loading:
		return Decision{Screen: ScreenLoading, Params: params}
	default:
		return Decision{Screen: ScreenSignIn, Params: params}
	}
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func matchSegments(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	var params map[string]string
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			if segs[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string)
			}
			params[p[1:]] = segs[i]
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
