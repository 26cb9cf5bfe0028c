package echoweb

import (
	"embed"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduport/admin/core/notify"
	"github.com/eduport/admin/core/route"
	"github.com/eduport/admin/core/session"
)

//go:embed templates
var templatesFS embed.FS

var titles = map[route.Screen]string{
	route.ScreenHome:          "Dashboard",
	route.ScreenSignIn:        "Sign In",
	route.ScreenSignUp:        "Sign Up",
	route.ScreenResetPassword: "Reset Password",
	route.ScreenVerifyEmail:   "Verify Email",
	route.ScreenProfile:       "Profile",
	route.ScreenCalendar:      "Calendar",
	route.ScreenCourseAdd:     "Add Course",
	route.ScreenCourseList:    "Courses",
	route.ScreenCourseBuys:    "Course Purchases",
	route.ScreenNotesAdd:      "Add Note",
	route.ScreenNotesList:     "Notes",
	route.ScreenBlogAdd:       "Add Blog",
	route.ScreenBlogList:      "Blogs",
	route.ScreenCategoryAdd:   "Add Category",
	route.ScreenCategoryList:  "Categories",
	route.ScreenSectionList:   "Sections",
	route.ScreenPageList:      "Tutorial Pages",
	route.ScreenNotFound:      "Page Not Found",
	route.ScreenLoading:       "Loading",
}

// page is the data handed to every template.
type page struct {
	Title   string
	Screen  route.Screen
	Path    string
	Layout  bool // authenticated layout
	Profile *session.Profile
	Flashes []notify.Notification
	Data    interface{}
}

type templateRenderer struct {
	templates map[string]*template.Template
}

var _ echo.Renderer = (*templateRenderer)(nil)

var templateFuncs = template.FuncMap{
	"has": func(vals []string, v string) bool {
		for _, val := range vals {
			if val == v {
				return true
			}
		}
		return false
	},
	"join": strings.Join,
	"money": func(f float64) string {
		return formatAmount(f)
	},
	"query": url.QueryEscape,
}

// newTemplateRenderer parses every page template along with the layout.
func newTemplateRenderer() (*templateRenderer, error) {
	pages, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "listing templates")
	}
	r := &templateRenderer{templates: make(map[string]*template.Template, len(pages))}
	for _, p := range pages {
		name := strings.TrimSuffix(path.Base(p), ".html")
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templatesFS, "templates/layout.html", p)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing %s", p)
		}
		r.templates[name] = t
	}
	return r, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.templates[name]
	if !ok {
		return errors.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// render renders the screen of `d` and drains the pending notifications of `b` into it.
func (s *Server) render(ctx echo.Context, b *browser, code int, d route.Decision, data interface{}) error {
	st := b.store.Snapshot()
	return ctx.Render(code, string(d.Screen), page{
		Title:   titles[d.Screen],
		Screen:  d.Screen,
		Path:    ctx.Request().URL.Path,
		Layout:  d.Protected,
		Profile: st.Profile,
		Flashes: b.notices.Drain(),
		Data:    data,
	})
}
