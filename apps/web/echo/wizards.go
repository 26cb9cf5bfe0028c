package echoweb

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eduport/admin/core/preview"
	"github.com/eduport/admin/core/route"
	"github.com/eduport/admin/core/session"
)

// wizardForm is a multi-step add form whose draft lives in the browser session.
type wizardForm struct {
	screen  route.Screen
	steps   int
	fields  map[int][]string // fields posted by each step
	files   []string         // upload slots
	options map[string][]string
	submit  func(ctx echo.Context, b *browser, dr *draft, prof session.Profile) error
}

type wizardView struct {
	Step     int
	Steps    int
	First    bool
	Last     bool
	Values   url.Values
	Previews map[string]preview.Handle
	Options  map[string][]string
}

func slot(screen route.Screen, name string) string {
	return string(screen) + "/" + name
}

func (s *Server) wizardScreen(wf *wizardForm) {
	s.screen(wf.screen, s.showWizard(wf), s.driveWizard(wf))
}

func (s *Server) showWizard(wf *wizardForm) screenHandler {
	return func(ctx echo.Context, b *browser, d route.Decision) error {
		b.draftsMu.Lock()
		dr := b.draftOf(wf.screen, wf.steps)
		view := wizardView{
			Step:     dr.wizard.Current,
			Steps:    dr.wizard.Steps,
			First:    dr.wizard.First(),
			Last:     dr.wizard.Last(),
			Values:   cloneValues(dr.values),
			Previews: make(map[string]preview.Handle, len(wf.files)),
			Options:  wf.options,
		}
		for _, name := range wf.files {
			if _, h, ok := b.previews.Get(slot(wf.screen, name)); ok {
				view.Previews[name] = h
			}
		}
		b.draftsMu.Unlock()

		return s.render(ctx, b, http.StatusOK, d, view)
	}
}

// driveWizard saves the posted step into the draft then applies the action:
// next / prev only move between steps, submit checks the whole draft before sending it.
func (s *Server) driveWizard(wf *wizardForm) screenHandler {
	return func(ctx echo.Context, b *browser, d route.Decision) error {
		vals, err := formValues(ctx)
		if err != nil {
			return err
		}

		b.draftsMu.Lock()
		defer b.draftsMu.Unlock()
		dr := b.draftOf(wf.screen, wf.steps)

		if step := integer(vals, "step"); step == dr.wizard.Current {
			for _, fld := range wf.fields[step] {
				if v, ok := vals[fld]; ok {
					dr.values[fld] = v
				} else {
					delete(dr.values, fld)
				}
			}
		}
		for _, name := range wf.files {
			f, ok, err := formFile(ctx, name)
			if err != nil {
				return err
			}
			if ok {
				b.previews.Replace(slot(wf.screen, name), f)
			}
		}

		switch vals.Get("action") {
		case "next":
			dr.wizard.Next()
		case "prev":
			dr.wizard.Prev()
		case "reset":
			b.resetDraft(wf.screen)
		case "submit":
			prof, ok := b.store.Profile()
			if !ok {
				break
			}
			if err := wf.submit(ctx, b, dr, prof); err != nil {
				return err
			}
		default:
			return errUnexpectedAction
		}
		return reload(ctx)
	}
}

func cloneValues(vals url.Values) url.Values {
	cp := make(url.Values, len(vals))
	for k, v := range vals {
		cp[k] = append([]string(nil), v...)
	}
	return cp
}
