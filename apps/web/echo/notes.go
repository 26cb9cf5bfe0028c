package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/core/route"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/services/backend"
)

var noteTexts = itemTexts{
	readFailed:   "Error while reading the notes.",
	added:        "Notes added successfully.",
	addFailed:    "Error adding note.",
	removed:      "Notes removed.",
	removeFailed: "Error occurred while removing the notes.",
	updated:      "Notes updated successfully",
	updateFailed: "Error occurred while updating the notes.",
}

type noteScreens struct {
	s *Server
}

type noteListView struct {
	Notes      []content.Note
	Categories []string
}

func registerNoteScreens(s *Server) {
	screens := noteScreens{s: s}

	s.wizardScreen(&wizardForm{
		screen: route.ScreenNotesAdd,
		steps:  content.NoteSteps,
		fields: map[int][]string{
			1: {"title", "category"},
			2: {"language"},
		},
		files:   []string{"image", "pdf"},
		options: map[string][]string{"categories": content.NoteCategories},
		submit:  screens.submit,
	})
	s.screen(route.ScreenNotesList, screens.list, screens.act)
}

func (screens noteScreens) submit(ctx echo.Context, b *browser, dr *draft, prof session.Profile) error {
	nn := content.NewNote{
		Title:    dr.values.Get("title"),
		Category: dr.values.Get("category"),
		Language: dr.values.Get("language"),
		Creator:  content.CreatorOf(prof),
	}
	image, _, hasImage := b.previews.Get(slot(route.ScreenNotesAdd, "image"))
	pdf, _, hasPdf := b.previews.Get(slot(route.ScreenNotesAdd, "pdf"))
	if f := nn.Plan(screens.s.validate, hasImage, hasPdf).Validate(dr.wizard); f != nil {
		b.notices.Error(f.Message)
		return nil
	}

	res := b.client.Notes(prof.ID)
	if createItem(screens.s, ctx, b, res, backend.NewNoteForm(nn, image, pdf), noteTexts) {
		b.resetDraft(route.ScreenNotesAdd)
	}
	return nil
}

func (screens noteScreens) list(ctx echo.Context, b *browser, d route.Decision) error {
	prof, _ := b.store.Profile()
	notes, loggedOut := listItems(screens.s, ctx, b, b.client.Notes(prof.ID), content.NoteFields, noteTexts)
	if loggedOut {
		return reload(ctx)
	}
	return screens.s.render(ctx, b, http.StatusOK, d, noteListView{Notes: notes, Categories: content.NoteCategories})
}

func (screens noteScreens) act(ctx echo.Context, b *browser, _ route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	prof, _ := b.store.Profile()
	res := b.client.Notes(prof.ID)
	id := vals.Get("id")

	switch vals.Get("action") {
	case "delete":
		removeItem(screens.s, ctx, b, res, id, noteTexts)
	case "update":
		un := content.UpdateNote{
			Title:    vals.Get("title"),
			Category: vals.Get("category"),
			Language: vals.Get("language"),
		}
		if err = un.Validate(screens.s.validate); err != nil {
			if !screens.s.invalid(b, err) {
				return err
			}
			break
		}
		image, err := optionalFile(ctx, "image")
		if err != nil {
			return err
		}
		pdf, err := optionalFile(ctx, "pdf")
		if err != nil {
			return err
		}
		updateItem(screens.s, ctx, b, res, id, backend.UpdateNoteForm(un, image, pdf), noteTexts)
	default:
		return errUnexpectedAction
	}
	return reload(ctx)
}
