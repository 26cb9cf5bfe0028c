package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/core/route"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/services/backend"
)

var blogTexts = itemTexts{
	readFailed:   "Error while reading the blogs.",
	added:        "Blog added successfully.",
	addFailed:    "Error adding blog.",
	removed:      "Blog removed.",
	removeFailed: "Error occurred while removing the blog.",
	updated:      "Blog updated successfully",
	updateFailed: "Error occurred while updating the blog.",
}

type blogScreens struct {
	s *Server
}

type blogListView struct {
	Blogs []content.Blog
}

func registerBlogScreens(s *Server) {
	screens := blogScreens{s: s}

	s.wizardScreen(&wizardForm{
		screen: route.ScreenBlogAdd,
		steps:  content.BlogSteps,
		fields: map[int][]string{
			1: {"title", "description"},
			2: {"content"},
			3: {"readtime", "tags"},
		},
		files:  []string{"image"},
		submit: screens.submit,
	})
	s.screen(route.ScreenBlogList, screens.list, screens.act)
}

func (screens blogScreens) submit(ctx echo.Context, b *browser, dr *draft, prof session.Profile) error {
	nb := content.NewBlog{
		Title:       dr.values.Get("title"),
		Description: dr.values.Get("description"),
		Content:     dr.values.Get("content"),
		Readtime:    dr.values.Get("readtime"),
		Tags:        lines(dr.values, "tags"),
		Creator:     content.CreatorOf(prof),
	}
	image, _, hasImage := b.previews.Get(slot(route.ScreenBlogAdd, "image"))
	if f := nb.Plan(screens.s.validate, hasImage).Validate(dr.wizard); f != nil {
		b.notices.Error(f.Message)
		return nil
	}

	res := b.client.Blogs(prof.ID)
	if createItem(screens.s, ctx, b, res, backend.NewBlogForm(nb, image), blogTexts) {
		b.resetDraft(route.ScreenBlogAdd)
	}
	return nil
}

func (screens blogScreens) list(ctx echo.Context, b *browser, d route.Decision) error {
	prof, _ := b.store.Profile()
	blogs, loggedOut := listItems(screens.s, ctx, b, b.client.Blogs(prof.ID), content.BlogFields, blogTexts)
	if loggedOut {
		return reload(ctx)
	}
	return screens.s.render(ctx, b, http.StatusOK, d, blogListView{Blogs: blogs})
}

func (screens blogScreens) act(ctx echo.Context, b *browser, _ route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	prof, _ := b.store.Profile()
	res := b.client.Blogs(prof.ID)
	id := vals.Get("id")

	switch vals.Get("action") {
	case "delete":
		removeItem(screens.s, ctx, b, res, id, blogTexts)
	case "update":
		ub := content.UpdateBlog{
			Title:       vals.Get("title"),
			Description: vals.Get("description"),
			Content:     vals.Get("content"),
			Readtime:    vals.Get("readtime"),
			Tags:        lines(vals, "tags"),
		}
		if err = ub.Validate(screens.s.validate); err != nil {
			if !screens.s.invalid(b, err) {
				return err
			}
			break
		}
		image, err := optionalFile(ctx, "image")
		if err != nil {
			return err
		}
		updateItem(screens.s, ctx, b, res, id, backend.UpdateBlogForm(ub, image), blogTexts)
	default:
		return errUnexpectedAction
	}
	return reload(ctx)
}
