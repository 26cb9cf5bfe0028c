package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/core/route"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/services/backend"
)

var (
	categoryTexts = itemTexts{
		readFailed:   "Error while reading the categories.",
		added:        "Category added successfully.",
		addFailed:    "Error adding Category.",
		removed:      "Category removed.",
		removeFailed: "Error occurred while removing the category.",
		updated:      "Category updated successfully",
		updateFailed: "Error occurred while updating the category.",
	}
	sectionTexts = itemTexts{
		readFailed:   "Error while reading the sections.",
		added:        "Section added.",
		addFailed:    "Could not add section.",
		removed:      "Section deleted.",
		removeFailed: "Could not delete section.",
		updated:      "Section updated.",
		updateFailed: "Could not update section.",
	}
	pageTexts = itemTexts{
		readFailed:   "Error while reading the pages.",
		added:        "Page added.",
		addFailed:    "Could not add page.",
		removed:      "Page deleted.",
		removeFailed: "Could not delete page.",
		updated:      "Page updated.",
		updateFailed: "Could not update page.",
	}
)

type categoryScreens struct {
	s *Server
}

type (
	categoryListView struct {
		Categories []content.Category
	}

	sectionListView struct {
		CategoryID string
		Sections   []content.Section
	}

	pageListView struct {
		CategoryID string
		SectionID  string
		Pages      []content.Page
	}
)

func registerCategoryScreens(s *Server) {
	screens := categoryScreens{s: s}

	s.wizardScreen(&wizardForm{
		screen: route.ScreenCategoryAdd,
		steps:  content.CategorySteps,
		fields: map[int][]string{1: {"title", "description"}},
		files:  []string{"image"},
		submit: screens.submit,
	})
	s.screen(route.ScreenCategoryList, screens.list, screens.act)
	s.screen(route.ScreenSectionList, screens.sections, screens.actOnSection)
	s.screen(route.ScreenPageList, screens.pages, screens.actOnPage)
}

func (screens categoryScreens) submit(ctx echo.Context, b *browser, dr *draft, prof session.Profile) error {
	nc := content.NewCategory{
		Title:       dr.values.Get("title"),
		Description: dr.values.Get("description"),
		Creator:     content.CreatorOf(prof),
	}
	image, _, hasImage := b.previews.Get(slot(route.ScreenCategoryAdd, "image"))
	if f := nc.Plan(screens.s.validate, hasImage).Validate(dr.wizard); f != nil {
		b.notices.Error(f.Message)
		return nil
	}

	res := b.client.Categories(prof.ID)
	if createItem(screens.s, ctx, b, res, backend.NewCategoryForm(nc, image), categoryTexts) {
		b.resetDraft(route.ScreenCategoryAdd)
	}
	return nil
}

func (screens categoryScreens) list(ctx echo.Context, b *browser, d route.Decision) error {
	prof, _ := b.store.Profile()
	categories, loggedOut := listItems(screens.s, ctx, b, b.client.Categories(prof.ID), content.CategoryFields, categoryTexts)
	if loggedOut {
		return reload(ctx)
	}
	return screens.s.render(ctx, b, http.StatusOK, d, categoryListView{Categories: categories})
}

func (screens categoryScreens) act(ctx echo.Context, b *browser, _ route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	prof, _ := b.store.Profile()
	res := b.client.Categories(prof.ID)
	id := vals.Get("id")

	switch vals.Get("action") {
	case "delete":
		removeItem(screens.s, ctx, b, res, id, categoryTexts)
	case "update":
		uc := content.UpdateCategory{
			Title:       vals.Get("title"),
			Description: vals.Get("description"),
		}
		if err = uc.Validate(screens.s.validate); err != nil {
			if !screens.s.invalid(b, err) {
				return err
			}
			break
		}
		image, err := optionalFile(ctx, "image")
		if err != nil {
			return err
		}
		updateItem(screens.s, ctx, b, res, id, backend.UpdateCategoryForm(uc, image), categoryTexts)
	default:
		return errUnexpectedAction
	}
	return reload(ctx)
}

func (screens categoryScreens) sections(ctx echo.Context, b *browser, d route.Decision) error {
	prof, _ := b.store.Profile()
	categoryID := d.Params["categoryId"]
	res := b.client.Sections(prof.ID, categoryID)
	sections, loggedOut := listItems(screens.s, ctx, b, res, content.Comparators[content.Section]{}, sectionTexts)
	if loggedOut {
		return reload(ctx)
	}
	return screens.s.render(ctx, b, http.StatusOK, d, sectionListView{CategoryID: categoryID, Sections: sections})
}

func (screens categoryScreens) actOnSection(ctx echo.Context, b *browser, d route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	prof, _ := b.store.Profile()
	res := b.client.Sections(prof.ID, d.Params["categoryId"])
	id := vals.Get("id")

	switch action := vals.Get("action"); action {
	case "delete":
		removeItem(screens.s, ctx, b, res, id, sectionTexts)
	case "add", "update":
		sr := content.SectionRequest{Title: vals.Get("title"), Creator: content.CreatorOf(prof)}
		if err = sr.Validate(screens.s.validate); err != nil {
			if !screens.s.invalid(b, err) {
				return err
			}
			break
		}
		if action == "add" {
			createItem(screens.s, ctx, b, res, backend.JSON(sr), sectionTexts)
		} else {
			updateItem(screens.s, ctx, b, res, id, backend.JSON(sr), sectionTexts)
		}
	default:
		return errUnexpectedAction
	}
	return reload(ctx)
}

func (screens categoryScreens) pages(ctx echo.Context, b *browser, d route.Decision) error {
	prof, _ := b.store.Profile()
	categoryID, sectionID := d.Params["categoryId"], d.Params["sectionId"]
	res := b.client.Pages(prof.ID, categoryID, sectionID)
	pages, loggedOut := listItems(screens.s, ctx, b, res, content.Comparators[content.Page]{}, pageTexts)
	if loggedOut {
		return reload(ctx)
	}
	return screens.s.render(ctx, b, http.StatusOK, d, pageListView{
		CategoryID: categoryID,
		SectionID:  sectionID,
		Pages:      pages,
	})
}

func (screens categoryScreens) actOnPage(ctx echo.Context, b *browser, d route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	prof, _ := b.store.Profile()
	res := b.client.Pages(prof.ID, d.Params["categoryId"], d.Params["sectionId"])
	id := vals.Get("id")

	switch action := vals.Get("action"); action {
	case "delete":
		removeItem(screens.s, ctx, b, res, id, pageTexts)
	case "add", "update":
		pr := content.PageRequest{
			Title:   vals.Get("title"),
			Content: vals.Get("content"),
			Creator: content.CreatorOf(prof),
		}
		if err = pr.Validate(screens.s.validate); err != nil {
			if !screens.s.invalid(b, err) {
				return err
			}
			break
		}
		if action == "add" {
			createItem(screens.s, ctx, b, res, backend.JSON(pr), pageTexts)
		} else {
			updateItem(screens.s, ctx, b, res, id, backend.JSON(pr), pageTexts)
		}
	default:
		return errUnexpectedAction
	}
	return reload(ctx)
}
