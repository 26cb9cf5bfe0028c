package echoweb

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/core/preview"
	"github.com/eduport/admin/core/route"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/services/backend"
)

var courseTexts = itemTexts{
	readFailed:   "Error while reading the courses.",
	added:        "Course added successfully.",
	addFailed:    "Error adding Course.",
	removed:      "Course removed.",
	removeFailed: "Error occurred while removing the course.",
	updated:      "Course updated successfully",
	updateFailed: "Error occurred while updating the course.",
}

type courseScreens struct {
	s *Server
}

type courseListView struct {
	Premium []content.Course
	Free    []content.Course
	Tags    []string
}

func registerCourseScreens(s *Server) {
	screens := courseScreens{s: s}

	s.wizardScreen(&wizardForm{
		screen: route.ScreenCourseAdd,
		steps:  content.CourseSteps,
		fields: map[int][]string{
			1: {"title", "description"},
			2: {"category", "price", "lectures", "duration"},
			3: {"requirements", "whatLearn"},
			4: {"tags", "language"},
		},
		files: []string{"image"},
		options: map[string][]string{
			"tags":       content.CourseTags,
			"categories": content.CourseCategories,
		},
		submit: screens.submit,
	})
	s.screen(route.ScreenCourseList, screens.list, screens.act)
}

func (screens courseScreens) submit(ctx echo.Context, b *browser, dr *draft, prof session.Profile) error {
	nc := content.NewCourse{
		Title:        dr.values.Get("title"),
		Description:  dr.values.Get("description"),
		Category:     dr.values.Get("category"),
		Price:        number(dr.values, "price"),
		Lectures:     integer(dr.values, "lectures"),
		Duration:     dr.values.Get("duration"),
		Requirements: lines(dr.values, "requirements"),
		WhatLearn:    lines(dr.values, "whatLearn"),
		Tags:         lines(dr.values, "tags"),
		Language:     dr.values.Get("language"),
		Creator:      content.CreatorOf(prof),
	}
	image, _, hasImage := b.previews.Get(slot(route.ScreenCourseAdd, "image"))
	if f := nc.Plan(screens.s.validate, hasImage).Validate(dr.wizard); f != nil {
		b.notices.Error(f.Message)
		return nil
	}

	res := b.client.Courses(prof.ID)
	if createItem(screens.s, ctx, b, res, backend.NewCourseForm(nc, image), courseTexts) {
		b.resetDraft(route.ScreenCourseAdd)
	}
	return nil
}

func (screens courseScreens) list(ctx echo.Context, b *browser, d route.Decision) error {
	prof, _ := b.store.Profile()
	courses, loggedOut := listItems(screens.s, ctx, b, b.client.Courses(prof.ID), content.CourseFields, courseTexts)
	if loggedOut {
		return reload(ctx)
	}
	premium, free := content.SplitCourses(courses)
	return screens.s.render(ctx, b, http.StatusOK, d, courseListView{
		Premium: premium,
		Free:    free,
		Tags:    content.CourseTags,
	})
}

func (screens courseScreens) act(ctx echo.Context, b *browser, _ route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	prof, _ := b.store.Profile()
	res := b.client.Courses(prof.ID)
	id := vals.Get("id")

	switch vals.Get("action") {
	case "delete":
		removeItem(screens.s, ctx, b, res, id, courseTexts)
	case "update":
		uc := courseUpdate(vals)
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
		updateItem(screens.s, ctx, b, res, id, backend.UpdateCourseForm(uc, image), courseTexts)
	default:
		return errUnexpectedAction
	}
	return reload(ctx)
}

func courseUpdate(vals url.Values) content.UpdateCourse {
	return content.UpdateCourse{
		Title:        vals.Get("title"),
		Description:  vals.Get("description"),
		Category:     vals.Get("category"),
		Price:        number(vals, "price"),
		Lectures:     integer(vals, "lectures"),
		Duration:     vals.Get("duration"),
		Requirements: lines(vals, "requirements"),
		WhatLearn:    lines(vals, "whatLearn"),
		Tags:         lines(vals, "tags"),
		Language:     vals.Get("language"),
	}
}

// optionalFile returns the uploaded file `name`, or nil when none was uploaded.
func optionalFile(ctx echo.Context, name string) (*preview.File, error) {
	f, ok, err := formFile(ctx, name)
	if err != nil || !ok {
		return nil, err
	}
	return &f, nil
}
