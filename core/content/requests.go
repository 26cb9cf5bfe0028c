package content

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/wizard"
)

// Messages shown when an add form is submitted incomplete.
const (
	msgImage        = "Please select an image."
	msgTitle        = "Please enter an title."
	msgDescription  = "Please enter an description."
	msgCategory     = "Please select a valid category."
	msgInvalid      = "Please check the %s field."
	msgPrice        = "Please enter an price of course."
	msgLectures     = "Please enter an number of lectures."
	msgDuration     = "Please enter an duration of course."
	msgRequirements = "Please enter atleast 2 requriments of course."
	msgWhatLearn    = "Please enter atleast 2 learnings of course."
	msgBlogContent  = "Please fill an content of blog."
	msgReadtime     = "Please enter an approx readtime"
	msgBlogTags     = "Please enter atleast 2 tags relaated to blog."
	msgNoteTitle    = "Please enter a title."
	msgNoteLanguage = "Please enter the language."
	msgNoteFiles    = "Please upload both image and note file."
	msgSectionTitle = "Title cannot be empty."
	msgPageTitle    = "Title cannot be empty."

	CourseSteps   = 4
	BlogSteps     = 3
	NoteSteps     = 2
	CategorySteps = 1
)

// file fields are not part of the JSON payloads, they are checked by the caller.
const (
	fieldImage = "image"
	fieldFiles = "files"
)

type stepRule struct {
	step    int
	field   string
	message string
}

var (
	courseRules = []stepRule{
		{1, fieldImage, msgImage},
		{1, "title", msgTitle},
		{1, "description", msgDescription},
		{2, "category", msgCategory},
		{2, "price", msgPrice},
		{2, "lectures", msgLectures},
		{2, "duration", msgDuration},
		{3, "requirements", msgRequirements},
		{3, "whatLearn", msgWhatLearn},
	}
	blogRules = []stepRule{
		{1, fieldImage, msgImage},
		{1, "title", msgTitle},
		{1, "description", msgDescription},
		{2, "content", msgBlogContent},
		{3, "readtime", msgReadtime},
		{3, "tags", msgBlogTags},
	}
	noteRules = []stepRule{
		{1, "title", msgNoteTitle},
		{1, "category", msgCategory},
		{2, "language", msgNoteLanguage},
		{2, fieldFiles, msgNoteFiles},
	}
	categoryRules = []stepRule{
		{1, fieldImage, msgImage},
		{1, "title", msgTitle},
		{1, "description", msgDescription},
	}
)

// buildPlan turns the validation errors of `req` into an ordered wizard.Plan.
// A failing field without a rule fails on the last step.
func buildPlan(validate *validator.Validate, req interface{}, rules []stepRule, missingFiles ...string) wizard.Plan {
	failing := make(map[string]bool)
	var order []string
	if vErrs, ok := validate.Struct(req).(validator.ValidationErrors); ok {
		for _, vErr := range vErrs {
			if !failing[vErr.Field()] {
				order = append(order, vErr.Field())
			}
			failing[vErr.Field()] = true
		}
	}
	for _, f := range missingFiles {
		failing[f] = true
	}

	plan := make(wizard.Plan, 0, len(rules))
	ruled := make(map[string]bool, len(rules))
	lastStep := 1
	for _, r := range rules {
		fld := r.field
		ruled[fld] = true
		if r.step > lastStep {
			lastStep = r.step
		}
		plan = append(plan, wizard.Rule{
			Step:    r.step,
			Field:   fld,
			Message: r.message,
			Check:   func() bool { return !failing[fld] },
		})
	}
	for _, fld := range order {
		if ruled[fld] {
			continue
		}
		plan = append(plan, wizard.Rule{
			Step:    lastStep,
			Field:   fld,
			Message: fmt.Sprintf(msgInvalid, fld),
			Check:   func() bool { return false },
		})
	}
	return plan
}

type (
	NewCourse struct {
		Title        string   `json:"title" validate:"required"`
		Description  string   `json:"description" validate:"required"`
		Category     string   `json:"category" validate:"required,oneof=premium free"`
		Price        float64  `json:"price" validate:"gte=0"`
		Lectures     int      `json:"lectures" validate:"gt=0"`
		Duration     string   `json:"duration" validate:"required"`
		Requirements []string `json:"requirements" validate:"mintags=2"`
		WhatLearn    []string `json:"whatLearn" validate:"mintags=2"`
		Tags         []string `json:"tags"`
		Language     string   `json:"language"`
		Creator
	}

	UpdateCourse struct {
		Title        string   `json:"title" validate:"required"`
		Description  string   `json:"description" validate:"required"`
		Category     string   `json:"category" validate:"required,oneof=premium free"`
		Price        float64  `json:"price" validate:"gte=0"`
		Lectures     int      `json:"lectures" validate:"gte=0"`
		Duration     string   `json:"duration"`
		Requirements []string `json:"requirements"`
		WhatLearn    []string `json:"whatLearn"`
		Tags         []string `json:"tags"`
		Language     string   `json:"language"`
	}
)

func (nc *NewCourse) Clean() {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	nc.Category = core.CleanString(nc.Category, true /* lower */)
	if nc.Category == "" {
		nc.Category = CourseFree
	}
	nc.Duration = core.CleanString(nc.Duration)
	nc.Language = core.CleanString(nc.Language)
	nc.Requirements = core.CleanStrings(nc.Requirements)
	nc.WhatLearn = core.CleanStrings(nc.WhatLearn)
	nc.Tags = cleanCourseTags(nc.Tags)
}

// Plan returns the submit checks of the course wizard.
func (nc *NewCourse) Plan(validate *validator.Validate, hasImage bool) wizard.Plan {
	nc.Clean()
	return buildPlan(validate, nc, courseRules, missing(!hasImage, fieldImage)...)
}

func (uc *UpdateCourse) Validate(validate *validator.Validate) error {
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
	uc.Category = core.CleanString(uc.Category, true /* lower */)
	uc.Duration = core.CleanString(uc.Duration)
	uc.Language = core.CleanString(uc.Language)
	uc.Requirements = core.CleanStrings(uc.Requirements)
	uc.WhatLearn = core.CleanStrings(uc.WhatLearn)
	uc.Tags = cleanCourseTags(uc.Tags)
	return validate.Struct(uc)
}

// UpdateFrom prefills an update with the current values of `c`.
func (uc *UpdateCourse) UpdateFrom(c Course) {
	*uc = UpdateCourse{
		Title:        c.Title,
		Description:  c.Description,
		Category:     c.Category,
		Price:        c.Price,
		Lectures:     c.Lectures,
		Duration:     c.Duration,
		Requirements: c.Requirements,
		WhatLearn:    c.WhatLearn,
		Tags:         c.Tags,
		Language:     c.Language,
	}
}

// cleanCourseTags keeps the known course tags, once each.
func cleanCourseTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	cleaned := make([]string, 0, len(tags))
	for _, t := range core.CleanStrings(tags) {
		if seen[t] {
			continue
		}
		for _, known := range CourseTags {
			if t == known {
				seen[t] = true
				cleaned = append(cleaned, t)
				break
			}
		}
	}
	return cleaned
}

type (
	NewBlog struct {
		Title       string   `json:"title" validate:"required"`
		Description string   `json:"description" validate:"required"`
		Content     string   `json:"content" validate:"required"`
		Readtime    string   `json:"readtime" validate:"required"`
		Tags        []string `json:"tags" validate:"mintags=2"`
		Creator
	}

	UpdateBlog struct {
		Title       string   `json:"title" validate:"required"`
		Description string   `json:"description" validate:"required"`
		Content     string   `json:"content" validate:"required"`
		Readtime    string   `json:"readtime"`
		Tags        []string `json:"tags"`
	}
)

func (nb *NewBlog) Clean() {
	nb.Title = core.CleanString(nb.Title)
	nb.Description = core.CleanString(nb.Description)
	nb.Content = core.CleanString(nb.Content)
	nb.Readtime = core.CleanString(nb.Readtime)
	nb.Tags = core.CleanStrings(nb.Tags)
}

// Plan returns the submit checks of the blog wizard.
func (nb *NewBlog) Plan(validate *validator.Validate, hasImage bool) wizard.Plan {
	nb.Clean()
	return buildPlan(validate, nb, blogRules, missing(!hasImage, fieldImage)...)
}

func (ub *UpdateBlog) Validate(validate *validator.Validate) error {
	ub.Title = core.CleanString(ub.Title)
	ub.Description = core.CleanString(ub.Description)
	ub.Content = core.CleanString(ub.Content)
	ub.Readtime = core.CleanString(ub.Readtime)
	ub.Tags = core.CleanStrings(ub.Tags)
	return validate.Struct(ub)
}

func (ub *UpdateBlog) UpdateFrom(b Blog) {
	*ub = UpdateBlog{Title: b.Title, Description: b.Description, Content: b.Content, Readtime: b.Readtime, Tags: b.Tags}
}

type (
	NewNote struct {
		Title    string `json:"title" validate:"required"`
		Category string `json:"category" validate:"required,oneof=note cheetsheet handbook"`
		Language string `json:"language" validate:"required"`
		Creator
	}

	UpdateNote struct {
		Title    string `json:"title" validate:"required"`
		Category string `json:"category" validate:"required,oneof=note cheetsheet handbook"`
		Language string `json:"language"`
	}
)

func (nn *NewNote) Clean() {
	nn.Title = core.CleanString(nn.Title)
	nn.Category = core.CleanString(nn.Category, true /* lower */)
	if nn.Category == "" {
		nn.Category = NoteNote
	}
	nn.Language = core.CleanString(nn.Language)
}

// Plan returns the submit checks of the note wizard; both an image and a pdf are required.
func (nn *NewNote) Plan(validate *validator.Validate, hasImage, hasPdf bool) wizard.Plan {
	nn.Clean()
	return buildPlan(validate, nn, noteRules, missing(!(hasImage && hasPdf), fieldFiles)...)
}

func (un *UpdateNote) Validate(validate *validator.Validate) error {
	un.Title = core.CleanString(un.Title)
	un.Category = core.CleanString(un.Category, true /* lower */)
	un.Language = core.CleanString(un.Language)
	return validate.Struct(un)
}

func (un *UpdateNote) UpdateFrom(n Note) {
	*un = UpdateNote{Title: n.Title, Category: n.Category, Language: n.Language}
}

type (
	NewCategory struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description" validate:"required"`
		Creator
	}

	UpdateCategory struct {
		Title       string `json:"title" validate:"required"`
		Description string `json:"description" validate:"required"`
	}
)

func (nc *NewCategory) Clean() {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
}

// Plan returns the submit checks of the category form.
func (nc *NewCategory) Plan(validate *validator.Validate, hasImage bool) wizard.Plan {
	nc.Clean()
	return buildPlan(validate, nc, categoryRules, missing(!hasImage, fieldImage)...)
}

func (uc *UpdateCategory) Validate(validate *validator.Validate) error {
	uc.Title = core.CleanString(uc.Title)
	uc.Description = core.CleanString(uc.Description)
	return validate.Struct(uc)
}

// SectionRequest creates or renames a section.
type SectionRequest struct {
	Title string `json:"title" validate:"required"`
	Creator
}

func (sr *SectionRequest) Validate(validate *validator.Validate) error {
	sr.Title = core.CleanString(sr.Title)
	if err := validate.Struct(sr); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "title", Error: msgSectionTitle})
	}
	return nil
}

// PageRequest creates or edits a tutorial page.
type PageRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content"`
	Creator
}

func (pr *PageRequest) Validate(validate *validator.Validate) error {
	pr.Title = core.CleanString(pr.Title)
	if err := validate.Struct(pr); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "title", Error: msgPageTitle})
	}
	return nil
}

func missing(cond bool, field string) []string {
	if cond {
		return []string{field}
	}
	return nil
}
