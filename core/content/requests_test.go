package content

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/wizard"
)

func newValidator() *validator.Validate {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	InitValidators(validate, translator)
	return validate
}

func validCourse() NewCourse {
	return NewCourse{
		Title:        "Go in Action",
		Description:  "Learn Go",
		Category:     CoursePremium,
		Price:        499,
		Lectures:     12,
		Duration:     "10h",
		Requirements: []string{"A laptop", "Curiosity"},
		WhatLearn:    []string{"Goroutines", "Channels"},
		Tags:         []string{"Hot", "lol", "Hot", " New "},
		Creator:      Creator{CreatorID: "42", Creator: "ada"},
	}
}

func TestNewCourse_Plan(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name     string
		mutate   func(nc *NewCourse)
		hasImage bool
		want     *wizard.Failure
	}{
		{name: "valid", mutate: func(nc *NewCourse) {}, hasImage: true},
		{name: "free course without price", mutate: func(nc *NewCourse) { nc.Category, nc.Price = CourseFree, 0 }, hasImage: true},
		{name: "no image", mutate: func(nc *NewCourse) {}, want: &wizard.Failure{Step: 1, Field: "image", Message: msgImage}},
		{
			name: "blank title", mutate: func(nc *NewCourse) { nc.Title = "   " }, hasImage: true,
			want: &wizard.Failure{Step: 1, Field: "title", Message: msgTitle},
		},
		{
			name: "unknown category", mutate: func(nc *NewCourse) { nc.Category = "gold" }, hasImage: true,
			want: &wizard.Failure{Step: 2, Field: "category", Message: msgCategory},
		},
		{
			name: "premium without price", mutate: func(nc *NewCourse) { nc.Price = 0 }, hasImage: true,
			want: &wizard.Failure{Step: 2, Field: "price", Message: msgPrice},
		},
		{
			name: "no lectures", mutate: func(nc *NewCourse) { nc.Lectures = 0 }, hasImage: true,
			want: &wizard.Failure{Step: 2, Field: "lectures", Message: msgLectures},
		},
		{
			name: "one requirement", mutate: func(nc *NewCourse) { nc.Requirements = []string{"A laptop", " "} }, hasImage: true,
			want: &wizard.Failure{Step: 3, Field: "requirements", Message: msgRequirements},
		},
		{
			name: "no learnings", mutate: func(nc *NewCourse) { nc.WhatLearn = nil }, hasImage: true,
			want: &wizard.Failure{Step: 3, Field: "whatLearn", Message: msgWhatLearn},
		},
		{
			name: "first failure wins", mutate: func(nc *NewCourse) { nc.Duration, nc.WhatLearn = "", nil }, hasImage: true,
			want: &wizard.Failure{Step: 2, Field: "duration", Message: msgDuration},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nc := validCourse()
			tt.mutate(&nc)
			assert.Equal(t, tt.want, nc.Plan(validate, tt.hasImage).First())
		})
	}

	nc := validCourse()
	nc.Plan(validate, true)
	assert.Equal(t, []string{"Hot", "New"}, nc.Tags, "unknown and duplicated tags dropped")
}

func TestNewBlog_Plan(t *testing.T) {
	validate := newValidator()
	nb := NewBlog{Title: "Channels", Description: "Deep dive", Content: "<p>hi</p>", Readtime: "5 min", Tags: []string{"go"}}

	f := nb.Plan(validate, true).First()
	require.NotNil(t, f)
	assert.Equal(t, wizard.Failure{Step: 3, Field: "tags", Message: msgBlogTags}, *f)

	nb.Tags = append(nb.Tags, "concurrency")
	nb.Content = ""
	f = nb.Plan(validate, true).First()
	require.NotNil(t, f)
	assert.Equal(t, 2, f.Step)
	assert.Equal(t, msgBlogContent, f.Message)

	nb.Content = "<p>hi</p>"
	assert.Nil(t, nb.Plan(validate, true).First())
}

func TestNewNote_Plan(t *testing.T) {
	validate := newValidator()
	nn := NewNote{Title: "Go cheatsheet", Category: "CHEETSHEET", Language: "Go"}

	f := nn.Plan(validate, true, false).First()
	require.NotNil(t, f)
	assert.Equal(t, wizard.Failure{Step: 2, Field: "files", Message: msgNoteFiles}, *f)
	assert.Equal(t, NoteCheatSheet, nn.Category)

	nn.Title = ""
	f = nn.Plan(validate, true, true).First()
	require.NotNil(t, f)
	assert.Equal(t, msgNoteTitle, f.Message)

	nn = NewNote{Title: "Handbook", Category: "blog", Language: "Go"}
	f = nn.Plan(validate, true, true).First()
	require.NotNil(t, f)
	assert.Equal(t, wizard.Failure{Step: 1, Field: "category", Message: msgCategory}, *f)

	nn = NewNote{Title: "Handbook", Language: "Go"}
	assert.Nil(t, nn.Plan(validate, true, true).First())
	assert.Equal(t, NoteNote, nn.Category, "defaults to note")
}

func TestBuildPlan_unruledField(t *testing.T) {
	validate := newValidator()
	type request struct {
		Title string `json:"title" validate:"required"`
		Level string `json:"level" validate:"oneof=easy hard"`
	}
	rules := []stepRule{{1, "title", msgTitle}, {2, fieldImage, msgImage}}

	f := buildPlan(validate, &request{Title: "Go", Level: "expert"}, rules).First()
	require.NotNil(t, f)
	assert.Equal(t, wizard.Failure{Step: 2, Field: "level", Message: "Please check the level field."}, *f)

	f = buildPlan(validate, &request{Level: "expert"}, rules).First()
	require.NotNil(t, f)
	assert.Equal(t, "title", f.Field, "ruled failures come first")

	assert.Nil(t, buildPlan(validate, &request{Title: "Go", Level: "easy"}, rules).First())
}

func TestNewCategory_Plan(t *testing.T) {
	validate := newValidator()
	nc := NewCategory{Title: "Backend", Description: ""}

	f := nc.Plan(validate, true).First()
	require.NotNil(t, f)
	assert.Equal(t, msgDescription, f.Message)
	assert.Equal(t, 1, f.Step)
}

func TestSectionAndPageRequests(t *testing.T) {
	validate := newValidator()

	sr := SectionRequest{Title: "  "}
	err := sr.Validate(validate)
	require.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	assert.Equal(t, "Title cannot be empty.", vErr.Fields[0].Error)

	sr.Title = " Basics "
	assert.NoError(t, sr.Validate(validate))
	assert.Equal(t, "Basics", sr.Title)

	pr := PageRequest{Title: "Intro", Content: "..."}
	assert.NoError(t, pr.Validate(validate))
}

func TestUpdateCourse_Validate(t *testing.T) {
	validate := newValidator()

	var uc UpdateCourse
	uc.UpdateFrom(Course{Title: "Go", Description: "Learn", Category: CoursePremium, Price: 0})
	err := uc.Validate(validate)
	require.Error(t, err)
	vErrs, ok := err.(validator.ValidationErrors)
	require.True(t, ok)
	assert.Equal(t, "price", vErrs[0].Field())

	uc.Price = 10
	assert.NoError(t, uc.Validate(validate))
}
