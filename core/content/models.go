package content

import "github.com/eduport/admin/core/session"

const (
	CoursePremium = "premium"
	CourseFree    = "free"

	NoteNote       = "note"
	NoteCheatSheet = "cheetsheet"
	NoteHandbook   = "handbook"
)

var (
	// CourseTags are the tags a course can be labelled with.
	CourseTags = []string{"Hot", "New", "Popular", "Live Now", "Beginner-Friendly"}

	CourseCategories = []string{CoursePremium, CourseFree}
	NoteCategories   = []string{NoteNote, NoteCheatSheet, NoteHandbook}
)

// Creator identifies the admin owning a resource.
type Creator struct {
	CreatorID         string `json:"creatorId"`
	Creator           string `json:"creator"`
	CreatorProfileURL string `json:"creatorProfileUrl"`
}

func CreatorOf(p session.Profile) Creator {
	return Creator{
		CreatorID:         p.ID,
		Creator:           p.Username,
		CreatorProfileURL: p.ProfileImageURL,
	}
}

type (
	Course struct {
		ID           string   `json:"id"`
		Title        string   `json:"title"`
		Description  string   `json:"description"`
		ImageURL     string   `json:"imageUrl"`
		Price        float64  `json:"price"`
		Category     string   `json:"category"`
		Duration     string   `json:"duration"`
		Lectures     int      `json:"lectures"`
		Requirements []string `json:"requirements"`
		WhatLearn    []string `json:"whatLearn"`
		Tags         []string `json:"tags"`
		Language     string   `json:"language"`
		Creator
	}

	Blog struct {
		ID          string   `json:"id"`
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Content     string   `json:"content"`
		ImageURL    string   `json:"imageUrl"`
		Readtime    string   `json:"readtime"`
		Tags        []string `json:"tags"`
		Creator
	}

	Note struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Category string `json:"category"`
		Language string `json:"language"`
		ImageURL string `json:"imageUrl"`
		PdfURL   string `json:"pdfUrl"`
		Creator
	}

	Category struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		ImageURL    string `json:"imageUrl"`
		CreatedAt   string `json:"createdAt"`
		Creator
	}

	Section struct {
		ID         string `json:"id"`
		CategoryID string `json:"categoryId"`
		Title      string `json:"title"`
		Creator
	}

	Page struct {
		ID         string `json:"id"`
		CategoryID string `json:"categoryId"`
		SectionID  string `json:"sectionId"`
		Title      string `json:"title"`
		Content    string `json:"content"`
		CreatedAt  string `json:"createdAt"`
		Creator
	}

	// Order is a course purchase.
	Order struct {
		ID             string  `json:"id"`
		UserImageURL   string  `json:"userImageUrl"`
		UserName       string  `json:"userName"`
		UserEmail      string  `json:"userEmail"`
		CreatedAt      string  `json:"createdAt"`
		CourseImageURL string  `json:"courseImageUrl"`
		CourseName     string  `json:"courseName"`
		Amount         float64 `json:"amount"`
	}
)

func (c Course) Premium() bool { return c.Category == CoursePremium }

// SplitCourses partitions courses into premium and free ones, keeping their order.
func SplitCourses(courses []Course) (premium, free []Course) {
	for _, c := range courses {
		if c.Premium() {
			premium = append(premium, c)
		} else {
			free = append(free, c)
		}
	}
	return premium, free
}

// Revenue sums the amount of `orders`.
func Revenue(orders []Order) float64 {
	var total float64
	for _, o := range orders {
		total += o.Amount
	}
	return total
}
