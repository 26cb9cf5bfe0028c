package content

import (
	"cmp"
	"sort"
	"strings"

	"github.com/eduport/admin/core"
)

// Comparators maps an ordering field to a comparison of two items.
type Comparators[T any] map[string]func(a, b T) int

// Sort stably sorts `items` by `ords`, ignoring unknown fields.
func Sort[T any](items []T, ords []core.Ordering, fields Comparators[T]) {
	if len(ords) == 0 {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		for _, ord := range ords {
			compare, ok := fields[ord.Field]
			if !ok {
				continue
			}
			c := compare(items[i], items[j])
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})
}

func byTitle(a, b string) int { return strings.Compare(strings.ToLower(a), strings.ToLower(b)) }

var (
	CourseFields = Comparators[Course]{
		"title":    func(a, b Course) int { return byTitle(a.Title, b.Title) },
		"price":    func(a, b Course) int { return cmp.Compare(a.Price, b.Price) },
		"lectures": func(a, b Course) int { return cmp.Compare(a.Lectures, b.Lectures) },
		"language": func(a, b Course) int { return byTitle(a.Language, b.Language) },
	}
	BlogFields = Comparators[Blog]{
		"title":    func(a, b Blog) int { return byTitle(a.Title, b.Title) },
		"readtime": func(a, b Blog) int { return strings.Compare(a.Readtime, b.Readtime) },
	}
	NoteFields = Comparators[Note]{
		"title":    func(a, b Note) int { return byTitle(a.Title, b.Title) },
		"category": func(a, b Note) int { return strings.Compare(a.Category, b.Category) },
		"language": func(a, b Note) int { return byTitle(a.Language, b.Language) },
	}
	CategoryFields = Comparators[Category]{
		"title":      func(a, b Category) int { return byTitle(a.Title, b.Title) },
		"created_at": func(a, b Category) int { return strings.Compare(a.CreatedAt, b.CreatedAt) },
	}
	OrderFields = Comparators[Order]{
		"amount":     func(a, b Order) int { return cmp.Compare(a.Amount, b.Amount) },
		"created_at": func(a, b Order) int { return strings.Compare(a.CreatedAt, b.CreatedAt) },
		"course":     func(a, b Order) int { return byTitle(a.CourseName, b.CourseName) },
		"user":       func(a, b Order) int { return byTitle(a.UserName, b.UserName) },
	}
)
