package backend

import (
	"context"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/eduport/admin/core/content"
	"github.com/eduport/admin/core/preview"
)

func itemOf(collection string) func(id string) string {
	return func(id string) string { return collection + "/" + escape(id) }
}

// Courses of the admin `userID`.
func (c *Client) Courses(userID string) *Resource[content.Course] {
	return NewResource[content.Course](c, Paths{
		List:   "/course/" + escape(userID),
		Create: "/course",
		Item:   itemOf("/course"),
	})
}

func (c *Client) Blogs(userID string) *Resource[content.Blog] {
	return NewResource[content.Blog](c, Paths{
		List:   "/blog/" + escape(userID),
		Create: "/blog",
		Item:   itemOf("/blog"),
	})
}

func (c *Client) Notes(userID string) *Resource[content.Note] {
	return NewResource[content.Note](c, Paths{
		List:   "/note/" + escape(userID),
		Create: "/note",
		Item:   itemOf("/note"),
	})
}

// Categories are listed globally and mutated on behalf of `creatorID`.
func (c *Client) Categories(creatorID string) *Resource[content.Category] {
	return NewResource[content.Category](c, Paths{
		List:   "/categories",
		Create: "/categories",
		Item:   itemOf("/categories"),
	}, WithCreatorHeader(creatorID))
}

func (c *Client) Sections(creatorID, categoryID string) *Resource[content.Section] {
	collection := "/categories/" + escape(categoryID) + "/sections"
	return NewResource[content.Section](c, Paths{
		List:   collection,
		Create: collection,
		Item:   itemOf(collection),
	}, WithCreatorHeader(creatorID))
}

func (c *Client) Pages(creatorID, categoryID, sectionID string) *Resource[content.Page] {
	collection := "/categories/" + escape(categoryID) + "/sections/" + escape(sectionID) + "/pages"
	return NewResource[content.Page](c, Paths{
		List:   collection,
		Create: collection,
		Item:   itemOf(collection),
	}, WithCreatorHeader(creatorID))
}

// Payments returns the purchases of the courses of `userID`.
func (c *Client) Payments(ctx context.Context, userID string) ([]content.Order, error) {
	path := "/payments/" + escape(userID)
	resp, err := c.do(ctx, request{method: rest.Get, path: path})
	if err != nil {
		return nil, err
	}
	orders := make([]content.Order, 0)
	if err := decode(resp, &orders); err != nil {
		return nil, errors.Wrap(err, "GET "+path)
	}
	return orders, nil
}

// Multipart payloads, field names as expected by the backend.

func NewCourseForm(nc content.NewCourse, image preview.File) *Form {
	return NewForm().JSONField("course", nc).File("file", image)
}

func UpdateCourseForm(uc content.UpdateCourse, image *preview.File) *Form {
	return NewForm().JSONBlob("request", uc).OptionalFile("file", image)
}

func NewBlogForm(nb content.NewBlog, image preview.File) *Form {
	return NewForm().JSONField("blog", nb).File("file", image)
}

func UpdateBlogForm(ub content.UpdateBlog, image *preview.File) *Form {
	return NewForm().JSONBlob("request", ub).OptionalFile("file", image)
}

func NewNoteForm(nn content.NewNote, image, pdf preview.File) *Form {
	return NewForm().JSONField("note", nn).File("imgFile", image).File("pdfFile", pdf)
}

func UpdateNoteForm(un content.UpdateNote, image, pdf *preview.File) *Form {
	return NewForm().JSONBlob("request", un).OptionalFile("image", image).OptionalFile("pdf", pdf)
}

func NewCategoryForm(nc content.NewCategory, image preview.File) *Form {
	return NewForm().JSONBlob("request", nc).File("file", image)
}

func UpdateCategoryForm(uc content.UpdateCategory, image *preview.File) *Form {
	return NewForm().JSONBlob("request", uc).OptionalFile("file", image)
}
