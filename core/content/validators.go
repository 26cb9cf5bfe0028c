package content

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/eduport/admin/core"
)

var (
	premiumPriceTag  = "premiumprice"
	premiumPriceText = "a premium course must have a price"
)

// InitValidators registers the content validators. core.InitValidators must be called first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(courseStructValidation, NewCourse{}, UpdateCourse{})
	core.RegisterCustomTranslation(validate, translator, premiumPriceTag, premiumPriceText)
}

// courseStructValidation requires a price on premium courses.
func courseStructValidation(sl validator.StructLevel) {
	var category string
	var price float64
	switch c := sl.Current().Interface().(type) {
	case NewCourse:
		category, price = c.Category, c.Price
	case UpdateCourse:
		category, price = c.Category, c.Price
	default:
		return
	}
	if category == CoursePremium && price <= 0 {
		sl.ReportError(price, "price", "Price", premiumPriceTag, "")
	}
}
