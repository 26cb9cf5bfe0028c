package core

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	// custom validation tags & texts
	otpTag   = "otp"
	otpText  = "Please enter valid OTP"
	otpRegex = regexp.MustCompile(`^[0-9]{6}$`)

	minTagsTag  = "mintags"
	minTagsText = "{0} must contain at least {1} entries"

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

// InitValidators instantiates the validator for use.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// register custom validators
	_ = validate.RegisterValidation(otpTag, otpValidation)
	RegisterCustomTranslation(validate, translator, otpTag, otpText)

	_ = validate.RegisterValidation(minTagsTag, minTagsValidation)
	RegisterCustomTranslation(validate, translator, minTagsTag, minTagsText)

	RegisterCustomTranslation(validate, translator, requiredTag, requiredText, true)
	RegisterCustomTranslation(validate, translator, requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
// `text` may reference the field name as {0} and the tag param as {1}.
func RegisterCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

// Custom Global Validators

// otpValidation only allows one time passwords made of exactly 6 digits.
func otpValidation(fl validator.FieldLevel) bool {
	return otpRegex.MatchString(fl.Field().String())
}

// ValidOTP reports whether `otp` is made of exactly 6 digits.
func ValidOTP(otp string) bool {
	return otpRegex.MatchString(otp)
}

// minTagsValidation checks that a []string holds at least `param` non-blank entries.
func minTagsValidation(fl validator.FieldLevel) bool {
	min, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	tags, ok := fl.Field().Interface().([]string)
	if !ok {
		return false
	}
	return len(CleanStrings(tags)) >= min
}
