package core

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	_en := en.New()
	translator, found := ut.New(_en, _en).GetTranslator("en")
	require.True(t, found)
	validate := validator.New()
	InitValidators(validate, translator)
	return validate, translator
}

func TestInitValidators(t *testing.T) {
	validate, translator := newTestValidator(t)

	type request struct {
		Title string   `json:"title" validate:"required"`
		OTP   string   `json:"otp" validate:"otp"`
		Tags  []string `json:"tags" validate:"mintags=2"`
	}

	tests := []struct {
		name    string
		req     request
		wantErr map[string]string
	}{
		{name: "valid", req: request{Title: "Go", OTP: "012345", Tags: []string{"a", "b"}}},
		{
			name: "all invalid",
			req:  request{OTP: "12a456", Tags: []string{"a", "  "}},
			wantErr: map[string]string{
				"title": "this field is required",
				"otp":   "Please enter valid OTP",
				"tags":  "tags must contain at least 2 entries",
			},
		},
		{
			name:    "short otp",
			req:     request{Title: "Go", OTP: "12345", Tags: []string{"a", "b", "c"}},
			wantErr: map[string]string{"otp": "Please enter valid OTP"},
		},
		{
			name:    "long otp",
			req:     request{Title: "Go", OTP: "1234567", Tags: []string{"a", "b"}},
			wantErr: map[string]string{"otp": "Please enter valid OTP"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok, "want validator.ValidationErrors, got %T", err)

			got := make(map[string]string, len(vErrs))
			for _, vErr := range vErrs {
				got[vErr.Field()] = vErr.Translate(translator)
			}
			assert.Equal(t, tt.wantErr, got)
		})
	}
}

func TestCleanStrings(t *testing.T) {
	assert.Equal(t, []string{"Hot", "New"}, CleanStrings([]string{" Hot ", "", "  ", "New"}))
	assert.Empty(t, CleanStrings(nil))
}

func TestServerMessage(t *testing.T) {
	assert.Equal(t, "otp expired", ServerMessage(NewAPIError(400, "otp expired"), "fallback"))
	assert.Equal(t, "fallback", ServerMessage(NewAPIError(500, ""), "fallback"))
	assert.Equal(t, "fallback", ServerMessage(ErrUnauthorized, "fallback"))
	assert.True(t, IsStatus(NewAPIError(404, ""), 404))
	assert.False(t, IsStatus(ErrUnauthorized, 401))
}
