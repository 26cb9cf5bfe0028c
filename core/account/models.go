package account

import (
	"github.com/go-playground/validator/v10"

	"github.com/eduport/admin/core"
)

type (
	SignIn struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	SignUp struct {
		Username string `json:"username" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	ForgotPassword struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPassword struct {
		Email       string `json:"email" validate:"required,email"`
		OTP         string `json:"otp" validate:"otp"`
		NewPassword string `json:"newPassword" validate:"required"`
	}

	VerifyEmail struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"otp"`
	}

	ResendOTP struct {
		Email string `json:"email" validate:"required,email"`
	}
)

func (si *SignIn) Validate(validate *validator.Validate) error {
	si.Email = core.CleanString(si.Email, true /* lower */)
	return validate.Struct(si)
}

func (su *SignUp) Validate(validate *validator.Validate) error {
	su.Username = core.CleanString(su.Username)
	su.Email = core.CleanString(su.Email, true /* lower */)
	return validate.Struct(su)
}

func (fp *ForgotPassword) Validate(validate *validator.Validate) error {
	fp.Email = core.CleanString(fp.Email, true /* lower */)
	return validate.Struct(fp)
}

func (rp *ResetPassword) Validate(validate *validator.Validate) error {
	rp.Email = core.CleanString(rp.Email, true /* lower */)
	rp.OTP = core.CleanString(rp.OTP)
	return validate.Struct(rp)
}

func (ve *VerifyEmail) Validate(validate *validator.Validate) error {
	ve.Email = core.CleanString(ve.Email, true /* lower */)
	ve.OTP = core.CleanString(ve.OTP)
	return validate.Struct(ve)
}

func (ro *ResendOTP) Validate(validate *validator.Validate) error {
	ro.Email = core.CleanString(ro.Email, true /* lower */)
	return validate.Struct(ro)
}
