package account

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/eduport/admin/core"
	"github.com/eduport/admin/core/notify"
	"github.com/eduport/admin/core/session"
)

const (
	msgGenericFailure   = "Something went wrong. Please try again."
	msgInvalidOTP       = "Please enter valid OTP"
	msgSignInFailed     = "Invalid email or password."
	msgSignedIn         = "Logged in successfully."
	msgSignedUp         = "Account created. Please verify your email."
	msgSignedOut        = "Logged out successfully."
	msgResetOTPSent     = "Password reset OTP sent successfully"
	msgPasswordReset    = "Password reset successfully"
	msgEmailVerified    = "Email verified successfully"
	msgVerifyFailed     = "An error occurred while verifying the OTP"
	msgAlreadyVerified  = "Admin already registred"
	msgOTPResent        = "OTP resent successfully"
	msgResendFailed     = "Failed to resend OTP"
	msgVerifyOTPInvalid = "Please enter a valid OTP"
)

var (
	ErrInvalidOTP      = errors.New("invalid otp")
	ErrAlreadyVerified = errors.New("email already verified")
	ErrNoProfile       = errors.New("profile could not be loaded")
)

// Backend is the account part of the Eduport REST backend.
// Message returning calls return the text body of the backend reply.
type Backend interface {
	Login(ctx context.Context, req SignIn) error
	Register(ctx context.Context, req SignUp) error
	Logout(ctx context.Context) error
	ForgotPasswordOTP(ctx context.Context, req ForgotPassword) (string, error)
	ResetPassword(ctx context.Context, req ResetPassword) (string, error)
	VerifyEmail(ctx context.Context, req VerifyEmail) (string, error)
	SendVerifyOTP(ctx context.Context, req ResendOTP) (string, error)
}

// Service runs the account flows of one browser session.
// Every outcome is reported through the notifier; errors are returned for flow control only.
type Service struct {
	backend  Backend
	store    *session.Store
	notifier notify.Notifier
	validate *validator.Validate
}

func NewService(backend Backend, store *session.Store, notifier notify.Notifier, validate *validator.Validate) *Service {
	return &Service{
		backend:  backend,
		store:    store,
		notifier: notifier,
		validate: validate,
	}
}

func (svc *Service) SignIn(ctx context.Context, req SignIn) (*session.Profile, error) {
	if err := req.Validate(svc.validate); err != nil {
		return nil, err
	}
	if err := svc.backend.Login(ctx, req); err != nil {
		svc.notifier.Error(core.ServerMessage(err, msgSignInFailed))
		return nil, errors.Wrap(err, "logging in")
	}
	prof := svc.store.Refresh(ctx)
	if prof == nil {
		svc.notifier.Error(msgGenericFailure)
		return nil, ErrNoProfile
	}
	svc.notifier.Success(msgSignedIn)
	return prof, nil
}

func (svc *Service) SignUp(ctx context.Context, req SignUp) (*session.Profile, error) {
	if err := req.Validate(svc.validate); err != nil {
		return nil, err
	}
	if err := svc.backend.Register(ctx, req); err != nil {
		svc.notifier.Error(core.ServerMessage(err, msgGenericFailure))
		return nil, errors.Wrap(err, "registering")
	}
	prof := svc.store.Refresh(ctx)
	if prof == nil {
		svc.notifier.Error(msgGenericFailure)
		return nil, ErrNoProfile
	}
	svc.notifier.Success(msgSignedUp)
	return prof, nil
}

// SignOut logs out of the backend; the local session is cleared even if the backend fails.
func (svc *Service) SignOut(ctx context.Context) error {
	err := svc.backend.Logout(ctx)
	svc.store.Clear()
	if err != nil && errors.Cause(err) != core.ErrUnauthorized {
		return errors.Wrap(err, "logging out")
	}
	svc.notifier.Success(msgSignedOut)
	return nil
}

// RequestPasswordReset sends a password reset OTP to `req.Email`.
func (svc *Service) RequestPasswordReset(ctx context.Context, req ForgotPassword) error {
	if err := req.Validate(svc.validate); err != nil {
		return err
	}
	msg, err := svc.backend.ForgotPasswordOTP(ctx, req)
	if err != nil {
		svc.notifier.Error(core.ServerMessage(err, msgGenericFailure))
		return errors.Wrap(err, "requesting password reset otp")
	}
	svc.notifier.Success(orDefault(msg, msgResetOTPSent))
	return nil
}

// CheckOTP is the client side check of an OTP before it is sent anywhere.
func (svc *Service) CheckOTP(otp string) error {
	if !core.ValidOTP(core.CleanString(otp)) {
		svc.notifier.Error(msgInvalidOTP)
		return ErrInvalidOTP
	}
	return nil
}

func (svc *Service) ResetPassword(ctx context.Context, req ResetPassword) error {
	if err := svc.CheckOTP(req.OTP); err != nil {
		return err
	}
	if err := req.Validate(svc.validate); err != nil {
		return err
	}
	msg, err := svc.backend.ResetPassword(ctx, req)
	if err != nil {
		svc.notifier.Error(core.ServerMessage(err, msgGenericFailure))
		return errors.Wrap(err, "resetting password")
	}
	svc.notifier.Success(orDefault(msg, msgPasswordReset))
	return nil
}

// VerifyEmail verifies the email of the logged in admin (or `email` when logged out).
// A logged in session is refreshed to pick up the new `authenticated` flag.
func (svc *Service) VerifyEmail(ctx context.Context, email, otp string) error {
	if !core.ValidOTP(core.CleanString(otp)) {
		svc.notifier.Error(msgVerifyOTPInvalid)
		return ErrInvalidOTP
	}
	req := VerifyEmail{Email: svc.emailOr(email), OTP: otp}
	if err := req.Validate(svc.validate); err != nil {
		return err
	}
	if _, err := svc.backend.VerifyEmail(ctx, req); err != nil {
		svc.notifier.Error(core.ServerMessage(err, msgVerifyFailed))
		return errors.Wrap(err, "verifying email")
	}
	svc.notifier.Success(msgEmailVerified)
	if _, ok := svc.store.Profile(); ok {
		svc.store.Refresh(ctx)
	}
	return nil
}

// ResendVerifyOTP sends a new email verification OTP unless the email is already verified.
func (svc *Service) ResendVerifyOTP(ctx context.Context, email string) error {
	if prof, ok := svc.store.Profile(); ok && prof.Authenticated {
		svc.notifier.Error(msgAlreadyVerified)
		return ErrAlreadyVerified
	}
	req := ResendOTP{Email: svc.emailOr(email)}
	if err := req.Validate(svc.validate); err != nil {
		return err
	}
	if _, err := svc.backend.SendVerifyOTP(ctx, req); err != nil {
		svc.notifier.Error(msgResendFailed)
		return errors.Wrap(err, "resending verification otp")
	}
	svc.notifier.Success(msgOTPResent)
	return nil
}

func (svc *Service) emailOr(email string) string {
	if prof, ok := svc.store.Profile(); ok && prof.Email != "" {
		return prof.Email
	}
	return email
}

func orDefault(s, def string) string {
	if s = core.CleanString(s); s != "" {
		return s
	}
	return def
}
