package echoweb

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/eduport/admin/core/account"
	"github.com/eduport/admin/core/route"
)

const (
	msgSignOutFailed = "Something went wrong. Please try again."
	resetSteps       = 3 // email, otp, new password
)

type authScreens struct {
	s *Server
}

type (
	signInView struct {
		Next string
	}

	resetPasswordView struct {
		Step  int
		Email string
	}

	verifyEmailView struct {
		Email    string
		LoggedIn bool
	}
)

func registerAuthScreens(s *Server) {
	screens := authScreens{s: s}

	s.screen(route.ScreenSignIn, screens.signInForm, screens.signIn)
	s.screen(route.ScreenSignUp, screens.signUpForm, screens.signUp)
	s.screen(route.ScreenResetPassword, screens.resetPasswordForm, screens.resetPassword)
	s.screen(route.ScreenVerifyEmail, screens.verifyEmailForm, screens.verifyEmail)
	s.app.POST("/signout", screens.signOut)
}

// persist saves the backend cookies after an account action changed them.
func (screens authScreens) persist(ctx echo.Context, b *browser) error {
	return errors.Wrap(screens.s.sessions.Persist(ctx.Request().Context(), b), "persisting session")
}

func (screens authScreens) signInForm(ctx echo.Context, b *browser, d route.Decision) error {
	return screens.s.render(ctx, b, http.StatusOK, d, signInView{Next: safeNext(ctx.QueryParam("next"), "")})
}

func (screens authScreens) signIn(ctx echo.Context, b *browser, _ route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	req := account.SignIn{Email: vals.Get("email"), Password: vals.Get("password")}
	if _, err = b.accounts.SignIn(ctx.Request().Context(), req); err != nil {
		screens.s.invalid(b, err)
		return reload(ctx)
	}
	if err = screens.persist(ctx, b); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, safeNext(vals.Get("next"), pattern(route.ScreenHome)))
}

func (screens authScreens) signUpForm(ctx echo.Context, b *browser, d route.Decision) error {
	return screens.s.render(ctx, b, http.StatusOK, d, nil)
}

func (screens authScreens) signUp(ctx echo.Context, b *browser, _ route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	req := account.SignUp{
		Username: vals.Get("username"),
		Email:    vals.Get("email"),
		Password: vals.Get("password"),
	}
	if _, err = b.accounts.SignUp(ctx.Request().Context(), req); err != nil {
		screens.s.invalid(b, err)
		return reload(ctx)
	}
	if err = screens.persist(ctx, b); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, pattern(route.ScreenVerifyEmail))
}

func (screens authScreens) signOut(ctx echo.Context) error {
	b, err := getContextBrowser(ctx)
	if err != nil {
		return err
	}
	if err = b.accounts.SignOut(ctx.Request().Context()); err != nil {
		screens.s.fail(ctx, b, err, msgSignOutFailed)
	}

	b.draftsMu.Lock()
	for screen := range b.drafts {
		b.resetDraft(screen)
	}
	b.draftsMu.Unlock()
	b.previews.ReleaseAll()

	if err = screens.persist(ctx, b); err != nil {
		return err
	}
	return ctx.Redirect(http.StatusSeeOther, pattern(route.ScreenSignIn))
}

func (screens authScreens) resetPasswordForm(ctx echo.Context, b *browser, d route.Decision) error {
	b.draftsMu.Lock()
	dr := b.draftOf(route.ScreenResetPassword, resetSteps)
	view := resetPasswordView{Step: dr.wizard.Current, Email: dr.values.Get("email")}
	b.draftsMu.Unlock()
	return screens.s.render(ctx, b, http.StatusOK, d, view)
}

// resetPassword drives the 3 steps of the password reset: request an OTP, check it, set the new password.
func (screens authScreens) resetPassword(ctx echo.Context, b *browser, _ route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	b.draftsMu.Lock()
	defer b.draftsMu.Unlock()
	dr := b.draftOf(route.ScreenResetPassword, resetSteps)

	switch vals.Get("action") {
	case "send":
		req := account.ForgotPassword{Email: vals.Get("email")}
		if err = b.accounts.RequestPasswordReset(rctx, req); err != nil {
			screens.s.invalid(b, err)
			break
		}
		dr.values.Set("email", req.Email)
		dr.wizard.Goto(2)
	case "otp":
		otp := vals.Get("otp")
		if err = b.accounts.CheckOTP(otp); err != nil {
			break
		}
		dr.values.Set("otp", otp)
		dr.wizard.Goto(3)
	case "reset":
		req := account.ResetPassword{
			Email:       dr.values.Get("email"),
			OTP:         dr.values.Get("otp"),
			NewPassword: vals.Get("newPassword"),
		}
		if err = b.accounts.ResetPassword(rctx, req); err != nil {
			if !screens.s.invalid(b, err) && errors.Cause(err) != account.ErrInvalidOTP {
				// rejected by the backend, the OTP must be entered again
				dr.values.Del("otp")
				dr.wizard.Goto(2)
			}
			break
		}
		b.resetDraft(route.ScreenResetPassword)
		return ctx.Redirect(http.StatusSeeOther, pattern(route.ScreenSignIn))
	case "back":
		dr.wizard.Prev()
	default:
		return errUnexpectedAction
	}
	return reload(ctx)
}

func (screens authScreens) verifyEmailForm(ctx echo.Context, b *browser, d route.Decision) error {
	view := verifyEmailView{}
	if prof, ok := b.store.Profile(); ok {
		view.Email = prof.Email
		view.LoggedIn = true
	}
	return screens.s.render(ctx, b, http.StatusOK, d, view)
}

func (screens authScreens) verifyEmail(ctx echo.Context, b *browser, _ route.Decision) error {
	vals, err := formValues(ctx)
	if err != nil {
		return err
	}
	rctx := ctx.Request().Context()

	switch vals.Get("action") {
	case "verify":
		if err = b.accounts.VerifyEmail(rctx, vals.Get("email"), vals.Get("otp")); err != nil {
			screens.s.invalid(b, err)
			break
		}
		if err = screens.persist(ctx, b); err != nil {
			return err
		}
		return ctx.Redirect(http.StatusSeeOther, pattern(route.ScreenHome))
	case "resend":
		if err = b.accounts.ResendVerifyOTP(rctx, vals.Get("email")); err != nil {
			screens.s.invalid(b, err)
		}
	default:
		return errUnexpectedAction
	}
	return reload(ctx)
}
