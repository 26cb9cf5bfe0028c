package main

import (
	"context"
	"fmt"

	"github.com/eduport/admin/core/account"
	"github.com/eduport/admin/core/session"
)

func (cli *commandLine) resetPassword(email string) error {
	ctx := context.Background()
	if err := cli.accounts.RequestPasswordReset(ctx, account.ForgotPassword{Email: email}); err != nil {
		return err
	}
	otp, err := cli.prompt("Enter OTP:")
	if err != nil {
		return err
	}
	if err = cli.accounts.CheckOTP(otp); err != nil {
		return err
	}
	pwd, err := cli.promptPassword("Enter new password:")
	if err != nil {
		return err
	}
	return cli.accounts.ResetPassword(ctx, account.ResetPassword{Email: email, OTP: otp, NewPassword: pwd})
}

func (cli *commandLine) verifyEmail(email string, resend bool) error {
	ctx := context.Background()
	if resend {
		return cli.accounts.ResendVerifyOTP(ctx, email)
	}
	otp, err := cli.prompt("Enter OTP:")
	if err != nil {
		return err
	}
	return cli.accounts.VerifyEmail(ctx, email, otp)
}

// signIn prompts for the password of `email` and logs in.
func (cli *commandLine) signIn(email string) (*session.Profile, error) {
	pwd, err := cli.promptPassword("Enter password:")
	if err != nil {
		return nil, err
	}
	return cli.accounts.SignIn(context.Background(), account.SignIn{Email: email, Password: pwd})
}

func (cli *commandLine) profile(email string) error {
	prof, err := cli.signIn(email)
	if err != nil {
		return err
	}
	verified := "no"
	if prof.Authenticated {
		verified = "yes"
	}
	fmt.Fprintf(cli.out, "ID:       %s\n", prof.ID)
	fmt.Fprintf(cli.out, "Username: %s\n", prof.Username)
	fmt.Fprintf(cli.out, "Email:    %s\n", prof.Email)
	fmt.Fprintf(cli.out, "Verified: %s\n", verified)
	return nil
}
