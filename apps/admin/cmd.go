package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"syscall"

	"github.com/go-playground/validator/v10"
	"golang.org/x/term"

	"github.com/eduport/admin/core/account"
	"github.com/eduport/admin/core/notify"
	"github.com/eduport/admin/core/session"
	"github.com/eduport/admin/services/backend"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	readLineFunc     = readLine          // mockable

	errHelp = errors.New("help provided")
)

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// commandLine runs the account and reporting tasks of an admin against the backend.
type commandLine struct {
	client   *backend.Client
	store    *session.Store
	notices  *notify.Queue
	accounts *account.Service
	out      io.Writer
}

func newCommandLine(client *backend.Client, validate *validator.Validate, out io.Writer) *commandLine {
	notices := notify.NewQueue()
	store := session.NewStore(client, notices)
	return &commandLine{
		client:   client,
		store:    store,
		notices:  notices,
		accounts: account.NewService(client, store, notices, validate),
		out:      out,
	}
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  resetpassword -email EMAIL - reset an admin's password; the OTP and the new password will be prompted")
	fmt.Fprintln(cli.out, "  verifyemail -email EMAIL [-resend] - verify an admin's email; the OTP will be prompted")
	fmt.Fprintln(cli.out, "  profile -email EMAIL - sign in and print the admin's profile")
	fmt.Fprintln(cli.out, "  export-orders -email EMAIL [-out FILE] [-ordering FIELDS] - export the course purchases to an Excel file")
}

// printNotices prints the outcome messages of the last backend calls.
func (cli *commandLine) printNotices() {
	for _, n := range cli.notices.Drain() {
		fmt.Fprintf(cli.out, "[%s] %s\n", n.Level, n.Message)
	}
}

func (cli *commandLine) prompt(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	line, err := readLineFunc()
	fmt.Fprintln(cli.out)
	return line, err
}

func (cli *commandLine) promptPassword(label string) (string, error) {
	fmt.Fprint(cli.out, label)
	pwd, err := readPasswordFunc(int(syscall.Stdin))
	fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	defer cli.printNotices()

	resetPasswordCmd := flag.NewFlagSet("resetpassword", flag.ContinueOnError)
	resetPasswordEmail := resetPasswordCmd.String("email", "", "The admin's email. The OTP and the new password will be prompted next.")

	verifyEmailCmd := flag.NewFlagSet("verifyemail", flag.ContinueOnError)
	verifyEmailEmail := verifyEmailCmd.String("email", "", "The admin's email. The OTP will be prompted next.")
	verifyEmailResend := verifyEmailCmd.Bool("resend", false, "Send a new OTP instead of verifying one.")

	profileCmd := flag.NewFlagSet("profile", flag.ContinueOnError)
	profileEmail := profileCmd.String("email", "", "The admin's email. The password will be prompted next.")

	exportCmd := flag.NewFlagSet("export-orders", flag.ContinueOnError)
	exportEmail := exportCmd.String("email", "", "The admin's email. The password will be prompted next.")
	exportOut := exportCmd.String("out", "", "The Excel file to write. Defaults to course-buys_YYYYMMDD.xlsx.")
	exportOrdering := exportCmd.String("ordering", "-created_at", "Comma separated fields to sort the orders by, prefixed by '-' for descending order.")

	for _, fs := range []*flag.FlagSet{resetPasswordCmd, verifyEmailCmd, profileCmd, exportCmd} {
		fs.SetOutput(cli.out)
	}

	switch args[1] {
	case "resetpassword":
		if err := resetPasswordCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *resetPasswordEmail == "" {
			resetPasswordCmd.Usage()
			return errHelp
		}
		return cli.resetPassword(*resetPasswordEmail)

	case "verifyemail":
		if err := verifyEmailCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *verifyEmailEmail == "" {
			verifyEmailCmd.Usage()
			return errHelp
		}
		return cli.verifyEmail(*verifyEmailEmail, *verifyEmailResend)

	case "profile":
		if err := profileCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *profileEmail == "" {
			profileCmd.Usage()
			return errHelp
		}
		return cli.profile(*profileEmail)

	case "export-orders":
		if err := exportCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *exportEmail == "" {
			exportCmd.Usage()
			return errHelp
		}
		return cli.exportOrders(*exportEmail, *exportOut, *exportOrdering)

	default:
		cli.printUsage()
		return errHelp
	}
}
