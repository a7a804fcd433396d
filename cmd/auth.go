// ABOUTME: Account commands: login, logout, whoami, register and password reset
// ABOUTME: Passwords are read without echo when stdin is a terminal

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
	"github.com/TennysonKnoxLove/Venue-Tracker/internal/validate"
)

var (
	loginUsername string
	regUsername   string
	regEmail      string
	regFirstName  string
	regLastName   string
	resetEmail    string
	resetCode     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runLogin(ctx, e, newPrompter(os.Stdin, w), w)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runLogout)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runWhoami)
	},
}

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runRegister(ctx, e, newPrompter(os.Stdin, w), w)
		})
	},
}

var passwordResetCmd = &cobra.Command{
	Use:   "password-reset",
	Short: "Reset a forgotten password by email code",
}

var resetRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Email a reset code",
	Run: func(cmd *cobra.Command, args []string) {
		execute(runResetRequest)
	},
}

var resetVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Set a new password using the emailed code",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context, e *env, w io.Writer) int {
			return runResetVerify(ctx, e, newPrompter(os.Stdin, w), w)
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, registerCmd, passwordResetCmd)
	passwordResetCmd.AddCommand(resetRequestCmd, resetVerifyCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when empty)")

	registerCmd.Flags().StringVar(&regUsername, "username", "", "Username")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "Email address")
	registerCmd.Flags().StringVar(&regFirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&regLastName, "last-name", "", "Last name")
	registerCmd.MarkFlagRequired("username")
	registerCmd.MarkFlagRequired("email")

	for _, c := range []*cobra.Command{resetRequestCmd, resetVerifyCmd} {
		c.Flags().StringVar(&resetEmail, "email", "", "Account email")
		c.MarkFlagRequired("email")
	}
	resetVerifyCmd.Flags().StringVar(&resetCode, "code", "", "Code from the reset email")
	resetVerifyCmd.MarkFlagRequired("code")
}

// prompter asks for input on in, echoing prompts to w
type prompter struct {
	in io.Reader
	r  *bufio.Reader
	w  io.Writer
}

func newPrompter(in io.Reader, w io.Writer) *prompter {
	return &prompter{in: in, r: bufio.NewReader(in), w: w}
}

// Line reads one trimmed line
func (p *prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.w, prompt)
	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Secret reads a line without echo when in is a terminal
func (p *prompter) Secret(prompt string) (string, error) {
	if f, ok := p.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.w, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.w)
		return string(b), err
	}
	line, err := p.Line(prompt)
	return line, err
}

func runLogin(ctx context.Context, e *env, p *prompter, w io.Writer) int {
	username := loginUsername
	if username == "" {
		var err error
		if username, err = p.Line("Username: "); err != nil {
			return e.fail(w, err)
		}
	}
	if err := validate.Name("username", username); err != nil {
		return e.fail(w, err)
	}
	password, err := p.Secret("Password: ")
	if err != nil {
		return e.fail(w, err)
	}
	if password == "" {
		return e.fail(w, errors.New("password is required"))
	}

	if err := e.sess.Login(ctx, username, password); err != nil {
		// a 401 here is a bad password, not an expired session
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	user := e.sess.User()
	emit(w, user, func() {
		fmt.Fprintf(w, "Logged in as %s\n", user.Username)
	})
	return exitOK
}

func runLogout(ctx context.Context, e *env, w io.Writer) int {
	if err := e.sess.Logout(); err != nil {
		return e.fail(w, err)
	}
	fmt.Fprintln(w, "Logged out")
	return exitOK
}

func runWhoami(ctx context.Context, e *env, w io.Writer) int {
	if err := e.authed(ctx); err != nil {
		return e.fail(w, err)
	}
	user := e.sess.User()
	emit(w, user, func() {
		fmt.Fprintln(w, formatUser(user))
	})
	return exitOK
}

func formatUser(u *client.User) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return fmt.Sprintf("%s <%s>", u.Username, u.Email)
	}
	return fmt.Sprintf("%s (%s) <%s>", u.Username, name, u.Email)
}

func runRegister(ctx context.Context, e *env, p *prompter, w io.Writer) int {
	if err := validate.Name("username", regUsername); err != nil {
		return e.fail(w, err)
	}
	password, err := p.Secret("Password: ")
	if err != nil {
		return e.fail(w, err)
	}
	confirm, err := p.Secret("Confirm password: ")
	if err != nil {
		return e.fail(w, err)
	}
	if password != confirm {
		return e.fail(w, errors.New("passwords do not match"))
	}

	user, err := e.client.Auth.Register(ctx, &client.RegisterInput{
		Username:  regUsername,
		Email:     regEmail,
		Password:  password,
		Password2: confirm,
		FirstName: regFirstName,
		LastName:  regLastName,
	})
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, user, func() {
		fmt.Fprintf(w, "Account created for %s. Run `venue login` to sign in.\n", user.Username)
	})
	return exitOK
}

func runResetRequest(ctx context.Context, e *env, w io.Writer) int {
	resp, err := e.client.Auth.RequestPasswordReset(ctx, resetEmail)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, resp, func() {
		fmt.Fprintln(w, messageOr(resp, "If the address has an account, a reset code is on its way."))
	})
	return exitOK
}

func runResetVerify(ctx context.Context, e *env, p *prompter, w io.Writer) int {
	password, err := p.Secret("New password: ")
	if err != nil {
		return e.fail(w, err)
	}
	if password == "" {
		return e.fail(w, errors.New("password is required"))
	}
	resp, err := e.client.Auth.VerifyPasswordReset(ctx, resetEmail, resetCode, password)
	if err != nil {
		return e.fail(w, err)
	}
	emit(w, resp, func() {
		fmt.Fprintln(w, messageOr(resp, "Password updated. Run `venue login` to sign in."))
	})
	return exitOK
}

func messageOr(m *client.MessageResponse, fallback string) string {
	if t := m.Text(); t != "" {
		return t
	}
	return fallback
}
