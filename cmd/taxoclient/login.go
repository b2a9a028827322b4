package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	flagEmail    string
	flagPassword string
	flagSignUp   bool
	flagReset    bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate against the hosted backend",
	Long: `Sign in (or, with --signup, register) and cache the session locally so
subsequent commands work offline. With --reset, trigger the hosted password
recovery flow for the given email instead.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().StringVarP(&flagEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&flagPassword, "password", "p", "", "account password (prompted when omitted)")
	loginCmd.Flags().BoolVar(&flagSignUp, "signup", false, "register a new account")
	loginCmd.Flags().BoolVar(&flagReset, "reset", false, "send a password recovery email")
}

func runLogin(cmd *cobra.Command, _ []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Stop()

	ctx := cmd.Context()
	if !app.Connect(ctx) {
		return fmt.Errorf("backend is unreachable, cannot authenticate")
	}

	email, err := promptIfEmpty(flagEmail, "email: ")
	if err != nil {
		return err
	}

	if flagReset {
		if err = app.Services().Auth.ResetPassword(ctx, email); err != nil {
			return err
		}
		cmd.Printf("recovery email sent to %s\n", email)
		return nil
	}

	password, err := promptIfEmpty(flagPassword, "password: ")
	if err != nil {
		return err
	}

	auth := app.Services().Auth

	if flagSignUp {
		if _, err := auth.SignUp(ctx, email, password); err != nil {
			return err
		}
		cmd.Printf("account created for %s\n", email)
		return nil
	}

	st, err := auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	if st.Organization != nil {
		cmd.Printf("signed in as %s (%s)\n", st.User.Email, st.Organization.Name)
	} else {
		cmd.Printf("signed in as %s\n", st.User.Email)
	}

	return nil
}

func promptIfEmpty(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}

	fmt.Fprint(os.Stderr, prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("empty input")
	}
	return line, nil
}
