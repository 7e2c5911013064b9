// Account commands: signup, login, logout and whoami.
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/mealtracker/internal/dashboard"
)

var (
	authEmail    string
	authPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and cache the session token",
	Args:  cobra.NoArgs,
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the cached session token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the account the cached token belongs to",
	Args:  cobra.NoArgs,
	RunE:  runWhoAmI,
}

func init() {
	for _, c := range []*cobra.Command{signupCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "account email")
		c.Flags().StringVar(&authPassword, "password", "", "account password (prompted when omitted)")
	}
}

// credentials returns the email and password from flags, prompting for
// whatever is missing.
func credentials() (string, string, error) {
	email, password := authEmail, authPassword
	if err := dashboard.PromptCredentials(&email, &password); err != nil {
		return "", "", err
	}
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", "", fmt.Errorf("%w: email and password are required", errUsage)
	}
	return email, password, nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	email, password, err := credentials()
	if err != nil {
		return err
	}
	if err := newAnonymousClient().Signup(cmd.Context(), email, password); err != nil {
		return fmt.Errorf("signup: %w", err)
	}
	result := map[string]string{"email": email}
	return printOutput(cmd, result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Created account %s. Run \"mealtracker login\" to sign in.\n", email)
		return err
	})
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, password, err := credentials()
	if err != nil {
		return err
	}
	token, err := newAnonymousClient().Login(cmd.Context(), email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := writeToken(configDir, token); err != nil {
		return err
	}
	result := map[string]string{"email": email, "token": token}
	return printOutput(cmd, result, func(w io.Writer) error {
		_, err := fmt.Fprintf(w, "Logged in as %s.\n", email)
		return err
	})
}

func runLogout(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	// The server keeps no session state, so a failed call still logs out.
	if err := c.Logout(cmd.Context()); err != nil {
		logger.Debug("logout request failed", zap.Error(err))
	}
	if err := clearToken(configDir); err != nil {
		return err
	}
	return printOutput(cmd, map[string]bool{"loggedOut": true}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, "Logged out.")
		return err
	})
}

func runWhoAmI(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	email, err := c.WhoAmI(cmd.Context())
	if err != nil {
		return fmt.Errorf("whoami: %w", err)
	}
	return printOutput(cmd, map[string]string{"email": email}, func(w io.Writer) error {
		_, err := fmt.Fprintln(w, email)
		return err
	})
}
