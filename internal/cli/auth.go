package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	apperrors "github.com/httech/voltgo/internal/pkg/errors"
	"github.com/httech/voltgo/internal/session"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "auth",
		Short:       "Authentication commands",
		Annotations: map[string]string{requiresKey: requiresClient},
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthStatusCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with username and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				username = promptInput("Username: ")
			}
			if password == "" {
				password = promptPassword("Password: ")
			}
			if username == "" || password == "" {
				return fmt.Errorf("username and password are required")
			}

			if err := openSessions(); err != nil {
				return err
			}

			if _, err := sessions.Login(cmd.Context(), username, password); err != nil {
				return fmt.Errorf("login failed: %w", apperrors.FromFetch(err))
			}

			fmt.Printf("Logged in as %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openSessions(); err != nil {
				return err
			}

			s, err := sessions.Restore(cmd.Context())
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				return err
			}
			if err := sessions.Logout(cmd.Context(), s); err != nil {
				return err
			}

			fmt.Println("Logged out successfully")
			return nil
		},
	}
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether a session is stored",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := openSessions(); err != nil {
				return err
			}
			path, _ := cfg.StatePath()

			_, err := sessions.Restore(cmd.Context())
			loggedIn := err == nil
			if err != nil && !errors.Is(err, session.ErrNoSession) {
				return err
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(map[string]interface{}{
					"logged_in":  loggedIn,
					"state_path": path,
					"auth_url":   cfg.API.AuthURL,
				})
			}

			if loggedIn {
				fmt.Println("Logged in")
			} else {
				fmt.Println("Not logged in")
			}
			fmt.Printf("Auth server: %s\n", cfg.API.AuthURL)
			fmt.Printf("State:       %s\n", path)
			return nil
		},
	}
}

func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}
