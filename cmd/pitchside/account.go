package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/pharaohs/pitchside/internal/domain"
	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and keep the session for later runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter()
			var err error
			if email == "" {
				if email, err = p.ask("Email", ""); err != nil {
					return err
				}
			}
			password, err := p.password("Password")
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				user, err := a.svc.Auth.Login(cmd.Context(), domain.LoginRequest{Email: email, Password: password})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s (%s)\n", user.Name, user.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&email, "email", "e", "", "account email")
	return cmd
}

func newRegisterCmd() *cobra.Command {
	var req domain.RegisterRequest
	var role string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a player or scout account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrompter()
			var err error
			if req.Name == "" {
				if req.Name, err = p.ask("Name", ""); err != nil {
					return err
				}
			}
			if req.Email == "" {
				if req.Email, err = p.ask("Email", ""); err != nil {
					return err
				}
			}
			if req.Password, err = p.password("Password"); err != nil {
				return err
			}
			if req.ConfirmPassword, err = p.password("Confirm password"); err != nil {
				return err
			}
			req.Role = domain.Role(role)
			return withApp(func(a *app) error {
				user, err := a.svc.Auth.Register(cmd.Context(), req)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s. You are signed in as a %s.\n", user.Name, user.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVarP(&req.Email, "email", "e", "", "account email")
	cmd.Flags().StringVar(&role, "role", string(domain.RolePlayer), "player or scout")
	cmd.Flags().StringVar(&req.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session and cached data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if !a.svc.Auth.IsLoggedIn() {
					fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
					return nil
				}
				a.svc.Auth.Logout()
				return nil
			})
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				user := a.svc.Auth.CurrentUser()
				if user == nil {
					return domain.ErrNotLoggedIn
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)
				fmt.Fprintf(out, "role:    %s\n", user.Role)
				fmt.Fprintf(out, "server:  %s\n", a.cfg.Server.URL)
				exp, err := a.session.ExpiresAt()
				switch {
				case err == nil:
					fmt.Fprintf(out, "expires: %s\n", describeExpiry(exp, time.Now()))
				case !errors.Is(err, domain.ErrNotLoggedIn):
					a.logger.Debug("token without expiry", "error", err)
				}
				return nil
			})
		},
	}
}

// describeExpiry renders a token expiry relative to now
func describeExpiry(exp, now time.Time) string {
	if exp.IsZero() {
		return "never"
	}
	left := exp.Sub(now)
	if left <= 0 {
		return "expired " + exp.Local().Format(time.DateTime)
	}
	return fmt.Sprintf("%s (in %s)", exp.Local().Format(time.DateTime), left.Round(time.Minute))
}
