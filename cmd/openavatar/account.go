package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openavatar/openavatar/internal/onboarding"
	"github.com/openavatar/openavatar/internal/tui/onboard"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard",
	Short: "Create an account with the onboarding wizard",
	Long: `Walk through nickname, name, email, password and bio, review the
answers and create your account. Existing users can pick "I have an account"
on the first screen to sign in instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		ctrl := onboarding.New(registrar(a.svc))
		outcome, err := onboard.Run(ctx, ctrl, onboard.Options{
			Login: func(ctx context.Context, email, password string) error {
				_, err := a.svc.Login(ctx, email, password)
				return err
			},
			ResetPassword: a.svc.ResetPassword,
		})
		if errors.Is(err, onboard.ErrCancelled) {
			fmt.Println("Onboarding cancelled.")
			return nil
		}
		if err != nil {
			return err
		}

		switch outcome {
		case onboard.OutcomeRegistered:
			fmt.Printf("Account created for @%s.\n", ctrl.State().Fields.Nickname)
		case onboard.OutcomeLoggedIn:
			fmt.Println("Signed in.")
		}
		if link, err := a.svc.ShareLink(ctx); err == nil {
			fmt.Printf("Share your profile: %s\n", link)
		}
		return nil
	},
}

var loginFlags struct {
	email string
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Sign in and store the session locally. The password is read from
OPENAVATAR_PASSWORD or prompted for on stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if loginFlags.email == "" {
			return fmt.Errorf("--email is required")
		}
		password := os.Getenv("OPENAVATAR_PASSWORD")
		if password == "" {
			fmt.Print("Password: ")
			line, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("reading password: %w", err)
			}
			password = strings.TrimRight(line, "\r\n")
		}

		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		sess, err := a.svc.Login(ctx, loginFlags.email, password)
		if err != nil {
			return err
		}
		fmt.Printf("Signed in as %s.\n", sess.Email)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.Logout(cmd.Context()); err != nil {
			return signedInHint(err)
		}
		fmt.Println("Signed out.")
		return nil
	},
}

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email>",
	Short: "Email a password reset link",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer a.close()

		if err := a.svc.ResetPassword(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("Password reset email sent to %s.\n", args[0])
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginFlags.email, "email", "e", "", "Account email")
}
