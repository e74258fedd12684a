package main

import (
	"context"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/openavatar/openavatar/internal/logger"
	"github.com/openavatar/openavatar/internal/tui/theme"
)

const (
	logoText1 = "█▀█ █▀█ █▀▀ █▄ █ ▄▀█ █ █ ▄▀█ ▀█▀ ▄▀█ █▀█"
	logoText2 = "█▄█ █▀▀ ██▄ █ ▀█ █▀█ ▀▄▀ █▀█  █  █▀█ █▀▄"
)

// Version set via ldflags during build
var version = "dev"

func main() {
	defer func() { _ = logger.Close() }()

	if err := fang.Execute(context.Background(), rootCmd, fang.WithVersion(version)); err != nil {
		logger.Error("Command execution failed: %v", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "openavatar",
	Short: "Your profile in one link",
}

// renderLogo creates the logo with gradient colors
func renderLogo() string {
	t := theme.NewCatppuccinMocha()
	line1 := theme.ApplyGradient(logoText1, t.Primary, t.Secondary)
	line2 := theme.ApplyGradient(logoText2, t.Primary, t.Secondary)
	return strings.Join([]string{line1, line2}, "\n")
}

func init() {
	rootCmd.Long = renderLogo() + `

openavatar creates and shares personal profiles backed by Firebase.
Sign up with the onboarding wizard, edit your bio and avatar, and hand out
a share link that opens your profile for anyone signed in.

Sessions, cached profiles and the activity journal live in an embedded
NATS JetStream store under the data directory.`

	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(onboardCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(resetPasswordCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(bioCmd)
	rootCmd.AddCommand(avatarCmd)
	rootCmd.AddCommand(shareCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
}
