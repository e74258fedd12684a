package main

import (
	"fmt"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/tui/profile"
	"github.com/openavatar/openavatar/internal/tui/theme"
)

var profileFlags struct {
	json bool
}

var profileCmd = &cobra.Command{
	Use:   "profile [uid|link]",
	Short: "Show your profile or one shared with you",
	Long: `Open a profile in the full-screen viewer. With no argument your own
profile is shown and updates live. A share link or bare uid opens someone
else's profile.

Use --json to print the profile instead; the output is highlighted when
stdout is a terminal.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		link := ""
		if len(args) == 1 {
			link = linkArg(a.cfg.ShareBaseURL, args[0])
			a.ui.RememberLink(link)
			defer a.saveUI()
		}

		if profileFlags.json {
			var p *account.Profile
			if link != "" {
				p, err = a.svc.OpenLink(ctx, link)
			} else {
				p, err = a.svc.MyProfile(ctx)
			}
			if err != nil {
				return signedInHint(err)
			}
			out, err := profile.MarshalJSON(p, term.IsTerminal(os.Stdout.Fd()))
			if err != nil {
				return err
			}
			fmt.Println(out)
			return nil
		}

		return profile.Run(ctx, a.svc, profile.Options{
			Link:        link,
			ShowPrompts: a.ui.Viewer.ShowPrompts,
			OnTheme: func(name string) {
				a.ui.Theme = name
				a.saveUI()
			},
			OnPrompts: func(show bool) {
				a.ui.Viewer.ShowPrompts = show
				a.saveUI()
			},
		})
	},
}

// linkArg accepts either a share link or a bare uid.
func linkArg(base, arg string) string {
	if strings.Contains(arg, "/") {
		return arg
	}
	return account.ShareLink(base, arg)
}

var shareCmd = &cobra.Command{
	Use:   "share",
	Short: "Print your profile's share link",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		link, err := a.svc.ShareLink(cmd.Context())
		if err != nil {
			return signedInHint(err)
		}
		fmt.Println(link)
		return nil
	},
}

var activityFlags struct {
	limit int
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "List your recent account activity",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		events, err := a.svc.Activity(cmd.Context())
		if err != nil {
			return signedInHint(err)
		}
		if len(events) == 0 {
			fmt.Println("No activity yet.")
			return nil
		}
		lipgloss.Println(formatActivity(events, activityFlags.limit))
		return nil
	},
}

// formatActivity renders the newest limit events, oldest first.
func formatActivity(events []account.Activity, limit int) string {
	if limit > 0 && len(events) > limit {
		events = events[len(events)-limit:]
	}
	s := theme.Current().S()
	lines := make([]string, len(events))
	for i, e := range events {
		line := s.Muted.Render(e.Timestamp.Local().Format("2006-01-02 15:04")) + "  " +
			s.Label.Render(e.Kind) + " " + s.Text.Render(e.Action)
		if e.Data != "" {
			line += " " + s.Muted.Render(e.Data)
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

func init() {
	profileCmd.Flags().BoolVar(&profileFlags.json, "json", false, "Print the profile as JSON")
	activityCmd.Flags().IntVarP(&activityFlags.limit, "limit", "n", 20, "Number of events to show (0 for all)")
}
