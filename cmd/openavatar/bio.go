package main

import (
	"errors"
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"github.com/openavatar/openavatar/internal/tui/profile"
	"github.com/openavatar/openavatar/internal/tui/wizard"
)

var bioFlags struct {
	set   string
	clear bool
	edit  bool
}

var bioCmd = &cobra.Command{
	Use:   "bio",
	Short: "Show or change your bio",
	Long: `Print your bio, or change it with --set, --clear or --edit.
--edit opens the bio in $EDITOR. A diff of the change is printed afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		changes := 0
		for _, set := range []bool{cmd.Flags().Changed("set"), bioFlags.clear, bioFlags.edit} {
			if set {
				changes++
			}
		}
		if changes > 1 {
			return errors.New("use only one of --set, --clear and --edit")
		}

		ctx := cmd.Context()
		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		p, err := a.svc.MyProfile(ctx)
		if err != nil {
			return signedInHint(err)
		}

		var bio string
		switch {
		case bioFlags.clear:
		case bioFlags.edit:
			if !wizard.EditorAvailable() {
				return errors.New("set $EDITOR to edit your bio")
			}
			bio, err = wizard.EditText(p.Bio, "openavatar-bio-*.md")
			if err != nil {
				return err
			}
		case cmd.Flags().Changed("set"):
			bio = bioFlags.set
		default:
			if p.Bio == "" {
				fmt.Println("Your bio is empty. Set one with `openavatar bio --edit`.")
				return nil
			}
			fmt.Println(p.Bio)
			return nil
		}

		previous, err := a.svc.SetBio(ctx, bio)
		if err != nil {
			return err
		}
		if diff := profile.BioDiff(previous, bio); diff != "" {
			lipgloss.Println(diff)
		} else {
			fmt.Println("Bio unchanged.")
		}
		return nil
	},
}

func init() {
	bioCmd.Flags().StringVar(&bioFlags.set, "set", "", "Replace the bio with this text")
	bioCmd.Flags().BoolVar(&bioFlags.clear, "clear", false, "Remove the bio")
	bioCmd.Flags().BoolVarP(&bioFlags.edit, "edit", "e", false, "Edit the bio in $EDITOR")
}
