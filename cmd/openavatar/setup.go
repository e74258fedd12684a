package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/openavatar/openavatar/internal/config"
	"github.com/openavatar/openavatar/internal/tui/wizard"
)

var setupFlags struct {
	project     bool
	force       bool
	projectID   string
	apiKey      string
	credentials string
	bucket      string
	shareURL    string
}

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the openavatar configuration file",
	Long: `Create an openavatar configuration file.

Without flags an interactive wizard asks for the Firebase project and an
optional service account key. Pass --project-id and --api-key to write the
file non-interactively.

By default, writes the global config at ~/.config/openavatar/openavatar.yml.
Use --project to write ./openavatar.yml instead.`,
	RunE: runSetup,
}

func init() {
	setupCmd.Flags().BoolVarP(&setupFlags.project, "project", "p", false, "Create config in current directory instead of global location")
	setupCmd.Flags().BoolVarP(&setupFlags.force, "force", "f", false, "Overwrite existing config file")
	setupCmd.Flags().StringVar(&setupFlags.projectID, "project-id", "", "Firebase project id")
	setupCmd.Flags().StringVar(&setupFlags.apiKey, "api-key", "", "Firebase web API key")
	setupCmd.Flags().StringVar(&setupFlags.credentials, "credentials", "", "Service account key file")
	setupCmd.Flags().StringVar(&setupFlags.bucket, "bucket", "", "Cloud Storage bucket for avatars")
	setupCmd.Flags().StringVar(&setupFlags.shareURL, "share-url", config.DefaultShareBaseURL, "Base URL of share links")
}

func runSetup(cmd *cobra.Command, args []string) error {
	targetPath := config.GlobalPath()
	if setupFlags.project {
		targetPath = config.ProjectPath()
	}

	if !setupFlags.force && fileExists(targetPath) {
		return fmt.Errorf("config file already exists at %s\n\nUse --force to overwrite", targetPath)
	}

	base, err := config.Load()
	if err != nil {
		return err
	}

	var cfg *config.Config
	if setupFlags.projectID != "" {
		cfg = base
		cfg.ProjectID = setupFlags.projectID
		cfg.APIKey = setupFlags.apiKey
		cfg.CredentialsFile = setupFlags.credentials
		cfg.StorageBucket = setupFlags.bucket
		cfg.ShareBaseURL = setupFlags.shareURL
	} else {
		cfg, err = wizard.RunSetup(base)
		if errors.Is(err, wizard.ErrCancelled) {
			fmt.Println("Setup cancelled.")
			return nil
		}
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if setupFlags.project {
		err = config.WriteProject(cfg)
	} else {
		err = config.WriteGlobal(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	fmt.Printf("Config written to: %s\n\n", targetPath)
	fmt.Println("Run 'openavatar onboard' to create your account.")
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
