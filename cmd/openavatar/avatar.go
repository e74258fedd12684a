package main

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/tui/wizard"
)

// maxAvatarSize caps uploads at 5 MiB.
const maxAvatarSize = 5 << 20

var avatarCmd = &cobra.Command{
	Use:   "avatar",
	Short: "Manage your avatar image",
}

var avatarUploadCmd = &cobra.Command{
	Use:   "upload [file]",
	Short: "Upload a new avatar image",
	Long: `Upload an image as your avatar. Without a file argument a picker opens
in the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			picked, err := wizard.RunFilePicker("Choose an avatar", ".", wizard.ImageExts)
			if errors.Is(err, wizard.ErrCancelled) {
				return nil
			}
			if err != nil {
				return err
			}
			path = picked
		}

		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening avatar: %w", err)
		}
		defer func() { _ = f.Close() }()

		contentType, err := imageType(f)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		url, err := a.svc.UploadAvatar(ctx, filepath.Base(path), contentType, f)
		if err != nil {
			return signedInHint(err)
		}
		fmt.Println("Avatar uploaded:", url)
		return nil
	},
}

var avatarRemoveCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove your avatar image",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := openApp(ctx, true)
		if err != nil {
			return err
		}
		defer a.close()

		err = a.svc.RemoveAvatar(ctx)
		switch {
		case errors.Is(err, account.ErrNoAvatar):
			fmt.Println("You don't have an avatar.")
			return nil
		case err != nil:
			return signedInHint(err)
		}
		fmt.Println("Avatar removed.")
		return nil
	},
}

// imageType sniffs the content type of f, falling back to its extension, and
// rewinds it. Only images up to maxAvatarSize are accepted.
func imageType(f *os.File) (string, error) {
	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if info.Size() > maxAvatarSize {
		return "", fmt.Errorf("avatar is %d bytes, the limit is %d", info.Size(), maxAvatarSize)
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(head[:n])
	if !strings.HasPrefix(contentType, "image/") {
		ext := strings.ToLower(filepath.Ext(f.Name()))
		if byExt := mime.TypeByExtension(ext); slices.Contains(wizard.ImageExts, ext) && byExt != "" {
			contentType = byExt
		}
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", filepath.Base(f.Name()), contentType)
	}
	return contentType, nil
}

func init() {
	avatarCmd.AddCommand(avatarUploadCmd)
	avatarCmd.AddCommand(avatarRemoveCmd)
}
