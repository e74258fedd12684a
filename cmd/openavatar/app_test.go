package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/onboarding"
	"github.com/openavatar/openavatar/internal/tui/testfixtures"
)

func TestRegistrationFrom(t *testing.T) {
	reg := registrationFrom(onboarding.Fields{
		Nickname:        "ada",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "ada@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		Bio:             "Poet of science.",
	})
	assert.Equal(t, account.Registration{
		Nickname:  "ada",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Password:  "secret1",
		Bio:       "Poet of science.",
	}, reg)
}

func TestLinkArg(t *testing.T) {
	base := "https://openavatar.web.app"
	assert.Equal(t, base+"/profile/abc123", linkArg(base, "abc123"))
	assert.Equal(t, "https://other.example/profile/x", linkArg(base, "https://other.example/profile/x"))
}

func TestSignedInHint(t *testing.T) {
	err := signedInHint(account.ErrNotSignedIn)
	assert.ErrorIs(t, err, account.ErrNotSignedIn)
	assert.Contains(t, err.Error(), "openavatar login")

	other := errors.New("boom")
	assert.Equal(t, other, signedInHint(other))
}

func TestFormatActivity(t *testing.T) {
	events := testfixtures.ActivityLog()

	all := strings.Split(testfixtures.Plain(formatActivity(events, 0)), "\n")
	require.Len(t, all, len(events))
	assert.Contains(t, all[0], testfixtures.FixedTime.Local().Format("2006-01-02 15:04"))
	assert.Contains(t, all[0], "registered")
	assert.Contains(t, all[2], testfixtures.OtherUID)

	last := strings.Split(testfixtures.Plain(formatActivity(events, 2)), "\n")
	require.Len(t, last, 2)
	assert.Contains(t, last[0], "bio updated", "limit keeps the newest events")
}

func TestImageType(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) *os.File {
		t.Helper()
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, data, 0o644))
		f, err := os.Open(path)
		require.NoError(t, err)
		t.Cleanup(func() { _ = f.Close() })
		return f
	}

	png := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)
	f := write("me.png", png)
	got, err := imageType(f)
	require.NoError(t, err)
	assert.Equal(t, "image/png", got)
	offset, err := f.Seek(0, 1)
	require.NoError(t, err)
	assert.Zero(t, offset, "file is rewound for upload")

	_, err = imageType(write("notes.txt", []byte("hello")))
	assert.ErrorContains(t, err, "not an image")

	_, err = imageType(write("big.png", make([]byte, maxAvatarSize+1)))
	assert.ErrorContains(t, err, "limit")
}
