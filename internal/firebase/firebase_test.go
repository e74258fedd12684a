package firebase

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	"github.com/openavatar/openavatar/internal/account"
)

func TestAvatarObjectPath(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"Me At The Beach.PNG", "avatars/uid1/me-at-the-beach-abcd1234.png"},
		{"/tmp/photos/portrait.jpg", "avatars/uid1/portrait-abcd1234.jpg"},
		{"ünïcode.webp", "avatars/uid1/unicode-abcd1234.webp"},
		{".png", "avatars/uid1/avatar-abcd1234.png"},
	}
	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			assert.Equal(t, tt.want, AvatarObjectPath("uid1", tt.filename, "abcd1234"))
		})
	}
}

func TestDownloadURL(t *testing.T) {
	got := DownloadURL("demo.appspot.com", "avatars/uid1/me.png", "tok")
	assert.Equal(t,
		"https://firebasestorage.googleapis.com/v0/b/demo.appspot.com/o/avatars%2Fuid1%2Fme.png?alt=media&token=tok",
		got)
}

func TestFriendly(t *testing.T) {
	apiErr := func(msg string) error {
		return &googleapi.Error{Code: http.StatusBadRequest, Message: msg}
	}

	assert.ErrorIs(t, friendly(apiErr("INVALID_PASSWORD")), account.ErrInvalidCredentials)
	assert.ErrorIs(t, friendly(apiErr("INVALID_LOGIN_CREDENTIALS")), account.ErrInvalidCredentials)
	assert.ErrorIs(t, friendly(apiErr("EMAIL_NOT_FOUND")), account.ErrInvalidCredentials)
	assert.ErrorIs(t, friendly(apiErr("EMAIL_EXISTS")), account.ErrEmailInUse)
	assert.EqualError(t, friendly(apiErr("TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled")),
		"too many attempts, try again later")
	assert.EqualError(t, friendly(apiErr("WEAK_PASSWORD : Password should be at least 6 characters")),
		"the password must be 6 characters long or more")

	other := errors.New("boom")
	assert.Equal(t, other, friendly(other))
	assert.NoError(t, friendly(nil))
}
