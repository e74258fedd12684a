package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubtitle(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    string
	}{
		{"nickname only", Profile{Nickname: "ada"}, ""},
		{"name shows nickname", Profile{Nickname: "ada", FirstName: "Ada", LastName: "Lovelace"}, "ada"},
		{"pronouns without name", Profile{Nickname: "ada", Pronouns: "she/her"}, "she/her"},
		{
			"everything",
			Profile{Nickname: "ada", FirstName: "Ada", LastName: "Lovelace", Pronouns: "she/her", Job: "Analyst"},
			"ada • she/her • Analyst",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.profile.Subtitle())
		})
	}
}

func TestPrompts(t *testing.T) {
	p := Profile{Nickname: "ada", Bio: "hi", SocialAccounts: []string{"github.com/ada"}}
	assert.Equal(t, []string{
		"Add a name",
		"Add your pronouns",
		"Add a job",
		"Add an email or phone number",
	}, p.Prompts())
}

func TestIsShared(t *testing.T) {
	p := &Profile{UID: "abc"}
	assert.False(t, IsShared(p, &Session{UID: "abc"}))
	assert.True(t, IsShared(p, &Session{UID: "xyz"}))
	assert.True(t, IsShared(p, nil))
}

func TestShareIDFor(t *testing.T) {
	assert.Equal(t, "abcdefg", ShareIDFor("abcdefghijk"))
	assert.Equal(t, "abc", ShareIDFor("abc"))
}

func TestShareLinkRoundTrip(t *testing.T) {
	link := ShareLink("https://openavatar.web.app/", "Xy12abc")
	assert.Equal(t, "https://openavatar.web.app/profile/Xy12abc", link)

	uid, err := ParseShareLink(link)
	require.NoError(t, err)
	assert.Equal(t, "Xy12abc", uid)
}

func TestParseShareLink(t *testing.T) {
	tests := []struct {
		link    string
		want    string
		wantErr bool
	}{
		{"https://openavatar.web.app/profile/abc123", "abc123", false},
		{"https://openavatar.web.app/profile/abc123/", "abc123", false},
		{"openavatar://profile/abc123", "abc123", false},
		{"profile/abc123", "abc123", false},
		{"", "", true},
		{"https://openavatar.web.app", "", true},
		{"https://openavatar.web.app/profile/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, err := ParseShareLink(tt.link)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidLink)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSocialPlatform(t *testing.T) {
	tests := []struct {
		link  string
		want  string
		known bool
	}{
		{"github.com/liamcharger", "GitHub", true},
		{"https://www.linkedin.com/in/ada", "LinkedIn", true},
		{"https://old.reddit.com/u/ada", "Reddit", true},
		{"stackoverflow.com/users/1", "Stack Overflow", true},
		{"notgithub.com/ada", "notgithub.com/ada", false},
		{"example.org/ada", "example.org/ada", false},
	}
	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, known := SocialPlatform(tt.link)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.known, known)
		})
	}
}
