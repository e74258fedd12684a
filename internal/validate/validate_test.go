package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeNickname(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Jane Doe@", "janedoe"},
		{"@ADA", "ada"},
		{"  lin\tus ", "linus"},
		{"already", "already"},
		{"", ""},
		{"@@ @", ""},
		{"ÉLODIE", "élodie"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := NormalizeNickname(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, NormalizeNickname(got), "normalization must be idempotent")
		})
	}
}

func TestNickname(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"ada", true},
		{"janedoe", true},
		{"ab", false},
		{"", false},
		{"   ", false},
		{" ab ", false},
		{"jo e", false},
		{"jo@e", false},
		{"éli", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Nickname(tt.in))
		})
	}
}

func TestName(t *testing.T) {
	assert.True(t, Name("", ""))
	assert.True(t, Name("  ", "\t"))
	assert.True(t, Name("Ada", "Lovelace"))
	assert.False(t, Name("Ada", ""))
	assert.False(t, Name("", "Lovelace"))
	assert.False(t, Name("Ada", "   "))

	assert.True(t, HasName("Ada", "Lovelace"))
	assert.False(t, HasName("", ""))
}

func TestEmail(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"a@b.com", true},
		{"first.last@example.org", true},
		{"  a@b.com  ", true},
		{"a@b", false},
		{"ab.com", false},
		{"a@b@c.com", false},
		{"@b.com", false},
		{"a@.com", false},
		{"a@b.", false},
		{"a@mail.b.com", false},
		{"a b@c.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Email(tt.in))
		})
	}
}

func TestPasswordState(t *testing.T) {
	tests := []struct {
		name     string
		password string
		confirm  string
		want     PasswordStatus
	}{
		{"both empty", "", "", PasswordNeutral},
		{"confirm too short", "abcdef", "abc", PasswordNeutral},
		{"password too short", "abc", "abcdef", PasswordNeutral},
		{"equal", "abcdef", "abcdef", PasswordValid},
		{"differ", "abcdef", "abcdeg", PasswordMismatch},
		{"multibyte length", "ééééé", "ééééé", PasswordNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PasswordState(tt.password, tt.confirm)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want == PasswordValid, Password(tt.password, tt.confirm))
		})
	}
	assert.Equal(t, "mismatch", PasswordMismatch.String())
}

func TestLogin(t *testing.T) {
	assert.True(t, Login("a@b.com", "secret1"))
	assert.False(t, Login("a@b.com", "short"))
	assert.False(t, Login("a@b.com", "      "))
	assert.False(t, Login("a@b", "secret1"))
}

func TestBioActionLabel(t *testing.T) {
	assert.Equal(t, "I'll add one later", BioActionLabel(""))
	assert.Equal(t, "I'm done with my bio!", BioActionLabel("Hi"))
}
