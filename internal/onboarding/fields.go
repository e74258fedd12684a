package onboarding

import (
	"strings"

	"github.com/openavatar/openavatar/internal/validate"
)

// Field identifies one value collected by the wizard.
type Field int

const (
	FieldNickname Field = iota
	FieldFirstName
	FieldLastName
	FieldEmail
	FieldPassword
	FieldConfirmPassword
	FieldBio
)

func (f Field) String() string {
	switch f {
	case FieldNickname:
		return "nickname"
	case FieldFirstName:
		return "firstName"
	case FieldLastName:
		return "lastName"
	case FieldEmail:
		return "email"
	case FieldPassword:
		return "password"
	case FieldConfirmPassword:
		return "confirmPassword"
	case FieldBio:
		return "bio"
	default:
		return "unknown"
	}
}

// Fields holds everything the user has typed so far.
type Fields struct {
	Nickname        string
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Bio             string
}

// Get returns the value of f.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldNickname:
		return f.Nickname
	case FieldFirstName:
		return f.FirstName
	case FieldLastName:
		return f.LastName
	case FieldEmail:
		return f.Email
	case FieldPassword:
		return f.Password
	case FieldConfirmPassword:
		return f.ConfirmPassword
	case FieldBio:
		return f.Bio
	default:
		return ""
	}
}

func (f *Fields) set(field Field, value string) {
	switch field {
	case FieldNickname:
		f.Nickname = validate.NormalizeNickname(value)
	case FieldFirstName:
		f.FirstName = value
	case FieldLastName:
		f.LastName = value
	case FieldEmail:
		f.Email = value
	case FieldPassword:
		f.Password = value
	case FieldConfirmPassword:
		f.ConfirmPassword = value
	case FieldBio:
		f.Bio = value
	}
}

// StepValid reports whether the fields collected by step s allow moving on.
// Steps without input are always valid; Review is valid when every
// data-entry step is.
func (f Fields) StepValid(s Step) bool {
	switch s {
	case StepWelcome, StepBio:
		return true
	case StepNickname:
		return validate.Nickname(f.Nickname)
	case StepName:
		return validate.Name(f.FirstName, f.LastName)
	case StepEmail:
		return validate.Email(f.Email)
	case StepPassword:
		return validate.Password(f.Password, f.ConfirmPassword)
	case StepReview:
		return f.Complete()
	default:
		return false
	}
}

// Complete reports whether every data-entry step is valid.
func (f Fields) Complete() bool {
	for s := StepNickname; s <= StepBio; s++ {
		if !f.StepValid(s) {
			return false
		}
	}
	return true
}

// Trimmed returns a copy with surrounding whitespace removed from the values
// that are sent to the backend. Passwords and the bio are left untouched.
func (f Fields) Trimmed() Fields {
	f.Nickname = strings.TrimSpace(f.Nickname)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	return f
}
