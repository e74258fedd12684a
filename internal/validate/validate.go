// Package validate holds the pure field predicates used by onboarding and login.
//
// None of these functions return errors: an invalid value only withholds the
// next step, it is never reported as a failure.
package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// MinNicknameLength is the shortest accepted nickname, in runes.
	MinNicknameLength = 3
	// MinPasswordLength is the shortest accepted password, in runes.
	MinPasswordLength = 6
)

// Bio action labels.
const (
	BioSkipLabel = "I'll add one later"
	BioDoneLabel = "I'm done with my bio!"
)

// NormalizeNickname lowercases s and strips whitespace and "@". It is applied
// on every keystroke, so it must be idempotent.
func NormalizeNickname(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r == '@' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// Nickname reports whether s is an acceptable nickname.
func Nickname(s string) bool {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) < MinNicknameLength {
		return false
	}
	return !strings.ContainsFunc(s, func(r rune) bool {
		return r == '@' || unicode.IsSpace(r)
	})
}

// Name reports whether first and last are both given or both left empty.
func Name(first, last string) bool {
	return (strings.TrimSpace(first) == "") == (strings.TrimSpace(last) == "")
}

// HasName reports whether both parts of a name were given.
func HasName(first, last string) bool {
	return strings.TrimSpace(first) != "" && strings.TrimSpace(last) != ""
}

// Email reports whether s has the shape local@label.tld: exactly one "@",
// a non-empty local part, and a domain with exactly one "." separating two
// non-empty labels. Surrounding whitespace is ignored, inner whitespace is not.
func Email(s string) bool {
	s = strings.TrimSpace(s)
	if strings.ContainsFunc(s, unicode.IsSpace) {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || strings.Contains(domain, "@") {
		return false
	}
	if strings.Count(domain, ".") != 1 {
		return false
	}
	label, tld, _ := strings.Cut(domain, ".")
	return label != "" && tld != ""
}

// PasswordStatus is the three-way outcome of comparing a password with its
// confirmation.
type PasswordStatus int

const (
	// PasswordNeutral means at least one entry is still too short.
	PasswordNeutral PasswordStatus = iota
	// PasswordMismatch means both entries are long enough but differ.
	PasswordMismatch
	// PasswordValid means both entries are long enough and equal.
	PasswordValid
)

func (s PasswordStatus) String() string {
	switch s {
	case PasswordMismatch:
		return "mismatch"
	case PasswordValid:
		return "valid"
	default:
		return "neutral"
	}
}

// PasswordState classifies a password and its confirmation.
func PasswordState(password, confirm string) PasswordStatus {
	if utf8.RuneCountInString(password) < MinPasswordLength ||
		utf8.RuneCountInString(confirm) < MinPasswordLength {
		return PasswordNeutral
	}
	if password != confirm {
		return PasswordMismatch
	}
	return PasswordValid
}

// Password reports whether the pair is acceptable.
func Password(password, confirm string) bool {
	return PasswordState(password, confirm) == PasswordValid
}

// Login reports whether the sign-in form can be submitted.
func Login(email, password string) bool {
	return Email(email) &&
		strings.TrimSpace(password) != "" &&
		utf8.RuneCountInString(password) >= MinPasswordLength
}

// BioActionLabel returns the label for the bio step's continue action.
func BioActionLabel(bio string) string {
	if bio == "" {
		return BioSkipLabel
	}
	return BioDoneLabel
}
