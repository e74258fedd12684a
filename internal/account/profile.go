// Package account holds the profile model and the account service that
// registers users, signs them in, and reads or edits their profiles on top of
// pluggable identity, document and blob backends.
package account

import (
	"strings"
	"time"
)

// ShareIDLength is the number of uid characters used as the public share id.
const ShareIDLength = 7

// Profile is the user document stored at users/{uid}.
type Profile struct {
	UID string `firestore:"-" json:"uid"`
	// Email is the login address. It is never shown on shared profiles.
	Email          string   `firestore:"email" json:"email,omitempty"`
	ShareID        string   `firestore:"shareId" json:"shareId"`
	Nickname       string   `firestore:"nickname" json:"nickname"`
	FirstName      string   `firestore:"firstName,omitempty" json:"firstName,omitempty"`
	LastName       string   `firestore:"lastName,omitempty" json:"lastName,omitempty"`
	Pronunciation  string   `firestore:"pronunciation,omitempty" json:"pronunciation,omitempty"`
	Bio            string   `firestore:"bio,omitempty" json:"bio,omitempty"`
	Job            string   `firestore:"job,omitempty" json:"job,omitempty"`
	Pronouns       string   `firestore:"pronouns,omitempty" json:"pronouns,omitempty"`
	AvatarURL      string   `firestore:"avatarURL,omitempty" json:"avatarURL,omitempty"`
	AvatarPath     string   `firestore:"avatarPath,omitempty" json:"-"`
	SocialAccounts []string `firestore:"socialAccounts,omitempty" json:"socialAccounts,omitempty"`
	Emails         []string `firestore:"emails,omitempty" json:"emails,omitempty"`
	PhoneNumbers   []string `firestore:"phoneNumbers,omitempty" json:"phoneNumbers,omitempty"`
	Interests      []string `firestore:"interests,omitempty" json:"interests,omitempty"`
	Hobbies        []string `firestore:"hobbies,omitempty" json:"hobbies,omitempty"`
}

// HasName reports whether both name parts are set.
func (p *Profile) HasName() bool {
	return p.FirstName != "" && p.LastName != ""
}

// DisplayName is the full name when known, otherwise the nickname.
func (p *Profile) DisplayName() string {
	if p.HasName() {
		return p.FirstName + " " + p.LastName
	}
	return p.Nickname
}

// Subtitle joins nickname, pronouns and job with bullets. The nickname only
// appears when the display name is the full name.
func (p *Profile) Subtitle() string {
	var parts []string
	if p.HasName() {
		parts = append(parts, p.Nickname)
	}
	if p.Pronouns != "" {
		parts = append(parts, p.Pronouns)
	}
	if p.Job != "" {
		parts = append(parts, p.Job)
	}
	return strings.Join(parts, " • ")
}

// Public returns a copy safe to hand to other users.
func (p *Profile) Public() *Profile {
	c := *p
	c.Email = ""
	return &c
}

// Prompts lists the "Add ..." suggestions shown on your own profile for the
// sections that are still empty.
func (p *Profile) Prompts() []string {
	var prompts []string
	if !p.HasName() {
		prompts = append(prompts, "Add a name")
	}
	if p.Pronouns == "" {
		prompts = append(prompts, "Add your pronouns")
	}
	if p.Job == "" {
		prompts = append(prompts, "Add a job")
	}
	if p.Bio == "" {
		prompts = append(prompts, "Add a bio")
	}
	if len(p.Emails) == 0 && len(p.PhoneNumbers) == 0 {
		prompts = append(prompts, "Add an email or phone number")
	}
	if len(p.SocialAccounts) == 0 {
		prompts = append(prompts, "Add social links")
	}
	return prompts
}

// ShareIDFor derives the public share id from a uid.
func ShareIDFor(uid string) string {
	if len(uid) <= ShareIDLength {
		return uid
	}
	return uid[:ShareIDLength]
}

// Registration is what the onboarding wizard collects.
type Registration struct {
	Nickname  string
	FirstName string
	LastName  string
	Email     string
	Password  string
	Bio       string
}

// Session is a signed-in user.
type Session struct {
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	IDToken      string    `json:"idToken,omitempty"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	SignedInAt   time.Time `json:"signedInAt"`
}

// IsShared reports whether p belongs to someone other than the session user.
func IsShared(p *Profile, s *Session) bool {
	return s == nil || p.UID != s.UID
}

// Activity is one journaled account event.
type Activity struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	UID       string    `json:"uid"`
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	Data      string    `json:"data,omitempty"`
}

// Activity kinds.
const (
	KindAccount = "account"
	KindProfile = "profile"
	KindAvatar  = "avatar"
	KindShare   = "share"
)
