package testfixtures

import (
	"time"

	"github.com/openavatar/openavatar/internal/account"
)

// Fixed test values for stable assertions
const (
	FixedUID      = "Xy12abcDEFghi"
	OtherUID      = "Zz98zyxWVUtsr"
	FixedEmail    = "ada@example.com"
	FixedNickname = "ada"
)

var (
	FixedTime = time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
)

// MinimalProfile returns a profile holding only what onboarding collects
// without optional fields.
func MinimalProfile() *account.Profile {
	return &account.Profile{
		UID:      FixedUID,
		Email:    FixedEmail,
		ShareID:  account.ShareIDFor(FixedUID),
		Nickname: FixedNickname,
	}
}

// FullProfile returns a profile with every section populated.
func FullProfile() *account.Profile {
	return &account.Profile{
		UID:            FixedUID,
		Email:          FixedEmail,
		ShareID:        account.ShareIDFor(FixedUID),
		Nickname:       FixedNickname,
		FirstName:      "Ada",
		LastName:       "Lovelace",
		Pronunciation:  "AY-duh",
		Bio:            "Poet of **science**.",
		Job:            "Analyst",
		Pronouns:       "she/her",
		AvatarURL:      "https://storage.example/avatars/ada.png",
		SocialAccounts: []string{"github.com/ada", "example.org/ada"},
		Emails:         []string{"ada@work.example"},
		PhoneNumbers:   []string{"+44 20 7946 0000"},
		Interests:      []string{"mathematics", "poetry"},
		Hobbies:        []string{"horse riding"},
	}
}

// SharedProfile returns someone else's public profile.
func SharedProfile() *account.Profile {
	return &account.Profile{
		UID:       OtherUID,
		ShareID:   account.ShareIDFor(OtherUID),
		Nickname:  "grace",
		FirstName: "Grace",
		LastName:  "Hopper",
		Bio:       "Compilers.",
		Job:       "Rear Admiral",
	}
}

// FixedSession returns a signed-in session for FixedUID.
func FixedSession() *account.Session {
	return &account.Session{
		UID:        FixedUID,
		Email:      FixedEmail,
		IDToken:    "token",
		SignedInAt: FixedTime,
	}
}

// ActivityLog returns a short journal for FixedUID.
func ActivityLog() []account.Activity {
	return []account.Activity{
		{ID: "1", Timestamp: FixedTime, UID: FixedUID, Kind: account.KindAccount, Action: "registered"},
		{ID: "2", Timestamp: FixedTime.Add(time.Minute), UID: FixedUID, Kind: account.KindProfile, Action: "bio updated"},
		{ID: "3", Timestamp: FixedTime.Add(2 * time.Minute), UID: FixedUID, Kind: account.KindShare, Action: "opened", Data: OtherUID},
	}
}
