package account

import "errors"

var (
	// ErrNotSignedIn is returned when an operation needs a session and none is stored.
	ErrNotSignedIn = errors.New("not signed in")
	// ErrProfileNotFound is returned when no profile document exists for a uid.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrEmailInUse is returned when registering an address that already has an account.
	ErrEmailInUse = errors.New("the email address is already in use by another account")
	// ErrInvalidCredentials is returned when sign-in is refused.
	ErrInvalidCredentials = errors.New("the email or password is incorrect")
	// ErrInvalidLink is returned for share links without a profile id.
	ErrInvalidLink = errors.New("invalid profile link")
	// ErrNoAvatar is returned when removing an avatar that was never uploaded.
	ErrNoAvatar = errors.New("no avatar uploaded")
)
