package onboard

import "github.com/openavatar/openavatar/internal/onboarding"

// StateMsg carries a controller snapshot published through Subscribe.
type StateMsg struct {
	State onboarding.State
}

// SubmitDoneMsg is sent when the registration call returns.
type SubmitDoneMsg struct {
	Err error
}

// LoginDoneMsg is sent when a sign-in attempt from the login screen returns.
type LoginDoneMsg struct {
	Err error
}

// ResetSentMsg is sent when a password reset request returns.
type ResetSentMsg struct {
	Email string
	Err   error
}
