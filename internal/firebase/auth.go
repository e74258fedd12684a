package firebase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/identitytoolkit/v3"

	"github.com/openavatar/openavatar/internal/account"
)

var errNoAPIKey = errors.New("firebase: an api key is required for password sign-in")

// CreateUser creates an email/password identity.
func (c *Connector) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	u, err := c.auth.CreateUser(ctx, params)
	if err != nil {
		return "", friendly(err)
	}
	return u.UID, nil
}

// DeleteUser removes an identity.
func (c *Connector) DeleteUser(ctx context.Context, uid string) error {
	if err := c.auth.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("deleting user %s: %w", uid, err)
	}
	return nil
}

// SignIn verifies an email and password.
func (c *Connector) SignIn(ctx context.Context, email, password string) (*account.Session, error) {
	if c.toolkit == nil {
		return nil, errNoAPIKey
	}
	resp, err := c.toolkit.Relyingparty.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, friendly(err)
	}
	return &account.Session{
		UID:          resp.LocalId,
		Email:        resp.Email,
		IDToken:      resp.IdToken,
		RefreshToken: resp.RefreshToken,
		SignedInAt:   time.Now(),
	}, nil
}

// SendPasswordReset asks Firebase to email a password reset link.
func (c *Connector) SendPasswordReset(ctx context.Context, email string) error {
	if c.toolkit == nil {
		return errNoAPIKey
	}
	_, err := c.toolkit.Relyingparty.GetOobConfirmationCode(&identitytoolkit.Relyingparty{
		RequestType: "PASSWORD_RESET",
		Email:       email,
	}).Context(ctx).Do()
	if err != nil {
		return friendly(err)
	}
	return nil
}

// friendly maps Firebase errors to account sentinels or readable messages
// suitable for showing under the review summary.
func friendly(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case auth.IsEmailAlreadyExists(err):
		return account.ErrEmailInUse
	case auth.IsUserNotFound(err):
		return account.ErrInvalidCredentials
	}

	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		code := gerr.Message
		if i := strings.IndexAny(code, " :"); i > 0 {
			code = code[:i]
		}
		switch code {
		case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS":
			return account.ErrInvalidCredentials
		case "INVALID_EMAIL":
			return errors.New("the email address is badly formatted")
		case "EMAIL_EXISTS":
			return account.ErrEmailInUse
		case "USER_DISABLED":
			return errors.New("this account has been disabled")
		case "TOO_MANY_ATTEMPTS_TRY_LATER":
			return errors.New("too many attempts, try again later")
		case "WEAK_PASSWORD":
			return errors.New("the password must be 6 characters long or more")
		}
	}
	return err
}
