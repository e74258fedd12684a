package account_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/account/accounttest"
)

func newService(t *testing.T) (*account.Service, *accounttest.Backend) {
	t.Helper()
	b := accounttest.New()
	return account.NewService(b.Deps()), b
}

func registration() account.Registration {
	return account.Registration{
		Nickname:  "Ada",
		FirstName: "ada",
		LastName:  "lovelace",
		Email:     " ada@example.com ",
		Password:  "abcdef",
		Bio:       "Poet of science",
	}
}

func TestRegister_CreatesProfileAndSession(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()

	require.NoError(t, svc.Register(ctx, registration()))

	sess, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", sess.Email)
	assert.False(t, sess.SignedInAt.IsZero())

	p, err := svc.MyProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ada", p.Nickname)
	assert.Equal(t, "Ada", p.FirstName)
	assert.Equal(t, "Lovelace", p.LastName)
	assert.Equal(t, "Poet of science", p.Bio)
	assert.Equal(t, account.ShareIDFor(p.UID), p.ShareID)
	assert.Len(t, p.ShareID, account.ShareIDLength)

	activity, err := svc.Activity(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, activity)
	assert.Equal(t, "registered", activity[0].Action)
	assert.True(t, b.HasUser("ada@example.com"))
}

func TestRegister_HalfNameIsRejected(t *testing.T) {
	svc, _ := newService(t)
	reg := registration()
	reg.LastName = ""
	assert.Error(t, svc.Register(context.Background(), reg))
}

func TestRegister_NoNameStoresNoName(t *testing.T) {
	svc, _ := newService(t)
	reg := registration()
	reg.FirstName, reg.LastName = "", ""
	require.NoError(t, svc.Register(context.Background(), reg))

	p, err := svc.MyProfile(context.Background())
	require.NoError(t, err)
	assert.False(t, p.HasName())
	assert.Equal(t, "ada", p.DisplayName())
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registration()))

	err := svc.Register(ctx, registration())
	assert.ErrorIs(t, err, account.ErrEmailInUse)
}

func TestRegister_RollsBackIdentityWhenProfileFails(t *testing.T) {
	svc, b := newService(t)
	b.FailCreateProfile = errors.New("permission denied")

	err := svc.Register(context.Background(), registration())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving profile")
	assert.False(t, b.HasUser("ada@example.com"), "identity must be deleted")

	_, err = svc.CurrentSession(context.Background())
	assert.ErrorIs(t, err, account.ErrNotSignedIn)
}

func TestRegister_SignInFailureStillSucceeds(t *testing.T) {
	svc, b := newService(t)
	b.FailSignIn = errors.New("unavailable")

	require.NoError(t, svc.Register(context.Background(), registration()))
	_, err := svc.CurrentSession(context.Background())
	assert.ErrorIs(t, err, account.ErrNotSignedIn)
}

func TestLoginLogout(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	b.Seed(account.Profile{Email: "grace@example.com", Nickname: "grace"}, "hopper1")

	_, err := svc.Login(ctx, "grace@example.com", "short")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials, "form validation runs first")

	_, err = svc.Login(ctx, "grace@example.com", "wrong-password")
	assert.ErrorIs(t, err, account.ErrInvalidCredentials)

	sess, err := svc.Login(ctx, "grace@example.com", "hopper1")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", sess.Email)

	require.NoError(t, svc.Logout(ctx))
	_, err = svc.CurrentSession(ctx)
	assert.ErrorIs(t, err, account.ErrNotSignedIn)
	assert.ErrorIs(t, svc.Logout(ctx), account.ErrNotSignedIn)
}

func TestResetPassword(t *testing.T) {
	svc, b := newService(t)
	require.NoError(t, svc.ResetPassword(context.Background(), " grace@example.com"))
	assert.Equal(t, []string{"grace@example.com"}, b.Resets())
	assert.Error(t, svc.ResetPassword(context.Background(), "grace"))
}

func TestOpenLink(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	other := b.Seed(account.Profile{Email: "grace@example.com", Nickname: "grace"}, "hopper1")

	_, err := svc.OpenLink(ctx, "https://openavatar.web.app/profile/"+other)
	assert.ErrorIs(t, err, account.ErrNotSignedIn, "links only open when signed in")

	require.NoError(t, svc.Register(ctx, registration()))

	p, err := svc.OpenLink(ctx, "https://openavatar.web.app/profile/"+other)
	require.NoError(t, err)
	assert.Equal(t, "grace", p.Nickname)
	assert.Empty(t, p.Email, "login email is not shared")

	_, err = svc.OpenLink(ctx, "https://openavatar.web.app/profile/")
	assert.ErrorIs(t, err, account.ErrInvalidLink)

	_, err = svc.OpenLink(ctx, "https://openavatar.web.app/profile/missing")
	assert.ErrorIs(t, err, account.ErrProfileNotFound)
}

func TestProfile_FallsBackToCache(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	uid := b.Seed(account.Profile{Email: "grace@example.com", Nickname: "grace"}, "hopper1")

	_, err := svc.Profile(ctx, uid)
	require.NoError(t, err)

	b.FailGetProfile = errors.New("unavailable")
	p, err := svc.Profile(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "grace", p.Nickname)

	_, err = svc.Profile(ctx, "never-seen")
	assert.Error(t, err)
}

func TestSetBio(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registration()))

	prev, err := svc.SetBio(ctx, "New bio\n")
	require.NoError(t, err)
	assert.Equal(t, "Poet of science", prev)

	p, err := svc.MyProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "New bio", p.Bio)

	prev, err = svc.SetBio(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "New bio", prev)
	p, err = svc.MyProfile(ctx)
	require.NoError(t, err)
	assert.Empty(t, p.Bio)
}

func TestAvatarLifecycle(t *testing.T) {
	svc, b := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.Register(ctx, registration()))

	assert.ErrorIs(t, svc.RemoveAvatar(ctx), account.ErrNoAvatar)

	url, err := svc.UploadAvatar(ctx, "one.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Contains(t, url, "one.png")

	_, err = svc.UploadAvatar(ctx, "two.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	require.Len(t, b.Objects(), 1, "previous avatar is deleted")
	assert.Contains(t, b.Objects()[0], "two.png")

	require.NoError(t, svc.RemoveAvatar(ctx))
	assert.Empty(t, b.Objects())
	p, err := svc.MyProfile(ctx)
	require.NoError(t, err)
	assert.Empty(t, p.AvatarURL)
}

func TestShareLink(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.ShareLink(ctx)
	assert.ErrorIs(t, err, account.ErrNotSignedIn)

	require.NoError(t, svc.Register(ctx, registration()))
	link, err := svc.ShareLink(ctx)
	require.NoError(t, err)

	sess, err := svc.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://openavatar.web.app/profile/"+sess.UID, link)
}

func TestWatchMyProfile(t *testing.T) {
	svc, _ := newService(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, svc.Register(ctx, registration()))

	updates := make(chan *account.Profile, 4)
	done := make(chan error, 1)
	go func() {
		done <- svc.WatchMyProfile(ctx, func(p *account.Profile) { updates <- p })
	}()

	first := <-updates
	assert.Equal(t, "Poet of science", first.Bio)

	_, err := svc.SetBio(ctx, "Changed")
	require.NoError(t, err)

	select {
	case p := <-updates:
		assert.Equal(t, "Changed", p.Bio)
	case <-time.After(2 * time.Second):
		t.Fatal("no update after SetBio")
	}

	cancel()
	assert.NoError(t, <-done)
}
