package account

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/openavatar/openavatar/internal/logger"
	"github.com/openavatar/openavatar/internal/validate"
)

// Authenticator is the identity provider.
type Authenticator interface {
	CreateUser(ctx context.Context, email, password, displayName string) (uid string, err error)
	DeleteUser(ctx context.Context, uid string) error
	SignIn(ctx context.Context, email, password string) (*Session, error)
	SendPasswordReset(ctx context.Context, email string) error
}

// ProfileRepository stores profile documents.
type ProfileRepository interface {
	CreateProfile(ctx context.Context, p *Profile) error
	GetProfile(ctx context.Context, uid string) (*Profile, error)
	// UpdateProfile applies field changes keyed by document field name. A nil
	// value removes the field.
	UpdateProfile(ctx context.Context, uid string, changes map[string]any) error
	// WatchProfile calls fn with every version of the document until ctx is
	// done or the listener fails.
	WatchProfile(ctx context.Context, uid string, fn func(*Profile)) error
}

// AvatarStorage stores avatar images.
type AvatarStorage interface {
	UploadAvatar(ctx context.Context, uid, filename, contentType string, r io.Reader) (url, objectPath string, err error)
	DeleteAvatar(ctx context.Context, objectPath string) error
}

// SessionStore persists the signed-in session locally.
type SessionStore interface {
	LoadSession(ctx context.Context) (*Session, error)
	SaveSession(ctx context.Context, s *Session) error
	ClearSession(ctx context.Context) error
}

// ProfileCache keeps the last fetched copy of profiles.
type ProfileCache interface {
	CacheProfile(ctx context.Context, p *Profile) error
	CachedProfile(ctx context.Context, uid string) (*Profile, error)
}

// Journal records account activity.
type Journal interface {
	Record(ctx context.Context, a Activity) error
	Activity(ctx context.Context, uid string) ([]Activity, error)
}

// Deps are the backends a Service runs on. Avatars, Cache and Journal are
// optional.
type Deps struct {
	Auth     Authenticator
	Profiles ProfileRepository
	Avatars  AvatarStorage
	Sessions SessionStore
	Cache    ProfileCache
	Journal  Journal
	// ShareBaseURL is the host share links point at.
	ShareBaseURL string
}

// Service implements every account operation.
type Service struct {
	deps Deps
	now  func() time.Time
}

// NewService returns a Service over deps.
func NewService(deps Deps) *Service {
	return &Service{deps: deps, now: time.Now}
}

// Register creates the identity and the profile document, then signs the new
// user in. The identity is deleted again when the profile cannot be written.
func (s *Service) Register(ctx context.Context, reg Registration) error {
	nickname := validate.NormalizeNickname(reg.Nickname)
	email := strings.TrimSpace(reg.Email)
	switch {
	case !validate.Nickname(nickname):
		return fmt.Errorf("nickname must be at least %d characters", validate.MinNicknameLength)
	case !validate.Name(reg.FirstName, reg.LastName):
		return errors.New("enter both a first and last name, or neither")
	case !validate.Email(email):
		return fmt.Errorf("%q is not a valid email address", email)
	case !validate.Password(reg.Password, reg.Password):
		return fmt.Errorf("password must be at least %d characters", validate.MinPasswordLength)
	}

	uid, err := s.deps.Auth.CreateUser(ctx, email, reg.Password, nickname)
	if err != nil {
		return err
	}

	p := &Profile{
		UID:      uid,
		Email:    email,
		ShareID:  ShareIDFor(uid),
		Nickname: nickname,
		Bio:      reg.Bio,
	}
	if validate.HasName(reg.FirstName, reg.LastName) {
		c := cases.Title(language.Und)
		p.FirstName = c.String(strings.TrimSpace(reg.FirstName))
		p.LastName = c.String(strings.TrimSpace(reg.LastName))
	}

	if err := s.deps.Profiles.CreateProfile(ctx, p); err != nil {
		if derr := s.deps.Auth.DeleteUser(ctx, uid); derr != nil {
			logger.Error("account: rollback of %s failed: %v", uid, derr)
		}
		return fmt.Errorf("saving profile: %w", err)
	}
	logger.Info("account: registered %s (@%s)", uid, nickname)

	s.record(ctx, uid, KindAccount, "registered", nickname)
	s.cache(ctx, p)

	sess, err := s.deps.Auth.SignIn(ctx, email, reg.Password)
	if err != nil {
		logger.Warn("account: sign-in after registration failed: %v", err)
		return nil
	}
	if sess.SignedInAt.IsZero() {
		sess.SignedInAt = s.now()
	}
	if err := s.deps.Sessions.SaveSession(ctx, sess); err != nil {
		logger.Warn("account: saving session: %v", err)
	}
	return nil
}

// Login signs in and stores the session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	if !validate.Login(email, password) {
		return nil, ErrInvalidCredentials
	}
	sess, err := s.deps.Auth.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if sess.SignedInAt.IsZero() {
		sess.SignedInAt = s.now()
	}
	if err := s.deps.Sessions.SaveSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	s.record(ctx, sess.UID, KindAccount, "signed-in", "")

	if p, err := s.deps.Profiles.GetProfile(ctx, sess.UID); err == nil {
		s.cache(ctx, p)
	}
	return sess, nil
}

// Logout forgets the stored session.
func (s *Service) Logout(ctx context.Context) error {
	sess, err := s.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if err := s.deps.Sessions.ClearSession(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.record(ctx, sess.UID, KindAccount, "signed-out", "")
	return nil
}

// ResetPassword asks the identity provider to email a reset link.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	email = strings.TrimSpace(email)
	if !validate.Email(email) {
		return fmt.Errorf("%q is not a valid email address", email)
	}
	return s.deps.Auth.SendPasswordReset(ctx, email)
}

// CurrentSession returns the stored session or ErrNotSignedIn.
func (s *Service) CurrentSession(ctx context.Context) (*Session, error) {
	sess, err := s.deps.Sessions.LoadSession(ctx)
	if err != nil {
		return nil, err
	}
	if sess == nil || sess.UID == "" {
		return nil, ErrNotSignedIn
	}
	return sess, nil
}

// MyProfile returns the signed-in user's profile.
func (s *Service) MyProfile(ctx context.Context) (*Profile, error) {
	sess, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	return s.Profile(ctx, sess.UID)
}

// Profile fetches a profile, falling back to the local cache when the
// backend is unreachable.
func (s *Service) Profile(ctx context.Context, uid string) (*Profile, error) {
	p, err := s.deps.Profiles.GetProfile(ctx, uid)
	if err == nil {
		s.cache(ctx, p)
		return p, nil
	}
	if errors.Is(err, ErrProfileNotFound) || s.deps.Cache == nil {
		return nil, err
	}
	cached, cerr := s.deps.Cache.CachedProfile(ctx, uid)
	if cerr != nil || cached == nil {
		return nil, err
	}
	logger.Warn("account: serving cached profile %s: %v", uid, err)
	return cached, nil
}

// OpenLink resolves a share link to a profile. Links only open for
// signed-in users.
func (s *Service) OpenLink(ctx context.Context, link string) (*Profile, error) {
	sess, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	uid, err := ParseShareLink(link)
	if err != nil {
		return nil, err
	}
	p, err := s.Profile(ctx, uid)
	if err != nil {
		return nil, err
	}
	if IsShared(p, sess) {
		s.record(ctx, sess.UID, KindShare, "opened", uid)
		return p.Public(), nil
	}
	return p, nil
}

// WatchMyProfile streams the signed-in user's profile to fn until ctx is done.
func (s *Service) WatchMyProfile(ctx context.Context, fn func(*Profile)) error {
	sess, err := s.CurrentSession(ctx)
	if err != nil {
		return err
	}
	return s.deps.Profiles.WatchProfile(ctx, sess.UID, func(p *Profile) {
		s.cache(ctx, p)
		fn(p)
	})
}

// SetBio replaces the bio and returns the previous one. An empty bio removes
// the field.
func (s *Service) SetBio(ctx context.Context, bio string) (string, error) {
	p, err := s.MyProfile(ctx)
	if err != nil {
		return "", err
	}
	previous := p.Bio
	bio = strings.TrimRight(bio, "\n")
	var value any
	if bio != "" {
		value = bio
	}
	if err := s.deps.Profiles.UpdateProfile(ctx, p.UID, map[string]any{"bio": value}); err != nil {
		return "", fmt.Errorf("updating bio: %w", err)
	}
	p.Bio = bio
	s.cache(ctx, p)
	s.record(ctx, p.UID, KindProfile, "bio-updated", "")
	return previous, nil
}

// UploadAvatar stores a new avatar image and points the profile at it. The
// previous image is removed afterwards.
func (s *Service) UploadAvatar(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	if s.deps.Avatars == nil {
		return "", errors.New("avatar storage is not configured")
	}
	p, err := s.MyProfile(ctx)
	if err != nil {
		return "", err
	}
	url, objectPath, err := s.deps.Avatars.UploadAvatar(ctx, p.UID, filename, contentType, r)
	if err != nil {
		return "", fmt.Errorf("uploading avatar: %w", err)
	}
	changes := map[string]any{"avatarURL": url, "avatarPath": objectPath}
	if err := s.deps.Profiles.UpdateProfile(ctx, p.UID, changes); err != nil {
		return "", fmt.Errorf("updating profile: %w", err)
	}
	if p.AvatarPath != "" && p.AvatarPath != objectPath {
		if err := s.deps.Avatars.DeleteAvatar(ctx, p.AvatarPath); err != nil {
			logger.Warn("account: removing old avatar %s: %v", p.AvatarPath, err)
		}
	}
	p.AvatarURL, p.AvatarPath = url, objectPath
	s.cache(ctx, p)
	s.record(ctx, p.UID, KindAvatar, "uploaded", objectPath)
	return url, nil
}

// RemoveAvatar deletes the avatar image and clears it from the profile.
func (s *Service) RemoveAvatar(ctx context.Context) error {
	if s.deps.Avatars == nil {
		return errors.New("avatar storage is not configured")
	}
	p, err := s.MyProfile(ctx)
	if err != nil {
		return err
	}
	if p.AvatarPath == "" {
		return ErrNoAvatar
	}
	if err := s.deps.Avatars.DeleteAvatar(ctx, p.AvatarPath); err != nil {
		return fmt.Errorf("deleting avatar: %w", err)
	}
	changes := map[string]any{"avatarURL": nil, "avatarPath": nil}
	if err := s.deps.Profiles.UpdateProfile(ctx, p.UID, changes); err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}
	s.record(ctx, p.UID, KindAvatar, "removed", p.AvatarPath)
	p.AvatarURL, p.AvatarPath = "", ""
	s.cache(ctx, p)
	return nil
}

// ShareLink returns the signed-in user's public profile link.
func (s *Service) ShareLink(ctx context.Context) (string, error) {
	sess, err := s.CurrentSession(ctx)
	if err != nil {
		return "", err
	}
	s.record(ctx, sess.UID, KindShare, "link-created", "")
	return ShareLink(s.deps.ShareBaseURL, sess.UID), nil
}

// Activity returns the signed-in user's journal, oldest first.
func (s *Service) Activity(ctx context.Context) ([]Activity, error) {
	sess, err := s.CurrentSession(ctx)
	if err != nil {
		return nil, err
	}
	if s.deps.Journal == nil {
		return nil, nil
	}
	return s.deps.Journal.Activity(ctx, sess.UID)
}

func (s *Service) record(ctx context.Context, uid, kind, action, data string) {
	if s.deps.Journal == nil {
		return
	}
	a := Activity{Timestamp: s.now(), UID: uid, Kind: kind, Action: action, Data: data}
	if err := s.deps.Journal.Record(ctx, a); err != nil {
		logger.Warn("account: journal %s/%s: %v", kind, action, err)
	}
}

func (s *Service) cache(ctx context.Context, p *Profile) {
	if s.deps.Cache == nil {
		return
	}
	if err := s.deps.Cache.CacheProfile(ctx, p); err != nil {
		logger.Warn("account: caching profile %s: %v", p.UID, err)
	}
}
