// Package accounttest provides in-memory account backends for tests.
package accounttest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/openavatar/openavatar/internal/account"
)

// Backend implements every account backend interface in memory.
type Backend struct {
	mu        sync.Mutex
	users     map[string]user // by email
	profiles  map[string]*account.Profile
	objects   map[string][]byte
	session   *account.Session
	cache     map[string]*account.Profile
	journal   []account.Activity
	resets    []string
	watchers  map[string][]chan *account.Profile
	nextUID   int
	nextEvent int

	// Fail hooks let tests inject backend errors.
	FailCreateProfile error
	FailGetProfile    error
	FailSignIn        error
}

type user struct {
	uid      string
	password string
}

// New returns an empty backend.
func New() *Backend {
	return &Backend{
		users:    make(map[string]user),
		profiles: make(map[string]*account.Profile),
		objects:  make(map[string][]byte),
		cache:    make(map[string]*account.Profile),
		watchers: make(map[string][]chan *account.Profile),
	}
}

// Deps wires b into every slot of account.Deps.
func (b *Backend) Deps() account.Deps {
	return account.Deps{
		Auth:         b,
		Profiles:     b,
		Avatars:      b,
		Sessions:     b,
		Cache:        b,
		Journal:      b,
		ShareBaseURL: "https://openavatar.web.app",
	}
}

// Seed stores a user with a profile and returns its uid.
func (b *Backend) Seed(p account.Profile, password string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.UID == "" {
		b.nextUID++
		p.UID = fmt.Sprintf("uid%05dabcdef", b.nextUID)
	}
	p.ShareID = account.ShareIDFor(p.UID)
	b.users[p.Email] = user{uid: p.UID, password: password}
	b.profiles[p.UID] = &p
	return p.UID
}

// CreateUser implements account.Authenticator.
func (b *Backend) CreateUser(_ context.Context, email, password, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[email]; ok {
		return "", account.ErrEmailInUse
	}
	b.nextUID++
	uid := fmt.Sprintf("uid%05dabcdef", b.nextUID)
	b.users[email] = user{uid: uid, password: password}
	return uid, nil
}

// DeleteUser implements account.Authenticator.
func (b *Backend) DeleteUser(_ context.Context, uid string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for email, u := range b.users {
		if u.uid == uid {
			delete(b.users, email)
			return nil
		}
	}
	return errors.New("user not found")
}

// HasUser reports whether an identity exists for email.
func (b *Backend) HasUser(email string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.users[email]
	return ok
}

// SignIn implements account.Authenticator.
func (b *Backend) SignIn(_ context.Context, email, password string) (*account.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailSignIn != nil {
		return nil, b.FailSignIn
	}
	u, ok := b.users[email]
	if !ok || u.password != password {
		return nil, account.ErrInvalidCredentials
	}
	return &account.Session{UID: u.uid, Email: email, IDToken: "token-" + u.uid}, nil
}

// SendPasswordReset implements account.Authenticator.
func (b *Backend) SendPasswordReset(_ context.Context, email string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resets = append(b.resets, email)
	return nil
}

// Resets returns the addresses password resets were sent to.
func (b *Backend) Resets() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.resets...)
}

// CreateProfile implements account.ProfileRepository.
func (b *Backend) CreateProfile(_ context.Context, p *account.Profile) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailCreateProfile != nil {
		return b.FailCreateProfile
	}
	c := *p
	b.profiles[p.UID] = &c
	b.notify(p.UID)
	return nil
}

// GetProfile implements account.ProfileRepository.
func (b *Backend) GetProfile(_ context.Context, uid string) (*account.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailGetProfile != nil {
		return nil, b.FailGetProfile
	}
	p, ok := b.profiles[uid]
	if !ok {
		return nil, account.ErrProfileNotFound
	}
	c := *p
	return &c, nil
}

// UpdateProfile implements account.ProfileRepository.
func (b *Backend) UpdateProfile(_ context.Context, uid string, changes map[string]any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.profiles[uid]
	if !ok {
		return account.ErrProfileNotFound
	}
	for field, v := range changes {
		s, _ := v.(string)
		switch field {
		case "bio":
			p.Bio = s
		case "avatarURL":
			p.AvatarURL = s
		case "avatarPath":
			p.AvatarPath = s
		case "job":
			p.Job = s
		case "pronouns":
			p.Pronouns = s
		default:
			return fmt.Errorf("unsupported field %q", field)
		}
	}
	b.notify(uid)
	return nil
}

// WatchProfile implements account.ProfileRepository.
func (b *Backend) WatchProfile(ctx context.Context, uid string, fn func(*account.Profile)) error {
	ch := make(chan *account.Profile, 8)
	b.mu.Lock()
	b.watchers[uid] = append(b.watchers[uid], ch)
	if p, ok := b.profiles[uid]; ok {
		c := *p
		ch <- &c
	}
	b.mu.Unlock()

	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-ch:
			fn(p)
		}
	}
}

// notify must be called with mu held.
func (b *Backend) notify(uid string) {
	p, ok := b.profiles[uid]
	if !ok {
		return
	}
	for _, ch := range b.watchers[uid] {
		c := *p
		select {
		case ch <- &c:
		default:
		}
	}
}

// UploadAvatar implements account.AvatarStorage.
func (b *Backend) UploadAvatar(_ context.Context, uid, filename, _ string, r io.Reader) (string, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	path := "avatars/" + uid + "/" + strings.ToLower(filename)
	b.objects[path] = data
	return "https://storage.example/" + path, path, nil
}

// DeleteAvatar implements account.AvatarStorage.
func (b *Backend) DeleteAvatar(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.objects[path]; !ok {
		return errors.New("object not found")
	}
	delete(b.objects, path)
	return nil
}

// Objects lists stored object paths.
func (b *Backend) Objects() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	paths := make([]string, 0, len(b.objects))
	for p := range b.objects {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// LoadSession implements account.SessionStore.
func (b *Backend) LoadSession(context.Context) (*account.Session, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.session == nil {
		return nil, account.ErrNotSignedIn
	}
	c := *b.session
	return &c, nil
}

// SaveSession implements account.SessionStore.
func (b *Backend) SaveSession(_ context.Context, s *account.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := *s
	b.session = &c
	return nil
}

// ClearSession implements account.SessionStore.
func (b *Backend) ClearSession(context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.session = nil
	return nil
}

// CacheProfile implements account.ProfileCache.
func (b *Backend) CacheProfile(_ context.Context, p *account.Profile) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	c := *p
	b.cache[p.UID] = &c
	return nil
}

// CachedProfile implements account.ProfileCache.
func (b *Backend) CachedProfile(_ context.Context, uid string) (*account.Profile, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.cache[uid]
	if !ok {
		return nil, account.ErrProfileNotFound
	}
	c := *p
	return &c, nil
}

// Record implements account.Journal.
func (b *Backend) Record(_ context.Context, a account.Activity) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextEvent++
	a.ID = fmt.Sprintf("evt%d", b.nextEvent)
	if a.Timestamp.IsZero() {
		a.Timestamp = time.Now()
	}
	b.journal = append(b.journal, a)
	return nil
}

// Activity implements account.Journal.
func (b *Backend) Activity(_ context.Context, uid string) ([]account.Activity, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var out []account.Activity
	for _, a := range b.journal {
		if a.UID == uid {
			out = append(out, a)
		}
	}
	return out, nil
}
