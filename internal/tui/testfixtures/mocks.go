// Package testfixtures provides fixtures, mocks and key helpers for TUI tests.
//
// MockSource stands in for the account service behind the profile viewer.
// It is thread-safe and records calls for assertions:
//
//	src := testfixtures.NewMockSource()
//	src.Mine = testfixtures.FullProfile()
//	m := profile.New(src, profile.Options{})
//	...
//	require.Equal(t, 1, src.Calls("MyProfile"))
package testfixtures

import (
	"context"
	"sync"

	"github.com/openavatar/openavatar/internal/account"
)

// MockSource is a controllable profile source.
type MockSource struct {
	mu sync.Mutex

	// Session returned by CurrentSession; nil means signed out.
	Session *account.Session
	// Mine is returned by MyProfile.
	Mine *account.Profile
	// Links maps share links to the profile OpenLink returns.
	Links map[string]*account.Profile
	// Link is returned by ShareLink.
	Link string
	// Err, when set, is returned by every call.
	Err error

	updates chan *account.Profile
	calls   map[string]int
}

// NewMockSource returns a signed-in source with a minimal profile.
func NewMockSource() *MockSource {
	return &MockSource{
		Session: FixedSession(),
		Mine:    MinimalProfile(),
		Links:   map[string]*account.Profile{},
		Link:    "https://openavatar.web.app/profile/" + FixedUID,
		updates: make(chan *account.Profile, 8),
		calls:   map[string]int{},
	}
}

func (m *MockSource) call(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[name]++
	return m.Err
}

// Calls returns how often the named method ran.
func (m *MockSource) Calls(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[name]
}

// CurrentSession returns Session or account.ErrNotSignedIn.
func (m *MockSource) CurrentSession(context.Context) (*account.Session, error) {
	if err := m.call("CurrentSession"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Session == nil {
		return nil, account.ErrNotSignedIn
	}
	s := *m.Session
	return &s, nil
}

// MyProfile returns Mine.
func (m *MockSource) MyProfile(context.Context) (*account.Profile, error) {
	if err := m.call("MyProfile"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Mine == nil {
		return nil, account.ErrProfileNotFound
	}
	p := *m.Mine
	return &p, nil
}

// OpenLink returns the profile registered for link in Links.
func (m *MockSource) OpenLink(_ context.Context, link string) (*account.Profile, error) {
	if err := m.call("OpenLink"); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.Links[link]
	if !ok {
		return nil, account.ErrProfileNotFound
	}
	c := *p
	return &c, nil
}

// ShareLink returns Link.
func (m *MockSource) ShareLink(context.Context) (string, error) {
	if err := m.call("ShareLink"); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Link, nil
}

// WatchMyProfile delivers profiles passed to Push until ctx ends.
func (m *MockSource) WatchMyProfile(ctx context.Context, fn func(*account.Profile)) error {
	if err := m.call("WatchMyProfile"); err != nil {
		return err
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case p := <-m.updates:
			fn(p)
		}
	}
}

// Push simulates a remote profile change.
func (m *MockSource) Push(p *account.Profile) {
	m.updates <- p
}
