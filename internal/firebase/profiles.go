package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/logger"
)

const usersCollection = "users"

func (c *Connector) userDoc(uid string) *firestore.DocumentRef {
	return c.fs.Collection(usersCollection).Doc(uid)
}

// CreateProfile writes a new profile document. It fails if one exists.
func (c *Connector) CreateProfile(ctx context.Context, p *account.Profile) error {
	if _, err := c.userDoc(p.UID).Create(ctx, p); err != nil {
		return fmt.Errorf("creating profile: %w", err)
	}
	return nil
}

// GetProfile reads users/{uid}.
func (c *Connector) GetProfile(ctx context.Context, uid string) (*account.Profile, error) {
	snap, err := c.userDoc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, account.ErrProfileNotFound
		}
		return nil, fmt.Errorf("reading profile: %w", err)
	}
	return decode(snap)
}

func decode(snap *firestore.DocumentSnapshot) (*account.Profile, error) {
	var p account.Profile
	if err := snap.DataTo(&p); err != nil {
		return nil, fmt.Errorf("decoding profile: %w", err)
	}
	p.UID = snap.Ref.ID
	return &p, nil
}

// UpdateProfile applies changes; nil values delete the field.
func (c *Connector) UpdateProfile(ctx context.Context, uid string, changes map[string]any) error {
	if len(changes) == 0 {
		return nil
	}
	updates := make([]firestore.Update, 0, len(changes))
	for path, v := range changes {
		if v == nil {
			v = firestore.Delete
		}
		updates = append(updates, firestore.Update{Path: path, Value: v})
	}
	if _, err := c.userDoc(uid).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return account.ErrProfileNotFound
		}
		return fmt.Errorf("updating profile: %w", err)
	}
	return nil
}

// WatchProfile streams snapshots of users/{uid} until ctx is cancelled.
func (c *Connector) WatchProfile(ctx context.Context, uid string, fn func(*account.Profile)) error {
	it := c.userDoc(uid).Snapshots(ctx)
	defer it.Stop()

	for {
		snap, err := it.Next()
		if err != nil {
			if ctx.Err() != nil || status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("watching profile: %w", err)
		}
		if !snap.Exists() {
			logger.Debug("firebase: profile %s does not exist yet", uid)
			continue
		}
		p, err := decode(snap)
		if err != nil {
			logger.Warn("firebase: %v", err)
			continue
		}
		fn(p)
	}
}
