// Package store keeps local state on the embedded JetStream server: the
// signed-in session and cached profiles in a key-value bucket, and the
// activity journal in an append-only stream.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/xid"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/logger"
	"github.com/openavatar/openavatar/internal/nats"
)

const (
	sessionKey    = "session"
	profilePrefix = "profile."
	fetchBatch    = 500
)

// Store implements account.SessionStore, account.ProfileCache and
// account.Journal.
type Store struct {
	js     jetstream.JetStream
	kv     jetstream.KeyValue
	stream jetstream.Stream
}

var (
	_ account.SessionStore = (*Store)(nil)
	_ account.ProfileCache = (*Store)(nil)
	_ account.Journal      = (*Store)(nil)
)

// Open creates the bucket and stream if needed.
func Open(ctx context.Context, js jetstream.JetStream) (*Store, error) {
	kv, err := nats.SetupBucket(ctx, js)
	if err != nil {
		return nil, fmt.Errorf("setting up bucket: %w", err)
	}
	stream, err := nats.SetupStream(ctx, js)
	if err != nil {
		return nil, fmt.Errorf("setting up stream: %w", err)
	}
	return &Store{js: js, kv: kv, stream: stream}, nil
}

// LoadSession returns the stored session or account.ErrNotSignedIn.
func (s *Store) LoadSession(ctx context.Context) (*account.Session, error) {
	var sess account.Session
	if err := s.get(ctx, sessionKey, &sess); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, account.ErrNotSignedIn
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}
	return &sess, nil
}

// SaveSession stores sess, replacing any previous session.
func (s *Store) SaveSession(ctx context.Context, sess *account.Session) error {
	return s.put(ctx, sessionKey, sess)
}

// ClearSession removes the stored session. Clearing when signed out is not
// an error.
func (s *Store) ClearSession(ctx context.Context) error {
	err := s.kv.Delete(ctx, sessionKey)
	if err != nil && !errors.Is(err, jetstream.ErrKeyNotFound) {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// CacheProfile stores the latest copy of p.
func (s *Store) CacheProfile(ctx context.Context, p *account.Profile) error {
	return s.put(ctx, profilePrefix+p.UID, p)
}

// CachedProfile returns the cached copy of a profile or account.ErrProfileNotFound.
func (s *Store) CachedProfile(ctx context.Context, uid string) (*account.Profile, error) {
	var p account.Profile
	if err := s.get(ctx, profilePrefix+uid, &p); err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, account.ErrProfileNotFound
		}
		return nil, fmt.Errorf("loading cached profile: %w", err)
	}
	return &p, nil
}

func (s *Store) get(ctx context.Context, key string, v any) error {
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		return err
	}
	return json.Unmarshal(entry.Value(), v)
}

func (s *Store) put(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshaling %s: %w", key, err)
	}
	if _, err := s.kv.Put(ctx, key, data); err != nil {
		return fmt.Errorf("storing %s: %w", key, err)
	}
	return nil
}

// Record appends an activity event to the journal.
func (s *Store) Record(ctx context.Context, a account.Activity) error {
	if a.ID == "" {
		a.ID = xid.New().String()
	}
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshaling activity: %w", err)
	}
	subject := nats.SubjectForEvent(a.UID, a.Kind)
	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		return fmt.Errorf("publishing activity: %w", err)
	}
	logger.Debug("store: journaled %s/%s seq=%d", a.Kind, a.Action, ack.Sequence)
	return nil
}

// Activity replays the journal for uid, oldest first. Malformed entries are
// skipped.
func (s *Store) Activity(ctx context.Context, uid string) ([]account.Activity, error) {
	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject:     nats.SubjectForUser(uid),
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		AckPolicy:         jetstream.AckExplicitPolicy,
		InactiveThreshold: time.Minute,
	})
	if err != nil {
		return nil, fmt.Errorf("creating consumer: %w", err)
	}
	return replay(consumer)
}

// replay drains consumer in batches until it runs out of messages.
func replay(consumer jetstream.Consumer) ([]account.Activity, error) {
	var out []account.Activity
	for {
		msgs, err := consumer.FetchNoWait(fetchBatch)
		if err != nil {
			if errors.Is(err, jetstream.ErrNoMessages) {
				break
			}
			return nil, fmt.Errorf("fetching activity: %w", err)
		}
		n := 0
		for msg := range msgs.Messages() {
			n++
			_ = msg.Ack()
			var a account.Activity
			if err := json.Unmarshal(msg.Data(), &a); err != nil {
				logger.Warn("store: skipping malformed activity: %v", err)
				continue
			}
			if a.ID == "" {
				if meta, err := msg.Metadata(); err == nil {
					a.ID = strconv.FormatUint(meta.Sequence.Stream, 10)
				}
			}
			out = append(out, a)
		}
		if err := msgs.Error(); err != nil && !errors.Is(err, jetstream.ErrNoMessages) {
			return nil, fmt.Errorf("reading activity: %w", err)
		}
		if n < fetchBatch {
			break
		}
	}
	return out, nil
}
