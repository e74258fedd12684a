package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

const (
	// StreamName holds the activity journal.
	StreamName = "openavatar_events"
	// BucketName holds sessions and cached profiles.
	BucketName = "openavatar"

	subjectRoot = "openavatar"
	retention   = 30 * 24 * time.Hour
)

// SubjectForUser matches every event of one user, e.g. "openavatar.abc.>".
func SubjectForUser(uid string) string {
	return fmt.Sprintf("%s.%s.>", subjectRoot, uid)
}

// SubjectForEvent is the subject an event kind is published on, e.g.
// "openavatar.abc.avatar".
func SubjectForEvent(uid, kind string) string {
	return fmt.Sprintf("%s.%s.%s", subjectRoot, uid, kind)
}

// SetupStream creates or updates the journal stream with 30-day retention.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{subjectRoot + ".>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   retention,
	})
}

// SetupBucket creates or updates the key-value bucket.
func SetupBucket(ctx context.Context, js jetstream.JetStream) (jetstream.KeyValue, error) {
	return js.CreateOrUpdateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:  BucketName,
		Storage: jetstream.FileStorage,
		History: 1,
	})
}
