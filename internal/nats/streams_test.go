package nats

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubjects(t *testing.T) {
	assert.Equal(t, "openavatar.abc.>", SubjectForUser("abc"))
	assert.Equal(t, "openavatar.abc.avatar", SubjectForEvent("abc", "avatar"))
}

func TestStartAndSetup(t *testing.T) {
	e, err := Start(t.TempDir())
	require.NoError(t, err)
	defer func() { assert.NoError(t, e.Close()) }()

	ctx := context.Background()
	stream, err := SetupStream(ctx, e.JS)
	require.NoError(t, err)
	assert.Equal(t, StreamName, stream.CachedInfo().Config.Name)

	kv, err := SetupBucket(ctx, e.JS)
	require.NoError(t, err)
	assert.Equal(t, BucketName, kv.Bucket())

	// Setup is idempotent.
	_, err = SetupStream(ctx, e.JS)
	require.NoError(t, err)
}
