package firebase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/openavatar/openavatar/internal/logger"
)

var errNoBucket = errors.New("firebase: no storage bucket configured")

// AvatarObjectPath names the object for an uploaded file:
// avatars/{uid}/{slug}-{suffix}{ext}.
func AvatarObjectPath(uid, filename, suffix string) string {
	ext := strings.ToLower(path.Ext(filename))
	base := slug.Make(strings.TrimSuffix(path.Base(filename), path.Ext(filename)))
	if base == "" {
		base = "avatar"
	}
	return fmt.Sprintf("avatars/%s/%s-%s%s", uid, base, suffix, ext)
}

// DownloadURL is the tokenized public URL Firebase serves an object at.
func DownloadURL(bucket, objectPath, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(objectPath), token)
}

// UploadAvatar writes r to the bucket and returns its download URL and
// object path.
func (c *Connector) UploadAvatar(ctx context.Context, uid, filename, contentType string, r io.Reader) (string, string, error) {
	if c.bucket == nil {
		return "", "", errNoBucket
	}
	token := uuid.NewString()
	objectPath := AvatarObjectPath(uid, filename, token[:8])

	w := c.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=3600"
	w.Metadata = map[string]string{"firebaseStorageDownloadTokens": token}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", "", fmt.Errorf("writing %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return "", "", fmt.Errorf("finalizing %s: %w", objectPath, err)
	}
	logger.Info("firebase: uploaded %s", objectPath)
	return DownloadURL(c.bucketName, objectPath, token), objectPath, nil
}

// DeleteAvatar removes an object. A missing object is not an error.
func (c *Connector) DeleteAvatar(ctx context.Context, objectPath string) error {
	if c.bucket == nil {
		return errNoBucket
	}
	err := c.bucket.Object(objectPath).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("deleting %s: %w", objectPath, err)
	}
	return nil
}
