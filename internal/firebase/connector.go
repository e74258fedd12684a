// Package firebase connects the account service to Firebase: Authentication
// for identities, Firestore for profile documents and Cloud Storage for
// avatar images.
package firebase

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	fb "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/logger"
)

// Options configure a Connector.
type Options struct {
	ProjectID string
	// CredentialsFile is a service account key. Empty uses application
	// default credentials.
	CredentialsFile string
	// APIKey is the web API key used for password sign-in.
	APIKey string
	Bucket string
}

// Connector holds the Firebase clients.
type Connector struct {
	app     *fb.App
	auth    *auth.Client
	fs      *firestore.Client
	bucket  *gcs.BucketHandle
	toolkit *identitytoolkit.Service

	bucketName string
}

var (
	_ account.Authenticator     = (*Connector)(nil)
	_ account.ProfileRepository = (*Connector)(nil)
	_ account.AvatarStorage     = (*Connector)(nil)
)

// NewConnector initializes the Firebase app and every client it needs.
func NewConnector(ctx context.Context, opts Options) (*Connector, error) {
	if opts.ProjectID == "" {
		return nil, errors.New("firebase: project id is required")
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	app, err := fb.NewApp(ctx, &fb.Config{
		ProjectID:     opts.ProjectID,
		StorageBucket: opts.Bucket,
	}, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("initializing firebase app: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting auth client: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting firestore client: %w", err)
	}

	c := &Connector{
		app:        app,
		auth:       authClient,
		fs:         fs,
		bucketName: opts.Bucket,
	}

	if opts.Bucket != "" {
		st, err := app.Storage(ctx)
		if err != nil {
			_ = fs.Close()
			return nil, fmt.Errorf("getting storage client: %w", err)
		}
		if c.bucket, err = st.DefaultBucket(); err != nil {
			_ = fs.Close()
			return nil, fmt.Errorf("opening bucket %s: %w", opts.Bucket, err)
		}
	}

	if opts.APIKey != "" {
		c.toolkit, err = identitytoolkit.NewService(ctx, option.WithAPIKey(opts.APIKey))
		if err != nil {
			_ = fs.Close()
			return nil, fmt.Errorf("creating identity toolkit client: %w", err)
		}
	}

	logger.Debug("firebase: connected to project %s", opts.ProjectID)
	return c, nil
}

// Close releases the Firestore connection.
func (c *Connector) Close() error {
	return c.fs.Close()
}
