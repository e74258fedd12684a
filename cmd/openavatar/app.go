package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/openavatar/openavatar/internal/account"
	"github.com/openavatar/openavatar/internal/config"
	"github.com/openavatar/openavatar/internal/firebase"
	"github.com/openavatar/openavatar/internal/logger"
	"github.com/openavatar/openavatar/internal/nats"
	"github.com/openavatar/openavatar/internal/onboarding"
	"github.com/openavatar/openavatar/internal/state"
	"github.com/openavatar/openavatar/internal/store"
	"github.com/openavatar/openavatar/internal/tui/theme"
)

// app is everything a command needs, opened once per invocation.
type app struct {
	cfg   *config.Config
	nats  *nats.Embedded
	store *store.Store
	fb    *firebase.Connector
	svc   *account.Service
	ui    *state.UIState
}

// openApp loads config, configures logging and starts the local store.
// Firebase is connected only when remote is set; commands that only touch
// local state (logout, activity) run without credentials.
func openApp(ctx context.Context, remote bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return nil, fmt.Errorf("configuring logger: %w", err)
	}

	a := &app{cfg: cfg, ui: state.Load(cfg.DataDir)}
	if !theme.Set(a.ui.Theme) {
		logger.Warn("unknown theme %q in UI state", a.ui.Theme)
	}

	a.nats, err = nats.Start(filepath.Join(cfg.DataDir, "nats"))
	if err != nil {
		return nil, fmt.Errorf("starting local store: %w", err)
	}
	a.store, err = store.Open(ctx, a.nats.JS)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("opening local store: %w", err)
	}

	deps := account.Deps{
		Sessions:     a.store,
		Cache:        a.store,
		Journal:      a.store,
		ShareBaseURL: cfg.ShareBaseURL,
	}

	if remote {
		if !config.Exists() && cfg.ProjectID == "" {
			a.close()
			return nil, errors.New("no config file found: run `openavatar setup` first")
		}
		if err := cfg.Validate(); err != nil {
			a.close()
			return nil, fmt.Errorf("invalid config (run `openavatar setup`): %w", err)
		}
		a.fb, err = firebase.NewConnector(ctx, firebase.Options{
			ProjectID:       cfg.ProjectID,
			CredentialsFile: cfg.CredentialsFile,
			APIKey:          cfg.APIKey,
			Bucket:          cfg.Bucket(),
		})
		if err != nil {
			a.close()
			return nil, err
		}
		deps.Auth = a.fb
		deps.Profiles = a.fb
		deps.Avatars = a.fb
	}

	a.svc = account.NewService(deps)
	return a, nil
}

func (a *app) close() {
	if a.fb != nil {
		if err := a.fb.Close(); err != nil {
			logger.Warn("closing firebase: %v", err)
		}
	}
	if a.nats != nil {
		if err := a.nats.Close(); err != nil {
			logger.Warn("stopping local store: %v", err)
		}
	}
}

func (a *app) saveUI() {
	if err := state.Save(a.cfg.DataDir, a.ui); err != nil {
		logger.Warn("saving UI state: %v", err)
	}
}

// registrationFrom maps the wizard's fields onto a registration request.
func registrationFrom(f onboarding.Fields) account.Registration {
	return account.Registration{
		Nickname:  f.Nickname,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
		Bio:       f.Bio,
	}
}

// registrar submits the wizard through svc.
func registrar(svc *account.Service) onboarding.Registrar {
	return onboarding.RegistrarFunc(func(ctx context.Context, f onboarding.Fields) error {
		return svc.Register(ctx, registrationFrom(f))
	})
}

// signedInHint turns ErrNotSignedIn into an actionable message.
func signedInHint(err error) error {
	if errors.Is(err, account.ErrNotSignedIn) {
		return fmt.Errorf("%w: run `openavatar login` or `openavatar onboard` first", err)
	}
	return err
}
