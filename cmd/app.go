package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/harrisonrobin/aledger/pkg/colors"
	"github.com/harrisonrobin/aledger/pkg/config"
	"github.com/harrisonrobin/aledger/pkg/extract"
	"github.com/harrisonrobin/aledger/pkg/gemini"
	"github.com/harrisonrobin/aledger/pkg/ledger"
	"github.com/harrisonrobin/aledger/pkg/logger"
	"github.com/harrisonrobin/aledger/pkg/mirror"
	"github.com/harrisonrobin/aledger/pkg/model"
	"github.com/harrisonrobin/aledger/pkg/status"
	"github.com/harrisonrobin/aledger/pkg/store"
)

// app bundles what a command needs to operate on the ledger.
type app struct {
	cfg   *config.Config
	ctrl  *ledger.Controller
	log   *slog.Logger
	close func() error
}

func (a *app) Close() error {
	a.ctrl.Indicator().Stop()
	if a.close != nil {
		return a.close()
	}
	return nil
}

// openApp is replaced in tests.
var openApp = defaultOpenApp

func loadConfig() (*config.Config, error) {
	config.LoadEnv()
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func defaultOpenApp(ctx context.Context) (*app, error) {
	l := logger.FromContext(ctx)

	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	st, err := store.Open(cfg.DataPath)
	if err != nil {
		return nil, err
	}
	st.SetLogger(l)

	var gen extract.Generator
	g, err := gemini.NewGenerator(ctx, cfg.APIKey, cfg.Model, cfg.Endpoint)
	switch {
	case errors.Is(err, extract.ErrNotConfigured):
		l.Debug("no API key, extraction disabled")
	case err != nil:
		st.Close()
		return nil, err
	default:
		gen = g
	}

	ex := extract.New(gen,
		extract.WithLimiter(extract.PerMinute(cfg.RequestsPerMinute)),
		extract.WithLogger(l),
	)
	mc := mirror.NewClient(mirror.NewWebhook(cfg.WebhookTimeout.Duration), l)

	ctrl := ledger.New(st, ex, mc,
		ledger.WithIndicator(status.New(cfg.StatusDecay.Duration)),
		ledger.WithLogger(l),
	)
	return &app{cfg: cfg, ctrl: ctrl, log: l, close: st.Close}, nil
}

// withApp opens the app for the duration of fn.
func withApp(ctx context.Context, fn func(a *app) error) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// userError shows the short message for err while keeping the cause
// reachable through errors.Is.
type userError struct{ err error }

func (e userError) Error() string { return extract.UserMessage(e.err) }
func (e userError) Unwrap() error { return e.err }

func friendly(err error) error {
	if err == nil || errors.Is(err, ledger.ErrBusy) {
		return err
	}
	return userError{err}
}

func statusLine(s model.SyncStatus) string {
	return colors.Status(s)
}
