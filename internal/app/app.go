package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/five82/showcase/internal/catalog"
	"github.com/five82/showcase/internal/config"
	"github.com/five82/showcase/internal/imageload"
	"github.com/five82/showcase/internal/logging"
	"github.com/five82/showcase/internal/prefs"
	"github.com/five82/showcase/internal/session"
	"github.com/five82/showcase/internal/source"
	"github.com/five82/showcase/internal/ui"
)

// Options configure the showcase application.
type Options struct {
	ConfigPath string
	Source     string // overrides the configured catalog location
	PrefsPath  string // empty uses default ~/.config/showcase/prefs.toml
	Verbose    bool

	// EnvFiles are loaded before the config; nil means ".env".
	EnvFiles []string
	// Clipboard replaces the system clipboard when set.
	Clipboard session.Clipboard
}

// env is everything the commands share after startup.
type env struct {
	cfg    config.Config
	log    *zap.Logger
	client *source.Client
}

func setup(opts Options) (*env, error) {
	envFiles := opts.EnvFiles
	if envFiles == nil {
		envFiles = []string{".env"}
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load showcase config: %w", err)
	}
	if src := strings.TrimSpace(opts.Source); src != "" {
		cfg.Source = src
	}

	logger, err := logging.New(logging.Options{Path: cfg.LogFile, Verbose: opts.Verbose})
	if err != nil {
		return nil, err
	}

	client, err := source.NewClient(cfg.Source)
	if err != nil {
		_ = logger.Sync()
		if errors.Is(err, source.ErrNoLocation) {
			return nil, fmt.Errorf("no catalog source: set source in %s, %s, or pass --source", configName(opts.ConfigPath), config.EnvSource)
		}
		return nil, fmt.Errorf("init catalog source: %w", err)
	}

	logger.Debug("configuration loaded",
		zap.String("source", client.Location()),
		zap.String("currency", cfg.Currency),
		zap.Duration("image_timeout", cfg.ImageTimeout))

	return &env{cfg: cfg, log: logger, client: client}, nil
}

func configName(path string) string {
	if path == "" {
		return "the config file"
	}
	return path
}

// Run boots the showcase TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	images, err := imageload.NewLoader(e.client.Location(), imageload.Options{Timeout: e.cfg.ImageTimeout})
	if err != nil {
		return fmt.Errorf("init image loader: %w", err)
	}

	placeholder, err := imageload.LoadPlaceholder(e.cfg.PlaceholderImage)
	if err != nil {
		e.log.Warn("placeholder image unusable, using built-in", zap.Error(err))
		placeholder = imageload.Placeholder()
	}

	sess := session.New(session.Options{
		Images:          images,
		Placeholder:     placeholder,
		Clipboard:       opts.Clipboard,
		Currency:        e.cfg.Currency,
		ConfirmDuration: e.cfg.ConfirmDuration,
		Logger:          e.log,
	})

	userPrefs := prefs.Load(opts.PrefsPath)

	uiOpts := ui.Options{
		Context:   ctx,
		Session:   sess,
		Source:    e.client,
		ThemeName: userPrefs.Theme,
		PrefsPath: opts.PrefsPath,
		ResumeID:  userPrefs.LastProductID,
		Logger:    e.log,
	}
	return ui.Run(uiOpts)
}

// Export loads the catalog once and writes the shareable product list to out,
// copying it to the clipboard as well when copyToClipboard is set.
func Export(ctx context.Context, opts Options, out io.Writer, copyToClipboard bool) error {
	e, err := setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = e.log.Sync() }()

	sess := session.New(session.Options{
		Clipboard: opts.Clipboard,
		Currency:  e.cfg.Currency,
		Logger:    e.log,
	})
	defer sess.Close()

	if _, err := sess.Load(ctx, e.client); err != nil {
		if errors.Is(err, catalog.ErrEmptyCatalog) {
			return fmt.Errorf("no usable products in %s: %w", e.client.Location(), err)
		}
		return err
	}

	// Nothing was edited, so the pending form equals what is stored.
	var pending catalog.Edit
	if p, ok := sess.Current(); ok {
		pending = catalog.EditFor(p)
	}

	text := sess.Export(pending)
	if _, err := fmt.Fprintln(out, text); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	if copyToClipboard {
		if err := sess.CopyAll(pending); err != nil {
			return err
		}
	}
	return nil
}
