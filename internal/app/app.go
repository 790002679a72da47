// Package app wires configuration into the components shared by the
// formflow binaries.
package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/language"

	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/internal/logging"
	"github.com/goliatone/go-formflow/pkg/backend/memory"
	"github.com/goliatone/go-formflow/pkg/backend/postgres"
	"github.com/goliatone/go-formflow/pkg/backend/supabase"
	"github.com/goliatone/go-formflow/pkg/i18n"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/storefront"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

// DefaultImages seed the media library offered to product forms.
var DefaultImages = []memory.Image{
	{ID: 1, URL: "https://picsum.photos/id/1/600/400"},
	{ID: 2, URL: "https://picsum.photos/id/2/600/400"},
	{ID: 3, URL: "https://picsum.photos/id/3/600/400"},
}

// Backend bundles the stores the storefront forms submit to.
type Backend struct {
	Name     config.Backend
	Products storefront.ProductStore
	Accounts storefront.SignUpClient
	Images   widgets.ReferenceSource
	closer   func() error
}

// Close releases backend resources.
func (b *Backend) Close() error {
	if b == nil || b.closer == nil {
		return nil
	}
	return b.closer()
}

// NewLogger builds the root logger entry from cfg.
func NewLogger(cfg config.Log) (*logrus.Entry, error) {
	logger, err := logging.New(cfg.Level, cfg.Format)
	if err != nil {
		return nil, err
	}
	return logrus.NewEntry(logger), nil
}

// NewTranslations loads the embedded catalogs, overridden by cfg.Dir.
func NewTranslations(cfg config.I18n) (*i18n.Bundle, error) {
	var options []i18n.Option
	if locale := strings.TrimSpace(cfg.Locale); locale != "" {
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("app: locale %q: %w", locale, err)
		}
		options = append(options, i18n.WithDefaultLanguage(tag))
	}
	if dir := strings.TrimSpace(cfg.Dir); dir != "" {
		options = append(options, i18n.WithMessagesFS(os.DirFS(dir)))
	}
	return i18n.New(options...)
}

// FormOptions returns the orchestrator options cfg implies. An overlay
// directory replaces the embedded overlays.
func FormOptions(cfg config.Forms) []orchestrator.Option {
	var options []orchestrator.Option
	if dir := strings.TrimSpace(cfg.UISchemaDir); dir != "" {
		options = append(options, orchestrator.WithUISchemaFS(os.DirFS(dir)))
	}
	return options
}

// OpenBackend connects the backend cfg selects. Accounts stay in memory on
// the postgres backend.
func OpenBackend(ctx context.Context, cfg config.Config, log *logrus.Entry) (*Backend, error) {
	log = logging.Component(log, "backend")
	local := memory.New(DefaultImages...)
	out := &Backend{
		Name:     cfg.Forms.Backend,
		Products: local,
		Accounts: local,
		Images:   local,
	}

	switch cfg.Forms.Backend {
	case config.BackendMemory, "":
		out.Name = config.BackendMemory
	case config.BackendSupabase:
		client, err := supabase.New(supabase.Config{
			URL:               cfg.Supabase.URL,
			APIKey:            cfg.Supabase.APIKey,
			Timeout:           cfg.Supabase.Timeout,
			RequestsPerSecond: cfg.Supabase.RequestsPerSecond,
			Burst:             cfg.Supabase.Burst,
		}, supabase.WithLogger(log))
		if err != nil {
			return nil, err
		}
		out.Products = supabase.Products(client, cfg.Supabase.Table)
		out.Accounts = client
	case config.BackendPostgres:
		db, err := postgres.Open(ctx, cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		store := postgres.New(db)
		if cfg.Database.Migrate {
			if err := store.Migrate(ctx); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		out.Products = store
		out.closer = db.Close
		log.Warn("postgres backend keeps sign-up accounts in memory")
	default:
		return nil, fmt.Errorf("app: unknown backend %q", cfg.Forms.Backend)
	}
	log.WithField("backend", out.Name).Info("backend ready")
	return out, nil
}
