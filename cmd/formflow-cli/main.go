package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goliatone/go-formflow/internal/app"
	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/pkg/form"
	"github.com/goliatone/go-formflow/pkg/model"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/storefront"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/tui"
	"github.com/goliatone/go-formflow/pkg/validation"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configFlag  = flag.String("config", "", "Path to a TOML config file")
		formFlag    = flag.String("form", storefront.ProductFormID, "Form to fill (products, signup)")
		backendFlag = flag.String("backend", "", "Override forms.backend (memory, supabase, postgres)")
		localeFlag  = flag.String("locale", "", "Override the message locale")
		fromFlag    = flag.String("from", "", "Sign-up return path")
		timeoutFlag = flag.Duration("timeout", 10*time.Minute, "Session timeout")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *backendFlag != "" {
		cfg.Forms.Backend = config.Backend(*backendFlag)
	}
	if *localeFlag != "" {
		cfg.I18n.Locale = *localeFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	bundle, err := app.NewTranslations(cfg.I18n)
	if err != nil {
		logger.WithError(err).Fatal("load translations")
	}
	tr := bundle.Translator(cfg.I18n.Locale)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeoutFlag)
	defer cancel()

	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Error("open backend")
		return 1
	}
	defer backend.Close()

	def, err := definition(ctx, *formFlag, app.FormOptions(cfg.Forms)...)
	if err != nil {
		logger.WithError(err).Error("build form")
		return 1
	}
	var (
		initial map[string]any
		op      submit.Operation
	)
	switch *formFlag {
	case storefront.ProductFormID:
		op = storefront.ProductOperation(backend.Products, nil)
	case storefront.SignUpFormID:
		query := url.Values{}
		if *fromFlag != "" {
			query.Set("from", *fromFlag)
		}
		initial = storefront.SignUpValues(query)
		op = storefront.SignUpOperation(backend.Accounts, storefront.SignUpRedirect(query))
	}

	ctrl := form.NewController(def, initial,
		form.WithValidationOptions(validation.WithTranslator(tr)),
		form.WithLogger(logger),
	)
	host := tui.New(
		tui.WithLogger(logger),
		tui.WithBindOptions(widgets.WithReferenceSource(backend.Images)),
	)

	result, err := host.Run(ctx, ctrl, op,
		submit.WithRedirect(storefront.Redirect(def)),
		submit.WithFailureMessage(tr.FailureMessage()),
		submit.WithNotificationTitle(tr.NotificationTitle()),
	)
	switch {
	case tui.IsAborted(err):
		fmt.Fprintln(os.Stderr, "aborted")
		return 130
	case err != nil:
		logger.WithError(err).Error("run form")
		return 1
	case !result.IsSuccess():
		return 1
	}
	return 0
}

func definition(ctx context.Context, id string, options ...orchestrator.Option) (model.FormDefinition, error) {
	defs, err := storefront.Definitions(ctx, options...)
	if err != nil {
		return model.FormDefinition{}, err
	}
	def, ok := defs[id]
	if !ok {
		return model.FormDefinition{}, fmt.Errorf("unknown form %q (available: %s, %s)", id, storefront.ProductFormID, storefront.SignUpFormID)
	}
	return def, nil
}
