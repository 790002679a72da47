package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/goliatone/go-formflow/internal/app"
	"github.com/goliatone/go-formflow/internal/config"
	"github.com/goliatone/go-formflow/pkg/httpapi"
	"github.com/goliatone/go-formflow/pkg/metrics"
	"github.com/goliatone/go-formflow/pkg/orchestrator"
	"github.com/goliatone/go-formflow/pkg/storefront"
	"github.com/goliatone/go-formflow/pkg/submit"
	"github.com/goliatone/go-formflow/pkg/widgets"
)

const limiterIdle = 10 * time.Minute

func main() {
	var (
		configFlag = flag.String("config", "", "Path to a TOML config file")
		addrFlag   = flag.String("addr", "", "Override server.addr")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *addrFlag != "" {
		cfg.Server.Addr = *addrFlag
	}
	logger, err := app.NewLogger(cfg.Log)
	if err != nil {
		log.Fatalf("logging: %v", err)
	}
	if err := serve(cfg, logger); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}

func serve(cfg config.Config, logger *logrus.Entry) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bundle, err := app.NewTranslations(cfg.I18n)
	if err != nil {
		return err
	}
	backend, err := app.OpenBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	forms, err := registry(ctx, backend, app.FormOptions(cfg.Forms)...)
	if err != nil {
		return err
	}

	options := []httpapi.Option{
		httpapi.WithLogger(logger),
		httpapi.WithTranslations(bundle),
		httpapi.WithBindOptions(widgets.WithReferenceSource(backend.Images)),
	}
	if cfg.Server.Metrics {
		options = append(options, httpapi.WithMetrics(metrics.New(true)))
	}
	if cfg.Server.RateLimit > 0 {
		limiter := httpapi.NewClientLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, limiterIdle)
		options = append(options, httpapi.WithRateLimit(limiter))
		go sweep(ctx, limiter)
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           httpapi.New(forms, options...).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.WithField("addr", cfg.Server.Addr).Info("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func registry(ctx context.Context, backend *app.Backend, options ...orchestrator.Option) (*httpapi.Registry, error) {
	defs, err := storefront.Definitions(ctx, options...)
	if err != nil {
		return nil, err
	}
	forms := httpapi.NewRegistry()
	if err := forms.Register(httpapi.Entry{
		Definition: defs[storefront.ProductFormID],
		Operation: func(r *http.Request) (submit.Operation, error) {
			raw := r.URL.Query().Get("id")
			if raw == "" {
				return storefront.ProductOperation(backend.Products, nil), nil
			}
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return nil, err
			}
			return storefront.ProductOperation(backend.Products, &storefront.Product{ID: id}), nil
		},
	}); err != nil {
		return nil, err
	}
	if err := forms.Register(httpapi.Entry{
		Definition: defs[storefront.SignUpFormID],
		Operation: func(r *http.Request) (submit.Operation, error) {
			return storefront.SignUpOperation(backend.Accounts, storefront.SignUpRedirect(r.URL.Query())), nil
		},
		Initial: func(r *http.Request) map[string]any {
			return storefront.SignUpValues(r.URL.Query())
		},
	}); err != nil {
		return nil, err
	}
	return forms, nil
}

func sweep(ctx context.Context, limiter *httpapi.ClientLimiter) {
	ticker := time.NewTicker(limiterIdle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup()
		}
	}
}
