package main

import (
	"context"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"PhoneStore/internal/api"
	"PhoneStore/internal/config"
	"PhoneStore/internal/phone"
	"PhoneStore/pkg/kit"
)

const service = "phoneapi"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log, err := kit.NewLogger(service, kit.LogConfig{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	backend, closeBackend, err := openBackend(ctx, cfg.Store, log)
	if err != nil {
		log.Fatal("open backend failed", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeBackend()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	store := phone.NewStore(backend, log, phone.NewMetrics(reg))

	s := api.NewServer(store, log)
	s.MaxUploadBytes = cfg.Upload.MaxBytes

	h := api.NewHandler(s, api.HTTPDeps{
		Log:            log,
		Service:        service,
		Registry:       reg,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsToken:   cfg.Metrics.Token,
		CORSOrigins:    cfg.Server.Origins(),
		StaticDir:      cfg.Server.StaticDir,
		UploadPerMin:   cfg.Upload.LimitPerMin,
	})

	if err := kit.RunHTTPServer(ctx, cfg.Server.Addr(), h, log); err != nil {
		log.Fatal("http server stopped", zap.Error(err))
	}
}
