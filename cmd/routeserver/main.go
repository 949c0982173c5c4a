// Package main provides the route server binary that serves the web form,
// the JSON API and the telnet chat front end over one shared zone atlas.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/cory-johannsen/zoneroute/internal/config"
	"github.com/cory-johannsen/zoneroute/internal/frontend/handlers"
	"github.com/cory-johannsen/zoneroute/internal/frontend/telnet"
	"github.com/cory-johannsen/zoneroute/internal/frontend/web"
	"github.com/cory-johannsen/zoneroute/internal/observability"
	"github.com/cory-johannsen/zoneroute/internal/server"
	"github.com/cory-johannsen/zoneroute/internal/travel/atlas"
	"github.com/cory-johannsen/zoneroute/internal/travel/lookup"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	zonesFile := flag.String("zones", "", "path to the zone data file; overrides atlas.zones_file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}
	if *zonesFile != "" {
		cfg.Atlas.ZonesFile = *zonesFile
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting route server",
		zap.String("zones_file", cfg.Atlas.ZonesFile),
		zap.Bool("web", cfg.Web.Enabled),
		zap.Bool("telnet", cfg.Telnet.Enabled),
	)

	// Load atlas
	store, err := atlas.NewStore(cfg.Atlas.ZonesFile, logger)
	if err != nil {
		logger.Fatal("loading zone data", zap.Error(err))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := observability.NewMetrics(registry)
	metrics.RecordReload(store.Current().Graph.Len(), nil)
	store.OnReload(func(snap *atlas.Snapshot, err error) {
		if err != nil {
			metrics.RecordReload(0, err)
			return
		}
		metrics.RecordReload(snap.Graph.Len(), nil)
	})

	lifecycle := server.NewLifecycle(logger)

	if cfg.Web.Enabled {
		planner, err := lookup.NewPlanner(store,
			lookup.OptionsFromConfig("web", cfg.Web.Summary, cfg.Web.Resolver, cfg.Routing),
			logger, metrics)
		if err != nil {
			logger.Fatal("creating web planner", zap.Error(err))
		}
		webServer := web.NewServer(cfg.Web, planner, registry, logger)
		lifecycle.Add("web", &server.FuncService{
			StartFn: webServer.Start,
			StopFn:  webServer.Stop,
		})
	}

	if cfg.Telnet.Enabled {
		planner, err := lookup.NewPlanner(store,
			lookup.OptionsFromConfig("telnet", cfg.Telnet.Summary, cfg.Telnet.Resolver, cfg.Routing),
			logger, metrics)
		if err != nil {
			logger.Fatal("creating telnet planner", zap.Error(err))
		}
		chat, err := handlers.NewChatHandler(planner, logger)
		if err != nil {
			logger.Fatal("creating chat handler", zap.Error(err))
		}
		acceptor := telnet.NewAcceptor(cfg.Telnet, chat, logger)
		lifecycle.Add("telnet", &server.FuncService{
			StartFn: acceptor.ListenAndServe,
			StopFn:  acceptor.Stop,
		})
	}

	if lifecycle.Len() == 0 {
		logger.Fatal("no front end enabled; set web.enabled or telnet.enabled")
	}

	if cfg.Atlas.Watch {
		watcher := atlas.NewWatcher(store, cfg.Atlas.Debounce, logger)
		lifecycle.Add("atlas-watcher", watcher)
	}

	lifecycle.Add("sighup", server.ReloadOnHangup(func() {
		// Failures are logged by the store; the previous snapshot stays live.
		_, _ = store.Reload()
	}, logger))

	logger.Info("route server initialized",
		zap.Duration("startup", time.Since(start)),
		zap.Int("zones", store.Current().Graph.Len()),
		zap.String("web_addr", cfg.Web.Addr()),
		zap.String("telnet_addr", cfg.Telnet.Addr()),
	)

	if err := lifecycle.Run(context.Background()); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
