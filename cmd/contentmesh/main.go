// Command contentmesh runs the content-marketing dispatch service: it loads
// the agent configuration, wires the selected generation backend and serves
// the HTTP API until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/contentmesh"
	"github.com/hupe1980/contentmesh/api"
	"github.com/hupe1980/contentmesh/config"
	"github.com/hupe1980/contentmesh/logging"
	"github.com/hupe1980/contentmesh/metrics"
	"github.com/hupe1980/contentmesh/provider"
	"github.com/hupe1980/contentmesh/provider/anthropic"
	"github.com/hupe1980/contentmesh/provider/openai"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to YAML config file (defaults apply if empty)")
		addr       = flag.String("addr", "", "listen address (overrides config)")
		logLevel   = flag.String("log-level", "info", "log level: debug, info, warn, error")
		logFormat  = flag.String("log-format", "json", "log format: json or text")
	)
	flag.Parse()

	if err := run(*configPath, *addr, *logLevel, *logFormat); err != nil {
		fmt.Fprintf(os.Stderr, "contentmesh: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, addr, logLevel, logFormat string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	logCfg := logging.DefaultLoggerConfig()
	logCfg.Level = logging.ParseLevel(logLevel)
	logCfg.Format = logFormat
	logCfg.Component = "contentmesh"
	logger := logging.NewLogger(logCfg)

	generator, err := buildGenerator(cfg)
	if err != nil {
		return err
	}

	collector := metrics.NewCollector("contentmesh", prometheus.DefaultRegisterer)

	mesh, err := contentmesh.New(cfg, func(o *contentmesh.Options) {
		o.Generator = generator
		o.Logger = logger
		o.Metrics = collector
	})
	if err != nil {
		return fmt.Errorf("build mesh: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The mesh runs on its own context so a signal only stops the HTTP
	// server; in-flight tasks finish during Shutdown below.
	meshErr := make(chan error, 1)
	go func() {
		meshErr <- mesh.Start(context.Background())
	}()

	server := api.NewServer(mesh, func(o *api.Options) {
		o.Addr = cfg.Server.Addr
		o.Logger = logger
	})

	logger.Info("service starting",
		"addr", cfg.Server.Addr,
		"provider", cfg.Provider.Name,
		"agents", len(cfg.Agents))

	if err := server.ListenAndServe(ctx); err != nil {
		mesh.Shutdown()
		<-meshErr
		return fmt.Errorf("http server: %w", err)
	}

	// Stop intake and wait for in-flight tasks to drain.
	mesh.Shutdown()
	if err := <-meshErr; err != nil {
		return fmt.Errorf("agent runtime: %w", err)
	}

	logger.Info("service stopped")
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}
	return cfg, nil
}

func buildGenerator(cfg *config.Config) (provider.Generator, error) {
	switch cfg.Provider.Name {
	case "", "demo":
		return provider.NewDemo(), nil
	case "openai":
		return openai.NewGenerator(func(o *openai.Options) {
			if cfg.Provider.Model != "" {
				o.Model = cfg.Provider.Model
			}
		}), nil
	case "anthropic":
		return anthropic.NewGenerator(func(o *anthropic.Options) {
			if cfg.Provider.Model != "" {
				o.Model = anthropicsdk.Model(cfg.Provider.Model)
			}
		}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider.Name)
	}
}
