package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/tuannm99/novaparse/internal"
	"github.com/tuannm99/novaparse/server/parsewire"
)

func main() {
	var (
		cfgPath   = flag.String("config", "", "YAML config file")
		addr      = flag.String("addr", "", "listen address (overrides config)")
		cacheSize = flag.Int("cache-size", -1, "parse cache entries, 0 disables (overrides config)")
		debug     = flag.Bool("debug", false, "log every request")
	)
	flag.Parse()

	cfg := internal.DefaultConfig()
	if *cfgPath != "" {
		loaded, err := internal.LoadConfig(*cfgPath)
		if err != nil {
			slog.Error("load config", "path", *cfgPath, "err", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *cacheSize >= 0 {
		cfg.Server.CacheSize = *cacheSize
	}
	if *debug {
		cfg.Server.Debug = true
		cfg.Log.Level = "debug"
	}

	lvl, err := internal.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		slog.Error("log level", "err", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	err = parsewire.Run(parsewire.ServerConfig{
		Addr:      cfg.Server.Addr,
		CacheSize: cfg.Server.CacheSize,
		Debug:     cfg.Server.Debug,
		Logger:    logger.With("app", cfg.AppName),
	})
	if err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
	logger.Info("shutting down")
}
