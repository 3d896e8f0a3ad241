// Command barcutd serves the cut optimization engine over HTTP.
package main

import (
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	_ "go.uber.org/automaxprocs"

	"github.com/piwi3910/barcut/internal/api"
	"github.com/piwi3910/barcut/internal/catalog"
	"github.com/piwi3910/barcut/internal/engine"
	"github.com/piwi3910/barcut/internal/project"
)

const maxBodyBytes = 1 * 1024 * 1024

func main() {
	configPath := flag.String("config", project.DefaultConfigPath(), "path to the config file")
	addr := flag.String("addr", "", "listen address, overrides the config file")
	flag.Parse()

	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(log)

	cfg, err := project.LoadAppConfig(*configPath)
	if err != nil {
		log.Error("cannot load config", "path", *configPath, "error", err)
		os.Exit(1)
	}

	cat, catPath, err := catalog.LoadOrCreate()
	if err != nil {
		log.Warn("catalog unavailable, using defaults", "path", catPath, "error", err)
	}

	orch := engine.NewOrchestrator(log)
	orch.Defaults = cfg.Constraints
	orch.Costs = cfg.Costs
	orch.Genetic = cfg.Genetic
	orch.Catalog = cat

	app := fiber.New(fiber.Config{
		AppName:      "barcut",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 2 * time.Minute, // genetic runs can be slow on large jobs
		BodyLimit:    maxBodyBytes,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))
	app.Use(api.RequestSizeLimiter(maxBodyBytes))

	api.SetupRoutes(app, orch)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan

		log.Info("shutting down")
		_ = app.Shutdown()
	}()

	listen := cfg.ListenAddr
	if *addr != "" {
		listen = *addr
	}
	log.Info("starting server", "addr", listen)
	if err := app.Listen(listen); err != nil {
		log.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
