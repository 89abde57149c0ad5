package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"trends-go/internal/config"
	"trends-go/internal/handler"
	"trends-go/internal/service"
	"trends-go/pkg/api"
	"trends-go/pkg/charts"
	"trends-go/pkg/gateway"
	"trends-go/pkg/logger"
	"trends-go/pkg/normalize"
	"trends-go/pkg/storage"
)

type Application struct {
	configPath string
	debug      bool
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "🚨 CRITICAL ERROR: Application panic recovered: %v\n", r)
			os.Exit(1)
		}
	}()

	// .env is optional; real environment variables win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load .env: %v\n", err)
	}

	app, err := parseFlags(os.Args[1:])
	if err != nil {
		os.Exit(2)
	}

	if err := app.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string) (*Application, error) {
	app := &Application{}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&app.configPath, "config", "", "Configuration file path, e.g. config/dev.yaml (empty for defaults)")
	fs.BoolVar(&app.debug, "debug", false, "Enable debug mode")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return app, nil
}

func (app *Application) applyDebug(cfg *config.Config) {
	if app.debug {
		cfg.Server.Debug = true
		cfg.Logger.Level = "debug"
	}
}

// reload re-reads the config file and swaps in a logger built from it.
// Other settings take effect on restart.
func (app *Application) reload(mgr config.Manager) error {
	if err := mgr.Reload(); err != nil {
		return err
	}
	cfg := *mgr.GetConfig()
	app.applyDebug(&cfg)
	logger.SetLogger(logger.New(cfg.Logger))
	return nil
}

func (app *Application) Run() error {
	mgr := config.NewManager()
	cfg, err := mgr.Load(app.configPath)
	if err != nil {
		return err
	}
	app.applyDebug(cfg)

	logger.SetLogger(logger.New(cfg.Logger))
	log := logger.GetLogger().Component("main")

	client := api.NewTrendsClient(cfg.Provider)
	defer client.Close()

	builder, err := charts.NewBuilder(charts.Options{Template: cfg.Dashboard.Template})
	if err != nil {
		return err
	}

	gw := gateway.New(client, gateway.Options{RelatedDelay: cfg.Dashboard.RelatedDelay})
	analyzer := service.NewAnalyzer(gw, normalize.DefaultCountryDB(), builder, service.Options{
		Resolution: api.Resolution(cfg.Dashboard.Resolution),
	})

	sessions := storage.NewSessionStore(cfg.Session.MaxSessions, cfg.Session.TTL)
	defer sessions.Close()

	page, err := handler.ParsePage()
	if err != nil {
		return err
	}

	ctl := handler.NewController(analyzer, sessions, page, handler.ControllerConfig{
		Title:         cfg.Dashboard.Title,
		CookieName:    cfg.Session.CookieName,
		SessionTTL:    cfg.Session.TTL,
		SecureCookies: cfg.Session.Secure,
	})
	server := handler.NewApp(ctl, handler.AppConfig{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	})

	addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
	errCh := make(chan error, 1)
	go func() {
		log.WithFields(map[string]interface{}{
			"addr":   addr,
			"config": app.configPath,
			"debug":  cfg.Server.Debug,
		}).Info("Starting trends dashboard")
		errCh <- server.Listen(addr)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for running := true; running; {
		select {
		case err := <-errCh:
			return fmt.Errorf("server stopped: %w", err)
		case <-hup:
			if err := app.reload(mgr); err != nil {
				log.WithError(err).Warn("Config reload failed")
				continue
			}
			logger.GetLogger().Component("main").Info("Config reloaded")
		case <-ctx.Done():
			running = false
		}
	}

	log.Info("Shutdown signal received, shutting down gracefully")
	if err := server.ShutdownWithTimeout(cfg.Server.ShutdownTimeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("Server stopped")
	return nil
}
