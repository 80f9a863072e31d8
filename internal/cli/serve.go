package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/v3/websocket"
	fiberzap "github.com/gofiber/contrib/v3/zap"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	recoverer "github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seuros/hirefunnel/internal/config"
	"github.com/seuros/hirefunnel/internal/handlers"
	"github.com/seuros/hirefunnel/internal/history"
	"github.com/seuros/hirefunnel/internal/httpx"
	"github.com/seuros/hirefunnel/internal/logging"
	"github.com/seuros/hirefunnel/internal/realtime"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HireFunnel dashboard server",
	Long: `Start the HireFunnel dashboard server.

Environment variables:
  PORT                  Server port (default: 3000)
  DEFAULT_TARGET_LEADS  Lead count used when a request has none (default: 1000)
  DEFAULT_PERIOD        week, month or quarter (default: month)
  HISTORY_FILE          YAML file with the monthly trend (default: built-in sample)
  HISTORY_RELOAD        Re-read HISTORY_FILE at this interval, e.g. 30s (default: off)
  ALLOWED_ORIGINS       Comma-separated hosts allowed by CORS (default: any)

Example:
  PORT=8080 hirefunnel serve --target-leads 1500`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(serveOverrides(cmd))
	},
}

func init() {
	addServeFlags(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("port", "", "Port to listen on")
	cmd.Flags().String("history-file", "", "YAML file with the monthly trend")
	cmd.Flags().Int("target-leads", -1, "Default target lead count")
}

// serveOverrides collects the serve flags of cmd. RootCmd passes serveCmd,
// whose flags are never parsed there, so only defaults apply.
func serveOverrides(cmd *cobra.Command) config.Overrides {
	flags := cmd.Flags()
	port, _ := flags.GetString("port")
	historyFile, _ := flags.GetString("history-file")

	o := config.Overrides{
		Port:        port,
		HistoryFile: historyFile,
	}
	if flags.Changed("target-leads") {
		leads, _ := flags.GetInt("target-leads")
		o.TargetLeads = &leads
	}
	return o
}

// server bundles the app with the live hub so /health can report sessions.
type server struct {
	app *fiber.App
	hub *realtime.Hub
}

func runServe(o config.Overrides) error {
	cfg, err := config.LoadWithOverrides(o)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	src, stopHistory, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer stopHistory()

	period, err := history.ParsePeriod(cfg.DefaultPeriod, history.PeriodMonth)
	if err != nil {
		return fmt.Errorf("invalid default period: %w", err)
	}

	srv := newServer(cfg, period, src)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logging.L().Info("hirefunnel starting",
			zap.String("port", cfg.Port),
			zap.Int("default_target_leads", cfg.DefaultTargetLeads),
			zap.String("default_period", string(period)))
		errCh <- srv.app.Listen(":"+cfg.Port, fiber.ListenConfig{DisableStartupMessage: true})
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logging.L().Info("shutting down")
	if err := srv.app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}

// openHistory returns the trend source. A configured file with a reload
// interval is watched for changes.
func openHistory(cfg *config.Config) (history.Source, func(), error) {
	if cfg.HistoryFile == "" || cfg.HistoryReload <= 0 {
		src, err := history.Open(cfg.HistoryFile)
		return src, func() {}, err
	}

	r, err := history.NewReloader(cfg.HistoryFile, cfg.HistoryReload)
	if err != nil {
		return nil, nil, err
	}
	r.Start()
	return r, r.Stop, nil
}

func newServer(cfg *config.Config, period history.Period, src history.Source) *server {
	dash := handlers.NewDashboard(cfg.DefaultTargetLeads, period, src)
	hub := realtime.NewHub(dash)

	app := fiber.New(createFiberConfig("HireFunnel"))

	app.Use(recoverer.New())
	app.Use(httpx.RequestID())
	app.Use(fiberzap.New(fiberzap.Config{
		Logger: logging.L(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins(),
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", httpx.HeaderRequestID},
		AllowMethods: []string{fiber.MethodGet, fiber.MethodOptions},
	}))

	app.Use(func(c fiber.Ctx) error {
		c.Set("X-HireFunnel-Version", Version)
		return c.Next()
	})

	srv := &server{app: app, hub: hub}

	app.Get("/", func(c fiber.Ctx) error {
		return c.Redirect().Status(fiber.StatusFound).To("/dashboard")
	})
	app.Get("/health", srv.handleHealth)
	app.Get("/up", handleUp)
	app.Get("/api/version", handleVersion)
	app.Get("/dashboard", handlers.HandleDashboard(DashboardTemplate, Version))

	dash.Register(app)

	app.Use("/api/funnel/live", func(c fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/api/funnel/live", hub.Handler())

	return srv
}

func (s *server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":        "healthy",
		"service":       "hirefunnel",
		"live_sessions": s.hub.GetClientCount(),
	})
}

func handleUp(c fiber.Ctx) error {
	return c.SendStatus(fiber.StatusOK)
}

func handleVersion(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"version": Version,
	})
}
