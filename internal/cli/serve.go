package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/evcraddock/build-your-day/internal/asset"
	"github.com/evcraddock/build-your-day/internal/dataset"
	"github.com/evcraddock/build-your-day/internal/db"
	"github.com/evcraddock/build-your-day/internal/logging"
	"github.com/evcraddock/build-your-day/internal/metrics"
	"github.com/evcraddock/build-your-day/internal/session"
	"github.com/evcraddock/build-your-day/internal/web"
)

const sessionCleanupInterval = 10 * time.Minute

func newServeCmd() *cobra.Command {
	var (
		port   int
		images string
		dev    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI",
		Long:  "Start an HTTP server for the web UI and the JSON API.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Server.Port = port
			}
			if cmd.Flags().Changed("images") {
				cfg.Data.Images = images
			}
			if cmd.Flags().Changed("dev") {
				cfg.DevMode = dev
			}

			logging.Setup(cfg.DevMode)

			data := dataset.NewStore(cfg.Data.Routes, cfg.Data.Venues)
			tables, err := data.Tables()
			if err != nil {
				return err
			}
			for _, p := range tables.Check() {
				slog.Warn("dataset problem", "kind", p.Kind, "problem", p.String())
			}
			slog.Info("dataset loaded", "routes", tables.RouteCount(), "venues", tables.VenueCount())

			database, err := db.OpenMemory()
			if err != nil {
				return err
			}
			defer func() {
				if err := database.Close(); err != nil {
					slog.Error("closing database", "error", err)
				}
			}()

			sessions := session.NewStore(database, cfg.Server.SessionTTL)

			srv, err := web.NewServer(web.Config{
				Data:        data,
				Sessions:    sessions,
				Images:      asset.NewResolver(cfg.Data.Images),
				Metrics:     metrics.New(),
				CORSOrigins: cfg.Server.CORSOrigins,
				RateLimit:   cfg.Server.RateLimit,
				RateBurst:   cfg.Server.RateBurst,
				TrustProxy:  cfg.Server.TrustProxy,
			})
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			go cleanupSessions(ctx, sessions, sessionCleanupInterval)

			return srv.ListenAndServe(ctx, cfg.Server.Port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "port to listen on")
	cmd.Flags().StringVar(&images, "images", "images", "directory of venue images")
	cmd.Flags().BoolVar(&dev, "dev", false, "human-readable debug logging")

	return cmd
}

// cleanupSessions drops expired sessions until ctx is done.
func cleanupSessions(ctx context.Context, sessions *session.Store, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sessions.Cleanup()
			if err != nil {
				slog.Error("session cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("expired sessions removed", "count", n)
			}
		}
	}
}
