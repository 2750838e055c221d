package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"quickfeedback/database"
	routes "quickfeedback/internal/app/http"
	"quickfeedback/internal/infra/mailer"
	"quickfeedback/internal/infra/ratelimit"
	qstripe "quickfeedback/internal/infra/stripe"
	"quickfeedback/internal/shared/logger"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 15 * time.Second

func newServeCommand() *cobra.Command {
	var autoMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), autoMigrate)
		},
	}
	cmd.Flags().BoolVar(&autoMigrate, "auto-migrate", true, "Migrate the database schema before serving")
	return cmd
}

func runServe(ctx context.Context, autoMigrate bool) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	log := logger.WithComponent("server")

	if autoMigrate {
		if err := database.Migrate(db); err != nil {
			return err
		}
	}

	qstripe.Configure(cfg.Stripe.SecretKey)
	if !cfg.StripeEnabled() {
		log.Warn("STRIPE_SECRET_KEY not set; billing endpoints are disabled")
	}
	mailer.Configure(cfg.SMTP)
	if cfg.SMTP.Host == "" {
		log.Warn("SMTP_HOST not set; emails are only logged")
	}

	var limiter ratelimit.Limiter
	if cfg.Redis.URL != "" {
		rl, err := ratelimit.NewFromURL(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn("redis unavailable; feedback rate limiting disabled", "error", err)
		} else {
			defer rl.Close()
			limiter = rl
		}
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(cfg, limiter),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}
