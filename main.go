package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"entitlements-app/config"
	"entitlements-app/database"
	authapi "entitlements-app/internal/api/auth"
	plansapi "entitlements-app/internal/api/plans"
	routes "entitlements-app/internal/app/http"
	"entitlements-app/internal/logging"
	"entitlements-app/internal/notify"
	"entitlements-app/internal/services/accounts"
	upgradesvc "entitlements-app/internal/services/upgrades"
	"entitlements-app/internal/store"
)

// Version is set at build time with -ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:           "entitlements",
	Short:         "Subscription entitlements and plan-upgrade approval service",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadEnv()
		logging.Init(logging.Config{Format: config.LOG_FORMAT, Level: config.LOG_LEVEL})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the schema and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return openDB()
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed-plans",
	Short: "Insert the built-in plan catalog and the bootstrap admin",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := openDB(); err != nil {
			return err
		}
		n, err := database.SeedPlans(database.DB)
		if err != nil {
			return err
		}
		log.Info().Int("created", n).Msg("plans seeded")

		if config.ADMIN_EMAIL != "" {
			if err := database.SeedAdmin(database.DB, config.ADMIN_EMAIL, config.ADMIN_PASSWORD); err != nil {
				return err
			}
			log.Info().Str("email", config.ADMIN_EMAIL).Msg("admin ensured")
		}
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("entitlements %s\n", Version)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd, versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func openDB() error {
	dsn := config.DB_URL
	switch config.DB_DRIVER {
	case database.DriverSQLite:
		if dsn == "" {
			dsn = "entitlements.db"
		}
		dsn = database.SQLiteDSN(dsn)
	default:
		if err := config.Require("DB_URL"); err != nil {
			return err
		}
	}
	return database.InitDB(config.DB_DRIVER, dsn)
}

func buildNotifier() *notify.Async {
	var next notify.Dispatcher = notify.LogDispatcher{}
	if config.SMTPEnabled() {
		mailer := notify.NewMailer(config.SMTP_HOST, config.SMTP_PORT, config.SMTP_EMAIL, config.SMTP_PASSWORD, config.ADMIN_NOTIFY_EMAIL)
		if err := mailer.Configured(); err != nil {
			log.Warn().Err(err).Msg("smtp settings incomplete, notifications are logged only")
		} else {
			next = notify.Multi{notify.LogDispatcher{}, mailer}
		}
	}
	return notify.NewAsync(next, config.NOTIFY_TIMEOUT)
}

func runServer(ctx context.Context) error {
	if err := config.Require("JWT_SECRET"); err != nil {
		return err
	}
	if err := openDB(); err != nil {
		return err
	}

	st := store.New(database.DB, store.NewLocker(database.DB, config.LOCK_TIMEOUT))
	notifier := buildNotifier()

	deps := routes.Deps{
		Store:     st,
		Requests:  upgradesvc.NewRequestService(st, upgradesvc.WithNotifier(notifier)),
		Workflow:  upgradesvc.NewWorkflow(st, upgradesvc.WithNotifier(notifier)),
		Accounts:  accounts.NewService(st, nil),
		JWTSecret: config.JWT_SECRET,
		TokenTTL:  config.TOKEN_TTL,
	}
	if config.StripeEnabled() {
		deps.Prices = plansapi.NewStripePrices(config.STRIPE_SECRET_KEY, config.STRIPE_PLANS_PRODUCT_ID)
	}
	if config.GoogleEnabled() {
		deps.Google = &authapi.GoogleConfig{
			ClientID:         config.GOOGLE_CLIENT_ID,
			ClientSecret:     config.GOOGLE_CLIENT_SECRET,
			RedirectURL:      config.GOOGLE_REDIRECT_URL,
			FrontendRedirect: config.GOOGLE_FRONTEND_REDIRECT,
		}
	}

	if config.LOG_LEVEL != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), logging.RequestLogger())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.CORS_ORIGIN},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", logging.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", logging.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	routes.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + config.PORT,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", Version).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}
	notifier.Wait()

	if sqlDB, err := database.DB.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}
