package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/account"
	accountrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/account/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/booking"
	bookingrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/booking/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/config"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/contact"
	contactrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/contact/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/download"
	downloadrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/download/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/faq"
	faqrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/faq/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/insight"
	insightrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/insight/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/notify"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/router"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/session"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/storage"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/subscriber"
	subscriberrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/subscriber/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/internal/tool"
	toolrepo "github.com/ovaphlow/pitchfork/service-backoffice-go/internal/tool/repo"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/database"
	"github.com/ovaphlow/pitchfork/service-backoffice-go/pkg/utilities"
)

var rootCmd = &cobra.Command{
	Use:           "backoffice",
	Short:         "Marketing site API and admin back office",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print migration status",
	RunE:  runMigrateStatus,
}

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an admin account",
	RunE:  runCreateAdmin,
}

var (
	adminEmail    string
	adminName     string
	adminPassword string
)

func init() {
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "account e-mail (required)")
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "display name (required)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "initial password; falls back to ADMIN_PASSWORD")
	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("name")

	migrateCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(serveCmd, migrateCmd, createAdminCmd)
}

func main() {
	// best-effort: without a .env file the real environment is used
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app holds what every subcommand needs.
type app struct {
	cfg   *config.Config
	log   *zap.Logger
	sugar *zap.SugaredLogger
	sqlDB *sql.DB
	db    *sqlx.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	lg, err := utilities.Init(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if err := utilities.InitSnowflake(cfg.SnowflakeNode); err != nil {
		_ = lg.Sync()
		return nil, err
	}
	sqlDB, err := database.Connect(cfg.Database)
	if err != nil {
		_ = lg.Sync()
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return &app{
		cfg:   cfg,
		log:   lg,
		sugar: lg.Sugar(),
		sqlDB: sqlDB,
		// wrap with sqlx for convenience in repos
		db: sqlx.NewDb(sqlDB, "postgres"),
	}, nil
}

func (a *app) close() {
	_ = a.db.Close()
	_ = a.log.Sync()
}

func newAccountService(a *app) *account.Service {
	repo := accountrepo.NewAccountRepo(a.db, a.cfg.Database.QueryTimeout)
	return account.NewService(repo, account.BcryptHasher{Cost: account.DefaultCost}, a.sugar)
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	cfg, sugar := a.cfg, a.sugar
	sugar.Infow("starting service-backoffice-go", "addr", cfg.HTTPAddr, "env", cfg.Env)

	sessions, err := session.NewService(cfg.JWTSecret)
	if err != nil {
		return err
	}
	qt := cfg.Database.QueryTimeout
	dispatcher := notify.NewDispatcher(notify.LogNotifier{Logger: sugar}, sugar, cfg.NotifyTo)
	files := storage.NewLocalStorage(cfg.UploadDir, cfg.PublicUploadPrefix, cfg.UploadMaxBytes)
	limiter := router.NewLoginLimiter(cfg.LoginRatePerMinute, sugar)

	handler := router.RegisterRoutes(router.Deps{
		Logger:         sugar,
		DB:             a.db,
		Sessions:       sessions,
		Limiter:        limiter,
		LoginPath:      cfg.LoginPath,
		CORSOrigins:    cfg.CORSOrigins,
		RequestTimeout: cfg.RequestTimeout,
		UploadDir:      cfg.UploadDir,
		UploadPrefix:   cfg.PublicUploadPrefix,

		Accounts:    account.NewHandler(newAccountService(a), sessions, sugar, cfg.IsProduction()),
		Contacts:    contact.NewHandler(contact.NewService(contactrepo.NewContactRepo(a.db, qt), dispatcher), sugar),
		Bookings:    booking.NewHandler(booking.NewService(bookingrepo.NewBookingRepo(a.db, qt), dispatcher), sugar),
		Downloads:   download.NewHandler(download.NewService(downloadrepo.NewDownloadRepo(a.db, qt), files), sugar, cfg.UploadMaxBytes),
		FAQs:        faq.NewHandler(faq.NewService(faqrepo.NewFAQRepo(a.db, qt)), sugar),
		Tools:       tool.NewHandler(tool.NewService(toolrepo.NewToolRepo(a.db, qt)), sugar),
		Insights:    insight.NewHandler(insight.NewService(insightrepo.NewInsightRepo(a.db, qt)), sugar),
		Subscribers: subscriber.NewHandler(subscriber.NewService(subscriberrepo.NewSubscriberRepo(a.db, qt)), sugar),
	})

	// graceful shutdown
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go limiter.Run(ctx.Done())

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()
	sugar.Info("service is running; press Ctrl+C to stop")

	select {
	case <-ctx.Done():
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	sugar.Info("shutting down")

	// give a short grace period for cleanup
	doneCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(doneCtx); err != nil {
		sugar.Warnf("http server shutdown failed: %v", err)
	}
	if err := dispatcher.Wait(doneCtx); err != nil {
		sugar.Warnf("pending notifications dropped: %v", err)
	}
	if err := a.sqlDB.PingContext(doneCtx); err != nil {
		sugar.Warnf("db ping on shutdown failed: %v", err)
	}

	sugar.Info("goodbye")
	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()
	if err := database.Migrate(cmd.Context(), a.sqlDB); err != nil {
		return err
	}
	a.sugar.Info("migrations applied")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, _ []string) error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()
	return database.MigrationStatus(cmd.Context(), a.sqlDB)
}

func runCreateAdmin(cmd *cobra.Command, _ []string) error {
	password := adminPassword
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if password == "" {
		return errors.New("--password or ADMIN_PASSWORD is required")
	}

	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	acc, err := newAccountService(a).Create(cmd.Context(), account.CreateInput{
		Email:    adminEmail,
		Password: password,
		Name:     adminName,
		Role:     session.RoleAdmin,
	})
	if err != nil {
		return err
	}
	a.sugar.Infow("admin account created", "account", acc.ID, "email", acc.Email)
	fmt.Fprintf(cmd.OutOrStdout(), "created %s (%s)\n", acc.Email, acc.ID)
	return nil
}
