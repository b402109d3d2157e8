package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/amala-code/new-admin-backend/internal"
	"github.com/amala-code/new-admin-backend/internal/auth"
	authpg "github.com/amala-code/new-admin-backend/internal/auth/postgres"
	"github.com/amala-code/new-admin-backend/internal/core/events"
	"github.com/amala-code/new-admin-backend/internal/event"
	eventpg "github.com/amala-code/new-admin-backend/internal/event/postgres"
	"github.com/amala-code/new-admin-backend/internal/member"
	membermongo "github.com/amala-code/new-admin-backend/internal/member/mongo"
	memberpg "github.com/amala-code/new-admin-backend/internal/member/postgres"
	"github.com/amala-code/new-admin-backend/internal/news"
	newspg "github.com/amala-code/new-admin-backend/internal/news/postgres"
	"github.com/amala-code/new-admin-backend/internal/payment"
	"github.com/amala-code/new-admin-backend/internal/paymentgateway"
	"github.com/amala-code/new-admin-backend/internal/photo"
	photopg "github.com/amala-code/new-admin-backend/internal/photo/postgres"
	"github.com/amala-code/new-admin-backend/internal/transport/rest"
	"github.com/amala-code/new-admin-backend/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config      *internal.Config
	DB          *sqlx.DB
	MongoClient *mongo.Client
	Router      *chi.Mux
	Converter   *photo.Converter
	Logger      *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Router,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		deps.Converter.Shutdown()
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
		if deps.MongoClient != nil {
			if err := deps.MongoClient.Disconnect(ctx); err != nil {
				deps.Logger.Error("mongo disconnect error", "error", err)
			}
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(os.Getenv("APP_ENV"))
	lg := logger.LoggerWrapper()

	db, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormpostgres.New(gormpostgres.Config{Conn: db.DB}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm connection: %w", err)
	}

	// Member store: relational by default, document store when configured.
	var (
		memberRepo  member.Repository
		mongoClient *mongo.Client
		pinger      rest.Pinger
		storeName   string
	)
	if config.Database.Driver == "mongo" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(config.Database.MongoURI))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}

		repo := membermongo.NewMemberRepository(mongoClient.Database(config.Database.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure mongo indexes: %w", err)
		}
		memberRepo = repo
		pinger = mongoPinger{client: mongoClient}
		storeName = "mongodb"
	} else {
		memberRepo = memberpg.NewMemberRepository(gormDB)
		pinger = db.DB
		storeName = "postgres"
	}

	eventBus := events.NewEventBus(lg)
	registerAuditSubscribers(eventBus, lg)

	gatewayClient := paymentgateway.NewClient(paymentgateway.Config{
		BaseURL:        config.Payment.GatewayBaseURL,
		KeyID:          config.Payment.KeyID,
		KeySecret:      config.Payment.KeySecret,
		RequestTimeout: config.Payment.RequestTimeout,
	}, lg)

	verifier := payment.NewSignatureVerifier(config.Payment.KeySecret)
	paymentService := payment.NewService(gatewayClient, memberRepo, verifier, eventBus, lg)

	tokenGenerator := auth.NewJWTTokenGenerator(
		config.Security.AccessTokenSecret,
		config.Security.RefreshTokenSecret,
	)
	if config.Security.AccessTokenDuration > 0 {
		tokenGenerator.AccessTokenTTL = config.Security.AccessTokenDuration
	}
	if config.Security.RefreshTokenDuration > 0 {
		tokenGenerator.RefreshTokenTTL = config.Security.RefreshTokenDuration
	}
	authService := auth.NewService(authpg.NewRepository(gormDB), tokenGenerator, lg)
	authService.SetBCryptCost(config.Security.BCryptCost)

	memberService := member.NewService(memberRepo, eventBus, lg)

	eventImageDir := filepath.Join(config.Uploads.StaticDir, "images")
	eventService := event.NewService(eventpg.NewEventRepository(gormDB), eventImageDir, lg)
	newsService := news.NewService(newspg.NewNewsRepository(gormDB), lg)

	converter := photo.NewConverter(photo.ConverterConfig{
		OutputDir:    config.Uploads.ImageDir,
		MaxWorkers:   config.Uploads.MaxWorkers,
		JobQueueSize: config.Uploads.JobQueueSize,
	}, lg)
	photoService := photo.NewService(photopg.NewPhotoRepository(gormDB), converter, "/public/images", lg)

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Handlers{
		Health:         rest.NewHealthHandler(pinger, storeName),
		Auth:           auth.NewHandler(authService, lg),
		Member:         member.NewHandler(memberService, lg),
		Payment:        payment.NewHandler(paymentService, lg),
		Event:          event.NewHandler(eventService, lg),
		News:           news.NewHandler(newsService, lg),
		Photo:          photo.NewHandler(photoService, lg),
		StaticDir:      config.Uploads.StaticDir,
		PublicImageDir: config.Uploads.ImageDir,
	}, lg)

	return &Dependencies{
		Config:      config,
		DB:          db,
		MongoClient: mongoClient,
		Router:      router,
		Converter:   converter,
		Logger:      lg,
	}, nil
}

// registerAuditSubscribers logs an audit line per payment outcome.
func registerAuditSubscribers(bus *events.EventBus, lg *slog.Logger) {
	bus.Subscribe(events.EventTypePaymentVerified, func(ctx context.Context, e events.Event) error {
		lg.Info("audit: payment verified", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
	bus.Subscribe(events.EventTypePaymentRejected, func(ctx context.Context, e events.Event) error {
		lg.Warn("audit: payment rejected", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
}

type mongoPinger struct {
	client *mongo.Client
}

func (p mongoPinger) PingContext(ctx context.Context) error {
	return p.client.Ping(ctx, readpref.Primary())
}

// initDB opens the relational store over the pgx stdlib driver.
func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
