package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"contrib.go.opencensus.io/integrations/ocsql"

	"github.com/Notifuse/campaign-builder/config"
	"github.com/Notifuse/campaign-builder/internal/database"
	"github.com/Notifuse/campaign-builder/internal/domain"
	httpHandler "github.com/Notifuse/campaign-builder/internal/http"
	"github.com/Notifuse/campaign-builder/internal/http/middleware"
	"github.com/Notifuse/campaign-builder/internal/repository"
	"github.com/Notifuse/campaign-builder/internal/service"
	"github.com/Notifuse/campaign-builder/pkg/cache"
	"github.com/Notifuse/campaign-builder/pkg/logger"
	"github.com/Notifuse/campaign-builder/pkg/mailer"
	"github.com/Notifuse/campaign-builder/pkg/storage"
	"github.com/Notifuse/campaign-builder/pkg/tracing"
	"github.com/Notifuse/campaign-builder/pkg/webhook"
)

// AppInterface defines the interface for the App
type AppInterface interface {
	Initialize() error
	Start() error
	Shutdown(ctx context.Context) error

	// Getters for app components accessed in tests
	GetConfig() *config.Config
	GetLogger() logger.Logger
	GetMux() *http.ServeMux
	GetDB() *sql.DB
	GetMailer() mailer.Mailer
	GetCampaignRepository() domain.CampaignRepository
	GetAssetRepository() domain.AssetRepository

	// Server status methods
	IsServerCreated() bool
	WaitForServerStart(ctx context.Context) bool

	// Methods for initialization steps
	InitTracing() error
	InitDB() error
	InitCache() error
	InitStorage() error
	InitMailer() error
	InitWebhook() error
	InitRepositories() error
	InitServices() error
	InitHandlers() error

	// Graceful shutdown methods
	SetShutdownTimeout(timeout time.Duration)
	GetActiveRequestCount() int64
	GetShutdownContext() context.Context
}

type shutdownCtxKey struct{}

// App encapsulates the application dependencies and configuration
type App struct {
	config   *config.Config
	logger   logger.Logger
	db       *sql.DB
	mailer   mailer.Mailer
	cache    cache.Cache
	store    storage.ObjectStore
	notifier webhook.Notifier
	tracer   *tracing.Provider

	// Repositories
	campaignRepo domain.CampaignRepository
	assetRepo    domain.AssetRepository

	// Services
	editorService    *service.EditorService
	campaignService  *service.CampaignService
	assetService     *service.AssetService
	retentionService *service.RetentionService

	// HTTP handlers
	mux    *http.ServeMux
	server *http.Server

	// Server synchronization
	serverMu      sync.RWMutex
	serverStarted chan struct{}

	// Graceful shutdown management
	shutdownCtx     context.Context
	shutdownCancel  context.CancelFunc
	activeRequests  int64
	requestWg       sync.WaitGroup
	shutdownTimeout time.Duration
}

// AppOption defines a functional option for configuring the App
type AppOption func(*App)

// WithMockDB configures the app to use a mock database
func WithMockDB(db *sql.DB) AppOption {
	return func(a *App) {
		a.db = db
	}
}

// WithMockMailer configures the app to use a mock mailer
func WithMockMailer(m mailer.Mailer) AppOption {
	return func(a *App) {
		a.mailer = m
	}
}

// WithCache replaces the configured export cache
func WithCache(c cache.Cache) AppOption {
	return func(a *App) {
		a.cache = c
	}
}

// WithObjectStore replaces the configured asset store
func WithObjectStore(s storage.ObjectStore) AppOption {
	return func(a *App) {
		a.store = s
	}
}

// WithLogger sets a custom logger
func WithLogger(logger logger.Logger) AppOption {
	return func(a *App) {
		a.logger = logger
	}
}

// NewApp creates a new application instance
func NewApp(cfg *config.Config, opts ...AppOption) AppInterface {
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	app := &App{
		config:          cfg,
		logger:          logger.NewLoggerWithLevel(cfg.LogLevel),
		mux:             http.NewServeMux(),
		serverStarted:   make(chan struct{}),
		shutdownCtx:     shutdownCtx,
		shutdownCancel:  shutdownCancel,
		shutdownTimeout: 30 * time.Second,
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// InitTracing initializes OpenCensus tracing and metrics exporters
func (a *App) InitTracing() error {
	provider, err := tracing.Init(a.config.Tracing, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	a.tracer = provider
	return nil
}

// InitDB initializes the database connection
func (a *App) InitDB() error {
	if a.db != nil {
		return nil
	}

	password := a.config.Database.Password
	maskedPassword := ""
	if len(password) > 0 {
		maskedPassword = fmt.Sprintf("%c...%c", password[0], password[len(password)-1])
	}
	a.logger.WithFields(map[string]interface{}{
		"host":     a.config.Database.Host,
		"port":     a.config.Database.Port,
		"user":     a.config.Database.User,
		"dbname":   a.config.Database.DBName,
		"sslmode":  a.config.Database.SSLMode,
		"password": maskedPassword,
	}).Info("Connecting to database")

	ctx, cancel := context.WithTimeout(a.shutdownCtx, 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, &a.config.Database, a.config.Tracing.Enabled)
	if err != nil {
		a.logger.WithField("error", err).Error("Database connection failed")
		return err
	}
	if a.config.Tracing.Enabled {
		a.logger.Info("Database driver wrapped with OpenCensus tracing")
	}

	a.db = db
	return nil
}

// InitCache initializes the export cache backend
func (a *App) InitCache() error {
	if a.cache != nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(a.shutdownCtx, 10*time.Second)
	defer cancel()

	c, err := cache.New(ctx, cache.Options{
		Backend:       a.config.Cache.Backend,
		RedisAddr:     a.config.Cache.RedisAddr,
		RedisPassword: a.config.Cache.RedisPassword,
		RedisDB:       a.config.Cache.RedisDB,
		KeyPrefix:     "campaign-builder:",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	a.cache = c
	a.logger.WithField("backend", a.config.Cache.Backend).Info("Export cache initialized")
	return nil
}

// InitStorage initializes the asset object store. Without a bucket assets
// are kept in memory, which only suits development.
func (a *App) InitStorage() error {
	if a.store != nil {
		return nil
	}

	storageCfg := storage.Config{
		Bucket:         a.config.Storage.Bucket,
		Region:         a.config.Storage.Region,
		Endpoint:       a.config.Storage.Endpoint,
		AccessKey:      a.config.Storage.AccessKey,
		SecretKey:      a.config.Storage.SecretKey,
		PublicURL:      a.config.Storage.PublicURL,
		ForcePathStyle: a.config.Storage.ForcePathStyle,
	}

	if storageCfg.Bucket == "" {
		if a.config.IsProduction() {
			a.logger.Warn("No storage bucket configured, uploaded assets will not survive a restart")
		}
		a.store = storage.NewMemoryStore(storageCfg.PublicURL)
		return nil
	}

	client, err := storage.NewS3Client(storageCfg)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}
	a.store = storage.NewS3Store(client, storageCfg)
	a.logger.WithField("bucket", storageCfg.Bucket).Info("Using S3 asset storage")
	return nil
}

// InitMailer initializes the mailer used for test sends
func (a *App) InitMailer() error {
	if a.mailer != nil {
		return nil
	}

	if a.config.SMTP.Host == "" {
		a.mailer = mailer.NewConsoleMailer()
		a.logger.Info("Using console mailer")
		return nil
	}

	a.mailer = mailer.NewSMTPMailer(&mailer.Config{
		SMTPHost:     a.config.SMTP.Host,
		SMTPPort:     a.config.SMTP.Port,
		SMTPUsername: a.config.SMTP.Username,
		SMTPPassword: a.config.SMTP.Password,
		FromEmail:    a.config.SMTP.FromEmail,
		FromName:     a.config.SMTP.FromName,
		Timeout:      30 * time.Second,
	})
	a.logger.WithField("host", a.config.SMTP.Host).Info("Using SMTP mailer")
	return nil
}

// InitWebhook initializes the outbound revision notifier
func (a *App) InitWebhook() error {
	if a.config.Webhook.URL == "" {
		a.notifier = webhook.NoopNotifier{}
		return nil
	}

	sender, err := webhook.NewSender(a.config.Webhook.URL, a.config.Webhook.Secret, a.config.Webhook.Timeout)
	if err != nil {
		return fmt.Errorf("failed to initialize webhook sender: %w", err)
	}
	a.notifier = sender
	a.logger.WithField("url", a.config.Webhook.URL).Info("Revision webhook enabled")
	return nil
}

// InitRepositories initializes all repositories
func (a *App) InitRepositories() error {
	if a.db == nil {
		return fmt.Errorf("database must be initialized before repositories")
	}

	a.campaignRepo = repository.NewCampaignRepository(a.db)
	a.assetRepo = repository.NewAssetRepository(a.db)
	return nil
}

// InitServices initializes all services and starts the retention job
func (a *App) InitServices() error {
	if a.campaignRepo == nil || a.assetRepo == nil {
		return fmt.Errorf("repositories must be initialized before services")
	}
	if a.cache == nil || a.store == nil || a.mailer == nil {
		return fmt.Errorf("cache, storage and mailer must be initialized before services")
	}
	if a.notifier == nil {
		a.notifier = webhook.NoopNotifier{}
	}

	a.editorService = service.NewEditorService(a.cache, a.config.Cache.TTL, a.logger)
	a.campaignService = service.NewCampaignService(a.campaignRepo, a.editorService, a.mailer, a.notifier, a.logger)
	a.assetService = service.NewAssetService(
		a.assetRepo,
		a.store,
		a.config.Storage.MaxUploadBytes,
		a.config.Storage.MaxConcurrentUploads,
		a.logger,
	)

	a.retentionService = service.NewRetentionService(
		a.campaignRepo,
		a.config.Retention.KeepRevisions,
		a.config.Retention.Schedule,
		a.logger,
	)
	if err := a.retentionService.Start(); err != nil {
		return fmt.Errorf("failed to start revision retention: %w", err)
	}

	return nil
}

// InitHandlers initializes all HTTP handlers and routes
func (a *App) InitHandlers() error {
	if a.campaignService == nil {
		return fmt.Errorf("services must be initialized before handlers")
	}

	jwtSecret := a.config.Security.JWTSecret

	httpHandler.NewRootHandler(a.db, a.config.Version, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewCampaignHandler(a.campaignService, jwtSecret, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewEditorHandler(a.editorService, jwtSecret, a.logger).RegisterRoutes(a.mux)
	httpHandler.NewAssetHandler(a.assetService, jwtSecret, a.config.Storage.MaxUploadBytes, a.logger).RegisterRoutes(a.mux)

	return nil
}

// Handler returns the mux wrapped with the server middleware chain
func (a *App) Handler() http.Handler {
	var handler http.Handler = a.mux

	handler = a.gracefulShutdownMiddleware(handler)

	if a.config.Tracing.Enabled {
		handler = middleware.TracingMiddleware(handler)
	}

	return middleware.CORSMiddleware(a.config.Server.CORSAllowOrigin)(handler)
}

// Start starts the HTTP server
func (a *App) Start() error {
	addr := fmt.Sprintf("%s:%d", a.config.Server.Host, a.config.Server.Port)
	a.logger.WithField("address", addr).Info(fmt.Sprintf("Server starting on %s", addr))

	a.serverMu.Lock()
	if a.serverStarted != nil {
		select {
		case <-a.serverStarted:
		default:
			close(a.serverStarted)
		}
	}
	a.serverStarted = make(chan struct{})

	a.server = &http.Server{
		Addr:              addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverStarted := a.serverStarted
	server := a.server
	a.serverMu.Unlock()

	close(serverStarted)

	return server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Starting graceful shutdown...")

	a.shutdownCancel()

	a.serverMu.RLock()
	server := a.server
	a.serverMu.RUnlock()

	if server == nil {
		a.logger.Info("No server to shutdown")
		return a.cleanupResources(ctx)
	}

	a.logger.WithField("active_requests", a.getActiveRequestCount()).Info("Active requests at shutdown start")

	shutdownTimeout := a.shutdownTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < shutdownTimeout {
			shutdownTimeout = remaining - time.Second
			if shutdownTimeout < 0 {
				shutdownTimeout = 0
			}
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	serverShutdownDone := make(chan error, 1)
	go func() {
		a.logger.WithField("timeout", shutdownTimeout).Info("Starting HTTP server shutdown")
		serverShutdownDone <- server.Shutdown(shutdownCtx)
	}()

	requestsDone := make(chan struct{})
	go func() {
		a.requestWg.Wait()
		close(requestsDone)
	}()

	var shutdownErr error
	select {
	case err := <-serverShutdownDone:
		shutdownErr = err
		a.logger.Info("HTTP server shutdown completed")
	case <-shutdownCtx.Done():
		a.logger.Warn("Shutdown timeout reached")
		shutdownErr = fmt.Errorf("shutdown timeout exceeded")
	}

	if shutdownErr == nil {
		select {
		case <-requestsDone:
		case <-time.After(2 * time.Second):
			if n := a.getActiveRequestCount(); n > 0 {
				a.logger.WithField("active_requests", n).Warn("Some requests still active, proceeding with shutdown")
			}
		}
	}

	if cleanupErr := a.cleanupResources(ctx); cleanupErr != nil {
		a.logger.WithField("error", cleanupErr).Error("Error during resource cleanup")
		if shutdownErr == nil {
			shutdownErr = cleanupErr
		}
	}

	if shutdownErr != nil {
		a.logger.WithField("error", shutdownErr).Error("Graceful shutdown completed with errors")
	} else {
		a.logger.Info("Graceful shutdown completed successfully")
	}

	return shutdownErr
}

// cleanupResources stops background jobs and closes connections
func (a *App) cleanupResources(ctx context.Context) error {
	a.logger.Info("Cleaning up resources...")

	if a.retentionService != nil {
		a.retentionService.Stop(ctx)
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.WithField("error", err).Warn("Error closing cache")
		}
	}

	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			a.logger.WithField("error", err).Warn("Error flushing tracing exporters")
		}
	}

	if a.db != nil {
		if a.config.Tracing.Enabled {
			if err := ocsql.RecordStats(a.db, 5*time.Second); err != nil {
				a.logger.WithField("error", err).Error("Failed to record final database stats for tracing")
			}
		}

		a.logger.Info("Closing database connection")
		if err := a.db.Close(); err != nil {
			a.logger.WithField("error", err).Error("Error closing database connection")
			return err
		}
	}

	a.logger.Info("Resource cleanup completed")
	return nil
}

// IsServerCreated safely checks if the server has been created
func (a *App) IsServerCreated() bool {
	a.serverMu.RLock()
	defer a.serverMu.RUnlock()
	return a.server != nil
}

// WaitForServerStart waits for the server to be created.
// Returns false if ctx expires first.
func (a *App) WaitForServerStart(ctx context.Context) bool {
	a.serverMu.RLock()
	started := a.serverStarted
	a.serverMu.RUnlock()

	if started == nil {
		<-ctx.Done()
		return false
	}

	select {
	case <-started:
		return a.IsServerCreated()
	case <-ctx.Done():
		return false
	}
}

// Initialize sets up all components of the application
func (a *App) Initialize() error {
	a.logger.WithField("version", a.config.Version).Info("Starting campaign builder")

	steps := []func() error{
		a.InitTracing,
		a.InitDB,
		a.InitCache,
		a.InitStorage,
		a.InitMailer,
		a.InitWebhook,
		a.InitRepositories,
		a.InitServices,
		a.InitHandlers,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}

	a.logger.Info("Application successfully initialized")
	return nil
}

// GetConfig returns the app's configuration
func (a *App) GetConfig() *config.Config {
	return a.config
}

// GetLogger returns the app's logger
func (a *App) GetLogger() logger.Logger {
	return a.logger
}

// GetMux returns the app's HTTP multiplexer
func (a *App) GetMux() *http.ServeMux {
	return a.mux
}

// GetDB returns the app's database connection
func (a *App) GetDB() *sql.DB {
	return a.db
}

// GetMailer returns the app's mailer
func (a *App) GetMailer() mailer.Mailer {
	return a.mailer
}

func (a *App) GetCampaignRepository() domain.CampaignRepository {
	return a.campaignRepo
}

func (a *App) GetAssetRepository() domain.AssetRepository {
	return a.assetRepo
}

func (a *App) incrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, 1)
	a.requestWg.Add(1)
}

func (a *App) decrementActiveRequests() {
	atomic.AddInt64(&a.activeRequests, -1)
	a.requestWg.Done()
}

func (a *App) getActiveRequestCount() int64 {
	return atomic.LoadInt64(&a.activeRequests)
}

// GetActiveRequestCount returns the current number of active requests
func (a *App) GetActiveRequestCount() int64 {
	return a.getActiveRequestCount()
}

// SetShutdownTimeout sets the timeout for graceful shutdown
func (a *App) SetShutdownTimeout(timeout time.Duration) {
	a.shutdownTimeout = timeout
	a.logger.WithField("shutdown_timeout", timeout).Info("Shutdown timeout configured")
}

// GetShutdownContext returns the context cancelled when shutdown begins
func (a *App) GetShutdownContext() context.Context {
	return a.shutdownCtx
}

func (a *App) isShuttingDown() bool {
	select {
	case <-a.shutdownCtx.Done():
		return true
	default:
		return false
	}
}

// gracefulShutdownMiddleware tracks in-flight requests and rejects new ones
// once shutdown has begun
func (a *App) gracefulShutdownMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isShuttingDown() {
			http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
			return
		}

		a.incrementActiveRequests()
		defer a.decrementActiveRequests()

		ctx := context.WithValue(r.Context(), shutdownCtxKey{}, a.shutdownCtx)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var _ AppInterface = (*App)(nil)
