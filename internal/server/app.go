// Package server wires configuration, storage, services and the HTTP
// boundary together and runs them until the process is told to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/techreport/internal/filex"
	"github.com/dmitrijs2005/techreport/internal/logging"
	"github.com/dmitrijs2005/techreport/internal/server/config"
	"github.com/dmitrijs2005/techreport/internal/server/export"
	"github.com/dmitrijs2005/techreport/internal/server/httpapi"
	"github.com/dmitrijs2005/techreport/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/techreport/internal/server/services"
)

const dbInitTimeout = 15 * time.Second

var (
	openDB = sql.Open

	newRepositoryManager = func() repomanager.RepositoryManager {
		return repomanager.NewPostgresRepositoryManager()
	}

	newArchiver = func(ctx context.Context, c *config.Config) (services.Archiver, error) {
		return export.NewS3Archiver(ctx, c)
	}
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	sessions *services.SessionService
	router   http.Handler
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlog(os.Stdout, c.LogLevel, c.LogFormat)
	return newApp(c, logger)
}

func newApp(c *config.Config, logger logging.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), dbInitTimeout)
	defer cancel()

	db, err := openDB(repomanager.DriverName, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := newRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	exportDir, err := filex.EnsureDir(c.ExportDir)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("export dir error: %w", err)
	}

	var archiver services.Archiver
	if c.ExportArchive {
		archiver, err = newArchiver(ctx, c)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("archive init error: %w", err)
		}
	}

	ss := services.NewSessionService(db, rm, c, logger)
	as := services.NewAuthService(db, rm, ss, c, logger)
	rs := services.NewReportService(db, rm, logger)
	es := services.NewExportService(db, rm, exportDir, archiver, logger)

	h := httpapi.NewHandler(httpapi.Services{
		Auth:     as,
		Sessions: ss,
		Reports:  rs,
		Exporter: es,
		DB:       db,
	}, httpapi.NewSessionCookies(c.SecretKey, c.SessionTTL, c.CookieSecure), logger)

	router := httpapi.NewRouter(h, httpapi.RouterConfig{
		StaticDir:          c.StaticDir,
		CORSAllowedOrigins: c.CORSAllowedOrigins,
	})

	return &App{config: c, logger: logger, db: db, sessions: ss, router: router}, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewHTTPServer(app.config.HTTPAddr, app.router, app.config.ShutdownTimeout, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until ctx is cancelled or the process is signalled, then closes
// the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.sessions.RunJanitor(ctx, app.config.SessionCleanupInterval)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
