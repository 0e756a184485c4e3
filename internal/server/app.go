// Package server initializes and runs the file server: it wires storage,
// validation, the derivative engine and the HTTP handler together, serves
// the upload directory and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/avolkov/filedrop/internal/logging"
	"github.com/avolkov/filedrop/internal/server/config"
	"github.com/avolkov/filedrop/internal/server/derive"
	"github.com/avolkov/filedrop/internal/server/hooks"
	"github.com/avolkov/filedrop/internal/server/httpapi"
	"github.com/avolkov/filedrop/internal/server/storage"
	"github.com/avolkov/filedrop/internal/server/validate"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   *storage.Store
	handler *httpapi.Handler
}

func NewApp(cfg *config.Config) (*App, error) {
	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	store, err := storage.New(cfg.UploadDir, cfg.Overwrite, cfg.Versions, cfg.ImageFileTypes, cfg.InlineFileTypes)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	check, err := validate.New(validate.Options{
		MinFileSize:     cfg.MinFileSize,
		MaxFileSize:     cfg.MaxFileSize,
		MinWidth:        cfg.MinWidth,
		MinHeight:       cfg.MinHeight,
		MaxWidth:        cfg.MaxWidth,
		MaxHeight:       cfg.MaxHeight,
		AcceptFileTypes: cfg.AcceptFileTypes,
		RejectFileTypes: cfg.RejectFileTypes,
		ImageFileTypes:  cfg.ImageFileTypes,
	})
	if err != nil {
		return nil, fmt.Errorf("validator init error: %w", err)
	}

	engine := derive.New(store, cfg.Versions, logger)
	handler := httpapi.New(cfg, logger, store, check, engine, hooks.NewRegistry())

	return &App{config: cfg, logger: logger, store: store, handler: handler}, nil
}

// Hooks exposes the extension point registry so embedding programs can
// register listeners before Run.
func (app *App) Hooks() *hooks.Registry { return app.handler.Hooks() }

func (app *App) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/", app.handler)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Serve the upload directory itself when its public URL is a local path.
	if strings.HasPrefix(app.config.UploadURL, "/") {
		prefix := strings.TrimRight(app.config.UploadURL, "/") + "/"
		mux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(app.store.Dir()))))
	}

	return mux
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(cancelFunc)

	srv := &http.Server{Addr: app.config.Addr, Handler: app.routes()}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	app.logger.Info(ctx, "server listening", "addr", app.config.Addr, "dir", app.store.Dir())

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		app.logger.Info(ctx, "shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		return srv.Shutdown(shutdownCtx)
	}
}
