package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/config"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/http-server/handlers/errors"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/http-server/handlers/health"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/http-server/handlers/stats"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/http-server/middleware/apikey"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

// Handler is the local store behind the ops endpoints.
type Handler interface {
	health.Core
	stats.Core
}

// New builds the ops server and serves it on the configured address. It
// blocks until the listener fails.
func New(conf *config.Config, log *slog.Logger, handler Handler) error {
	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Get("/health", health.Check(log, handler))

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(apikey.New(log, conf.Listen.ApiKey))
		v1.Get("/stats", stats.Get(log, handler))
	})

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
