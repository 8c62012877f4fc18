package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/api/response"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

type Core interface {
	Ping(ctx context.Context) error
}

func Check(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := core.Ping(r.Context()); err != nil {
			log.Error("health check", sl.Err(err))
			render.Status(r, http.StatusServiceUnavailable)
			render.JSON(w, r, response.Error("Storage unavailable"))
			return
		}

		render.JSON(w, r, response.OK())
	}
}
