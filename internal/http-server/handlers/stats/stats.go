package stats

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/api/response"
	"github.com/WIKKIwk/ERPNext-stock-manager-tg-integration/internal/lib/sl"
)

// Core is the part of the local store the stats endpoint reads.
type Core interface {
	CountUsers(ctx context.Context) (int64, error)
	CountActiveCredentials(ctx context.Context) (int64, error)
	CountFlowStates(ctx context.Context) (int64, error)
}

type Stats struct {
	Users             int64 `json:"users"`
	ActiveCredentials int64 `json:"active_credentials"`
	ActiveFlows       int64 `json:"active_flows"`
}

func Get(log *slog.Logger, core Core) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		users, err := core.CountUsers(ctx)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		creds, err := core.CountActiveCredentials(ctx)
		if err != nil {
			fail(log, w, r, err)
			return
		}
		flows, err := core.CountFlowStates(ctx)
		if err != nil {
			fail(log, w, r, err)
			return
		}

		render.JSON(w, r, Stats{
			Users:             users,
			ActiveCredentials: creds,
			ActiveFlows:       flows,
		})
	}
}

func fail(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	log.Error("collecting stats", sl.Err(err))
	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.Error("Failed to collect stats"))
}
