package get

import (
	"context"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"shift-metrics/http-server/params"
	"shift-metrics/internal/storage"
	"time"
)

type RosterProvider interface {
	RosterForManager(ctx context.Context, managerID int64) ([]storage.RosterEmployee, error)
}

// GetRoster lists the manager's active employees, the set imports are matched against.
func GetRoster(log *slog.Logger, roster RosterProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.roster.GetRoster"

		managerID, err := params.ManagerID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		employees, err := roster.RosterForManager(ctx, managerID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to load roster")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if employees == nil {
			employees = []storage.RosterEmployee{}
		}

		render.JSON(w, r, employees)
	}
}
