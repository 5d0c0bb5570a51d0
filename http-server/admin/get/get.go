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

type AdminProvider interface {
	ListManagers(ctx context.Context) ([]storage.ManagerContext, error)
	ShiftTypesForManager(ctx context.Context, managerID int64) ([]storage.ShiftTypeDefinition, error)
	ListEmployees(ctx context.Context, managerID int64) ([]storage.EmployeeAdmin, error)
}

func GetManagersAdmin(log *slog.Logger, admin AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetManagersAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		managers, err := admin.ListManagers(ctx)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list managers")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, managers)
	}
}

// GetShiftTypesAdmin returns the manager's own shift types only; an empty list
// means imports fall back to the configured defaults.
func GetShiftTypesAdmin(log *slog.Logger, admin AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetShiftTypesAdmin"

		managerID, err := params.ManagerID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		defs, err := admin.ShiftTypesForManager(ctx, managerID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to load shift types")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if defs == nil {
			defs = []storage.ShiftTypeDefinition{}
		}

		render.JSON(w, r, defs)
	}
}

func GetEmployeesAdmin(log *slog.Logger, admin AdminProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.GetEmployeesAdmin"

		managerID, err := params.ManagerID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		employees, err := admin.ListEmployees(ctx, managerID)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list employees")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, employees)
	}
}
