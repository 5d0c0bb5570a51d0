package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"shift-metrics/http-server/params"
	"shift-metrics/internal/service/ingest"
	"shift-metrics/internal/storage"
	"time"
)

type AdminUpdater interface {
	ReplaceShiftTypes(ctx context.Context, managerID int64, defs []storage.ShiftTypeDefinition) error
	UpdateEmployees(ctx context.Context, emps []storage.EmployeeAdmin) error
}

// UpdateShiftTypesAdmin replaces the manager's shift types wholesale. An empty
// list clears them so imports use the configured defaults again.
func UpdateShiftTypesAdmin(log *slog.Logger, update AdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateShiftTypesAdmin"

		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		managerID, err := params.ManagerID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var defs []storage.ShiftTypeDefinition
		if err := json.NewDecoder(r.Body).Decode(&defs); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if err := ingest.ValidateShiftTypes(defs); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := update.ReplaceShiftTypes(ctx, managerID, defs); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				http.Error(w, "Manager not found", http.StatusNotFound)
				return
			}
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to replace shift types")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}

func UpdateEmployeesAdmin(log *slog.Logger, update AdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.UpdateEmployeesAdmin"

		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var employees []storage.EmployeeAdmin
		if err := json.NewDecoder(r.Body).Decode(&employees); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := update.UpdateEmployees(ctx, employees); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to update employees")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		w.WriteHeader(http.StatusOK)
	}
}
