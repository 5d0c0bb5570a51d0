package save

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"shift-metrics/http-server/params"
	"shift-metrics/internal/storage"
	"strings"
	"time"
)

type AdminSaver interface {
	CreateManager(ctx context.Context, name, location string) (int64, error)
	AddEmployee(ctx context.Context, emp storage.EmployeeAdmin) (int64, error)
}

type ManagerRequest struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type CreatedResponse struct {
	ID int64 `json:"id"`
}

func CreateManagerAdmin(log *slog.Logger, admin AdminSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.CreateManagerAdmin"

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req ManagerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Location) == "" {
			http.Error(w, "name and location are required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		id, err := admin.CreateManager(ctx, req.Name, req.Location)
		if errors.Is(err, storage.ErrExists) {
			http.Error(w, "Location already has a manager", http.StatusConflict)
			return
		}
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to create manager")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, CreatedResponse{ID: id})
	}
}

// SaveEmployeeAdmin adds an employee to the {managerID} roster. New employees
// are active unless the body says otherwise.
func SaveEmployeeAdmin(log *slog.Logger, admin AdminSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.SaveEmployeeAdmin"

		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		managerID, err := params.ManagerID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var body struct {
			Name     string `json:"name"`
			IsActive *bool  `json:"is_active"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "Invalid JSON", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(body.Name) == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		emp := storage.EmployeeAdmin{ManagerID: managerID, Name: body.Name, IsActive: true}
		if body.IsActive != nil {
			emp.IsActive = *body.IsActive
		}

		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()

		id, err := admin.AddEmployee(ctx, emp)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Manager not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to add employee")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		render.Status(r, http.StatusCreated)
		render.JSON(w, r, CreatedResponse{ID: id})
	}
}
