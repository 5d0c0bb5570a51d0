package run

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"path"
	"shift-metrics/internal/blob"
	"shift-metrics/internal/service/ingest"
	"strings"
	"time"
)

const runTimeout = 2 * time.Minute

type Runner interface {
	Run(ctx context.Context, name string) (ingest.Result, error)
}

// RunImport processes an existing blob synchronously, e.g. a file that an
// earlier run left in place because its store could not be resolved. Only
// objects under prefix are accepted since a finished run deletes its source.
func RunImport(log *slog.Logger, runner Runner, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.imports.RunImport"

		name := r.URL.Query().Get("name")
		if name == "" {
			http.Error(w, "Missing required query parameter 'name'", http.StatusBadRequest)
			return
		}
		name = path.Clean(name)
		if !strings.HasPrefix(name, prefix) {
			http.Error(w, "Name must be under "+prefix, http.StatusBadRequest)
			return
		}

		// the server write timeout is sized for ordinary requests
		rc := http.NewResponseController(w)
		if err := rc.SetWriteDeadline(time.Now().Add(runTimeout + 10*time.Second)); err != nil {
			log.Debug("cannot extend write deadline", slog.String("op", op), slog.String("error", err.Error()))
		}

		ctx, cancel := context.WithTimeout(r.Context(), runTimeout)
		defer cancel()

		res, err := runner.Run(ctx, name)
		if err != nil {
			if errors.Is(err, blob.ErrNotExist) {
				http.Error(w, "Import file not found", http.StatusNotFound)
				return
			}
			log.With(
				slog.String("op", op),
				slog.String("blob", name),
				slog.String("error", err.Error()),
			).Error("import run failed")
			render.Status(r, http.StatusUnprocessableEntity)
			render.JSON(w, r, res)
			return
		}

		if res.State == ingest.StateAborted {
			render.Status(r, http.StatusConflict)
		}
		render.JSON(w, r, res)
	}
}
