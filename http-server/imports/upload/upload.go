package upload

import (
	"context"
	"github.com/go-chi/render"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"shift-metrics/internal/blob"
	"strings"
	"time"
)

const maxUploadSize = 32 << 20

type BlobPutter interface {
	Put(ctx context.Context, name string, r io.Reader) error
}

type Response struct {
	Blob        string `json:"blob"`
	ContentType string `json:"content_type"`
}

// UploadImport stores a multipart "file" under the import prefix. Processing
// happens asynchronously once the blob watcher sees the new object.
func UploadImport(log *slog.Logger, blobs BlobPutter, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.imports.UploadImport"

		r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
		if err := r.ParseMultipartForm(maxUploadSize); err != nil {
			http.Error(w, "Invalid multipart form", http.StatusBadRequest)
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "Missing form field 'file'", http.StatusBadRequest)
			return
		}
		defer file.Close()

		base := filepath.Base(header.Filename)
		switch strings.ToLower(filepath.Ext(base)) {
		case ".csv", ".xlsx", ".xls":
		default:
			http.Error(w, "Only .csv, .xlsx and .xls files are accepted", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		name := prefix + base
		if err := blobs.Put(ctx, name, file); err != nil {
			log.With(slog.String("op", op), slog.String("blob", name), slog.String("error", err.Error())).Error("failed to store upload")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		log.With(slog.String("op", op), slog.String("blob", name)).Info("import uploaded")

		render.Status(r, http.StatusAccepted)
		render.JSON(w, r, Response{Blob: name, ContentType: blob.ContentType(name)})
	}
}
