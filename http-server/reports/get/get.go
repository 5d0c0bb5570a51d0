package get

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"
	"log/slog"
	"net/http"
	"shift-metrics/http-server/params"
	"shift-metrics/internal/storage"
	"time"
)

type ReportProvider interface {
	ListReports(ctx context.Context, managerID int64, from, to string) ([]storage.ReportListItem, error)
	GetReport(ctx context.Context, managerID int64, date string) (storage.IngestionReport, error)
	GetHourlySummary(ctx context.Context, managerID int64, date string) (storage.HourlySummary, error)
}

// DayResponse carries whichever documents exist for the day.
type DayResponse struct {
	ManagerID  int64                    `json:"managerId"`
	ReportDate string                   `json:"reportDate"`
	Report     *storage.IngestionReport `json:"report,omitempty"`
	Hourly     *storage.HourlySummary   `json:"hourly,omitempty"`
}

func ListReports(log *slog.Logger, reports ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.ListReports"

		managerID, err := params.ManagerID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		from := r.URL.Query().Get("from")
		to := r.URL.Query().Get("to")
		for _, d := range []string{from, to} {
			if d == "" {
				continue
			}
			if _, err := params.ParseDate(d); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		items, err := reports.ListReports(ctx, managerID, from, to)
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to list reports")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []storage.ReportListItem{}
		}

		render.JSON(w, r, items)
	}
}

// GetReport returns the manager report and the hourly summary for one day.
// Both are fetched concurrently; 404 only when neither exists.
func GetReport(log *slog.Logger, reports ReportProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GetReport"

		managerID, err := params.ManagerID(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		date, err := params.Date(r)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		resp := DayResponse{ManagerID: managerID, ReportDate: date}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			report, err := reports.GetReport(gctx, managerID, date)
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			resp.Report = &report
			return nil
		})
		g.Go(func() error {
			summary, err := reports.GetHourlySummary(gctx, managerID, date)
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			resp.Hourly = &summary
			return nil
		})

		if err := g.Wait(); err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to load report")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		if resp.Report == nil && resp.Hourly == nil {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}

		render.JSON(w, r, resp)
	}
}
