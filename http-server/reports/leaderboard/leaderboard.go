package leaderboard

import (
	"context"
	"errors"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"shift-metrics/http-server/params"
	"shift-metrics/internal/service/leaderboard"
	"shift-metrics/internal/storage"
	"time"
)

type ReportGetter interface {
	GetReport(ctx context.Context, managerID int64, date string) (storage.IngestionReport, error)
}

type Response struct {
	Metric     string               `json:"metric"`
	ReportDate string               `json:"reportDate"`
	Rows       []leaderboard.Ranked `json:"rows"`
}

func GetLeaderboard(log *slog.Logger, reports ReportGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.reports.GetLeaderboard"

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

		metric := r.URL.Query().Get("metric")
		if metric == "" {
			metric = "allNetSales"
		}

		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		report, err := reports.GetReport(ctx, managerID, date)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.With(slog.String("op", op), slog.String("error", err.Error())).Error("failed to load report")
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		rows, err := leaderboard.Rank(report.Entries, metric, r.URL.Query().Get("order"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		render.JSON(w, r, Response{Metric: metric, ReportDate: date, Rows: rows})
	}
}
