package generate_excel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"shift-metrics/http-server/params"
	"shift-metrics/internal/storage"
	"time"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, managerID int64, date string) ([]byte, error)
}

func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.reports.GenerateReportExcel"

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

		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, managerID, date)
		if errors.Is(err, storage.ErrNotFound) {
			http.Error(w, "Report not found", http.StatusNotFound)
			return
		}
		if err != nil {
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("shift_report_%d_%s.xlsx", managerID, date)

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		if _, err := w.Write(excelBytes); err != nil {
			log.Warn("failed to write excel response", "op", op, "err", err)
		}
	}
}
