package main

import (
	"context"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"log/slog"
	"net/http"
	getadmin "shift-metrics/http-server/admin/get"
	saveadmin "shift-metrics/http-server/admin/save"
	upadmin "shift-metrics/http-server/admin/update"
	generate_excel "shift-metrics/http-server/generate-report/generate-excel"
	runimport "shift-metrics/http-server/imports/run"
	"shift-metrics/http-server/imports/upload"
	getreports "shift-metrics/http-server/reports/get"
	"shift-metrics/http-server/reports/leaderboard"
	getroster "shift-metrics/http-server/roster/get"
	"shift-metrics/internal/blob"
	"shift-metrics/internal/config"
	"shift-metrics/internal/middleware/auth"
	generate_excel2 "shift-metrics/internal/service/generate-excel"
	"shift-metrics/internal/service/ingest"
	"shift-metrics/internal/storage/sqlstore"
	"time"
)

func routes(cfg config.Config, log *slog.Logger, storage *sqlstore.Storage, blobs *blob.Local, pipeline *ingest.Pipeline, genService *generate_excel2.GenerateExcelService) *chi.Mux {
	router := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:8081", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	router.Use(corsHandler.Handler)

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), time.Second)
		defer cancel()
		if err := storage.Ping(ctx); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	// imports
	router.Post("/api/imports", upload.UploadImport(log, blobs, cfg.ImportPrefix))
	router.Post("/api/imports/run", runimport.RunImport(log, pipeline, cfg.ImportPrefix))

	// reports
	router.Get("/api/managers/{managerID}/reports", getreports.ListReports(log, storage))
	router.Get("/api/managers/{managerID}/reports/{date}", getreports.GetReport(log, storage))
	router.Get("/api/managers/{managerID}/reports/{date}/leaderboard", leaderboard.GetLeaderboard(log, storage))
	router.Get("/api/managers/{managerID}/reports/{date}/excel", generate_excel.GenerateReportExcel(log, genService))
	router.Get("/api/managers/{managerID}/roster", getroster.GetRoster(log, storage))

	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Get("/managers", getadmin.GetManagersAdmin(log, storage))
	adminRouter.Post("/managers", saveadmin.CreateManagerAdmin(log, storage))
	adminRouter.Get("/managers/{managerID}/shift-types", getadmin.GetShiftTypesAdmin(log, storage))
	adminRouter.Put("/managers/{managerID}/shift-types", upadmin.UpdateShiftTypesAdmin(log, storage))
	adminRouter.Get("/managers/{managerID}/employees", getadmin.GetEmployeesAdmin(log, storage))
	adminRouter.Post("/managers/{managerID}/employees", saveadmin.SaveEmployeeAdmin(log, storage))
	adminRouter.Put("/employees", upadmin.UpdateEmployeesAdmin(log, storage))

	router.Mount("/api/admin", adminRouter)

	return router
}
