package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	generate_excel "mes-worklog/http-server/generate-report/generate-excel"
	reportget "mes-worklog/http-server/report/get"
	templateget "mes-worklog/http-server/template/get"
	worklogdelete "mes-worklog/http-server/work-log/delete"
	worklogget "mes-worklog/http-server/work-log/get"
	worklogsave "mes-worklog/http-server/work-log/save"
	worklogupdate "mes-worklog/http-server/work-log/update"
	"mes-worklog/internal/config"
	"mes-worklog/internal/middleware/auth"
	"mes-worklog/internal/service"
	generate_excel2 "mes-worklog/internal/service/generate-excel"
	"mes-worklog/internal/storage/mysql"
)

func routes(cfg config.Config, log *slog.Logger, storage *mysql.Storage, workLogService *service.WorkLogService, excelService *generate_excel2.GenerateExcelService) *chi.Mux {
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

	// form layouts for the entry screen
	router.Get("/api/template", templateget.GetTemplate(log))
	router.Get("/api/all_templates", templateget.GetAllTemplates(log))

	// worker submit
	router.Post("/api/work-logs", worklogsave.SaveWorkLog(log, workLogService))

	// month listing with filters, worker options included
	router.Get("/api/work-logs", worklogget.GetWorkLogsFilter(log, workLogService))

	// dashboards and reports
	router.Get("/api/reports/monthly", reportget.MonthlyReport(log, storage))
	router.Get("/api/reports/press-summary", reportget.PressSummary(log, storage))
	router.Get("/api/reports/mold-counts", reportget.MoldCounts(log, storage))
	router.Get("/api/reports/daily-series", reportget.DailySeries(log, storage))
	router.Get("/api/reports/defect-ranking", reportget.DefectRanking(log, storage))

	// excel download
	router.Get("/api/report/excel", generate_excel.GenerateReportExcel(log, excelService))

	// admin edits go through basic auth
	adminRouter := chi.NewRouter()
	adminRouter.Use(auth.BasicAuth(cfg.AdminLogin, cfg.AdminPass))

	adminRouter.Put("/work-logs/{id}", worklogupdate.UpdateWorkLog(log, workLogService))
	adminRouter.Delete("/work-logs/{id}", worklogdelete.DeleteWorkLog(log, workLogService))

	router.Mount("/api/admin", adminRouter)

	return router
}
