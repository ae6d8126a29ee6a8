package generate_excel

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"mes-worklog/internal/storage"
)

type GenerateExcelHandler interface {
	GenerateExcel(ctx context.Context, year int, month int, filter storage.WorkLogFilter) ([]byte, error)
}

// GenerateReportExcel streams the month's work logs as a workbook download.
func GenerateReportExcel(log *slog.Logger, gen GenerateExcelHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		now := time.Now()
		year, month := now.Year(), int(now.Month())

		if yearStr := r.URL.Query().Get("year"); yearStr != "" {
			y, err := strconv.Atoi(yearStr)
			if err != nil {
				http.Error(w, "invalid year", http.StatusBadRequest)
				return
			}
			year = y
		}
		if monthStr := r.URL.Query().Get("month"); monthStr != "" {
			m, err := strconv.Atoi(monthStr)
			if err != nil || m < 1 || m > 12 {
				http.Error(w, "invalid month", http.StatusBadRequest)
				return
			}
			month = m
		}

		filter := storage.WorkLogFilter{
			Vehicle: r.URL.Query().Get("vehicle"),
			Process: r.URL.Query().Get("process"),
			Worker:  r.URL.Query().Get("worker"),
		}

		// Excel needs a bit more room than the JSON endpoints.
		ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
		defer cancel()

		excelBytes, err := gen.GenerateExcel(ctx, year, month, filter)
		if err != nil {
			log.Error("failed to generate excel", "op", op, "err", err)
			http.Error(w, "Internal error", http.StatusInternalServerError)
			return
		}

		fileName := fmt.Sprintf("WorkLog_%04d-%02d.xlsx", year, month)

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName)
		w.Write(excelBytes)
	}
}
