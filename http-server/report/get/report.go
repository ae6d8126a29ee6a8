package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"mes-worklog/internal/service/aggregate"
	"mes-worklog/internal/storage"
)

type ReportStorage interface {
	GetWorkLogsMonth(ctx context.Context, year int, month int, filter storage.WorkLogFilter) ([]*storage.WorkLogRecord, error)
}

// MonthlyReport serves the per-model monthly production/defect summary.
// Passing models=DN8&models=LF forces zero rows for inactive models.
func MonthlyReport(log *slog.Logger, store ReportStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.MonthlyReport"

		year, month, ok := parseYearMonth(w, r)
		if !ok {
			return
		}

		records, ok := fetchMonth(w, r, log, op, store, year, month)
		if !ok {
			return
		}

		models := r.URL.Query()["models"]
		render.JSON(w, r, aggregate.MonthlyReport(records, models...))
	}
}

func PressSummary(log *slog.Logger, store ReportStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.PressSummary"

		year, month, ok := parseYearMonth(w, r)
		if !ok {
			return
		}

		records, ok := fetchMonth(w, r, log, op, store, year, month)
		if !ok {
			return
		}

		render.JSON(w, r, aggregate.PressSummary(records))
	}
}

func MoldCounts(log *slog.Logger, store ReportStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.MoldCounts"

		year, month, ok := parseYearMonth(w, r)
		if !ok {
			return
		}

		records, ok := fetchMonth(w, r, log, op, store, year, month)
		if !ok {
			return
		}

		render.JSON(w, r, aggregate.MoldCounts(records))
	}
}

// DailySeries serves one vehicle's per-part daily production for the month.
func DailySeries(log *slog.Logger, store ReportStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.DailySeries"

		vehicle := r.URL.Query().Get("vehicle")
		if vehicle == "" {
			http.Error(w, "Missing required query parameter 'vehicle'", http.StatusBadRequest)
			return
		}

		year, month, ok := parseYearMonth(w, r)
		if !ok {
			return
		}

		records, ok := fetchMonth(w, r, log, op, store, year, month)
		if !ok {
			return
		}

		days := aggregate.DaysIn(year, time.Month(month))
		render.JSON(w, r, aggregate.DailyPartSeries(records, vehicle, days))
	}
}

func DefectRanking(log *slog.Logger, store ReportStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.DefectRanking"

		topN := 0
		if topStr := r.URL.Query().Get("top"); topStr != "" {
			n, err := strconv.Atoi(topStr)
			if err != nil {
				http.Error(w, "Invalid top", http.StatusBadRequest)
				return
			}
			topN = n
		}

		year, month, ok := parseYearMonth(w, r)
		if !ok {
			return
		}

		records, ok := fetchMonth(w, r, log, op, store, year, month)
		if !ok {
			return
		}

		render.JSON(w, r, aggregate.DefectTypeRanking(records, topN))
	}
}

// fetchMonth pulls the month's records with the request's filter triple
// applied. Writes a 500 and returns ok=false on storage failure.
func fetchMonth(w http.ResponseWriter, r *http.Request, log *slog.Logger, op string, store ReportStorage, year, month int) ([]*storage.WorkLogRecord, bool) {
	filter := storage.WorkLogFilter{
		Vehicle: r.URL.Query().Get("vehicle"),
		Process: r.URL.Query().Get("process"),
		Worker:  r.URL.Query().Get("worker"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	records, err := store.GetWorkLogsMonth(ctx, year, month, filter)
	if err != nil {
		log.Error("Failed to fetch work logs", slog.String("op", op), slog.String("error", err.Error()))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return nil, false
	}
	return records, true
}

func parseYearMonth(w http.ResponseWriter, r *http.Request) (year int, month int, ok bool) {
	now := time.Now()
	year, month = now.Year(), int(now.Month())

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			http.Error(w, "Invalid year", http.StatusBadRequest)
			return 0, 0, false
		}
		year = y
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		m, err := strconv.Atoi(monthStr)
		if err != nil || m < 1 || m > 12 {
			http.Error(w, "Invalid month", http.StatusBadRequest)
			return 0, 0, false
		}
		month = m
	}
	return year, month, true
}
