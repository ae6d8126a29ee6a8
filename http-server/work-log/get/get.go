package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"mes-worklog/internal/service"
	"mes-worklog/internal/storage"
)

type WorkLogLister interface {
	ListMonth(ctx context.Context, year int, month int, filter storage.WorkLogFilter) (*service.MonthListing, error)
}

type ResponseWorkLogs struct {
	Logs    []*storage.WorkLogRecord `json:"logs"`
	Workers []string                 `json:"workers"`
	Status  string                   `json:"status"`
	Error   string                   `json:"error,omitempty"`
}

// GetWorkLogsFilter serves the admin list view: one month of records, newest
// first, narrowed by the optional vehicle/process/worker filters, plus the
// worker names for the filter selector.
func GetWorkLogsFilter(log *slog.Logger, lister WorkLogLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.worklog.GetWorkLogsFilter"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		year, month, ok := parseYearMonth(w, r)
		if !ok {
			return
		}

		filter := storage.WorkLogFilter{
			Vehicle: r.URL.Query().Get("vehicle"),
			Process: r.URL.Query().Get("process"),
			Worker:  r.URL.Query().Get("worker"),
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		listing, err := lister.ListMonth(ctx, year, month, filter)
		if err != nil {
			log.Error("Failed to fetch work logs", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, ResponseWorkLogs{Error: "Failed to fetch work logs"})
			return
		}

		render.JSON(w, r, ResponseWorkLogs{
			Logs:    listing.Records,
			Workers: listing.Workers,
			Status:  strconv.Itoa(http.StatusOK),
		})
	}
}

// parseYearMonth reads the year/month query parameters, defaulting to the
// current month. Writes a 400 and returns ok=false on garbage.
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
