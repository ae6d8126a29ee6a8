package update

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"mes-worklog/internal/storage"
)

type WorkLogUpdater interface {
	Update(ctx context.Context, id int64, upd storage.WorkLogUpdate) error
}

// UpdateWorkLog applies an admin edit: only the mutable field set (details,
// defect ledger, measurements, lots, totals, notes) can change.
func UpdateWorkLog(log *slog.Logger, updater WorkLogUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.worklog.UpdateWorkLog"

		idStr := chi.URLParam(r, "id")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.WorkLogUpdate
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		err = updater.Update(ctx, id, req)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "Work log not found", http.StatusNotFound)
				return
			}
			log.Error("Failed to update work log", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Work log updated", slog.Int64("id", id))

		render.JSON(w, r, map[string]interface{}{
			"status": strconv.Itoa(http.StatusOK),
			"id":     id,
		})
	}
}
