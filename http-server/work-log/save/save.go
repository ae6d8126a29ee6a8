package save

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/render"

	"mes-worklog/internal/service"
	"mes-worklog/internal/storage"
)

type WorkLogSubmitter interface {
	Submit(ctx context.Context, in service.SubmitInput) (int64, error)
}

type SaveRequest struct {
	Worker        string                          `json:"workerName"`
	Vehicle       string                          `json:"vehicleModel"`
	Process       string                          `json:"processType"`
	Details       storage.FormDetails             `json:"details"`
	DefectDetails map[string]storage.DefectLedger `json:"defect_details"`
	Measurements  map[string]map[string]string    `json:"measurements"`
	MaterialLots  map[string]string               `json:"materialLots"`
	ProductionQty int                             `json:"productionQty"`
	DefectQty     int                             `json:"defectQty"`
	Notes         string                          `json:"notes"`
	WorkTime      string                          `json:"workTime"`
	Attachment    *string                         `json:"attachment"`
}

func SaveWorkLog(log *slog.Logger, submitter WorkLogSubmitter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.worklog.SaveWorkLog"

		var req SaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		// Submitting without both selectors is a caller bug, rejected
		// before anything is built.
		if req.Vehicle == "" || req.Process == "" {
			log.Error("Missing vehicle or process", slog.String("op", op))
			http.Error(w, "Vehicle and process are required", http.StatusBadRequest)
			return
		}
		if req.Worker == "" {
			http.Error(w, "Worker name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := submitter.Submit(ctx, service.SubmitInput{
			Worker:        req.Worker,
			Vehicle:       req.Vehicle,
			Process:       req.Process,
			Details:       req.Details,
			DefectDetails: req.DefectDetails,
			Measurements:  req.Measurements,
			MaterialLots:  req.MaterialLots,
			TotalQty:      req.ProductionQty,
			TotalDefect:   req.DefectQty,
			Notes:         req.Notes,
			WorkTime:      req.WorkTime,
			Attachment:    req.Attachment,
		})
		if err != nil {
			if errors.Is(err, service.ErrIncompleteSelection) {
				http.Error(w, "Vehicle and process are required", http.StatusBadRequest)
				return
			}
			log.Error("Failed to save work log", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		log.Info("Work log saved", slog.Int64("id", id), slog.String("worker", req.Worker))

		render.JSON(w, r, map[string]interface{}{
			"status": strconv.Itoa(http.StatusOK),
			"id":     id,
		})
	}
}
