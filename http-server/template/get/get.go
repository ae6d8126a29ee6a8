package get

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"mes-worklog/internal/constants"
	"mes-worklog/internal/template"
)

type ResponseForm struct {
	Category constants.ProcessCategory `json:"category"`
	Columns  []template.ColumnDef      `json:"columns"`
	Rows     []string                  `json:"rows"`
	LogTitle string                    `json:"logTitle"`
}

// GetTemplate resolves the form layout for a (model, process) selection. A
// combination with no rows renders an empty form, never an error.
func GetTemplate(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.template.GetTemplate"

		process := r.URL.Query().Get("process")
		model := r.URL.Query().Get("model")
		if process == "" {
			log.Error("Missing 'process' in query parameters", slog.String("op", op))
			http.Error(w, "Missing required query parameter 'process'", http.StatusBadRequest)
			return
		}

		tpl, ok := template.ByProcess(process)
		if !ok {
			http.Error(w, "Form not found", http.StatusNotFound)
			return
		}

		render.JSON(w, r, ResponseForm{
			Category: tpl.Category,
			Columns:  tpl.Columns,
			Rows:     tpl.RowsFor(model),
			LogTitle: constants.LogTitle(model, process),
		})
	}
}

type ResponseAllForms struct {
	Templates []*template.Template   `json:"templates"`
	Defects   []constants.DefectType `json:"defects"`
	Models    []string               `json:"models"`
	Processes []string               `json:"processes"`
}

// GetAllTemplates returns the whole static registry in one shot so the form
// UI can populate its selectors and the defect popup without further round
// trips.
func GetAllTemplates(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, ResponseAllForms{
			Templates: template.All(),
			Defects:   constants.DefectTypes,
			Models:    constants.VehicleModels,
			Processes: constants.ProcessTypes,
		})
	}
}
