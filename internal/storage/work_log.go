package storage

import "time"

// FormDetails is the persisted snapshot of a form: row label → column key →
// cell value. Sparse, only touched cells are present.
type FormDetails map[string]map[string]CellValue

// DefectLedger is the itemized defect breakdown of one row: defect-type
// key → count.
type DefectLedger map[string]int

// Sum is the scalar defect total backed by the ledger.
func (l DefectLedger) Sum() int {
	total := 0
	for _, n := range l {
		total += n
	}
	return total
}

// Clone returns a copy safe to hand out.
func (d FormDetails) Clone() FormDetails {
	if d == nil {
		return FormDetails{}
	}
	out := make(FormDetails, len(d))
	for row, cols := range d {
		cp := make(map[string]CellValue, len(cols))
		for k, v := range cols {
			cp[k] = v
		}
		out[row] = cp
	}
	return out
}

// WorkLogRecord is the persisted unit: one shift log for one (model, process)
// pair. ProductionQty and DefectQty are always the engine's rolled-up totals
// at submit time, never user-entered.
type WorkLogRecord struct {
	ID            int64                        `json:"id"`
	WorkerName    string                       `json:"workerName"`
	VehicleModel  string                       `json:"vehicleModel"`
	ProcessType   string                       `json:"processType"`
	LogTitle      string                       `json:"logTitle"`
	Details       FormDetails                  `json:"details,omitempty"`
	DefectDetails map[string]DefectLedger      `json:"defect_details,omitempty"`
	Measurements  map[string]map[string]string `json:"measurements,omitempty"`
	MaterialLots  map[string]string            `json:"materialLots,omitempty"`
	ProductionQty int                          `json:"productionQty"`
	DefectQty     int                          `json:"defectQty"`
	Notes         string                       `json:"notes"`
	WorkTime      string                       `json:"workTime,omitempty"`
	Attachment    *string                      `json:"attachment,omitempty"`
	Timestamp     time.Time                    `json:"timestamp"`
}

// WorkLogFilter narrows a month of records. An empty string or "All" leaves
// the criterion open; provided criteria are AND-combined.
type WorkLogFilter struct {
	Vehicle string
	Process string
	Worker  string
}

// FilterAll is the sentinel for an open criterion.
const FilterAll = "All"

func filterOpen(v string) bool { return v == "" || v == FilterAll }

// Match reports whether a record passes the filter.
func (f WorkLogFilter) Match(rec *WorkLogRecord) bool {
	if !filterOpen(f.Vehicle) && rec.VehicleModel != f.Vehicle {
		return false
	}
	if !filterOpen(f.Process) && rec.ProcessType != f.Process {
		return false
	}
	if !filterOpen(f.Worker) && rec.WorkerName != f.Worker {
		return false
	}
	return true
}

// WorkLogUpdate is the mutable field set of an admin edit. Nil fields are
// left untouched; vehicle, process, worker and timestamp are immutable after
// creation.
type WorkLogUpdate struct {
	Details       *FormDetails                  `json:"details,omitempty"`
	DefectDetails *map[string]DefectLedger      `json:"defect_details,omitempty"`
	Measurements  *map[string]map[string]string `json:"measurements,omitempty"`
	MaterialLots  *map[string]string            `json:"materialLots,omitempty"`
	ProductionQty *int                          `json:"productionQty,omitempty"`
	DefectQty     *int                          `json:"defectQty,omitempty"`
	Notes         *string                       `json:"notes,omitempty"`
}
