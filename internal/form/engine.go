// Package form holds the in-progress state of one work-log form. The engine
// owns a sparse row→column value map, recomputes the derived column and the
// rolled-up totals on every mutation and pushes them to its owner
// synchronously. It has no rendering dependencies; the worker screen and the
// admin edit modal both drive it through the same calls.
package form

import (
	"math"
	"strconv"
	"strings"

	"mes-worklog/internal/storage"
	"mes-worklog/internal/template"
)

// ChangeFunc receives the current snapshot and the rolled-up totals after
// every mutation.
type ChangeFunc func(details storage.FormDetails, totalQty, totalDefect int)

type Engine struct {
	tpl   *template.Template
	model string
	rows  []string

	details storage.FormDetails
	ledgers map[string]storage.DefectLedger

	totalQty    int
	totalDefect int

	onChange ChangeFunc
}

func NewEngine(onChange ChangeFunc) *Engine {
	return &Engine{
		details:  storage.FormDetails{},
		ledgers:  map[string]storage.DefectLedger{},
		onChange: onChange,
	}
}

// Reset clears all state and re-binds the engine to a (model, process) pair.
// Called whenever either selector changes; nothing carries over. With an
// incomplete selection the engine goes template-less and ignores edits.
func (e *Engine) Reset(model, process string) {
	e.details = storage.FormDetails{}
	e.ledgers = map[string]storage.DefectLedger{}
	e.totalQty, e.totalDefect = 0, 0
	e.model = model
	e.tpl = nil
	e.rows = nil

	if model != "" && process != "" {
		if tpl, ok := template.ByProcess(process); ok {
			e.tpl = tpl
			e.rows = tpl.RowsFor(model)
		}
	}

	e.emit()
}

// Load hydrates the engine once from a persisted record, for an edit
// session. Derived cells and totals are recomputed so stale snapshots
// self-correct; afterwards the engine behaves like fresh state.
func (e *Engine) Load(details storage.FormDetails, ledgers map[string]storage.DefectLedger) {
	e.details = details.Clone()

	e.ledgers = map[string]storage.DefectLedger{}
	for row, ledger := range ledgers {
		cp := make(storage.DefectLedger, len(ledger))
		for k, n := range ledger {
			cp[k] = n
		}
		e.ledgers[row] = cp
	}

	if e.tpl != nil {
		for row := range e.details {
			e.recomputeRow(row)
		}
		e.recomputeTotals()
	}
	e.emit()
}

// SetCell applies one user edit. Numeric columns coerce unparsable input to
// 0; text columns store as-is, recognizing the image-reference prefix. The
// derived column is not directly editable, and a photo cell holding an image
// keeps it until cleared with empty input.
func (e *Engine) SetCell(row, key, raw string) {
	if e.tpl == nil {
		return
	}
	col, ok := e.tpl.Column(key)
	if !ok || col.Role == template.RoleDerived {
		return
	}

	var val storage.CellValue
	switch col.Type {
	case template.TypeNumber:
		// ParseFloat accepts NaN and the infinities; they must never
		// enter the totals or a persisted record.
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			n = 0
		}
		val = storage.Number(n)
	default:
		if cur, ok := e.cell(row, key); ok && cur.Kind() == storage.KindImage {
			if raw == "" {
				delete(e.details[row], key)
				e.emit()
				return
			}
			if !strings.HasPrefix(raw, storage.ImageRefPrefix) {
				return
			}
		}
		if strings.HasPrefix(raw, storage.ImageRefPrefix) {
			val = storage.ImageRef(strings.TrimPrefix(raw, storage.ImageRefPrefix))
		} else {
			val = storage.Text(raw)
		}
	}

	if e.details[row] == nil {
		e.details[row] = map[string]storage.CellValue{}
	}
	e.details[row][key] = val

	e.recomputeRow(row)
	e.recomputeTotals()
	e.emit()
}

// OpenDefects returns a copy of the itemized ledger of a row, empty when none
// was entered yet.
func (e *Engine) OpenDefects(row string) storage.DefectLedger {
	out := storage.DefectLedger{}
	for k, n := range e.ledgers[row] {
		out[k] = n
	}
	return out
}

// ApplyDefects stores a row's itemized ledger and backs the defect cell with
// its sum. An empty ledger reverts the cell to a directly-entered scalar,
// starting at 0.
func (e *Engine) ApplyDefects(row string, ledger storage.DefectLedger) {
	if e.tpl == nil {
		return
	}
	key := e.tpl.ItemizedKey()
	if key == "" {
		return
	}

	if len(ledger) == 0 {
		delete(e.ledgers, row)
	} else {
		cp := make(storage.DefectLedger, len(ledger))
		for k, n := range ledger {
			cp[k] = n
		}
		e.ledgers[row] = cp
	}

	if e.details[row] == nil {
		e.details[row] = map[string]storage.CellValue{}
	}
	e.details[row][key] = storage.Number(float64(ledger.Sum()))

	e.recomputeRow(row)
	e.recomputeTotals()
	e.emit()
}

// Details returns a snapshot safe to persist.
func (e *Engine) Details() storage.FormDetails { return e.details.Clone() }

// DefectDetails returns a snapshot of all non-empty row ledgers.
func (e *Engine) DefectDetails() map[string]storage.DefectLedger {
	out := make(map[string]storage.DefectLedger, len(e.ledgers))
	for row, ledger := range e.ledgers {
		cp := make(storage.DefectLedger, len(ledger))
		for k, n := range ledger {
			cp[k] = n
		}
		out[row] = cp
	}
	return out
}

// Totals returns the last computed rollups. The record builder takes these
// as-is and never recomputes them from the snapshot.
func (e *Engine) Totals() (totalQty, totalDefect int) {
	return e.totalQty, e.totalDefect
}

// Rows returns the active row labels, empty when no template is bound.
func (e *Engine) Rows() []string {
	out := make([]string, len(e.rows))
	copy(out, e.rows)
	return out
}

// Template returns the bound template, nil with an incomplete selection.
func (e *Engine) Template() *template.Template { return e.tpl }

func (e *Engine) cell(row, key string) (storage.CellValue, bool) {
	cols, ok := e.details[row]
	if !ok {
		return storage.CellValue{}, false
	}
	v, ok := cols[key]
	return v, ok
}

// recomputeRow refreshes the derived cell of one row: max(0, qty − defect).
// Templates without a derived column skip this entirely.
func (e *Engine) recomputeRow(row string) {
	derived := e.tpl.DerivedKey()
	if derived == "" {
		return
	}

	qty := 0.0
	if v, ok := e.cell(row, e.tpl.QuantityKey()); ok {
		qty = v.Num()
	}
	defect := 0.0
	for _, key := range e.tpl.DefectKeys() {
		if v, ok := e.cell(row, key); ok {
			defect += v.Num()
		}
	}

	good := qty - defect
	if good < 0 {
		good = 0
	}

	if e.details[row] == nil {
		e.details[row] = map[string]storage.CellValue{}
	}
	e.details[row][derived] = storage.Number(good)
}

func (e *Engine) recomputeTotals() {
	qtyKey := e.tpl.QuantityKey()
	defectKeys := e.tpl.DefectKeys()

	var tq, td float64
	for row := range e.details {
		if v, ok := e.cell(row, qtyKey); ok {
			tq += v.Num()
		}
		for _, key := range defectKeys {
			if v, ok := e.cell(row, key); ok {
				td += v.Num()
			}
		}
	}

	e.totalQty = int(tq)
	e.totalDefect = int(td)
}

func (e *Engine) emit() {
	if e.onChange != nil {
		e.onChange(e.Details(), e.totalQty, e.totalDefect)
	}
}
