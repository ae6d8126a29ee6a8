// Package aggregate computes the dashboard and report figures from a
// collection of work-log records already narrowed to a period. Everything
// here is pure: no storage, no side effects, records missing optional fields
// contribute zero.
package aggregate

import (
	"fmt"
	"sort"
	"time"

	"mes-worklog/internal/constants"
	"mes-worklog/internal/storage"
	"mes-worklog/internal/template"
)

// Filter narrows records by the AND-combined criteria, preserving order.
// "" and "All" leave a criterion open.
func Filter(records []*storage.WorkLogRecord, f storage.WorkLogFilter) []*storage.WorkLogRecord {
	out := make([]*storage.WorkLogRecord, 0, len(records))
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Workers returns the distinct worker names of a record set, sorted, for the
// worker-filter selector.
func Workers(records []*storage.WorkLogRecord) []string {
	seen := map[string]bool{}
	var out []string
	for _, rec := range records {
		if rec.WorkerName != "" && !seen[rec.WorkerName] {
			seen[rec.WorkerName] = true
			out = append(out, rec.WorkerName)
		}
	}
	sort.Strings(out)
	return out
}

// DaysIn returns the number of calendar days of a month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DaySeries holds one calendar day of per-part production.
type DaySeries struct {
	Day   int            `json:"day"`
	Parts map[string]int `json:"parts"`
}

// DailyPartSeries buckets a vehicle's press and inspection records by
// calendar day and sums the quantity column per canonical part label.
// Post-process records carry the same part labels but re-handle the same
// pieces, so they stay out of the series. Every day of the month is present;
// days without records carry zeros for all four parts.
func DailyPartSeries(records []*storage.WorkLogRecord, vehicle string, daysInMonth int) []DaySeries {
	series := make([]DaySeries, daysInMonth)
	for i := range series {
		parts := make(map[string]int, len(template.StandardParts))
		for _, p := range template.StandardParts {
			parts[p] = 0
		}
		series[i] = DaySeries{Day: i + 1, Parts: parts}
	}

	canonical := map[string]bool{}
	for _, p := range template.StandardParts {
		canonical[p] = true
	}

	for _, rec := range records {
		if rec.VehicleModel != vehicle || rec.Details == nil {
			continue
		}
		cat := constants.ParseProcess(rec.ProcessType)
		if cat != constants.ProcessPress && cat != constants.ProcessInspection {
			continue
		}
		tpl, ok := template.Get(cat)
		if !ok {
			continue
		}
		day := rec.Timestamp.Day()
		if day < 1 || day > daysInMonth {
			continue
		}
		qtyKey := tpl.QuantityKey()
		for row, cols := range rec.Details {
			if !canonical[row] {
				continue
			}
			if v, ok := cols[qtyKey]; ok {
				series[day-1].Parts[row] += int(v.Num())
			}
		}
	}

	return series
}

// DefectCount is one entry of the defect-type frequency ranking.
type DefectCount struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DefectTypeRanking sums every row's itemized ledger across all records and
// ranks defect types by count, descending. Equal counts keep the registry's
// declaration order. topN <= 0 returns the full ranking.
func DefectTypeRanking(records []*storage.WorkLogRecord, topN int) []DefectCount {
	counts := map[string]int{}
	for _, rec := range records {
		for _, ledger := range rec.DefectDetails {
			for key, n := range ledger {
				counts[key] += n
			}
		}
	}

	out := make([]DefectCount, 0, len(counts))
	for key, n := range counts {
		out = append(out, DefectCount{Key: key, Label: constants.DefectLabel(key), Count: n})
	}

	// Registry order first, then a stable sort by count keeps ties in
	// declaration order.
	sort.Slice(out, func(i, j int) bool {
		return constants.DefectOrder(out[i].Key) < constants.DefectOrder(out[j].Key)
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Count > out[j].Count
	})

	if topN > 0 && len(out) > topN {
		out = out[:topN]
	}
	return out
}

// WorkerMoldCount is one worker's press output per part. Zero-quantity cells
// are omitted.
type WorkerMoldCount struct {
	Worker string         `json:"worker"`
	Parts  map[string]int `json:"parts"`
	Total  int            `json:"total"`
}

// ModelMoldCount is a model's cumulative press output.
type ModelMoldCount struct {
	Model   string            `json:"model"`
	Workers []WorkerMoldCount `json:"workers"`
	Totals  map[string]int    `json:"totals"`
	Total   int               `json:"total"`
}

// MoldCounts accumulates per-model, per-worker, per-part press quantities.
// Only press-category records count. Workers are sorted by name, models keep
// the known model order.
func MoldCounts(records []*storage.WorkLogRecord) []ModelMoldCount {
	type cellKey struct{ model, worker, part string }
	cells := map[cellKey]int{}
	modelSeen := map[string]bool{}
	workersByModel := map[string]map[string]bool{}

	for _, rec := range records {
		if constants.ParseProcess(rec.ProcessType) != constants.ProcessPress || rec.Details == nil {
			continue
		}
		tpl, _ := template.Get(constants.ProcessPress)
		qtyKey := tpl.QuantityKey()

		for row, cols := range rec.Details {
			v, ok := cols[qtyKey]
			if !ok {
				continue
			}
			modelSeen[rec.VehicleModel] = true
			if workersByModel[rec.VehicleModel] == nil {
				workersByModel[rec.VehicleModel] = map[string]bool{}
			}
			workersByModel[rec.VehicleModel][rec.WorkerName] = true
			cells[cellKey{rec.VehicleModel, rec.WorkerName, row}] += int(v.Num())
		}
	}

	var out []ModelMoldCount
	for _, model := range knownFirst(modelSeen) {
		var workers []string
		for w := range workersByModel[model] {
			workers = append(workers, w)
		}
		sort.Strings(workers)

		mc := ModelMoldCount{Model: model, Totals: map[string]int{}}
		for _, worker := range workers {
			wc := WorkerMoldCount{Worker: worker, Parts: map[string]int{}}
			for key, qty := range cells {
				if key.model != model || key.worker != worker {
					continue
				}
				// zero cells stay out of the table but still count
				// toward the totals
				if qty != 0 {
					wc.Parts[key.part] = qty
				}
				wc.Total += qty
				mc.Totals[key.part] += qty
				mc.Total += qty
			}
			mc.Workers = append(mc.Workers, wc)
		}
		out = append(out, mc)
	}
	return out
}

// PartTotal is one part line of the press summary.
type PartTotal struct {
	Part       string `json:"part"`
	Production int    `json:"production"`
	Defect     int    `json:"defect"`
}

// ModelPressSummary is one model section of the press summary: every part of
// the model's press layout, zero or not, plus the model subtotal.
type ModelPressSummary struct {
	Model      string      `json:"model"`
	Parts      []PartTotal `json:"parts"`
	Production int         `json:"production"`
	Defect     int         `json:"defect"`
}

// PressSummaryReport carries the per-model sections and the grand total.
type PressSummaryReport struct {
	Models     []ModelPressSummary `json:"models"`
	Production int                 `json:"production"`
	Defect     int                 `json:"defect"`
}

// PressSummary totals press production and defects per model and part. A
// model with no activity at all is omitted; within an active model every
// layout part appears, including zero ones.
func PressSummary(records []*storage.WorkLogRecord) PressSummaryReport {
	tpl, _ := template.Get(constants.ProcessPress)
	qtyKey := tpl.QuantityKey()
	defectKeys := tpl.DefectKeys()

	type partAgg struct{ production, defect int }
	agg := map[string]map[string]*partAgg{}

	for _, rec := range records {
		if constants.ParseProcess(rec.ProcessType) != constants.ProcessPress || rec.Details == nil {
			continue
		}
		if agg[rec.VehicleModel] == nil {
			agg[rec.VehicleModel] = map[string]*partAgg{}
		}
		for row, cols := range rec.Details {
			pa := agg[rec.VehicleModel][row]
			if pa == nil {
				pa = &partAgg{}
				agg[rec.VehicleModel][row] = pa
			}
			if v, ok := cols[qtyKey]; ok {
				pa.production += int(v.Num())
			}
			for _, key := range defectKeys {
				if v, ok := cols[key]; ok {
					pa.defect += int(v.Num())
				}
			}
		}
	}

	var report PressSummaryReport
	seen := map[string]bool{}
	for model := range agg {
		seen[model] = true
	}
	for _, model := range knownFirst(seen) {
		parts := agg[model]

		active := false
		for _, pa := range parts {
			if pa.production != 0 || pa.defect != 0 {
				active = true
				break
			}
		}
		if !active {
			continue
		}

		ms := ModelPressSummary{Model: model}
		for _, part := range tpl.RowsFor(model) {
			pt := PartTotal{Part: part}
			if pa, ok := parts[part]; ok {
				pt.Production = pa.production
				pt.Defect = pa.defect
			}
			ms.Parts = append(ms.Parts, pt)
			ms.Production += pt.Production
			ms.Defect += pt.Defect
		}
		report.Models = append(report.Models, ms)
		report.Production += ms.Production
		report.Defect += ms.Defect
	}

	return report
}

// ProcessTotals is a per-process production/defect pair.
type ProcessTotals struct {
	Production int `json:"production"`
	Defect     int `json:"defect"`
}

// ModelMonthly is one model section of the monthly report.
type ModelMonthly struct {
	Model           string                   `json:"model"`
	TotalProduction int                      `json:"totalProduction"`
	TotalDefect     int                      `json:"totalDefect"`
	Rate            string                   `json:"rate"`
	ByProcess       map[string]ProcessTotals `json:"byProcess"`
	TopDefects      []DefectCount            `json:"topDefects"`
}

// MonthlyReport builds the per-model monthly summary. Without an explicit
// model list only models with activity appear; a given list is reported
// exactly, zero rows included. The defect rate is defect/production*100 with
// two decimals and a hard 0.00 when production is zero.
func MonthlyReport(records []*storage.WorkLogRecord, models ...string) []ModelMonthly {
	byModel := map[string][]*storage.WorkLogRecord{}
	seen := map[string]bool{}
	for _, rec := range records {
		byModel[rec.VehicleModel] = append(byModel[rec.VehicleModel], rec)
		seen[rec.VehicleModel] = true
	}

	if len(models) == 0 {
		models = knownFirst(seen)
	}

	out := make([]ModelMonthly, 0, len(models))
	for _, model := range models {
		mm := ModelMonthly{
			Model:     model,
			Rate:      "0.00",
			ByProcess: map[string]ProcessTotals{},
		}
		recs := byModel[model]
		for _, rec := range recs {
			mm.TotalProduction += rec.ProductionQty
			mm.TotalDefect += rec.DefectQty

			pt := mm.ByProcess[rec.ProcessType]
			pt.Production += rec.ProductionQty
			pt.Defect += rec.DefectQty
			mm.ByProcess[rec.ProcessType] = pt
		}
		if mm.TotalProduction > 0 {
			mm.Rate = fmt.Sprintf("%.2f", float64(mm.TotalDefect)/float64(mm.TotalProduction)*100)
		}
		mm.TopDefects = DefectTypeRanking(recs, 5)
		out = append(out, mm)
	}
	return out
}

// knownFirst orders a model set by the known model list, unknown models
// appended alphabetically.
func knownFirst(seen map[string]bool) []string {
	var out []string
	for _, m := range constants.VehicleModels {
		if seen[m] {
			out = append(out, m)
		}
	}
	var rest []string
	for m := range seen {
		if !constants.IsKnownModel(m) {
			rest = append(rest, m)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
