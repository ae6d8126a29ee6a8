package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"mes-worklog/internal/storage"
)

func (s *Storage) CreateWorkLog(ctx context.Context, rec *storage.WorkLogRecord) (int64, error) {
	const op = "storage.mysql.CreateWorkLog"

	detailsJSON, err := marshalJSONColumn(rec.Details)
	if err != nil {
		return 0, fmt.Errorf("%s: details: %w", op, err)
	}
	defectsJSON, err := marshalJSONColumn(rec.DefectDetails)
	if err != nil {
		return 0, fmt.Errorf("%s: defect_details: %w", op, err)
	}
	measurementsJSON, err := marshalJSONColumn(rec.Measurements)
	if err != nil {
		return 0, fmt.Errorf("%s: measurements: %w", op, err)
	}
	lotsJSON, err := marshalJSONColumn(rec.MaterialLots)
	if err != nil {
		return 0, fmt.Errorf("%s: material_lots: %w", op, err)
	}

	stmt := `INSERT INTO work_logs (worker_name, vehicle_model, process_type, log_title, details,
            defect_details, measurements, material_lots, production_qty, defect_qty, notes,
            work_time, attachment, created_at)
            VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	ts := rec.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	res, err := s.db.ExecContext(ctx, stmt,
		rec.WorkerName, rec.VehicleModel, rec.ProcessType, rec.LogTitle,
		detailsJSON, defectsJSON, measurementsJSON, lotsJSON,
		rec.ProductionQty, rec.DefectQty, rec.Notes, rec.WorkTime, rec.Attachment, ts,
	)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// GetWorkLogsMonth returns the records of [startOfMonth, startOfNextMonth),
// newest first, with optional exact-match filters AND-combined on top.
func (s *Storage) GetWorkLogsMonth(ctx context.Context, year int, month int, filter storage.WorkLogFilter) ([]*storage.WorkLogRecord, error) {
	const op = "storage.mysql.GetWorkLogsMonth"

	startOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	stmt := `SELECT id, worker_name, vehicle_model, process_type, log_title, details,
             defect_details, measurements, material_lots, production_qty, defect_qty,
             notes, work_time, attachment, created_at
             FROM work_logs
             WHERE created_at >= ? AND created_at < ?`
	args := []interface{}{startOfMonth, endOfMonth}

	if filter.Vehicle != "" && filter.Vehicle != storage.FilterAll {
		stmt += " AND vehicle_model = ?"
		args = append(args, filter.Vehicle)
	}
	if filter.Process != "" && filter.Process != storage.FilterAll {
		stmt += " AND process_type = ?"
		args = append(args, filter.Process)
	}
	if filter.Worker != "" && filter.Worker != storage.FilterAll {
		stmt += " AND worker_name = ?"
		args = append(args, filter.Worker)
	}

	stmt += " ORDER BY created_at DESC"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var records []*storage.WorkLogRecord
	for rows.Next() {
		rec, err := scanWorkLog(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		records = append(records, rec)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return records, nil
}

func (s *Storage) GetWorkLog(ctx context.Context, id int64) (*storage.WorkLogRecord, error) {
	const op = "storage.mysql.GetWorkLog"

	stmt := `SELECT id, worker_name, vehicle_model, process_type, log_title, details,
             defect_details, measurements, material_lots, production_qty, defect_qty,
             notes, work_time, attachment, created_at
             FROM work_logs WHERE id = ?`

	rec, err := scanWorkLog(s.db.QueryRowContext(ctx, stmt, id))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rec, nil
}

// UpdateWorkLog replaces only the provided fields. Vehicle, process, worker
// and created_at never appear in the SET list.
func (s *Storage) UpdateWorkLog(ctx context.Context, id int64, upd storage.WorkLogUpdate) error {
	const op = "storage.mysql.UpdateWorkLog"

	var sets []string
	var args []interface{}

	if upd.Details != nil {
		v, err := marshalJSONColumn(*upd.Details)
		if err != nil {
			return fmt.Errorf("%s: details: %w", op, err)
		}
		sets = append(sets, "details = ?")
		args = append(args, v)
	}
	if upd.DefectDetails != nil {
		v, err := marshalJSONColumn(*upd.DefectDetails)
		if err != nil {
			return fmt.Errorf("%s: defect_details: %w", op, err)
		}
		sets = append(sets, "defect_details = ?")
		args = append(args, v)
	}
	if upd.Measurements != nil {
		v, err := marshalJSONColumn(*upd.Measurements)
		if err != nil {
			return fmt.Errorf("%s: measurements: %w", op, err)
		}
		sets = append(sets, "measurements = ?")
		args = append(args, v)
	}
	if upd.MaterialLots != nil {
		v, err := marshalJSONColumn(*upd.MaterialLots)
		if err != nil {
			return fmt.Errorf("%s: material_lots: %w", op, err)
		}
		sets = append(sets, "material_lots = ?")
		args = append(args, v)
	}
	if upd.ProductionQty != nil {
		sets = append(sets, "production_qty = ?")
		args = append(args, *upd.ProductionQty)
	}
	if upd.DefectQty != nil {
		sets = append(sets, "defect_qty = ?")
		args = append(args, *upd.DefectQty)
	}
	if upd.Notes != nil {
		sets = append(sets, "notes = ?")
		args = append(args, *upd.Notes)
	}

	if len(sets) == 0 {
		return nil
	}

	stmt := "UPDATE work_logs SET " + strings.Join(sets, ", ") + " WHERE id = ?"
	args = append(args, id)

	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: запись id=%d не найдена: %w", op, id, sql.ErrNoRows)
	}

	return nil
}

func (s *Storage) DeleteWorkLog(ctx context.Context, id int64) error {
	const op = "storage.mysql.DeleteWorkLog"

	res, err := s.db.ExecContext(ctx, "DELETE FROM work_logs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: запись id=%d не найдена: %w", op, id, sql.ErrNoRows)
	}

	return nil
}

// GetDistinctWorkers returns the worker names that logged anything in the
// month, sorted, for the filter selector.
func (s *Storage) GetDistinctWorkers(ctx context.Context, year int, month int) ([]string, error) {
	const op = "storage.mysql.GetDistinctWorkers"

	startOfMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	stmt := `SELECT DISTINCT worker_name FROM work_logs
             WHERE created_at >= ? AND created_at < ?
             ORDER BY worker_name`

	rows, err := s.db.QueryContext(ctx, stmt, startOfMonth, endOfMonth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var workers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		workers = append(workers, name)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return workers, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWorkLog(row rowScanner) (*storage.WorkLogRecord, error) {
	rec := &storage.WorkLogRecord{}

	var detailsJSON, defectsJSON, measurementsJSON, lotsJSON sql.NullString
	var notes, workTime, attachment sql.NullString

	err := row.Scan(
		&rec.ID, &rec.WorkerName, &rec.VehicleModel, &rec.ProcessType, &rec.LogTitle,
		&detailsJSON, &defectsJSON, &measurementsJSON, &lotsJSON,
		&rec.ProductionQty, &rec.DefectQty, &notes, &workTime, &attachment, &rec.Timestamp,
	)
	if err != nil {
		return nil, err
	}

	if err := unmarshalJSONColumn(detailsJSON, &rec.Details); err != nil {
		return nil, fmt.Errorf("details: %w", err)
	}
	if err := unmarshalJSONColumn(defectsJSON, &rec.DefectDetails); err != nil {
		return nil, fmt.Errorf("defect_details: %w", err)
	}
	if err := unmarshalJSONColumn(measurementsJSON, &rec.Measurements); err != nil {
		return nil, fmt.Errorf("measurements: %w", err)
	}
	if err := unmarshalJSONColumn(lotsJSON, &rec.MaterialLots); err != nil {
		return nil, fmt.Errorf("material_lots: %w", err)
	}

	rec.Notes = notes.String
	rec.WorkTime = workTime.String
	if attachment.Valid {
		rec.Attachment = &attachment.String
	}

	return rec, nil
}

// marshalJSONColumn keeps empty maps out of the table as NULL.
func marshalJSONColumn(v interface{}) (interface{}, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(data)
	if s == "null" || s == "{}" {
		return nil, nil
	}
	return s, nil
}

func unmarshalJSONColumn(col sql.NullString, dst interface{}) error {
	if !col.Valid || col.String == "" {
		return nil
	}
	return json.Unmarshal([]byte(col.String), dst)
}
