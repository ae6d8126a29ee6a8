package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"mes-worklog/internal/constants"
	"mes-worklog/internal/storage"
)

var ErrIncompleteSelection = errors.New("vehicle and process must be selected")

type WorkLogStorage interface {
	CreateWorkLog(ctx context.Context, rec *storage.WorkLogRecord) (int64, error)
	GetWorkLogsMonth(ctx context.Context, year int, month int, filter storage.WorkLogFilter) ([]*storage.WorkLogRecord, error)
	GetDistinctWorkers(ctx context.Context, year int, month int) ([]string, error)
	UpdateWorkLog(ctx context.Context, id int64, upd storage.WorkLogUpdate) error
	DeleteWorkLog(ctx context.Context, id int64) error
}

type WorkLogService struct {
	storage WorkLogStorage
}

func NewWorkLogService(storage WorkLogStorage) *WorkLogService {
	return &WorkLogService{storage: storage}
}

// SubmitInput carries everything a finished form session produced. TotalQty
// and TotalDefect are the form engine's last-emitted rollups; the builder
// trusts them and never re-derives totals from the details snapshot.
type SubmitInput struct {
	Worker        string
	Vehicle       string
	Process       string
	Details       storage.FormDetails
	DefectDetails map[string]storage.DefectLedger
	Measurements  map[string]map[string]string
	MaterialLots  map[string]string
	TotalQty      int
	TotalDefect   int
	Notes         string
	WorkTime      string
	Attachment    *string
}

// BuildWorkLog assembles the persisted record from a submit. Pure; the log
// title comes from the model/process title table.
func BuildWorkLog(in SubmitInput, now time.Time) storage.WorkLogRecord {
	return storage.WorkLogRecord{
		WorkerName:    in.Worker,
		VehicleModel:  in.Vehicle,
		ProcessType:   in.Process,
		LogTitle:      constants.LogTitle(in.Vehicle, in.Process),
		Details:       in.Details.Clone(),
		DefectDetails: in.DefectDetails,
		Measurements:  in.Measurements,
		MaterialLots:  in.MaterialLots,
		ProductionQty: in.TotalQty,
		DefectQty:     in.TotalDefect,
		Notes:         in.Notes,
		WorkTime:      in.WorkTime,
		Attachment:    in.Attachment,
		Timestamp:     now,
	}
}

// Submit builds and persists a new work log, returning the new id. The
// caller screens out incomplete selections before the form is even shown;
// this guard is the backstop.
func (s *WorkLogService) Submit(ctx context.Context, in SubmitInput) (int64, error) {
	const op = "service.worklog.Submit"

	if in.Vehicle == "" || in.Process == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrIncompleteSelection)
	}

	rec := BuildWorkLog(in, time.Now())

	id, err := s.storage.CreateWorkLog(ctx, &rec)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// MonthListing is one admin list response: the filtered month of records,
// newest first, plus the worker names of the unfiltered month for the
// selector.
type MonthListing struct {
	Records []*storage.WorkLogRecord
	Workers []string
}

// ListMonth fetches the records and the worker-filter options of a month in
// parallel.
func (s *WorkLogService) ListMonth(ctx context.Context, year int, month int, filter storage.WorkLogFilter) (*MonthListing, error) {
	const op = "service.worklog.ListMonth"

	var (
		records []*storage.WorkLogRecord
		workers []string
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		records, err = s.storage.GetWorkLogsMonth(gCtx, year, month, filter)
		if err != nil {
			return fmt.Errorf("records: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		workers, err = s.storage.GetDistinctWorkers(gCtx, year, month)
		if err != nil {
			return fmt.Errorf("workers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &MonthListing{Records: records, Workers: workers}, nil
}

// Update replaces the mutable fields of a record. Vehicle, process, worker
// and timestamp stay as created.
func (s *WorkLogService) Update(ctx context.Context, id int64, upd storage.WorkLogUpdate) error {
	const op = "service.worklog.Update"

	if err := s.storage.UpdateWorkLog(ctx, id, upd); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete removes a record permanently.
func (s *WorkLogService) Delete(ctx context.Context, id int64) error {
	const op = "service.worklog.Delete"

	if err := s.storage.DeleteWorkLog(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
