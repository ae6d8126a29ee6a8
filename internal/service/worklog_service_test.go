package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"mes-worklog/internal/storage"
)

type MockWorkLogStorage struct {
	mock.Mock
}

func (m *MockWorkLogStorage) CreateWorkLog(ctx context.Context, rec *storage.WorkLogRecord) (int64, error) {
	args := m.Called(ctx, rec)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkLogStorage) GetWorkLogsMonth(ctx context.Context, year int, month int, filter storage.WorkLogFilter) ([]*storage.WorkLogRecord, error) {
	args := m.Called(ctx, year, month, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.WorkLogRecord), args.Error(1)
}

func (m *MockWorkLogStorage) GetDistinctWorkers(ctx context.Context, year int, month int) ([]string, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockWorkLogStorage) UpdateWorkLog(ctx context.Context, id int64, upd storage.WorkLogUpdate) error {
	args := m.Called(ctx, id, upd)
	return args.Error(0)
}

func (m *MockWorkLogStorage) DeleteWorkLog(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestBuildWorkLog(t *testing.T) {
	now := time.Date(2026, 8, 15, 10, 30, 0, 0, time.UTC)
	in := SubmitInput{
		Worker:  "김철수",
		Vehicle: "DN8",
		Process: "프레스",
		Details: storage.FormDetails{
			"FRT LH": {"qty": storage.Number(100), "defect_qty": storage.Number(4), "good_qty": storage.Number(96)},
		},
		DefectDetails: map[string]storage.DefectLedger{"FRT LH": {"scorch_a": 4}},
		TotalQty:      100,
		TotalDefect:   4,
		Notes:         "야간 조",
		WorkTime:      "08:00-17:00",
	}

	rec := BuildWorkLog(in, now)

	assert.Equal(t, "김철수", rec.WorkerName)
	assert.Equal(t, "DN8 프레스", rec.LogTitle)
	assert.Equal(t, 100, rec.ProductionQty)
	assert.Equal(t, 4, rec.DefectQty)
	assert.Equal(t, now, rec.Timestamp)

	// details are cloned, mutating the input must not reach the record
	in.Details["FRT LH"]["qty"] = storage.Number(0)
	assert.Equal(t, float64(100), rec.Details["FRT LH"]["qty"].Num())
}

func TestBuildWorkLog_KGMTitle(t *testing.T) {
	rec := BuildWorkLog(SubmitInput{Vehicle: "J100", Process: "검사"}, time.Now())
	assert.Equal(t, "KGM 검사일보", rec.LogTitle)
}

func TestSubmit_Success(t *testing.T) {
	mockStorage := new(MockWorkLogStorage)
	mockStorage.On("CreateWorkLog", mock.Anything, mock.MatchedBy(func(rec *storage.WorkLogRecord) bool {
		return rec.VehicleModel == "DN8" && rec.LogTitle == "DN8 프레스" && rec.ProductionQty == 42
	})).Return(int64(7), nil)

	svc := NewWorkLogService(mockStorage)

	id, err := svc.Submit(context.Background(), SubmitInput{
		Worker:   "김철수",
		Vehicle:  "DN8",
		Process:  "프레스",
		TotalQty: 42,
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(7), id)
	mockStorage.AssertExpectations(t)
}

func TestSubmit_IncompleteSelection(t *testing.T) {
	mockStorage := new(MockWorkLogStorage)
	svc := NewWorkLogService(mockStorage)

	_, err := svc.Submit(context.Background(), SubmitInput{Worker: "김철수", Process: "프레스"})
	assert.ErrorIs(t, err, ErrIncompleteSelection)

	_, err = svc.Submit(context.Background(), SubmitInput{Worker: "김철수", Vehicle: "DN8"})
	assert.ErrorIs(t, err, ErrIncompleteSelection)

	mockStorage.AssertNotCalled(t, "CreateWorkLog")
}

func TestSubmit_StorageError(t *testing.T) {
	mockStorage := new(MockWorkLogStorage)
	mockStorage.On("CreateWorkLog", mock.Anything, mock.Anything).
		Return(int64(0), errors.New("connection timeout"))

	svc := NewWorkLogService(mockStorage)

	_, err := svc.Submit(context.Background(), SubmitInput{Vehicle: "DN8", Process: "프레스"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "connection timeout")
}

func TestListMonth(t *testing.T) {
	records := []*storage.WorkLogRecord{{ID: 2}, {ID: 1}}
	filter := storage.WorkLogFilter{Vehicle: "DN8", Worker: "김철수"}

	mockStorage := new(MockWorkLogStorage)
	mockStorage.On("GetWorkLogsMonth", mock.Anything, 2026, 8, filter).Return(records, nil)
	// selector options come from the unfiltered month
	mockStorage.On("GetDistinctWorkers", mock.Anything, 2026, 8).Return([]string{"김철수", "이영희"}, nil)

	svc := NewWorkLogService(mockStorage)

	listing, err := svc.ListMonth(context.Background(), 2026, 8, filter)
	assert.NoError(t, err)
	assert.Equal(t, records, listing.Records)
	assert.Equal(t, []string{"김철수", "이영희"}, listing.Workers)
	mockStorage.AssertExpectations(t)
}

func TestListMonth_RecordsError(t *testing.T) {
	mockStorage := new(MockWorkLogStorage)
	mockStorage.On("GetWorkLogsMonth", mock.Anything, 2026, 8, mock.Anything).
		Return(nil, errors.New("connection timeout"))
	mockStorage.On("GetDistinctWorkers", mock.Anything, 2026, 8).
		Return([]string{}, nil).Maybe()

	svc := NewWorkLogService(mockStorage)

	_, err := svc.ListMonth(context.Background(), 2026, 8, storage.WorkLogFilter{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "records")
}

func TestUpdateAndDelete(t *testing.T) {
	notes := "수정됨"
	upd := storage.WorkLogUpdate{Notes: &notes}

	mockStorage := new(MockWorkLogStorage)
	mockStorage.On("UpdateWorkLog", mock.Anything, int64(5), upd).Return(nil)
	mockStorage.On("DeleteWorkLog", mock.Anything, int64(5)).Return(nil)

	svc := NewWorkLogService(mockStorage)

	assert.NoError(t, svc.Update(context.Background(), 5, upd))
	assert.NoError(t, svc.Delete(context.Background(), 5))
	mockStorage.AssertExpectations(t)
}
