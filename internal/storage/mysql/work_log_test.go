package mysql

import (
	"context"
	"database/sql"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mes-worklog/internal/storage"
)

func requireTestDB(t *testing.T) *Storage {
	t.Helper()
	if testDB == nil {
		t.Skip("WORKLOG_TEST_DSN not set")
	}
	_, err := testDB.Exec("DELETE FROM work_logs")
	require.NoError(t, err)
	return &Storage{db: testDB}
}

func testWorkLog(worker, model string, year, month, day int) *storage.WorkLogRecord {
	return &storage.WorkLogRecord{
		WorkerName:   worker,
		VehicleModel: model,
		ProcessType:  "프레스",
		LogTitle:     model + " 프레스",
		Details: storage.FormDetails{
			"FRT LH": {"qty": storage.Number(100), "defect_qty": storage.Number(4), "good_qty": storage.Number(96)},
		},
		DefectDetails: map[string]storage.DefectLedger{"FRT LH": {"scorch_a": 4}},
		ProductionQty: 100,
		DefectQty:     4,
		Notes:         "test",
		Timestamp:     time.Date(year, time.Month(month), day, 10, 0, 0, 0, time.UTC),
	}
}

func TestStorage_CreateAndGetWorkLog(t *testing.T) {
	s := requireTestDB(t)

	id, err := s.CreateWorkLog(context.Background(), testWorkLog("김철수", "DN8", 2026, 8, 10))
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	rec, err := s.GetWorkLog(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, "김철수", rec.WorkerName)
	assert.Equal(t, "DN8 프레스", rec.LogTitle)
	assert.Equal(t, 100, rec.ProductionQty)
	// JSON columns survive the round trip with kinds intact
	assert.Equal(t, float64(96), rec.Details["FRT LH"]["good_qty"].Num())
	assert.Equal(t, 4, rec.DefectDetails["FRT LH"].Sum())
}

func TestStorage_GetWorkLogsMonth(t *testing.T) {
	s := requireTestDB(t)

	for i := 0; i < 3; i++ {
		_, err := s.CreateWorkLog(context.Background(), testWorkLog("worker"+strconv.Itoa(i), "DN8", 2026, 8, i+1))
		require.NoError(t, err)
	}
	// outside the window
	_, err := s.CreateWorkLog(context.Background(), testWorkLog("worker9", "DN8", 2026, 9, 1))
	require.NoError(t, err)

	records, err := s.GetWorkLogsMonth(context.Background(), 2026, 8, storage.WorkLogFilter{})
	require.NoError(t, err)
	assert.Len(t, records, 3)

	// newest first
	assert.Equal(t, "worker2", records[0].WorkerName)
	assert.Equal(t, "worker0", records[2].WorkerName)
}

func TestStorage_GetWorkLogsMonth_Filters(t *testing.T) {
	s := requireTestDB(t)

	_, err := s.CreateWorkLog(context.Background(), testWorkLog("김철수", "DN8", 2026, 8, 1))
	require.NoError(t, err)
	_, err = s.CreateWorkLog(context.Background(), testWorkLog("이영희", "LF", 2026, 8, 2))
	require.NoError(t, err)

	records, err := s.GetWorkLogsMonth(context.Background(), 2026, 8,
		storage.WorkLogFilter{Vehicle: "DN8", Process: storage.FilterAll, Worker: storage.FilterAll})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "김철수", records[0].WorkerName)

	records, err = s.GetWorkLogsMonth(context.Background(), 2026, 8,
		storage.WorkLogFilter{Worker: "없는사람"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestStorage_UpdateWorkLog(t *testing.T) {
	s := requireTestDB(t)

	id, err := s.CreateWorkLog(context.Background(), testWorkLog("김철수", "DN8", 2026, 8, 1))
	require.NoError(t, err)

	notes := "수정됨"
	qty := 120
	err = s.UpdateWorkLog(context.Background(), id, storage.WorkLogUpdate{Notes: &notes, ProductionQty: &qty})
	require.NoError(t, err)

	rec, err := s.GetWorkLog(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "수정됨", rec.Notes)
	assert.Equal(t, 120, rec.ProductionQty)
	// untouched fields stay as created
	assert.Equal(t, 4, rec.DefectQty)
}

func TestStorage_UpdateWorkLog_NotFound(t *testing.T) {
	s := requireTestDB(t)

	notes := "x"
	err := s.UpdateWorkLog(context.Background(), 99999, storage.WorkLogUpdate{Notes: &notes})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestStorage_DeleteWorkLog(t *testing.T) {
	s := requireTestDB(t)

	id, err := s.CreateWorkLog(context.Background(), testWorkLog("김철수", "DN8", 2026, 8, 1))
	require.NoError(t, err)

	require.NoError(t, s.DeleteWorkLog(context.Background(), id))

	_, err = s.GetWorkLog(context.Background(), id)
	assert.ErrorIs(t, err, sql.ErrNoRows)

	assert.ErrorIs(t, s.DeleteWorkLog(context.Background(), id), sql.ErrNoRows)
}

func TestStorage_GetDistinctWorkers(t *testing.T) {
	s := requireTestDB(t)

	for _, w := range []string{"이영희", "김철수", "이영희"} {
		_, err := s.CreateWorkLog(context.Background(), testWorkLog(w, "DN8", 2026, 8, 1))
		require.NoError(t, err)
	}

	workers, err := s.GetDistinctWorkers(context.Background(), 2026, 8)
	require.NoError(t, err)
	assert.Equal(t, []string{"김철수", "이영희"}, workers)
}
