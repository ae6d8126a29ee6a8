package storage

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellValue_ImageWireFormat(t *testing.T) {
	b, err := json.Marshal(ImageRef("photos/dim_start.jpg"))
	assert.NoError(t, err)
	assert.Equal(t, `"img://photos/dim_start.jpg"`, string(b))

	var v CellValue
	assert.NoError(t, json.Unmarshal(b, &v))
	assert.Equal(t, KindImage, v.Kind())
	assert.Equal(t, "photos/dim_start.jpg", v.Image())
	assert.Equal(t, float64(0), v.Num())
}

func TestCellValue_PrefixedTextStaysImage(t *testing.T) {
	// text that happens to start with the prefix is indistinguishable on the
	// wire, it always decodes as an image reference
	var v CellValue
	assert.NoError(t, json.Unmarshal([]byte(`"img://x"`), &v))
	assert.Equal(t, KindImage, v.Kind())
}

func TestCellValue_NumberAndText(t *testing.T) {
	var v CellValue
	assert.NoError(t, json.Unmarshal([]byte(`42.5`), &v))
	assert.Equal(t, 42.5, v.Num())

	assert.NoError(t, json.Unmarshal([]byte(`"LOT-2026-08"`), &v))
	assert.Equal(t, KindText, v.Kind())
	assert.Equal(t, "LOT-2026-08", v.Text())

	assert.NoError(t, json.Unmarshal([]byte(`null`), &v))
	assert.Equal(t, KindNumber, v.Kind())
}

func TestCellValue_Export(t *testing.T) {
	assert.Equal(t, 7.0, Number(7).Export())
	assert.Equal(t, "LOT-1", Text("LOT-1").Export())
	assert.Equal(t, "[사진]", ImageRef("photos/a.jpg").Export())
}

func TestDefectLedger_Sum(t *testing.T) {
	assert.Equal(t, 0, DefectLedger(nil).Sum())
	assert.Equal(t, 8, DefectLedger{"scorch_a": 5, "push": 3, "detach": 0}.Sum())
}

func TestFormDetails_Clone(t *testing.T) {
	orig := FormDetails{"FRT LH": {"qty": Number(10)}}
	clone := orig.Clone()

	clone["FRT LH"]["qty"] = Number(99)
	assert.Equal(t, float64(10), orig["FRT LH"]["qty"].Num())

	assert.NotNil(t, FormDetails(nil).Clone())
	assert.Empty(t, FormDetails(nil).Clone())
}

func TestWorkLogFilter_Match(t *testing.T) {
	rec := &WorkLogRecord{VehicleModel: "DN8", ProcessType: "프레스", WorkerName: "김철수"}

	assert.True(t, WorkLogFilter{}.Match(rec))
	assert.True(t, WorkLogFilter{Vehicle: FilterAll, Process: FilterAll, Worker: FilterAll}.Match(rec))
	assert.True(t, WorkLogFilter{Vehicle: "DN8", Process: "프레스", Worker: "김철수"}.Match(rec))
	assert.False(t, WorkLogFilter{Vehicle: "LF"}.Match(rec))
	assert.False(t, WorkLogFilter{Vehicle: "DN8", Worker: "이영희"}.Match(rec))
}
