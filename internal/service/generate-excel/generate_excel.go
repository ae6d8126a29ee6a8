package generate_excel

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"

	"mes-worklog/internal/service/aggregate"
	"mes-worklog/internal/storage"
)

type GenerateExcelStorage interface {
	GetWorkLogsMonth(ctx context.Context, year int, month int, filter storage.WorkLogFilter) ([]*storage.WorkLogRecord, error)
}

type GenerateExcelService struct {
	storage GenerateExcelStorage
}

func NewGenerateService(storage GenerateExcelStorage) *GenerateExcelService {
	return &GenerateExcelService{storage: storage}
}

var baseHeaders = []string{"날짜", "작업자", "차종", "공정", "일보명", "총생산수량", "총불량수량", "특이사항"}

// GenerateExcel renders a month of work logs into a workbook: the flattened
// record sheet plus a monthly summary sheet. Image-valued cells are written
// as the placeholder marker, never binary data.
func (g *GenerateExcelService) GenerateExcel(ctx context.Context, year int, month int, filter storage.WorkLogFilter) ([]byte, error) {
	records, err := g.storage.GetWorkLogsMonth(ctx, year, month, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch data: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	logSheet := "작업일보"
	f.SetSheetName("Sheet1", logSheet)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"E0E0E0"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 2}},
	})

	detailHeaders := DetailHeaders(records)
	headers := append(append([]string{}, baseHeaders...), detailHeaders...)

	for i, name := range headers {
		f.SetCellValue(logSheet, cellName(i+1, 1), name)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(logSheet, "A1", lastCol, headerStyle)

	for rowIdx, rec := range records {
		rowNum := rowIdx + 2
		flat := FlattenWorkLog(rec, detailHeaders)
		for colIdx, v := range flat {
			f.SetCellValue(logSheet, cellName(colIdx+1, rowNum), v)
		}
	}

	f.SetPanes(logSheet, &excelize.Panes{
		Freeze:      true,
		XSplit:      0,
		YSplit:      1,
		TopLeftCell: "A2",
	})
	f.SetColWidth(logSheet, "A", "H", 14)

	if err := writeSummarySheet(f, headerStyle, records); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// DetailHeaders collects every row_col key present across the records,
// sorted, so all records share one column layout.
func DetailHeaders(records []*storage.WorkLogRecord) []string {
	seen := map[string]bool{}
	for _, rec := range records {
		for rowKey, cols := range rec.Details {
			for colKey := range cols {
				seen[rowKey+"_"+colKey] = true
			}
		}
	}
	headers := make([]string, 0, len(seen))
	for h := range seen {
		headers = append(headers, h)
	}
	sort.Strings(headers)
	return headers
}

// FlattenWorkLog produces one export row: the base fields followed by the
// detail cells in header order. Missing cells flatten to "".
func FlattenWorkLog(rec *storage.WorkLogRecord, detailHeaders []string) []interface{} {
	out := []interface{}{
		rec.Timestamp.Format("2006-01-02"),
		rec.WorkerName,
		rec.VehicleModel,
		rec.ProcessType,
		rec.LogTitle,
		rec.ProductionQty,
		rec.DefectQty,
		rec.Notes,
	}

	for _, header := range detailHeaders {
		// row labels never contain underscores, column keys may; the
		// first underscore is the separator
		parts := strings.SplitN(header, "_", 2)
		if len(parts) != 2 {
			out = append(out, "")
			continue
		}
		if cols, ok := rec.Details[parts[0]]; ok {
			if v, ok := cols[parts[1]]; ok {
				out = append(out, v.Export())
				continue
			}
		}
		out = append(out, "")
	}

	return out
}

func writeSummarySheet(f *excelize.File, headerStyle int, records []*storage.WorkLogRecord) error {
	sheet := "월간요약"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"차종", "총생산", "총불량", "불량률(%)", "주요불량"}
	for i, name := range headers {
		f.SetCellValue(sheet, cellName(i+1, 1), name)
	}
	lastCol, _ := excelize.CoordinatesToCellName(len(headers), 1)
	f.SetCellStyle(sheet, "A1", lastCol, headerStyle)

	for rowIdx, mm := range aggregate.MonthlyReport(records) {
		rowNum := rowIdx + 2
		f.SetCellValue(sheet, cellName(1, rowNum), mm.Model)
		f.SetCellValue(sheet, cellName(2, rowNum), mm.TotalProduction)
		f.SetCellValue(sheet, cellName(3, rowNum), mm.TotalDefect)
		f.SetCellValue(sheet, cellName(4, rowNum), mm.Rate)

		var tops []string
		for _, d := range mm.TopDefects {
			tops = append(tops, fmt.Sprintf("%s %d", d.Label, d.Count))
		}
		f.SetCellValue(sheet, cellName(5, rowNum), strings.Join(tops, ", "))
	}

	f.SetColWidth(sheet, "A", "E", 16)
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
