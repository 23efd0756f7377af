package handler

import (
	"bytes"
	"fmt"

	"mishtee/internal/model"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	historySheet    = "Sheet1"
)

var historyHeader = []interface{}{"Date", "Sweet ID", "Qty (kg)", "Total (₹)", "Status"}

// HistoryWorkbook renders order history rows into an xlsx file
func HistoryWorkbook(rows []model.HistoryRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetRow(historySheet, "A1", &historyHeader); err != nil {
		return nil, err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := []interface{}{r.Date, r.SweetID, r.QtyKg, r.TotalINR, r.Status}
		if err := f.SetSheetRow(historySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	if err := f.SetColWidth(historySheet, "A", "E", 16); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
