package dispatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

var sheetHeader = []string{"Newsletter ID", "Title", "Sent At", "Status"}

// sheetMu serializes workbook access; concurrent dispatches append to the
// same file when they share a spreadsheet id
var sheetMu sync.Mutex

// SpreadsheetChannel appends one log row per send to the workbook keyed by
// the configured spreadsheet id
type SpreadsheetChannel struct {
	Dir           string
	SpreadsheetID string
}

func NewSpreadsheetChannel(dir, spreadsheetID string) *SpreadsheetChannel {
	return &SpreadsheetChannel{
		Dir:           dir,
		SpreadsheetID: spreadsheetID,
	}
}

func (c *SpreadsheetChannel) Name() string { return ChannelSpreadsheet }

func (c *SpreadsheetChannel) Send(ctx context.Context, doc *Document) error {
	sheetMu.Lock()
	defer sheetMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return fmt.Errorf("creating sheets dir: %w", err)
	}

	path := filepath.Join(c.Dir, c.SpreadsheetID+".xlsx")

	f, created, err := openWorkbook(path)
	if err != nil {
		return err
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if created {
		headerStyle, _ := f.NewStyle(&excelize.Style{
			Font: &excelize.Font{Bold: true},
			Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
		})
		for i, col := range sheetHeader {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheetName, cell, col)
			f.SetCellStyle(sheetName, cell, cell, headerStyle)
		}
		for i := range sheetHeader {
			col, _ := excelize.ColumnNumberToName(i + 1)
			f.SetColWidth(sheetName, col, col, 24)
		}
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return fmt.Errorf("reading workbook: %w", err)
	}
	rowIdx := len(rows) + 1

	values := []any{
		doc.NewsletterID,
		doc.Title,
		doc.SentAt.Format(time.RFC3339),
		doc.Status,
	}
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowIdx)
		f.SetCellValue(sheetName, cell, v)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}

	return nil
}

func openWorkbook(path string) (*excelize.File, bool, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return excelize.NewFile(), true, nil
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("opening workbook: %w", err)
	}
	return f, false, nil
}
