// Package export renders leaderboard rows for download and display.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/KirkDiggler/rollcall/internal/models"
)

const sheetName = "Leaderboard"

// FormatDuration formats elapsed seconds as HH:MM:SS with zero padding.
// Hours are unbounded.
func FormatDuration(totalSeconds int64) string {
	if totalSeconds < 0 {
		totalSeconds = 0
	}
	h := totalSeconds / 3600
	m := (totalSeconds % 3600) / 60
	s := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// WriteCSV writes the leaderboard as CSV with a header row
func WriteCSV(w io.Writer, entries []*models.LeaderboardEntry) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"User", "Total Time"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, entry := range entries {
		if err := cw.Write([]string{entry.User, entry.Formatted}); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the leaderboard as an xlsx workbook with a single sheet
func WriteXLSX(w io.Writer, entries []*models.LeaderboardEntry) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", "User"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := f.SetCellValue(sheetName, "B1", "Total Time"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, entry := range entries {
		row := i + 2
		if err := f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), entry.User); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
		if err := f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), entry.Formatted); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}
