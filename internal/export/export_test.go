package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KirkDiggler/rollcall/internal/models"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		seconds int64
		want    string
	}{
		{name: "zero", seconds: 0, want: "00:00:00"},
		{name: "five minutes", seconds: 300, want: "00:05:00"},
		{name: "mixed", seconds: 3661, want: "01:01:01"},
		{name: "unbounded hours", seconds: 360000, want: "100:00:00"},
		{name: "negative clamps to zero", seconds: -5, want: "00:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.seconds))
		})
	}
}

func TestWriteCSV(t *testing.T) {
	entries := []*models.LeaderboardEntry{
		{User: "Aria", TotalSeconds: 3661, Formatted: "01:01:01"},
		{User: "Byte", TotalSeconds: 300, Formatted: "00:05:00"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	want := "User,Total Time\nAria,01:01:01\nByte,00:05:00\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, "User,Total Time\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	entries := []*models.LeaderboardEntry{
		{User: "Aria", TotalSeconds: 3661, Formatted: "01:01:01"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, entries))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(sheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "User", header)

	user, err := f.GetCellValue(sheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Aria", user)

	duration, err := f.GetCellValue(sheetName, "B2")
	require.NoError(t, err)
	assert.Equal(t, "01:01:01", duration)
}
