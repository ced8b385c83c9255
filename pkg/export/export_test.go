package export

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Course", "Classroom"},
		Rows:    [][]string{{"Mathematics", "R101"}, {"Physics", "Lab, East"}},
	}
	out, err := NewCSVExporter().Render(data)
	require.NoError(t, err)
	assert.Equal(t, "Course,Classroom\nMathematics,R101\nPhysics,\"Lab, East\"\n", string(out))
}

func TestCSVExporterRejectsRaggedRows(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{Headers: []string{"a", "b"}, Rows: [][]string{{"only"}}})
	assert.Error(t, err)

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRenderMultiPage(t *testing.T) {
	rows := make([][]string, 0, 120)
	for i := 0; i < 120; i++ {
		rows = append(rows, []string{fmt.Sprint(i/10 + 1), "2025-01-06", "MONDAY", "08:00", "09:30", "Mathematics", "Ibu Sari", "R101"})
	}
	data := Dataset{
		Title:   "Timetable",
		Headers: []string{"Week", "Date", "Day", "Start", "End", "Course", "Lecturer", "Classroom"},
		Rows:    rows,
	}
	out, err := NewPDFExporter().Render(data)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Equal(t, "application/pdf", NewPDFExporter().ContentType())
}

func TestPDFExporterRejectsMissingHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{Rows: [][]string{{"x"}}})
	assert.Error(t, err)
}

func TestXLSXExporterRender(t *testing.T) {
	data := Dataset{
		Headers: []string{"Course", "Classroom"},
		Rows:    [][]string{{"Mathematics", "R101"}, {"Physics", "Lab"}},
	}
	out, err := NewXLSXExporter().Render(data)
	require.NoError(t, err)

	book, err := excelize.OpenReader(bytes.NewReader(out))
	require.NoError(t, err)
	defer book.Close() //nolint:errcheck

	rows, err := book.GetRows(xlsxSheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Course", "Classroom"}, {"Mathematics", "R101"}, {"Physics", "Lab"}}, rows)
}
