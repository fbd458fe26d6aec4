package transcript

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// utf8BOM makes the exported CSV open correctly in spreadsheet
// applications that otherwise assume a legacy encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var csvHeader = []string{"學年度", "學期", "科目名稱", "學分", "GPA", "來源表格"}

// WriteCSV writes the records as UTF-8 CSV with a BOM.
func WriteCSV(w io.Writer, records []CourseRecord) error {
	if _, err := w.Write(utf8BOM); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			rec.AcademicYear,
			rec.Semester,
			rec.CourseName,
			strconv.FormatFloat(rec.Credits, 'f', -1, 64),
			rec.Grade,
			strconv.Itoa(rec.SourceTable),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// ExportCSV renders the records to an in-memory CSV document.
func ExportCSV(records []CourseRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
