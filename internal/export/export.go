// Package export writes a generated series as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"wellprod/internal/models"
	"wellprod/internal/services"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "production_data"

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unknown export format %q", s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Header is month, month_num, date then <group>_<metric> per group and metric.
func Header(s services.Series) []string {
	h := []string{"month", "month_num", "date"}
	for _, g := range s.Groups {
		for _, m := range models.Metrics {
			h = append(h, g+"_"+string(m))
		}
	}
	return h
}

// FileName is production_data_<start>_<end>.<ext>; missing bounds fall back
// to the first/last record date.
func FileName(s services.Series, start, end *time.Time, f Format) string {
	var from, to time.Time
	if len(s.Records) > 0 {
		from, to = s.Records[0].Date, s.Records[len(s.Records)-1].Date
	}
	if start != nil {
		from = *start
	}
	if end != nil {
		to = *end
	}
	return fmt.Sprintf("production_data_%s_%s.%s", from.Format("20060102"), to.Format("20060102"), f)
}

// Write dispatches on the format.
func Write(w io.Writer, s services.Series, f Format) error {
	if f == FormatXLSX {
		return WriteXLSX(w, s)
	}
	return WriteCSV(w, s)
}

func WriteCSV(w io.Writer, s services.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header(s)); err != nil {
		return err
	}
	for _, r := range s.Records {
		row := []string{r.Month, strconv.Itoa(r.MonthNum), r.Date.Format("2006-01-02")}
		for _, g := range s.Groups {
			for _, m := range models.Metrics {
				row = append(row, strconv.FormatFloat(r.Values[g][m], 'f', -1, 64))
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func WriteXLSX(w io.Writer, s services.Series) error {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	header := make([]interface{}, 0)
	for _, h := range Header(s) {
		header = append(header, h)
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, r := range s.Records {
		row := []interface{}{r.Month, r.MonthNum, r.Date.Format("2006-01-02")}
		for _, g := range s.Groups {
			for _, m := range models.Metrics {
				row = append(row, r.Values[g][m])
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return err
		}
	}
	return f.Write(w)
}
