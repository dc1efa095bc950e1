// Package ingest reads the production workbook (XLSX or CSV export) into
// models.ProductionRecord rows ready for the store.
package ingest

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"wellprod/internal/models"
	"wellprod/internal/util"
)

var ErrUnsupportedFormat = errors.New("unsupported file format, use .xlsx or .csv")

// Result is what one workbook produced.
type Result struct {
	BatchID string                    `json:"batch_id"`
	Rows    int                       `json:"rows"`    // data rows seen
	Skipped int                       `json:"skipped"` // rows without a well id
	Records []models.ProductionRecord `json:"-"`
}

type field int

const (
	fWellID field = iota
	fWellString
	fPlatform
	fProdDate
	fHrsFlown
	fOil
	fGas
	fCondensate
	fWater
	fDensity
	fMass
	fTemp
	fBSW
	fieldCount
)

// header alias, dibandingkan setelah lower-case & trim
var aliases = map[field][]string{
	fWellID:     {"well id", "well_id", "wellid"},
	fWellString: {"well string", "well_string"},
	fPlatform:   {"process platform/ctf", "process platform", "process_platform", "delivery network group"},
	fProdDate:   {"production date", "prod date", "prod_date", "date"},
	fHrsFlown:   {"hrs flown", "hrs_flown", "hours flown"},
	fOil:        {"allocated oil productionmt", "allocated oil production mt", "oil (mt)", "oil_mt"},
	fGas:        {"allocated gas productionkcm", "allocated gas production kcm", "gas (kcm)", "gas_kcm"},
	fCondensate: {"allocated condensate productionmt", "allocated condensate production mt", "condensate (mt)", "condensate_mt"},
	fWater:      {"allocated water productionbb6", "allocated water production bb6", "water (bb6)", "water_bb6"},
	fDensity:    {"density"},
	fMass:       {"mass"},
	fTemp:       {"temp", "temperature"},
	fBSW:        {"bsw"},
}

// ReadFile picks the reader by extension.
func ReadFile(path, sheet string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, err
	}
	defer f.Close()
	return Read(f, filepath.Base(path), sheet)
}

// Read parses r based on the file name's extension.
func Read(r io.Reader, name, sheet string) (Result, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(r, sheet)
	case ".csv":
		return ReadCSV(r)
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// ReadXLSX reads the named sheet, or the first one when sheet is empty.
func ReadXLSX(r io.Reader, sheet string) (Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Result{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return Result{}, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Result{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return ParseRows(rows)
}

func ReadCSV(r io.Reader) (Result, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return Result{}, fmt.Errorf("read csv: %w", err)
	}
	return ParseRows(rows)
}

// ParseRows maps a header row plus data rows to records.
func ParseRows(rows [][]string) (Result, error) {
	if len(rows) < 1 {
		return Result{}, errors.New("file is empty")
	}
	idx := mapHeader(rows[0])
	if idx[fWellID] < 0 && idx[fWellString] < 0 {
		return Result{}, errors.New("missing well column (Well Id or Well String)")
	}
	if idx[fPlatform] < 0 {
		return Result{}, errors.New("missing column Process Platform/CTF")
	}

	res := Result{BatchID: util.NewID()}
	for n, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		res.Rows++
		rec, err := parseRow(row, idx)
		if err != nil {
			return Result{}, fmt.Errorf("row %d: %w", n+2, err)
		}
		if rec.WellKey() == "" {
			res.Skipped++
			continue
		}
		rec.BatchID = res.BatchID
		res.Records = append(res.Records, rec)
	}
	return res, nil
}

func mapHeader(header []string) [fieldCount]int {
	var idx [fieldCount]int
	for i := range idx {
		idx[i] = -1
	}
	for col, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for f, names := range aliases {
			if idx[f] >= 0 {
				continue
			}
			for _, a := range names {
				if h == a {
					idx[f] = col
				}
			}
		}
	}
	return idx
}

func parseRow(row []string, idx [fieldCount]int) (models.ProductionRecord, error) {
	cell := func(f field) string {
		i := idx[f]
		if i < 0 || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	rec := models.ProductionRecord{
		WellID:          cell(fWellID),
		WellString:      cell(fWellString),
		ProcessPlatform: cell(fPlatform),
	}
	var err error
	if rec.ProdDate, err = ParseDate(cell(fProdDate)); err != nil {
		return rec, err
	}

	nums := []struct {
		f   field
		dst *float64
	}{
		{fHrsFlown, &rec.HrsFlown}, {fOil, &rec.OilMT}, {fGas, &rec.GasKCM},
		{fCondensate, &rec.CondensateMT}, {fWater, &rec.WaterBB6},
	}
	for _, n := range nums {
		v, ok, err := ParseNumber(cell(n.f))
		if err != nil {
			return rec, fmt.Errorf("column %s: %w", aliases[n.f][0], err)
		}
		if ok {
			*n.dst = v
		}
	}

	optional := []struct {
		f   field
		dst *sql.NullFloat64
	}{
		{fDensity, &rec.Density}, {fMass, &rec.Mass}, {fTemp, &rec.Temp}, {fBSW, &rec.BSW},
	}
	for _, o := range optional {
		v, ok, err := ParseNumber(cell(o.f))
		if err != nil {
			return rec, fmt.Errorf("column %s: %w", aliases[o.f][0], err)
		}
		if ok {
			*o.dst = sql.NullFloat64{Float64: v, Valid: true}
		}
	}
	return rec, nil
}

// ParseNumber accepts "1,234.5" style values. ok is false for an empty cell.
func ParseNumber(s string) (v float64, ok bool, err error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "-" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "null") {
		return 0, false, nil
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, " ", "")
	v, err = strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid number %q", s)
	}
	return v, true, nil
}

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"02.01.2006",
	"02.01.06",
	"01-02-06",
	"1/2/2006",
	"1/2/06",
	"02-Jan-2006",
}

// ParseDate normalises a date cell to YYYY-MM-DD. Excel serial numbers are
// accepted too; empty stays empty.
func ParseDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f > 0 {
		t, err := excelize.ExcelDateToTime(f, false)
		if err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q", s)
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
