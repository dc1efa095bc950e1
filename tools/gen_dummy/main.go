/*
Generator workbook produksi dummy untuk demo & uji ingest.

	go run ./tools/gen_dummy -out data/sample_production.xlsx -wells 40 -days 90
	go run ./tools/gen_dummy -out data/sample_production.csv -seed 7

Hasilnya bisa langsung di-ingest:

	wellprod ingest data/sample_production.xlsx
*/
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"wellprod/pkg/logger"
)

var header = []string{
	"Well Id", "Well String", "Process Platform/CTF", "Production Date", "Hrs Flown",
	"Allocated Oil ProductionMT", "Allocated Gas ProductionKCM",
	"Allocated Condensate ProductionMT", "Allocated Water ProductionBB6",
	"Density", "Mass", "Temp", "BSW",
}

var networks = []string{"CTF-Alpha", "CTF-Bravo", "CTF-Charlie", "CTF-Delta", "CTF-Echo"}

type genOpts struct {
	wells int
	days  int
	seed  int64
	end   time.Time
}

// generate: satu baris per sumur per hari, tanggal mundur dari end.
func generate(o genOpts) [][]string {
	rng := rand.New(rand.NewSource(o.seed))
	type well struct {
		id, network   string
		gas, oil, cnd float64
		water         float64
		downRate      float64
	}
	wells := make([]well, o.wells)
	for i := range wells {
		wells[i] = well{
			id:       fmt.Sprintf("W-%03d", i+1),
			network:  networks[i%len(networks)],
			gas:      50 + rng.Float64()*450,
			oil:      5 + rng.Float64()*95,
			cnd:      rng.Float64() * 20,
			water:    rng.Float64() * 300,
			downRate: 0.05 + rng.Float64()*0.25,
		}
	}

	rows := make([][]string, 0, o.wells*o.days)
	for d := o.days - 1; d >= 0; d-- {
		date := o.end.AddDate(0, 0, -d).Format("2006-01-02")
		for _, w := range wells {
			hrs := 24.0
			if rng.Float64() < w.downRate {
				hrs = 0
			}
			f := hrs / 24 * (0.85 + rng.Float64()*0.3)
			row := []string{
				w.id, w.id + "-L", w.network, date, num(hrs, 1),
				num(w.oil*f, 2), num(w.gas*f, 2), num(w.cnd*f, 2), num(w.water*f, 2),
				"", "", "", "",
			}
			// sebagian baris punya data meter
			if rng.Float64() < 0.3 {
				row[9] = num(0.75+rng.Float64()*0.3, 3)
				row[10] = num(w.oil*f*1.1, 2)
				row[11] = num(25+rng.Float64()*50, 1)
				row[12] = num(rng.Float64()*8, 2)
			}
			rows = append(rows, row)
		}
	}
	return rows
}

func num(v float64, prec int) string {
	p := math.Pow(10, float64(prec))
	return strconv.FormatFloat(math.Round(v*p)/p, 'f', -1, 64)
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	_ = w.Write(header)
	_ = w.WriteAll(rows)
	if err := w.Error(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func writeXLSX(path string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Sheet1"
	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", toCells(header, false)); err != nil {
		return err
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, toCells(r, true)); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}

// toCells: kolom angka ditulis sebagai number supaya Excel tidak menganggapnya teks.
func toCells(row []string, numeric bool) []any {
	out := make([]any, len(row))
	for i, v := range row {
		out[i] = v
		if numeric && i >= 4 && v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				out[i] = f
			}
		}
	}
	return out
}

func main() {
	out := flag.String("out", "data/sample_production.xlsx", "output .xlsx or .csv")
	wells := flag.Int("wells", 40, "number of wells")
	days := flag.Int("days", 90, "days of history")
	seed := flag.Int64("seed", 1, "random seed")
	end := flag.String("end", time.Now().Format("2006-01-02"), "last production date")
	flag.Parse()

	logger.SetGlobalLogger(logger.New(logger.Config{Pretty: true, Out: os.Stderr}))

	endDate, err := time.Parse("2006-01-02", *end)
	if err != nil {
		log.Fatal().Err(err).Msg("-end")
	}
	if *wells <= 0 || *days <= 0 {
		log.Fatal().Msg("-wells and -days must be positive")
	}
	rows := generate(genOpts{wells: *wells, days: *days, seed: *seed, end: endDate})

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		log.Fatal().Err(err).Msg("mkdir")
	}
	switch strings.ToLower(filepath.Ext(*out)) {
	case ".csv":
		err = writeCSV(*out, rows)
	case ".xlsx":
		err = writeXLSX(*out, rows)
	default:
		log.Fatal().Str("out", *out).Msg("-out must end in .csv or .xlsx")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("write")
	}
	log.Info().Str("out", *out).Int("rows", len(rows)).Msg("sample workbook written")
}
