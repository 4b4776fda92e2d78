// Package report renders experiment results as CSV files, text tables and
// PNG plots.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/production-sim/production-sim/sim/experiment"
	"github.com/production-sim/production-sim/sim/stats"
)

// Column headers of the sweep and comparison files.
var (
	SweepHeader      = []string{"p", "beneficio_prom", "stddev", "delta", "lower", "upper"}
	ComparisonHeader = []string{"nombre_criterio", "beneficio_promedio", "stddev", "delta", "lower", "upper"}
)

// Row is one line of a sweep or comparison file: an arm and the confidence
// interval of its mean net result.
type Row struct {
	Label  string
	Mean   float64
	StdDev float64
	Delta  float64
	Lower  float64
	Upper  float64
}

// NewRow builds a row from an interval.
func NewRow(label string, iv stats.Interval) Row {
	return Row{Label: label, Mean: iv.Mean, StdDev: iv.StdDev, Delta: iv.Delta, Lower: iv.Lower, Upper: iv.Upper}
}

// Length is the width of the row's interval.
func (r Row) Length() float64 {
	return r.Upper - r.Lower
}

// Rows converts arm results to rows, keeping their order.
func Rows(results []experiment.ArmResult) []Row {
	rows := make([]Row, len(results))
	for i, res := range results {
		rows[i] = NewRow(res.Arm.Label, res.Interval)
	}
	return rows
}

// Rank returns the n rows with the highest mean, best first; ties keep the
// narrower interval first. n <= 0 returns every row.
func Rank(rows []Row, n int) []Row {
	out := append([]Row(nil), rows...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Mean != out[j].Mean {
			return out[i].Mean > out[j].Mean
		}
		return out[i].Length() < out[j].Length()
	})
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// WriteSweepCSV writes rows under the sweep header.
func WriteSweepCSV(w io.Writer, rows []Row) error {
	return writeCSV(w, SweepHeader, rows)
}

// WriteComparisonCSV writes rows under the comparison header.
func WriteComparisonCSV(w io.Writer, rows []Row) error {
	return writeCSV(w, ComparisonHeader, rows)
}

// SaveSweepCSV writes a sweep file to path.
func SaveSweepCSV(path string, rows []Row) error {
	return saveCSV(path, SweepHeader, rows)
}

// SaveComparisonCSV writes a comparison file to path.
func SaveComparisonCSV(path string, rows []Row) error {
	return saveCSV(path, ComparisonHeader, rows)
}

func saveCSV(path string, header []string, rows []Row) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	if err := writeCSV(f, header, rows); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logrus.Debugf("wrote %d rows to %s", len(rows), path)
	return nil
}

func writeCSV(w io.Writer, header []string, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{r.Label, formatFloat(r.Mean), formatFloat(r.StdDev), formatFloat(r.Delta), formatFloat(r.Lower), formatFloat(r.Upper)}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadSweepCSV reads a sweep file; comparison files share its layout.
// The header line is skipped without checking its names; rows with the
// wrong number of fields or unparsable numbers are skipped and counted.
func ReadSweepCSV(r io.Reader) (rows []Row, skipped int, err error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("reading header: %w", err)
	}
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				logrus.Debugf("skipping line %d: %v", perr.Line, err)
				skipped++
				continue
			}
			return nil, skipped, err
		}
		row, ok := parseRow(record)
		if !ok {
			line, _ := cr.FieldPos(0)
			logrus.Debugf("skipping malformed row at line %d: %v", line, record)
			skipped++
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// LoadSweepCSV reads a sweep or comparison file from path.
func LoadSweepCSV(path string) ([]Row, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("opening results: %w", err)
	}
	defer f.Close()
	return ReadSweepCSV(f)
}

func parseRow(record []string) (Row, bool) {
	if len(record) != len(SweepHeader) || record[0] == "" {
		return Row{}, false
	}
	var vals [5]float64
	for i := range vals {
		v, err := strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return Row{}, false
		}
		vals[i] = v
	}
	return Row{Label: record[0], Mean: vals[0], StdDev: vals[1], Delta: vals[2], Lower: vals[3], Upper: vals[4]}, true
}
