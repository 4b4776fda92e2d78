package lcg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// WriteSequence writes one value per line using the shortest decimal form.
func WriteSequence(w io.Writer, seq []float64) error {
	bw := bufio.NewWriter(w)
	for _, v := range seq {
		if _, err := bw.WriteString(strconv.FormatFloat(v, 'f', -1, 64) + "\n"); err != nil {
			return fmt.Errorf("writing sequence: %w", err)
		}
	}
	return bw.Flush()
}

// SaveSequence writes seq to path, truncating any existing file.
func SaveSequence(path string, seq []float64) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing %s: %w", path, closeErr)
		}
	}()
	if err := WriteSequence(f, seq); err != nil {
		return err
	}
	logrus.Debugf("wrote %d values to %s", len(seq), path)
	return nil
}

// ReadSequence parses one value per line. Blank lines are skipped.
func ReadSequence(r io.Reader) ([]float64, error) {
	var seq []float64
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		seq = append(seq, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading sequence: %w", err)
	}
	return seq, nil
}

// LoadSequence reads a sequence previously written by SaveSequence.
func LoadSequence(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	seq, err := ReadSequence(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seq, nil
}
