package harness

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// ResultsFileName is the results table appended by every run.
const ResultsFileName = "results.csv"

// ResultsWriter appends the results table: a header row of block sizes, then one row per plan.
type ResultsWriter struct {
	w *csv.Writer
}

// NewResultsWriter writes to w.
func NewResultsWriter(w io.Writer) *ResultsWriter {
	return &ResultsWriter{w: csv.NewWriter(w)}
}

// WriteHeader writes `,<size1>,<size2>,...`.
func (rw *ResultsWriter) WriteHeader(blockSizes []int) error {
	row := make([]string, 0, len(blockSizes)+1)
	row = append(row, "")
	for _, s := range blockSizes {
		row = append(row, strconv.Itoa(s))
	}
	return rw.write(row)
}

// WriteRow writes `<algorithm> <disks> <scheme>,<speed...>`.
func (rw *ResultsWriter) WriteRow(p Plan, scheme string, speeds []string) error {
	row := make([]string, 0, len(speeds)+1)
	row = append(row, fmt.Sprintf("%s %d %s", p.Algorithm, p.Disks, scheme))
	row = append(row, speeds...)
	return rw.write(row)
}

func (rw *ResultsWriter) write(row []string) error {
	if err := rw.w.Write(row); err != nil {
		return err
	}
	rw.w.Flush()
	return rw.w.Error()
}
