// Package report renders sweep rows as console progress lines and as the
// space-separated survival report file.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/san-kum/muonsim/internal/sim"
)

// DefaultPath is the report file written by a sweep.
const DefaultPath = "output_2.txt"

// FormatFloat renders v with six significant digits in the shortest of fixed
// or exponent notation, trailing zeros dropped.
func FormatFloat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// ProgressLine is the console line for a row: index, adjusted, unadjusted.
func ProgressLine(r sim.Row) string {
	return fmt.Sprintf("%d %s %s", r.Index, FormatFloat(r.Adjusted), FormatFloat(r.Unadjusted))
}

// Line is the report file line for a row: angle in degrees, adjusted,
// unadjusted and the cos^2 reference, the last one after a double space.
func Line(r sim.Row) string {
	return fmt.Sprintf("%s %s %s  %s",
		FormatFloat(r.Angle), FormatFloat(r.Adjusted), FormatFloat(r.Unadjusted), FormatFloat(r.Reference))
}

// Write writes one Line per row.
func Write(w io.Writer, rows []sim.Row) error {
	for _, r := range rows {
		if _, err := fmt.Fprintln(w, Line(r)); err != nil {
			return err
		}
	}
	return nil
}

// Writer streams rows as they are produced. It implements sim.Observer and
// keeps the first write error, after which it stops writing.
type Writer struct {
	Console io.Writer
	File    io.Writer
	err     error
}

func NewWriter(console, file io.Writer) *Writer {
	return &Writer{Console: console, File: file}
}

func (w *Writer) OnRow(r sim.Row, _ sim.BatchResult) {
	if w.err != nil {
		return
	}
	if w.Console != nil {
		if _, err := fmt.Fprintln(w.Console, ProgressLine(r)); err != nil {
			w.err = err
			return
		}
	}
	if w.File != nil {
		if _, err := fmt.Fprintln(w.File, Line(r)); err != nil {
			w.err = err
		}
	}
}

func (w *Writer) Err() error { return w.err }
