package models

import (
	"fmt"
	"math"
	"time"
)

// Frame is a named-column table of float64 series sharing one date index.
// All columns have the same length as the index; SetColumn rejects anything
// else. Unset values are NaN until DropUnset removes the rows carrying them.
type Frame struct {
	dates []time.Time
	names []string
	cols  map[string][]float64
}

// NewFrame creates a frame over the given date index.
func NewFrame(dates []time.Time) *Frame {
	return &Frame{
		dates: dates,
		cols:  make(map[string][]float64),
	}
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	if f == nil {
		return 0
	}
	return len(f.dates)
}

// Dates returns the date index.
func (f *Frame) Dates() []time.Time { return f.dates }

// Names returns column names in insertion order.
func (f *Frame) Names() []string { return f.names }

// SetColumn adds or replaces a column. The series length must match the index.
func (f *Frame) SetColumn(name string, values []float64) error {
	if len(values) != len(f.dates) {
		return fmt.Errorf("frame: column %s has %d values, index has %d", name, len(values), len(f.dates))
	}
	if _, exists := f.cols[name]; !exists {
		f.names = append(f.names, name)
	}
	f.cols[name] = values
	return nil
}

// Column returns a column by name.
func (f *Frame) Column(name string) ([]float64, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.cols[name]
	return v, ok
}

// Last returns the final value of a column. NaN values report ok=false.
func (f *Frame) Last(name string) (float64, bool) {
	v, ok := f.cols[name]
	if !ok || len(v) == 0 {
		return 0, false
	}
	last := v[len(v)-1]
	if math.IsNaN(last) {
		return 0, false
	}
	return last, true
}

// Row returns all column values at index i, keyed by column name.
func (f *Frame) Row(i int) map[string]float64 {
	row := make(map[string]float64, len(f.names))
	for _, name := range f.names {
		row[name] = f.cols[name][i]
	}
	return row
}

// DropUnset returns a new frame without any row containing a NaN value.
// Row order is preserved; columns keep their insertion order.
func (f *Frame) DropUnset() *Frame {
	keep := make([]int, 0, len(f.dates))
	for i := range f.dates {
		ok := true
		for _, name := range f.names {
			if math.IsNaN(f.cols[name][i]) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}

	out := NewFrame(pickDates(f.dates, keep))
	for _, name := range f.names {
		src := f.cols[name]
		dst := make([]float64, len(keep))
		for j, i := range keep {
			dst[j] = src[i]
		}
		_ = out.SetColumn(name, dst)
	}
	return out
}

func pickDates(dates []time.Time, idx []int) []time.Time {
	out := make([]time.Time, len(idx))
	for j, i := range idx {
		out[j] = dates[i]
	}
	return out
}
