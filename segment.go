package donut3d

import (
	"errors"
	"fmt"
	"io"
	"math"

	"gopkg.in/yaml.v3"
)

// ErrInvalidRecord is returned when a record's value is negative, NaN or infinite.
var ErrInvalidRecord = errors.New("donut3d: invalid record")

// Record is one weighted entry of the chart.
type Record struct {
	Color ColorSpec `yaml:"color"`
	Name  string    `yaml:"name"`
	Value float64   `yaml:"value"`
}

// LabelFormatter builds the label text for a record. percentage is in [0, 100].
type LabelFormatter func(name string, value, percentage float64) string

// Segment is the angular share of the full circle computed for one record.
// Segments are rebuilt on every render pass and never retained.
type Segment struct {
	StartAngle float64 // radians, cumulative sweep of all preceding segments
	SweepAngle float64 // radians
	Color      RGBA
	Label      string // empty means no label sub-tree

	Name       string
	Value      float64
	Percentage float64
}

// Compute converts records into segments in input order. The sweeps sum to
// 2π when the total value is positive; when it is zero every angle is zero.
// A formatter of nil produces no labels.
//
// The whole call fails on the first invalid record so a partial chart is
// never produced.
func Compute(records []Record, format LabelFormatter) ([]Segment, error) {
	if len(records) == 0 {
		return []Segment{}, nil
	}

	colors := make([]RGBA, len(records))
	cumulative := make([]float64, len(records)+1)
	for i, r := range records {
		if math.IsNaN(r.Value) || math.IsInf(r.Value, 0) || r.Value < 0 {
			return nil, fmt.Errorf("%w: record %d (%q) has value %v", ErrInvalidRecord, i, r.Name, r.Value)
		}
		c, err := r.Color.Resolve()
		if err != nil {
			return nil, fmt.Errorf("record %d (%q): %w", i, r.Name, err)
		}
		colors[i] = c
		cumulative[i+1] = cumulative[i] + r.Value
	}

	total := cumulative[len(records)]
	if math.IsInf(total, 0) {
		return nil, fmt.Errorf("%w: total value overflows", ErrInvalidRecord)
	}

	segments := make([]Segment, len(records))
	for i, r := range records {
		// Divide before scaling: 2π/total overflows for subnormal totals.
		var start, share float64
		if total > 0 {
			start = cumulative[i] / total
			share = r.Value / total
		}
		percentage := share * 100
		s := Segment{
			StartAngle: start * 2 * math.Pi,
			SweepAngle: share * 2 * math.Pi,
			Color:      colors[i],
			Name:       r.Name,
			Value:      r.Value,
			Percentage: percentage,
		}
		if format != nil {
			s.Label = format(r.Name, r.Value, percentage)
		}
		segments[i] = s
	}
	return segments, nil
}

// LoadRecords decodes a YAML sequence of records, e.g.
//
//   - {name: Apples, value: 45, color: tomato}
//   - {name: Pears, value: 90, color: [0.2, 0.6, 0.2]}
func LoadRecords(r io.Reader) ([]Record, error) {
	var records []Record
	if err := yaml.NewDecoder(r).Decode(&records); err != nil {
		if errors.Is(err, io.EOF) {
			return []Record{}, nil
		}
		return nil, fmt.Errorf("load records: %w", err)
	}
	if records == nil {
		records = []Record{}
	}
	return records, nil
}
