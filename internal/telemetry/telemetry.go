// Package telemetry records per-tick pool sizes as CSV and summarises runs.
package telemetry

import (
	"fmt"
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/Garsondee/Gravinyon/internal/sim"
)

// Row is one sampled tick of one run.
type Row struct {
	Run           int   `csv:"run"`
	Seed          int64 `csv:"seed"`
	Tick          int   `csv:"tick"`
	Ships         int   `csv:"ships"`
	Enemies       int   `csv:"enemies"`
	Bullets       int   `csv:"bullets"`
	Particles     int   `csv:"particles"`
	ShipDeaths    int   `csv:"ship_deaths"`
	EnemiesKilled int   `csv:"enemies_killed"`
	BulletsFired  int   `csv:"bullets_fired"`
	Overflows     int   `csv:"bullet_overflows"`
}

// Sample builds a Row from the current state of w.
func Sample(run int, seed int64, w *sim.World) Row {
	st := w.Stats()
	return Row{
		Run:           run,
		Seed:          seed,
		Tick:          w.Tick(),
		Ships:         w.Ships().Len(),
		Enemies:       w.Enemies().Len(),
		Bullets:       w.Bullets().Len(),
		Particles:     w.Particles().Len(),
		ShipDeaths:    st.ShipDeaths,
		EnemiesKilled: st.EnemiesKilled,
		BulletsFired:  st.BulletsFired,
		Overflows:     st.BulletBufferOverflows,
	}
}

// Writer appends rows to a CSV stream, writing the header once.
type Writer struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
	rows          int
}

// NewWriter writes CSV to out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// Create opens path for writing, truncating it.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create telemetry file %s: %w", path, err)
	}
	return &Writer{out: f, closer: f}, nil
}

// Write appends rows.
func (w *Writer) Write(rows ...Row) error {
	if w == nil || len(rows) == 0 {
		return nil
	}
	if !w.headerWritten {
		if err := gocsv.Marshal(rows, w.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
		w.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(rows, w.out); err != nil {
			return fmt.Errorf("writing telemetry: %w", err)
		}
	}
	w.rows += len(rows)
	return nil
}

// Rows returns how many rows have been written.
func (w *Writer) Rows() int { return w.rows }

// Close closes the underlying file, if Create opened one.
func (w *Writer) Close() error {
	if w == nil || w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

// Summary describes a sample of values.
type Summary struct {
	N      int
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize computes the mean, sample standard deviation and range of xs.
// The standard deviation of fewer than two values is 0.
func Summarize(xs []float64) Summary {
	if len(xs) == 0 {
		return Summary{}
	}
	s := Summary{N: len(xs), Min: floats.Min(xs), Max: floats.Max(xs)}
	if len(xs) == 1 {
		s.Mean = xs[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(xs, nil)
	return s
}

func (s Summary) String() string {
	return fmt.Sprintf("%.2f ± %.2f (min %.0f, max %.0f)", s.Mean, s.StdDev, s.Min, s.Max)
}
