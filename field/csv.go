package field

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/windmap/components"
)

// CellRow is one raster cell in the CSV field format.
type CellRow struct {
	Col int     `csv:"col"`
	Row int     `csv:"row"`
	U   float64 `csv:"u"`
	V   float64 `csv:"v"`
}

// LoadCSV reads a field from col,row,u,v rows. The raster size is inferred
// from the largest indices; every cell must appear exactly once.
func LoadCSV(rd io.Reader, domain components.Bounds) (*Record, error) {
	var rows []CellRow
	if err := gocsv.Unmarshal(rd, &rows); err != nil {
		return nil, fmt.Errorf("decoding field csv: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty csv", ErrInvalidFieldData)
	}

	cols, nrows := 0, 0
	for _, r := range rows {
		if r.Col < 0 || r.Row < 0 {
			return nil, fmt.Errorf("%w: negative cell index (%d,%d)", ErrInvalidFieldData, r.Col, r.Row)
		}
		cols = max(cols, r.Col+1)
		nrows = max(nrows, r.Row+1)
	}
	if cols*nrows != len(rows) {
		return nil, fmt.Errorf("%w: %d rows do not fill a %dx%d raster", ErrInvalidFieldData, len(rows), cols, nrows)
	}

	u := make([]float64, cols*nrows)
	v := make([]float64, cols*nrows)
	seen := make([]bool, cols*nrows)
	for _, r := range rows {
		i := r.Row*cols + r.Col
		if seen[i] {
			return nil, fmt.Errorf("%w: duplicate cell (%d,%d)", ErrInvalidFieldData, r.Col, r.Row)
		}
		seen[i] = true
		u[i] = r.U
		v[i] = r.V
	}

	rec := &Record{
		StartLon: domain.MinLon,
		StartLat: domain.MinLat,
		EndLon:   domain.MaxLon,
		EndLat:   domain.MaxLat,
		LonSize:  float64(cols),
		LatSize:  float64(nrows),
		Data:     [][]float64{u, v},
	}
	if cols > 1 {
		rec.NLon = domain.Width() / float64(cols-1)
	}
	if nrows > 1 {
		rec.NLat = domain.Height() / float64(nrows-1)
	}
	return rec, nil
}

// WriteCSV writes a record in the col,row,u,v format.
func WriteCSV(w io.Writer, rec *Record) error {
	if len(rec.Data) != 2 {
		return fmt.Errorf("%w: expected 2 component arrays, got %d", ErrInvalidFieldData, len(rec.Data))
	}
	cols := int(rec.LonSize)
	out := make([]CellRow, 0, len(rec.Data[0]))
	for i := range rec.Data[0] {
		out = append(out, CellRow{Col: i % cols, Row: i / cols, U: rec.Data[0][i], V: rec.Data[1][i]})
	}
	if err := gocsv.Marshal(out, w); err != nil {
		return fmt.Errorf("writing field csv: %w", err)
	}
	return nil
}
