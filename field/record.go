package field

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pthm-cable/windmap/components"
)

// Record is a wind field as delivered by the data provider: a raster of
// eastward and northward components over a lon/lat box.
type Record struct {
	Title       string      `json:"title,omitempty"`
	Year        float64     `json:"year"`
	Month       float64     `json:"month"`
	Day         float64     `json:"day"`
	Hour        float64     `json:"hour"`
	TimeSession float64     `json:"timesession"`
	Layer       float64     `json:"layer"`
	StartLon    float64     `json:"startlon"`
	StartLat    float64     `json:"startlat"`
	EndLon      float64     `json:"endlon"`
	EndLat      float64     `json:"endlat"`
	NLon        float64     `json:"nlon"`
	NLat        float64     `json:"nlat"`
	LonSize     float64     `json:"lonsize"` // columns
	LatSize     float64     `json:"latsize"` // rows
	Data        [][]float64 `json:"data"`    // [u, v]
}

// Start returns the geographic position of the first cell.
func (r *Record) Start() components.GeoPoint {
	return components.GeoPoint{Lon: r.StartLon, Lat: r.StartLat}
}

// End returns the geographic position of the last cell.
func (r *Record) End() components.GeoPoint {
	return components.GeoPoint{Lon: r.EndLon, Lat: r.EndLat}
}

// Domain returns the record's bounding box.
func (r *Record) Domain() components.Bounds {
	return components.BoundsOf(r.Start(), r.End())
}

// Grid validates the record and builds the sampling grid.
func (r *Record) Grid() (*Grid, error) {
	if len(r.Data) != 2 {
		return nil, fmt.Errorf("%w: expected 2 component arrays, got %d", ErrInvalidFieldData, len(r.Data))
	}
	return New(r.Data[0], r.Data[1], int(r.LonSize), int(r.LatSize), r.Start(), r.End())
}

// LoadJSON decodes a record from JSON.
func LoadJSON(rd io.Reader) (*Record, error) {
	var rec Record
	if err := json.NewDecoder(rd).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decoding field json: %w", err)
	}
	return &rec, nil
}

// WriteJSON encodes a record as JSON.
func WriteJSON(w io.Writer, rec *Record) error {
	if err := json.NewEncoder(w).Encode(rec); err != nil {
		return fmt.Errorf("encoding field json: %w", err)
	}
	return nil
}

// LoadFile reads a field file, choosing the decoder by extension.
// CSV files carry no domain, so domain must be supplied for them.
func LoadFile(path string, domain components.Bounds) (*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening field file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return LoadJSON(f)
	case ".csv":
		return LoadCSV(f, domain)
	default:
		return nil, fmt.Errorf("unsupported field file extension %q", filepath.Ext(path))
	}
}
