package field

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/pthm-cable/windmap/components"
)

const sampleJSON = `{
  "title": "surface wind",
  "year": 2023, "month": 12, "day": 28, "hour": 6,
  "startlon": 100, "startlat": 20, "endlon": 110, "endlat": 30,
  "nlon": 10, "nlat": 10, "lonsize": 2, "latsize": 2,
  "data": [[1, 2, 3, 4], [0, 0, 0, 0]]
}`

func TestLoadJSON(t *testing.T) {
	rec, err := LoadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("loading json: %v", err)
	}
	if rec.Title != "surface wind" || rec.LonSize != 2 || rec.LatSize != 2 {
		t.Errorf("unexpected record %+v", rec)
	}

	g, err := rec.Grid()
	if err != nil {
		t.Fatalf("building grid: %v", err)
	}
	if g.Domain() != (components.Bounds{MinLon: 100, MinLat: 20, MaxLon: 110, MaxLat: 30}) {
		t.Errorf("unexpected domain %+v", g.Domain())
	}
	mid := g.Sample(components.GeoPoint{Lon: 105, Lat: 25})
	if math.Abs(mid.X-2.5) > eps {
		t.Errorf("expected centre u 2.5, got %f", mid.X)
	}
}

func TestRecordGridRejectsBadData(t *testing.T) {
	rec := &Record{LonSize: 2, LatSize: 2, EndLon: 1, EndLat: 1, Data: [][]float64{{1, 2, 3, 4}}}
	if _, err := rec.Grid(); !errors.Is(err, ErrInvalidFieldData) {
		t.Errorf("expected ErrInvalidFieldData for single component, got %v", err)
	}

	rec.Data = [][]float64{{1, 2, 3, 4}, {1, 2, 3}}
	if _, err := rec.Grid(); !errors.Is(err, ErrInvalidFieldData) {
		t.Errorf("expected ErrInvalidFieldData for length mismatch, got %v", err)
	}
}

func TestRecordGridRejectsOversizedRaster(t *testing.T) {
	rec, err := LoadJSON(strings.NewReader(`{
  "startlon": 0, "startlat": 0, "endlon": 1, "endlat": 1,
  "lonsize": 4294967296, "latsize": 4294967296,
  "data": [[], []]
}`))
	if err != nil {
		t.Fatalf("loading json: %v", err)
	}
	if _, err := rec.Grid(); !errors.Is(err, ErrInvalidFieldData) {
		t.Errorf("expected ErrInvalidFieldData for an oversized raster with no data, got %v", err)
	}
}

func TestCSVRoundtrip(t *testing.T) {
	rec, err := LoadJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rec); err != nil {
		t.Fatalf("writing csv: %v", err)
	}

	back, err := LoadCSV(&buf, rec.Domain())
	if err != nil {
		t.Fatalf("reading csv: %v", err)
	}
	if back.LonSize != 2 || back.LatSize != 2 {
		t.Fatalf("expected 2x2 raster, got %vx%v", back.LonSize, back.LatSize)
	}
	for i, u := range rec.Data[0] {
		if back.Data[0][i] != u {
			t.Errorf("cell %d: expected u %f, got %f", i, u, back.Data[0][i])
		}
	}
	if back.NLon != 10 || back.NLat != 10 {
		t.Errorf("expected 10 degree cells, got %f x %f", back.NLon, back.NLat)
	}
}

func TestLoadCSVRejectsGaps(t *testing.T) {
	data := "col,row,u,v\n0,0,1,1\n1,1,1,1\n"
	_, err := LoadCSV(strings.NewReader(data), components.Bounds{MaxLon: 1, MaxLat: 1})
	if !errors.Is(err, ErrInvalidFieldData) {
		t.Errorf("expected ErrInvalidFieldData, got %v", err)
	}
}

func TestGenerate(t *testing.T) {
	rec := Generate(GenerateOptions{
		Cols:     16,
		Rows:     12,
		Start:    components.GeoPoint{Lon: 70, Lat: 10},
		End:      components.GeoPoint{Lon: 140, Lat: 55},
		MaxSpeed: 20,
		Scale:    2,
		Seed:     3,
	})

	g, err := rec.Grid()
	if err != nil {
		t.Fatalf("generated record is invalid: %v", err)
	}
	if math.Abs(g.MaxSpeed()-20) > 1e-6 {
		t.Errorf("expected max speed scaled to 20, got %f", g.MaxSpeed())
	}
}
