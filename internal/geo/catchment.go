// Package geo builds the catchment geometry shown on the map preview.
package geo

import (
	"math"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/sells-group/feasibility-cli/internal/model"
)

// Metres per degree near the equator. Longitude is scaled by cos(lat).
const (
	metresPerDegLat = 110_540.0
	metresPerDegLon = 111_320.0
)

// DefaultSegments is the number of ring vertices used to approximate a circle.
const DefaultSegments = 64

// PreviewZoom is the map zoom level used for a catchment preview.
const PreviewZoom = 15

// Catchment returns a WGS84 polygon approximating a circle of radiusM metres
// around (lat, lon). Coordinates are (lon, lat). The ring is closed.
func Catchment(lat, lon float64, radiusM, segments int) (*geom.Polygon, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return nil, eris.Errorf("geo: coordinates out of range (%f, %f)", lat, lon)
	}
	if radiusM <= 0 {
		return nil, eris.Errorf("geo: radius must be positive, got %d", radiusM)
	}
	if segments < 3 {
		segments = DefaultSegments
	}

	cosLat := math.Cos(lat * math.Pi / 180)
	dLat := float64(radiusM) / metresPerDegLat
	// At the poles cos(lat) vanishes and the span would grow without bound.
	dLon := math.Min(float64(radiusM)/(metresPerDegLon*cosLat+1e-6), 180)

	flat := make([]float64, 0, 2*(segments+1))
	for i := 0; i < segments; i++ {
		theta := 2 * math.Pi * float64(i) / float64(segments)
		flat = append(flat,
			clamp(lon+dLon*math.Cos(theta), -180, 180),
			clamp(lat+dLat*math.Sin(theta), -90, 90),
		)
	}
	flat = append(flat, flat[0], flat[1])

	return geom.NewPolygonFlat(geom.XY, flat, []int{len(flat)}).SetSRID(4326), nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// AreaKM2 is the area of a circle with the given radius in square kilometres.
func AreaKM2(radiusM int) float64 {
	r := float64(radiusM) / 1000
	return math.Pi * r * r
}

// Preview builds the map preview payload for a scenario location.
func Preview(lat, lon float64, radiusM int) (*model.MapPreview, error) {
	poly, err := Catchment(lat, lon, radiusM, DefaultSegments)
	if err != nil {
		return nil, err
	}

	data, err := geojson.Marshal(poly)
	if err != nil {
		return nil, eris.Wrap(err, "geo: encode catchment")
	}

	b := poly.Bounds()
	return &model.MapPreview{
		Lat:       lat,
		Lon:       lon,
		RadiusM:   radiusM,
		Zoom:      PreviewZoom,
		Bounds:    [4]float64{b.Min(0), b.Min(1), b.Max(0), b.Max(1)},
		Catchment: data,
	}, nil
}
