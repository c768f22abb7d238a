package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// DefaultSRID is WGS84, the reference system used for geographic targets.
const DefaultSRID = 4326

// Geometry is a parsed geometric value. It is immutable once constructed:
// build it through ParseWKT, never by hand.
type Geometry struct {
	Shape orb.Geometry
	SRID  int
}

// ParseWKT parses a WKT string into a Geometry. An optional EWKT prefix
// ("SRID=4326;POINT (...)") is recognized and stripped. Malformed input
// returns an error, never a degenerate shape.
func ParseWKT(s string) (Geometry, error) {
	body, srid := StripSRID(s)
	if strings.TrimSpace(body) == "" {
		return Geometry{}, fmt.Errorf("empty WKT value")
	}

	shape, err := wkt.Unmarshal(strings.TrimSpace(body))
	if err != nil {
		return Geometry{}, fmt.Errorf("invalid WKT %q: %w", s, err)
	}

	return Geometry{Shape: shape, SRID: srid}, nil
}

// StripSRID splits an optional EWKT srid prefix from a WKT string. The prefix
// is delimited by the first semicolon and detected by a case-insensitive
// "srid" substring, matching how stored target values are prefixed.
func StripSRID(s string) (string, int) {
	idx := strings.Index(s, ";")
	if idx < 0 {
		return s, 0
	}

	prefix := s[:idx]
	if !strings.Contains(strings.ToLower(prefix), "srid") {
		return s, 0
	}

	srid := 0
	if eq := strings.Index(prefix, "="); eq >= 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(prefix[eq+1:])); err == nil {
			srid = n
		}
	}
	return s[idx+1:], srid
}

// WKT serializes the geometry back to WKT, without any srid prefix.
func (g Geometry) WKT() string {
	return wkt.MarshalString(g.Shape)
}

// GeoJSON serializes the geometry to a GeoJSON geometry object.
func (g Geometry) GeoJSON() ([]byte, error) {
	data, err := json.Marshal(geojson.NewGeometry(g.Shape))
	if err != nil {
		return nil, fmt.Errorf("marshal geometry: %w", err)
	}
	return data, nil
}

// Type returns the geometry type name ("Point", "Polygon", ...).
func (g Geometry) Type() string {
	return g.Shape.GeoJSONType()
}
