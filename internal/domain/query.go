package domain

import "encoding/json"

// RadiusUnit values accepted for geographic radius filters.
const (
	UnitKilometers = "km"
	UnitMeters     = "m"
)

// MaxMapRadiusKm bounds a geographic search radius. Anything close to half
// the Earth's circumference selects everything anyway.
const MaxMapRadiusKm = 20038

type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundingBox is a lat/long box normalized to min/max corners.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// PixelPoint is a point in unconstrained image (pixel) space.
type PixelPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PixelBox is a box in image space, two distinct corners.
type PixelBox struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Right  float64 `json:"right"`
	Bottom float64 `json:"bottom"`
}

// GeoGroup is one canonical spatial predicate group. After normalization
// exactly one of the predicate fields is populated; Property optionally
// scopes the group to a single geometry property (0 means unscoped).
type GeoGroup struct {
	LatLong  *Point       `json:"latlong,omitempty"`
	XY       *PixelPoint  `json:"xy,omitempty"`
	Radius   float64      `json:"radius,omitempty"`
	Unit     string       `json:"unit,omitempty"`
	MapBox   *BoundingBox `json:"mapbox,omitempty"`
	Box      *PixelBox    `json:"box,omitempty"`
	WKT      string       `json:"wkt,omitempty"`
	Property int64        `json:"property,omitempty"`
}

// Kind reports which predicate the group carries.
func (g GeoGroup) Kind() PredicateKind {
	switch {
	case g.LatLong != nil:
		return PredicateLatLong
	case g.XY != nil:
		return PredicateXY
	case g.MapBox != nil:
		return PredicateMapBox
	case g.Box != nil:
		return PredicateBox
	case g.WKT != "":
		return PredicateWKT
	default:
		return PredicateNone
	}
}

type PredicateKind int

const (
	PredicateNone PredicateKind = iota
	PredicateLatLong
	PredicateXY
	PredicateMapBox
	PredicateBox
	PredicateWKT
)

func (k PredicateKind) String() string {
	switch k {
	case PredicateLatLong:
		return "latlong"
	case PredicateXY:
		return "xy"
	case PredicateMapBox:
		return "mapbox"
	case PredicateBox:
		return "box"
	case PredicateWKT:
		return "wkt"
	default:
		return "none"
	}
}

// SpatialQuery is the canonical normalized form of a raw "geo" filter.
// Single records whether the raw input was one bare group rather than a
// list, so serialization round-trips the input shape.
type SpatialQuery struct {
	Groups []GeoGroup
	Single bool
}

// MarshalJSON emits one unwrapped group when the input was a single group,
// a list otherwise.
func (q SpatialQuery) MarshalJSON() ([]byte, error) {
	if q.Single && len(q.Groups) == 1 {
		return json.Marshal(q.Groups[0])
	}
	return json.Marshal(q.Groups)
}
