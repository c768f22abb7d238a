package postgres

import (
	"fmt"

	"github.com/annotation-microservice/internal/domain"
	"go.uber.org/zap"
)

// spatialPredicates is the SQL fragment set produced from one normalized
// spatial query: one join against the geometry index per predicate group,
// plus the group's WHERE clause. Groups combine conjunctively; a record
// must satisfy every group.
type spatialPredicates struct {
	joins  []string
	wheres []string
	args   []any
}

// predicateBuilder builds the WHERE clause of one predicate kind against
// the aliased geometry index join. Dispatch is a table so a new predicate
// kind is one more entry, not a restructure.
type predicateBuilder func(b *spatialBuilder, alias string, group domain.GeoGroup) (string, bool)

var predicateBuilders = map[domain.PredicateKind]predicateBuilder{
	domain.PredicateLatLong: buildLatLongPredicate,
	domain.PredicateXY:      buildXYPredicate,
	domain.PredicateMapBox:  buildMapBoxPredicate,
	domain.PredicateBox:     buildBoxPredicate,
	domain.PredicateWKT:     buildWKTPredicate,
}

type spatialBuilder struct {
	argIdx int
	args   []any
	logger *zap.Logger
}

// next registers a parameterized argument and returns its placeholder.
func (b *spatialBuilder) next(arg any) string {
	b.args = append(b.args, arg)
	placeholder := fmt.Sprintf("$%d", b.argIdx)
	b.argIdx++
	return placeholder
}

// buildSpatialPredicates translates a normalized query into joins and
// clauses against resource_geometries, aliased g1..gN. The join always
// equates the resource id; a property-scoped group additionally equates
// the property id, an unscoped one matches any geometry property of the
// resource.
func buildSpatialPredicates(
	query domain.SpatialQuery,
	resourceColumn string,
	startArg int,
	logger *zap.Logger,
) spatialPredicates {
	b := &spatialBuilder{argIdx: startArg, logger: logger}
	out := spatialPredicates{}

	for i, group := range query.Groups {
		build, ok := predicateBuilders[group.Kind()]
		if !ok {
			continue
		}

		alias := fmt.Sprintf("g%d", i+1)
		where, ok := build(b, alias, group)
		if !ok {
			continue
		}

		join := fmt.Sprintf(
			"JOIN resource_geometries %s ON %s.resource_id = %s",
			alias, alias, resourceColumn,
		)
		if group.Property > 0 {
			join += fmt.Sprintf(" AND %s.property_id = %s", alias, b.next(group.Property))
		}

		out.joins = append(out.joins, join)
		out.wheres = append(out.wheres, where)
	}

	out.args = b.args
	return out
}

// buildLatLongPredicate emits a geodesic distance-within-radius check.
// The point is a parameterized literal, never interpolated.
func buildLatLongPredicate(b *spatialBuilder, alias string, group domain.GeoGroup) (string, bool) {
	radiusMeters := group.Radius
	if group.Unit == domain.UnitKilometers {
		radiusMeters = group.Radius * 1000
	}

	lon := b.next(group.LatLong.Lon)
	lat := b.next(group.LatLong.Lat)
	radius := b.next(radiusMeters)

	return fmt.Sprintf(
		"ST_DWithin(%s.geometry::geography, ST_SetSRID(ST_MakePoint(%s, %s), 4326)::geography, %s)",
		alias, lon, lat, radius,
	), true
}

// buildWKTPredicate emits a containment check against the user geometry,
// kept as submitted and parsed server-side.
func buildWKTPredicate(b *spatialBuilder, alias string, group domain.GeoGroup) (string, bool) {
	wkt := b.next(group.WKT)
	return fmt.Sprintf(
		"ST_Contains(ST_GeomFromText(%s, 4326), %s.geometry)",
		wkt, alias,
	), true
}

// Pixel-space and box predicates are dispatched but not yet implemented;
// the groups are skipped so they impose no constraint.
// TODO: pixel-space distance needs the flat-geometry index column before
// these can land.

func buildXYPredicate(b *spatialBuilder, alias string, group domain.GeoGroup) (string, bool) {
	b.logger.Warn("xy spatial predicate not supported yet, group skipped")
	return "", false
}

func buildMapBoxPredicate(b *spatialBuilder, alias string, group domain.GeoGroup) (string, bool) {
	b.logger.Warn("mapbox spatial predicate not supported yet, group skipped")
	return "", false
}

func buildBoxPredicate(b *spatialBuilder, alias string, group domain.GeoGroup) (string, bool) {
	b.logger.Warn("box spatial predicate not supported yet, group skipped")
	return "", false
}
