package usecase

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/annotation-microservice/internal/domain"
	"github.com/annotation-microservice/internal/domain/repository"
	"github.com/annotation-microservice/internal/pkg/utils"
	"go.uber.org/zap"
)

// geoKey is the query key carrying the raw spatial filter.
const geoKey = "geo"

// QueryNormalizer canonicalizes raw, loosely-shaped spatial filters into
// domain.SpatialQuery. It never fails: anything that does not validate is
// dropped, since a spatial filter is advisory, not a required field.
//
// Property-term lookups are memoized per process and shared through the
// cache repository across processes; the catalog changes rarely enough
// that a cold miss simply re-queries.
type QueryNormalizer struct {
	props  repository.PropertyRepository
	cache  repository.CacheRepository
	ttl    time.Duration
	logger *zap.Logger

	mu   sync.Mutex
	memo map[string]int64
}

func NewQueryNormalizer(
	props repository.PropertyRepository,
	cache repository.CacheRepository,
	propertyCacheTTL time.Duration,
	logger *zap.Logger,
) *QueryNormalizer {
	return &QueryNormalizer{
		props:  props,
		cache:  cache,
		ttl:    propertyCacheTTL,
		logger: logger,
		memo:   make(map[string]int64),
	}
}

// groupResolver validates one predicate kind and fills the canonical group.
// Resolvers run in priority order with early exit; adding a predicate kind
// is one more entry in the table.
type groupResolver struct {
	kind    domain.PredicateKind
	resolve func(raw map[string]any, out *domain.GeoGroup) bool
}

func (n *QueryNormalizer) resolvers() []groupResolver {
	return []groupResolver{
		{domain.PredicateLatLong, resolveLatLong},
		{domain.PredicateXY, resolveXY},
		{domain.PredicateMapBox, resolveMapBox},
		{domain.PredicateBox, resolveBox},
		{domain.PredicateWKT, resolveWKT},
	}
}

// Normalize replaces the raw "geo" key of the query with its canonical
// form, or removes it entirely when no predicate group survives. Absence
// of the key is the no-spatial-filter signal, not an empty list.
func (n *QueryNormalizer) Normalize(ctx context.Context, query map[string]any) map[string]any {
	raw, ok := query[geoKey]
	if !ok {
		return query
	}

	rawGroups, single := splitGroups(raw)

	groups := make([]domain.GeoGroup, 0, len(rawGroups))
	for _, rg := range rawGroups {
		if group, ok := n.normalizeGroup(ctx, rg); ok {
			groups = append(groups, group)
		}
	}

	if len(groups) == 0 {
		delete(query, geoKey)
		return query
	}

	query[geoKey] = domain.SpatialQuery{Groups: groups, Single: single}
	return query
}

// NormalizeGeo is a convenience wrapper for callers holding only the raw
// geo value.
func (n *QueryNormalizer) NormalizeGeo(ctx context.Context, raw any) (domain.SpatialQuery, bool) {
	query := n.Normalize(ctx, map[string]any{geoKey: raw})
	v, ok := query[geoKey]
	if !ok {
		return domain.SpatialQuery{}, false
	}
	return v.(domain.SpatialQuery), true
}

func (n *QueryNormalizer) normalizeGroup(ctx context.Context, raw map[string]any) (domain.GeoGroup, bool) {
	var group domain.GeoGroup

	matched := false
	for _, r := range n.resolvers() {
		if r.resolve(raw, &group) {
			matched = true
			break
		}
	}
	if !matched {
		return domain.GeoGroup{}, false
	}

	// Property scope is optional; an unresolvable scope means the group
	// searches across all geometry-typed properties.
	if term, ok := raw["property"]; ok {
		group.Property = n.resolveProperty(ctx, term)
	}

	return group, true
}

// splitGroups detects whether the raw value is one group or a positional
// list of groups. A map counts as a list when its keys are all numeric
// indexes; anything else map-shaped is a single group.
func splitGroups(raw any) ([]map[string]any, bool) {
	switch v := raw.(type) {
	case []any:
		groups := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				groups = append(groups, m)
			}
		}
		return groups, false
	case map[string]any:
		if indexed, ok := numericKeyed(v); ok {
			return indexed, false
		}
		return []map[string]any{v}, true
	default:
		return nil, false
	}
}

func numericKeyed(m map[string]any) ([]map[string]any, bool) {
	type entry struct {
		idx   int
		group map[string]any
	}
	entries := make([]entry, 0, len(m))
	for k, v := range m {
		idx, err := strconv.Atoi(k)
		if err != nil {
			return nil, false
		}
		group, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		entries = append(entries, entry{idx, group})
	}
	if len(entries) == 0 {
		return nil, false
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].idx < entries[j].idx })
	groups := make([]map[string]any, 0, len(entries))
	for _, e := range entries {
		groups = append(groups, e.group)
	}
	return groups, true
}

func resolveLatLong(raw map[string]any, out *domain.GeoGroup) bool {
	coords := parseFloats(raw["latlong"])
	if len(coords) != 2 {
		return false
	}
	lat, lon := coords[0], coords[1]
	if !utils.ValidateCoordinates(lat, lon) {
		return false
	}

	radius, ok := parseFloat(raw["radius"])
	if !ok || !utils.ValidateMapRadius(radius) {
		return false
	}

	unit, _ := raw["unit"].(string)
	if unit != domain.UnitKilometers && unit != domain.UnitMeters {
		unit = domain.UnitKilometers
	}

	out.LatLong = &domain.Point{Lat: lat, Lon: lon}
	out.Radius = radius
	out.Unit = unit
	return true
}

func resolveXY(raw map[string]any, out *domain.GeoGroup) bool {
	coords := parseFloats(raw["xy"])
	if len(coords) != 2 {
		return false
	}

	radius, ok := parseFloat(raw["radius"])
	if !ok || !utils.ValidatePixelRadius(radius) {
		return false
	}

	out.XY = &domain.PixelPoint{X: coords[0], Y: coords[1]}
	out.Radius = radius
	return true
}

func resolveMapBox(raw map[string]any, out *domain.GeoGroup) bool {
	coords := parseFloats(raw["mapbox"])
	if len(coords) != 4 {
		return false
	}
	lat1, lon1, lat2, lon2 := coords[0], coords[1], coords[2], coords[3]
	if !utils.ValidateCoordinates(lat1, lon1) || !utils.ValidateCoordinates(lat2, lon2) {
		return false
	}
	// Corners must differ in both axes.
	if lat1 == lat2 || lon1 == lon2 {
		return false
	}

	out.MapBox = &domain.BoundingBox{
		MinLat: min(lat1, lat2),
		MinLon: min(lon1, lon2),
		MaxLat: max(lat1, lat2),
		MaxLon: max(lon1, lon2),
	}
	return true
}

func resolveBox(raw map[string]any, out *domain.GeoGroup) bool {
	coords := parseFloats(raw["box"])
	if len(coords) != 4 {
		return false
	}
	left, top, right, bottom := coords[0], coords[1], coords[2], coords[3]
	if left == right || top == bottom {
		return false
	}

	out.Box = &domain.PixelBox{Left: left, Top: top, Right: right, Bottom: bottom}
	return true
}

func resolveWKT(raw map[string]any, out *domain.GeoGroup) bool {
	s, _ := raw["wkt"].(string)
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	// Validate by a full parse but keep the original trimmed string, so
	// the user's formatting and precision survive round-trips.
	if _, err := domain.ParseWKT(s); err != nil {
		return false
	}

	out.WKT = s
	return true
}

// resolveProperty turns a property scope ("prefix:localname" term or a
// numeric id) into a property id, 0 when unresolvable.
func (n *QueryNormalizer) resolveProperty(ctx context.Context, raw any) int64 {
	// The numeric-id path must not reuse parseFloat: its digit stripping
	// would turn a term like "bibo:isbn10" into the id 10. Only a number
	// type or a string that is entirely numeric counts as a direct id.
	switch v := raw.(type) {
	case float64:
		if v > 0 && v == float64(int64(v)) {
			return int64(v)
		}
	case float32:
		if v > 0 && float64(v) == float64(int64(v)) {
			return int64(v)
		}
	case int:
		if v > 0 {
			return int64(v)
		}
	case int64:
		if v > 0 {
			return v
		}
	case string:
		if id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			if id > 0 {
				return id
			}
			return 0
		}
	}

	term, _ := raw.(string)
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || !strings.Contains(term, ":") {
		return 0
	}

	n.mu.Lock()
	if id, ok := n.memo[term]; ok {
		n.mu.Unlock()
		return id
	}
	n.mu.Unlock()

	if id := n.cachedPropertyID(ctx, term); id > 0 {
		n.remember(term, id)
		return id
	}

	id, err := n.props.ResolvePropertyID(ctx, term)
	if err != nil {
		n.logger.Warn("Failed to resolve property term", zap.String("term", term), zap.Error(err))
		return 0
	}
	if id == 0 {
		return 0
	}

	n.remember(term, id)
	if n.cache != nil {
		if err := n.cache.Set(ctx, propertyCacheKey(term), []byte(strconv.FormatInt(id, 10)), n.ttl); err != nil {
			n.logger.Debug("Failed to cache property id", zap.String("term", term), zap.Error(err))
		}
	}
	return id
}

func (n *QueryNormalizer) cachedPropertyID(ctx context.Context, term string) int64 {
	if n.cache == nil {
		return 0
	}
	data, err := n.cache.Get(ctx, propertyCacheKey(term))
	if err != nil || data == nil {
		return 0
	}
	id, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (n *QueryNormalizer) remember(term string, id int64) {
	n.mu.Lock()
	n.memo[term] = id
	n.mu.Unlock()
}

func propertyCacheKey(term string) string {
	return "prop:" + term
}

// parseFloats accepts the two raw encodings of a numeric field: an array
// (possibly nested, e.g. a 2x2 corner pair) or a single string with values
// separated by whitespace runs, non-numeric characters stripped first.
func parseFloats(raw any) []float64 {
	switch v := raw.(type) {
	case nil:
		return nil
	case []any:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			out = append(out, parseFloats(item)...)
		}
		return out
	case []string:
		out := make([]float64, 0, len(v))
		for _, item := range v {
			out = append(out, parseFloats(item)...)
		}
		return out
	case string:
		fields := strings.Fields(stripNonNumeric(v))
		out := make([]float64, 0, len(fields))
		for _, f := range fields {
			n, err := strconv.ParseFloat(f, 64)
			if err != nil {
				continue
			}
			out = append(out, n)
		}
		return out
	default:
		if f, ok := parseFloat(raw); ok {
			return []float64{f}
		}
		return nil
	}
}

func parseFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		n, err := strconv.ParseFloat(strings.TrimSpace(stripNonNumeric(v)), 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// stripNonNumeric replaces everything but digits, dots, minus signs and
// whitespace with spaces, so "41.38,2.17" and "41.38 2.17" parse alike.
func stripNonNumeric(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(' ')
		default:
			b.WriteRune(' ')
		}
	}
	return b.String()
}
