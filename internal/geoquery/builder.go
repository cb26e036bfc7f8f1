// Package geoquery turns point and distance requests into store-native
// spatial predicates. Geometry math is left to the database.
package geoquery

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gorm.io/gorm/clause"

	"geo-region-api/internal/domain"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
)

// Point is a WGS84 position.
type Point struct {
	Lat float64
	Lng float64
}

// Filter is a where predicate over the geometry column plus an optional
// ordering. Near queries order by increasing distance.
type Filter struct {
	Where clause.Expr
	Order *clause.Expr
}

type Builder struct {
	Dialect Dialect
	Column  string // defaults to "geometry"
}

func NewBuilder(d Dialect) Builder { return Builder{Dialect: d, Column: "geometry"} }

func (b Builder) col() string {
	if b.Column == "" {
		return "geometry"
	}
	return b.Column
}

// ByPoint matches stored geometries that intersect (contain) p.
func (b Builder) ByPoint(p Point) Filter {
	pt, vars := b.point(p)
	return Filter{Where: clause.Expr{
		SQL:  fmt.Sprintf("ST_Intersects(%s, %s)", b.col(), pt),
		Vars: vars,
	}}
}

// ByDistance matches stored geometries within meters of p, nearest first.
func (b Builder) ByDistance(p Point, meters float64) Filter {
	pt, vars := b.point(p)
	switch b.Dialect {
	case MySQL:
		dist := fmt.Sprintf("ST_Distance(%s, %s)", b.col(), pt)
		return Filter{
			Where: clause.Expr{SQL: dist + " <= ?", Vars: append(append([]any{}, vars...), meters)},
			Order: &clause.Expr{SQL: dist, Vars: vars},
		}
	default:
		return Filter{
			Where: clause.Expr{
				SQL:  fmt.Sprintf("ST_DWithin(%s::geography, %s::geography, ?)", b.col(), pt),
				Vars: append(append([]any{}, vars...), meters),
			},
			Order: &clause.Expr{
				SQL:  fmt.Sprintf("ST_Distance(%s::geography, %s::geography)", b.col(), pt),
				Vars: vars,
			},
		}
	}
}

// point renders p longitude first, as the spatial functions expect.
func (b Builder) point(p Point) (string, []any) {
	switch b.Dialect {
	case MySQL:
		wkt := "POINT(" + formatFloat(p.Lng) + " " + formatFloat(p.Lat) + ")"
		return "ST_GeomFromText(?, 4326, 'axis-order=long-lat')", []any{wkt}
	default:
		return "ST_SetSRID(ST_MakePoint(?, ?), 4326)", []any{p.Lng, p.Lat}
	}
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// ParsePoint parses string query input. Anything that is not a finite
// in-range number is an INVALID_QUERY error rather than a NaN in the filter.
func ParsePoint(lat, lng string) (Point, error) {
	la, err := parseFinite("lat", lat)
	if err != nil {
		return Point{}, err
	}
	lo, err := parseFinite("lng", lng)
	if err != nil {
		return Point{}, err
	}
	if la < -90 || la > 90 {
		return Point{}, invalid("lat must be between -90 and 90")
	}
	if lo < -180 || lo > 180 {
		return Point{}, invalid("lng must be between -180 and 180")
	}
	return Point{Lat: la, Lng: lo}, nil
}

// ParseDistance parses a point plus a positive distance in meters.
func ParseDistance(lat, lng, distance string) (Point, float64, error) {
	p, err := ParsePoint(lat, lng)
	if err != nil {
		return Point{}, 0, err
	}
	d, err := parseFinite("distance", distance)
	if err != nil {
		return Point{}, 0, err
	}
	if d <= 0 {
		return Point{}, 0, invalid("distance must be a positive number")
	}
	return p, d, nil
}

func parseFinite(name, raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, invalid(name + " is required")
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, invalid(fmt.Sprintf("%s must be a number, got %q", name, raw))
	}
	return v, nil
}

func invalid(msg string) error { return domain.NewError(domain.CodeInvalidQuery, msg) }
