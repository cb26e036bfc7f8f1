package region

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"geo-region-api/internal/domain"
)

// Geometry is a polygon column in SRID 4326. It is written from GeoJSON
// and must be selected through ST_AsGeoJSON to be scanned back.
type Geometry domain.Polygon

func (Geometry) GormDataType() string { return "geometry" }

func (Geometry) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if dialect(db) == "mysql" {
		return "POLYGON SRID 4326"
	}
	return "geometry(Polygon,4326)"
}

func (g Geometry) GormValue(_ context.Context, db *gorm.DB) clause.Expr {
	b, err := json.Marshal(domain.Polygon(g))
	if err != nil {
		_ = db.AddError(err)
		return clause.Expr{SQL: "NULL"}
	}
	if dialect(db) == "mysql" {
		return clause.Expr{SQL: "ST_GeomFromGeoJSON(?)", Vars: []any{string(b)}}
	}
	return clause.Expr{SQL: "ST_SetSRID(ST_GeomFromGeoJSON(?), 4326)", Vars: []any{string(b)}}
}

func (g *Geometry) Scan(v any) error {
	var b []byte
	switch t := v.(type) {
	case nil:
		*g = Geometry{}
		return nil
	case []byte:
		b = t
	case string:
		b = []byte(t)
	default:
		return fmt.Errorf("geometry: unsupported scan type %T", v)
	}
	var p domain.Polygon
	if err := json.Unmarshal(b, &p); err != nil {
		return fmt.Errorf("geometry: %w", err)
	}
	*g = Geometry(p)
	return nil
}

func dialect(db *gorm.DB) string {
	if db == nil || db.Config == nil || db.Dialector == nil {
		return ""
	}
	return db.Dialector.Name()
}
