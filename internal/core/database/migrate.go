package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"geo-region-api/internal/feature/region"
	"geo-region-api/internal/feature/user"
	"geo-region-api/internal/geoquery"
)

const (
	spatialIndex   = "idx_regions_geometry"
	geographyIndex = "idx_regions_geography"
)

type indexDDL struct{ name, sql string }

// Dialect maps the connection to the spatial SQL flavour.
func Dialect(db *gorm.DB) geoquery.Dialect {
	if db.Dialector.Name() == "mysql" {
		return geoquery.MySQL
	}
	return geoquery.Postgres
}

// Migrate creates the tables and the spatial indexes on regions.geometry.
// On postgres the postgis extension is created first.
func Migrate(db *gorm.DB, l *zap.Logger) error {
	d := Dialect(db)
	if d == geoquery.Postgres {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS postgis").Error; err != nil {
			return fmt.Errorf("create postgis extension: %w", err)
		}
	}
	if err := db.AutoMigrate(&user.UserModel{}, &region.RegionModel{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, ix := range spatialIndexes(d) {
		if db.Migrator().HasIndex(&region.RegionModel{}, ix.name) {
			continue
		}
		if err := db.Exec(ix.sql).Error; err != nil {
			return fmt.Errorf("create index %s: %w", ix.name, err)
		}
		l.Info("spatial index created", zap.String("index", ix.name), zap.String("dialect", string(d)))
	}
	return nil
}

// spatialIndexes returns the indexes the spatial filters rely on. Distance
// queries on postgres compare geography values, which the plain geometry
// GIST index cannot serve, so an expression index on the cast is added.
func spatialIndexes(d geoquery.Dialect) []indexDDL {
	if d == geoquery.MySQL {
		return []indexDDL{{spatialIndex, "CREATE SPATIAL INDEX " + spatialIndex + " ON regions (geometry)"}}
	}
	return []indexDDL{
		{spatialIndex, "CREATE INDEX IF NOT EXISTS " + spatialIndex + " ON regions USING GIST (geometry)"},
		{geographyIndex, "CREATE INDEX IF NOT EXISTS " + geographyIndex + " ON regions USING GIST ((geometry::geography))"},
	}
}
