package region

import (
	"time"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/feature/user"
)

type RegionModel struct {
	ID       string          `gorm:"primaryKey;type:varchar(36)"`
	Name     string          `gorm:"size:255;not null"`
	Geometry Geometry        `gorm:"not null"`
	OwnerID  string          `gorm:"type:varchar(36);index;not null"`
	Owner    *user.UserModel `gorm:"foreignKey:OwnerID"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (RegionModel) TableName() string { return "regions" }

// Columns is the select list for reads; geometry comes back as GeoJSON.
var Columns = []string{
	"regions.id",
	"regions.name",
	"ST_AsGeoJSON(regions.geometry) AS geometry",
	"regions.owner_id",
	"regions.created_at",
	"regions.updated_at",
}

func (m RegionModel) ToDomain() domain.Region {
	r := domain.Region{
		ID:        m.ID,
		Name:      m.Name,
		Geometry:  domain.Polygon(m.Geometry),
		OwnerID:   m.OwnerID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Owner != nil {
		o := m.Owner.ToDomain()
		r.Owner = &o
	}
	return r
}

func FromDomain(r domain.Region) RegionModel {
	return RegionModel{
		ID:        r.ID,
		Name:      r.Name,
		Geometry:  Geometry(r.Geometry),
		OwnerID:   r.OwnerID,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Updates maps a patch onto column updates. Empty values are omitted.
func Updates(p domain.RegionPatch) map[string]any {
	cols := map[string]any{}
	if p.Name != nil && *p.Name != "" {
		cols["name"] = *p.Name
	}
	if p.Geometry != nil && len(p.Geometry.Coordinates) > 0 {
		cols["geometry"] = Geometry(*p.Geometry)
	}
	if p.OwnerID != nil && *p.OwnerID != "" {
		cols["owner_id"] = *p.OwnerID
	}
	return cols
}
