package domain

import (
	"errors"
	"fmt"
	"time"
)

const GeometryPolygon = "Polygon"

// Polygon is a GeoJSON polygon. Positions are [lng, lat].
type Polygon struct {
	Type        string        `json:"type"`
	Coordinates [][][]float64 `json:"coordinates"`
}

var (
	ErrPolygonType       = errors.New("geometry type must be Polygon")
	ErrPolygonEmpty      = errors.New("polygon must have at least one ring")
	ErrRingTooShort      = errors.New("each ring of the polygon must have at least 4 points")
	ErrRingNotClosed     = errors.New("the first and last points of each ring must be the same")
	ErrPositionMalformed = errors.New("each position must be a [lng, lat] pair")
)

// Validate checks ring closure, ring length and lng/lat bounds.
func (p Polygon) Validate() error {
	if p.Type != GeometryPolygon {
		return ErrPolygonType
	}
	if len(p.Coordinates) == 0 {
		return ErrPolygonEmpty
	}
	for i, ring := range p.Coordinates {
		if len(ring) < 4 {
			return fmt.Errorf("ring %d: %w", i, ErrRingTooShort)
		}
		for j, pos := range ring {
			if len(pos) != 2 {
				return fmt.Errorf("ring %d position %d: %w", i, j, ErrPositionMalformed)
			}
			if pos[0] < -180 || pos[0] > 180 {
				return fmt.Errorf("ring %d position %d: longitude must be between -180 and 180", i, j)
			}
			if pos[1] < -90 || pos[1] > 90 {
				return fmt.Errorf("ring %d position %d: latitude must be between -90 and 90", i, j)
			}
		}
		first, last := ring[0], ring[len(ring)-1]
		if first[0] != last[0] || first[1] != last[1] {
			return fmt.Errorf("ring %d: %w", i, ErrRingNotClosed)
		}
	}
	return nil
}

type Region struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Geometry  Polygon   `json:"geometry"`
	OwnerID   string    `json:"ownerId"`
	Owner     *User     `json:"owner,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type NewRegion struct {
	Name     string
	Geometry Polygon
	OwnerID  string
}

// RegionPatch carries a partial update. Nil or empty fields are omitted;
// an omitted OwnerID keeps the current owner.
type RegionPatch struct {
	Name     *string
	Geometry *Polygon
	OwnerID  *string
}
