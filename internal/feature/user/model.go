package user

import (
	"time"

	"geo-region-api/internal/domain"
)

type UserModel struct {
	ID      string   `gorm:"primaryKey;type:varchar(36)"`
	Name    string   `gorm:"size:128;not null"`
	Email   string   `gorm:"uniqueIndex;size:255;not null"`
	Address string   `gorm:"size:512"`
	Lat     *float64 `gorm:"column:lat"`
	Lng     *float64 `gorm:"column:lng"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (UserModel) TableName() string { return "users" }

func (m UserModel) ToDomain() domain.User {
	u := domain.User{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Address:   m.Address,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Lat != nil && m.Lng != nil {
		u.Coordinates = &domain.Coordinates{Lat: *m.Lat, Lng: *m.Lng}
	}
	return u
}

func FromDomain(u domain.User) UserModel {
	m := UserModel{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Address:   u.Address,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if u.Coordinates != nil {
		lat, lng := u.Coordinates.Lat, u.Coordinates.Lng
		m.Lat, m.Lng = &lat, &lng
	}
	return m
}

// Columns maps a patch onto column updates. Empty strings are skipped.
func Columns(p domain.UserPatch) map[string]any {
	cols := map[string]any{}
	if p.Name != nil && *p.Name != "" {
		cols["name"] = *p.Name
	}
	if p.Email != nil && *p.Email != "" {
		cols["email"] = *p.Email
	}
	if p.Address != nil && *p.Address != "" {
		cols["address"] = *p.Address
	}
	if p.Coordinates != nil {
		cols["lat"] = p.Coordinates.Lat
		cols["lng"] = p.Coordinates.Lng
	}
	return cols
}
