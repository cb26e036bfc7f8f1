package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"geo-region-api/internal/domain"
)

var (
	errOneLocation  = errors.New("provide exactly one of address or coordinates")
	errInvalidEmail = errors.New("email must be a valid address")
)

var validate = validator.New()

// normalizeEmail trims and lowercases e, then checks its format.
func normalizeEmail(e string) (string, error) {
	e = strings.ToLower(strings.TrimSpace(e))
	if err := validate.Var(e, "required,email,max=255"); err != nil {
		return "", errInvalidEmail
	}
	return e, nil
}

type pageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1"`
}

func (q pageQuery) pagination() domain.Pagination {
	return domain.Pagination{Page: q.Page, Limit: q.Limit}
}

type coordinatesDTO struct {
	Lat *float64 `json:"lat" binding:"required,min=-90,max=90"`
	Lng *float64 `json:"lng" binding:"required,min=-180,max=180"`
}

func (c *coordinatesDTO) toDomain() *domain.Coordinates {
	if c == nil {
		return nil
	}
	return &domain.Coordinates{Lat: *c.Lat, Lng: *c.Lng}
}

type createUserReq struct {
	Name        string          `json:"name" binding:"required,max=128"`
	Email       string          `json:"email" binding:"required"`
	Address     string          `json:"address" binding:"omitempty,max=512"`
	Coordinates *coordinatesDTO `json:"coordinates"`
}

func (r *createUserReq) Validate() error {
	r.Name, r.Address = strings.TrimSpace(r.Name), strings.TrimSpace(r.Address)
	if r.Name == "" {
		return errors.New("name must not be blank")
	}
	email, err := normalizeEmail(r.Email)
	if err != nil {
		return err
	}
	r.Email = email
	if (r.Address == "") == (r.Coordinates == nil) {
		return errOneLocation
	}
	return nil
}

func (r *createUserReq) toDomain() domain.NewUser {
	return domain.NewUser{
		Name:        r.Name,
		Email:       r.Email,
		Address:     r.Address,
		Coordinates: r.Coordinates.toDomain(),
	}
}

type updateUserReq struct {
	Name        *string         `json:"name" binding:"omitempty,min=1,max=128"`
	Email       *string         `json:"email"`
	Address     *string         `json:"address" binding:"omitempty,min=1,max=512"`
	Coordinates *coordinatesDTO `json:"coordinates"`
}

func (r *updateUserReq) Validate() error {
	if r.Email == nil {
		return nil
	}
	email, err := normalizeEmail(*r.Email)
	if err != nil {
		return err
	}
	r.Email = &email
	return nil
}

func (r *updateUserReq) toDomain() domain.UserPatch {
	return domain.UserPatch{Name: r.Name, Email: r.Email, Address: r.Address, Coordinates: r.Coordinates.toDomain()}
}

type polygonDTO struct {
	Type        string        `json:"type" binding:"required"`
	Coordinates [][][]float64 `json:"coordinates" binding:"required"`
}

func (p polygonDTO) toDomain() domain.Polygon {
	return domain.Polygon{Type: p.Type, Coordinates: p.Coordinates}
}

type createRegionReq struct {
	Name     string     `json:"name" binding:"required,max=255"`
	Geometry polygonDTO `json:"geometry"`
	OwnerID  string     `json:"ownerId" binding:"required,uuid"`
}

func (r *createRegionReq) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name must not be blank")
	}
	return r.Geometry.toDomain().Validate()
}

func (r *createRegionReq) toDomain() domain.NewRegion {
	return domain.NewRegion{Name: strings.TrimSpace(r.Name), Geometry: r.Geometry.toDomain(), OwnerID: r.OwnerID}
}

type updateRegionReq struct {
	Name     *string         `json:"name" binding:"omitempty,max=255"`
	Geometry *domain.Polygon `json:"geometry"`
	OwnerID  *string         `json:"ownerId" binding:"omitempty,uuid"`
}

// Validate checks a supplied geometry; an empty one counts as omitted.
func (r *updateRegionReq) Validate() error {
	if r.Geometry == nil || len(r.Geometry.Coordinates) == 0 {
		return nil
	}
	return r.Geometry.Validate()
}

func (r *updateRegionReq) toDomain() domain.RegionPatch {
	p := domain.RegionPatch{Name: r.Name, OwnerID: r.OwnerID}
	if r.Geometry != nil && len(r.Geometry.Coordinates) > 0 {
		p.Geometry = r.Geometry
	}
	return p
}

type pointQuery struct {
	Lat string `form:"lat" binding:"required"`
	Lng string `form:"lng" binding:"required"`
	pageQuery
}

type distanceQuery struct {
	Lat      string `form:"lat" binding:"required"`
	Lng      string `form:"lng" binding:"required"`
	Distance string `form:"distance" binding:"required"`
	pageQuery
}

type searchQuery struct {
	Q string `form:"q" binding:"omitempty,max=128"`
	pageQuery
}

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}
