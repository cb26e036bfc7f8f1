// Package service holds the write orchestrators. Every write runs inside a
// txn.Run unit of work and every operation returns a domain.Result.
package service

import (
	"context"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/geoquery"
	"geo-region-api/internal/txn"
)

// UserStore finders return nil, nil when nothing matches.
type UserStore interface {
	Create(ctx context.Context, sess *txn.Session, u domain.User) (domain.User, error)
	Find(ctx context.Context, sess *txn.Session, offset, limit int) ([]domain.User, int64, error)
	FindByID(ctx context.Context, sess *txn.Session, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, sess *txn.Session, email string) (*domain.User, error)
	Search(ctx context.Context, sess *txn.Session, q string, offset, limit int) ([]domain.User, int64, error)
	Update(ctx context.Context, sess *txn.Session, id string, p domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, sess *txn.Session, id string) (bool, error)
}

type RegionStore interface {
	Create(ctx context.Context, sess *txn.Session, r domain.Region) (domain.Region, error)
	Find(ctx context.Context, sess *txn.Session, offset, limit int) ([]domain.Region, int64, error)
	FindByID(ctx context.Context, sess *txn.Session, id string) (*domain.Region, error)
	FindByFilter(ctx context.Context, sess *txn.Session, f geoquery.Filter, offset, limit int) ([]domain.Region, int64, error)
	FindOrphans(ctx context.Context, sess *txn.Session, offset, limit int) ([]domain.Region, int64, error)
	Update(ctx context.Context, sess *txn.Session, id string, p domain.RegionPatch) (bool, error)
	Delete(ctx context.Context, sess *txn.Session, id string) (bool, error)
}

// LocationResolver converts between a free-text address and coordinates.
// Failures are *domain.Error values with ADDRESS_NOT_FOUND,
// COORDINATES_NOT_FOUND or GEO_PROVIDER_ERROR codes.
type LocationResolver interface {
	CoordinatesFromAddress(ctx context.Context, address string) (domain.Coordinates, error)
	AddressFromCoordinates(ctx context.Context, c domain.Coordinates) (string, error)
}

type Deleted struct{}
