package handler

import (
	"context"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/service"
)

type UserService interface {
	Create(ctx context.Context, in domain.NewUser) domain.Result[domain.User]
	Update(ctx context.Context, id string, p domain.UserPatch) domain.Result[domain.User]
	Delete(ctx context.Context, id string) domain.Result[service.Deleted]
	Get(ctx context.Context, id string) domain.Result[domain.User]
	List(ctx context.Context, p domain.Pagination) domain.Result[domain.Page[domain.User]]
}

type RegionService interface {
	Create(ctx context.Context, in domain.NewRegion) domain.Result[domain.Region]
	Update(ctx context.Context, id string, p domain.RegionPatch) domain.Result[domain.Region]
	Delete(ctx context.Context, id string) domain.Result[service.Deleted]
	Get(ctx context.Context, id string) domain.Result[domain.Region]
	List(ctx context.Context, p domain.Pagination) domain.Result[domain.Page[domain.Region]]
	ByPoint(ctx context.Context, q service.PointQuery) domain.Result[domain.Page[domain.Region]]
	ByDistance(ctx context.Context, q service.DistanceQuery) domain.Result[domain.Page[domain.Region]]
}

type AdminService interface {
	Login(ctx context.Context, username, password string) domain.Result[service.Token]
	SearchUsers(ctx context.Context, q string, p domain.Pagination) domain.Result[domain.Page[domain.User]]
	OrphanRegions(ctx context.Context, p domain.Pagination) domain.Result[domain.Page[domain.Region]]
}
