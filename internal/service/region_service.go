package service

import (
	"context"

	"go.uber.org/zap"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/geoquery"
	"geo-region-api/internal/txn"
)

type RegionService struct {
	regions RegionStore
	users   UserStore
	geo     geoquery.Builder
	scope   *txn.Scope
	log     *zap.Logger
}

func NewRegionService(regions RegionStore, users UserStore, geo geoquery.Builder, scope *txn.Scope, l *zap.Logger) *RegionService {
	if l == nil {
		l = zap.NewNop()
	}
	return &RegionService{regions: regions, users: users, geo: geo, scope: scope, log: l}
}

// PointQuery and DistanceQuery carry raw query-string values.
type PointQuery struct {
	Lat, Lng string
	domain.Pagination
}

type DistanceQuery struct {
	Lat, Lng, Distance string
	domain.Pagination
}

func (s *RegionService) Create(ctx context.Context, in domain.NewRegion) domain.Result[domain.Region] {
	return txn.Run(ctx, s.scope, domain.CodeCreateRegion, func(ctx context.Context, sess *txn.Session) (domain.Result[domain.Region], error) {
		owner, err := s.users.FindByID(ctx, sess, in.OwnerID)
		if err != nil {
			return domain.Result[domain.Region]{}, err
		}
		if owner == nil {
			return domain.FailFrom[domain.Region](domain.ErrOwnerNotFound, domain.CodeCreateRegion), nil
		}
		created, err := s.regions.Create(ctx, sess, domain.Region{
			Name:     in.Name,
			Geometry: in.Geometry,
			OwnerID:  owner.ID,
		})
		if err != nil {
			return domain.Result[domain.Region]{}, err
		}
		created.Owner = owner
		s.log.Info("region created", zap.String("id", created.ID), zap.String("owner", owner.ID))
		return domain.OK(created), nil
	})
}

// Update merges only the supplied fields. Without an owner id the current
// owner is kept.
func (s *RegionService) Update(ctx context.Context, id string, p domain.RegionPatch) domain.Result[domain.Region] {
	return txn.Run(ctx, s.scope, domain.CodeUpdateRegion, func(ctx context.Context, sess *txn.Session) (domain.Result[domain.Region], error) {
		current, err := s.regions.FindByID(ctx, sess, id)
		if err != nil {
			return domain.Result[domain.Region]{}, err
		}
		if current == nil {
			return domain.FailFrom[domain.Region](domain.ErrRegionNotFound, domain.CodeUpdateRegion), nil
		}

		merged := domain.RegionPatch{Name: p.Name, Geometry: p.Geometry}
		if p.OwnerID != nil && *p.OwnerID != "" {
			owner, err := s.users.FindByID(ctx, sess, *p.OwnerID)
			if err != nil {
				return domain.Result[domain.Region]{}, err
			}
			if owner == nil {
				return domain.FailFrom[domain.Region](domain.ErrOwnerNotFound, domain.CodeUpdateRegion), nil
			}
			merged.OwnerID = &owner.ID
		}

		ok, err := s.regions.Update(ctx, sess, id, merged)
		if err != nil {
			return domain.Result[domain.Region]{}, err
		}
		if !ok {
			return domain.FailFrom[domain.Region](domain.ErrRegionUpdateFailed, domain.CodeUpdateRegion), nil
		}
		updated, err := s.regions.FindByID(ctx, sess, id)
		if err != nil {
			return domain.Result[domain.Region]{}, err
		}
		if updated == nil {
			return domain.FailFrom[domain.Region](domain.ErrRegionUpdateFailed, domain.CodeUpdateRegion), nil
		}
		return domain.OK(*updated), nil
	})
}

func (s *RegionService) Delete(ctx context.Context, id string) domain.Result[Deleted] {
	return txn.Run(ctx, s.scope, domain.CodeDeleteRegion, func(ctx context.Context, sess *txn.Session) (domain.Result[Deleted], error) {
		ok, err := s.regions.Delete(ctx, sess, id)
		if err != nil {
			return domain.Result[Deleted]{}, err
		}
		if !ok {
			return domain.FailFrom[Deleted](domain.ErrRegionNotFound, domain.CodeDeleteRegion), nil
		}
		return domain.OK(Deleted{}), nil
	})
}

func (s *RegionService) Get(ctx context.Context, id string) domain.Result[domain.Region] {
	r, err := s.regions.FindByID(ctx, nil, id)
	if err != nil {
		return domain.FailFrom[domain.Region](err, domain.CodeGetRegion)
	}
	if r == nil {
		return domain.FailFrom[domain.Region](domain.ErrRegionNotFound, domain.CodeGetRegion)
	}
	return domain.OK(*r)
}

func (s *RegionService) List(ctx context.Context, p domain.Pagination) domain.Result[domain.Page[domain.Region]] {
	p = p.Normalize()
	items, total, err := s.regions.Find(ctx, nil, p.Offset(), p.Limit)
	if err != nil {
		return domain.FailFrom[domain.Page[domain.Region]](err, domain.CodeGetRegions)
	}
	return domain.OK(domain.NewPage(items, total, p))
}

// ByPoint lists regions whose polygon contains the point.
func (s *RegionService) ByPoint(ctx context.Context, q PointQuery) domain.Result[domain.Page[domain.Region]] {
	pt, err := geoquery.ParsePoint(q.Lat, q.Lng)
	if err != nil {
		return domain.FailFrom[domain.Page[domain.Region]](err, domain.CodeGetRegions)
	}
	return s.filter(ctx, s.geo.ByPoint(pt), q.Pagination)
}

// ByDistance lists regions within the distance in meters, nearest first.
func (s *RegionService) ByDistance(ctx context.Context, q DistanceQuery) domain.Result[domain.Page[domain.Region]] {
	pt, meters, err := geoquery.ParseDistance(q.Lat, q.Lng, q.Distance)
	if err != nil {
		return domain.FailFrom[domain.Page[domain.Region]](err, domain.CodeGetRegions)
	}
	return s.filter(ctx, s.geo.ByDistance(pt, meters), q.Pagination)
}

func (s *RegionService) filter(ctx context.Context, f geoquery.Filter, p domain.Pagination) domain.Result[domain.Page[domain.Region]] {
	p = p.Normalize()
	items, total, err := s.regions.FindByFilter(ctx, nil, f, p.Offset(), p.Limit)
	if err != nil {
		s.log.Error("spatial query", zap.String("where", f.Where.SQL), zap.Error(err))
		return domain.FailFrom[domain.Page[domain.Region]](err, domain.CodeGetRegions)
	}
	return domain.OK(domain.NewPage(items, total, p))
}
