package service

import (
	"context"

	"go.uber.org/zap"

	"geo-region-api/internal/core/cache"
	"geo-region-api/internal/domain"
	"geo-region-api/internal/txn"
)

type UserService struct {
	store UserStore
	geo   LocationResolver
	scope *txn.Scope
	cache *cache.Cache
	log   *zap.Logger
}

// NewUserService wires the orchestrator. c may be nil to disable caching.
func NewUserService(store UserStore, geo LocationResolver, scope *txn.Scope, c *cache.Cache, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{store: store, geo: geo, scope: scope, cache: c, log: l}
}

func userKey(id string) string { return "user:" + id }

// Create rejects a taken email, resolves whichever half of the location is
// missing and stores the user. An address wins when both are given.
func (s *UserService) Create(ctx context.Context, in domain.NewUser) domain.Result[domain.User] {
	return txn.Run(ctx, s.scope, domain.CodeCreateUser, func(ctx context.Context, sess *txn.Session) (domain.Result[domain.User], error) {
		existing, err := s.store.FindByEmail(ctx, sess, in.Email)
		if err != nil {
			return domain.Result[domain.User]{}, err
		}
		if existing != nil {
			return domain.FailFrom[domain.User](domain.ErrEmailAlreadyExists, domain.CodeCreateUser), nil
		}

		u := domain.User{Name: in.Name, Email: in.Email}
		switch {
		case in.Address != "":
			c, err := s.geo.CoordinatesFromAddress(ctx, in.Address)
			if err != nil {
				return domain.Result[domain.User]{}, err
			}
			u.Address, u.Coordinates = in.Address, &c
		case in.Coordinates != nil:
			addr, err := s.geo.AddressFromCoordinates(ctx, *in.Coordinates)
			if err != nil {
				return domain.Result[domain.User]{}, err
			}
			c := *in.Coordinates
			u.Address, u.Coordinates = addr, &c
		}

		created, err := s.store.Create(ctx, sess, u)
		if err != nil {
			return domain.Result[domain.User]{}, err
		}
		s.log.Info("user created", zap.String("id", created.ID))
		return domain.OK(created), nil
	})
}

// Update stores the supplied fields verbatim; the location is not re-resolved.
// The cached entry is dropped before the write and again after the commit,
// so a read that loaded the old row in between cannot outlive the update.
func (s *UserService) Update(ctx context.Context, id string, p domain.UserPatch) domain.Result[domain.User] {
	s.cache.Invalidate(ctx, userKey(id))
	res := txn.Run(ctx, s.scope, domain.CodeUpdateUser, func(ctx context.Context, sess *txn.Session) (domain.Result[domain.User], error) {
		if p.Email != nil && *p.Email != "" {
			holder, err := s.store.FindByEmail(ctx, sess, *p.Email)
			if err != nil {
				return domain.Result[domain.User]{}, err
			}
			if holder != nil && holder.ID != id {
				return domain.FailFrom[domain.User](domain.ErrEmailAlreadyExists, domain.CodeUpdateUser), nil
			}
		}
		updated, err := s.store.Update(ctx, sess, id, p)
		if err != nil {
			return domain.Result[domain.User]{}, err
		}
		if updated == nil {
			return domain.FailFrom[domain.User](domain.ErrUserNotFound, domain.CodeUpdateUser), nil
		}
		return domain.OK(*updated), nil
	})
	if res.Success {
		s.cache.Invalidate(ctx, userKey(id))
	}
	return res
}

func (s *UserService) Delete(ctx context.Context, id string) domain.Result[Deleted] {
	s.cache.Invalidate(ctx, userKey(id))
	res := txn.Run(ctx, s.scope, domain.CodeDeleteUser, func(ctx context.Context, sess *txn.Session) (domain.Result[Deleted], error) {
		ok, err := s.store.Delete(ctx, sess, id)
		if err != nil {
			return domain.Result[Deleted]{}, err
		}
		if !ok {
			return domain.FailFrom[Deleted](domain.ErrUserNotFound, domain.CodeDeleteUser), nil
		}
		return domain.OK(Deleted{}), nil
	})
	if res.Success {
		s.cache.Invalidate(ctx, userKey(id))
		s.log.Info("user deleted", zap.String("id", id))
	}
	return res
}

func (s *UserService) Get(ctx context.Context, id string) domain.Result[domain.User] {
	u, err := cache.GetOrLoadJSON(s.cache, ctx, userKey(id), func(ctx context.Context) (*domain.User, error) {
		return s.store.FindByID(ctx, nil, id)
	})
	if err != nil {
		return domain.FailFrom[domain.User](err, domain.CodeGetUser)
	}
	if u == nil {
		return domain.FailFrom[domain.User](domain.ErrUserNotFound, domain.CodeGetUser)
	}
	return domain.OK(*u)
}

func (s *UserService) List(ctx context.Context, p domain.Pagination) domain.Result[domain.Page[domain.User]] {
	p = p.Normalize()
	items, total, err := s.store.Find(ctx, nil, p.Offset(), p.Limit)
	if err != nil {
		s.log.Error("list users", zap.Error(err))
		return domain.FailFrom[domain.Page[domain.User]](err, domain.CodeGetUsers)
	}
	return domain.OK(domain.NewPage(items, total, p))
}
