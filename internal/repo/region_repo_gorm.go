package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/feature/region"
	"geo-region-api/internal/geoquery"
	"geo-region-api/internal/txn"
	"geo-region-api/pkg/utils"
)

type RegionRepo struct{ db *gorm.DB }

func NewRegionRepo(db *gorm.DB) *RegionRepo { return &RegionRepo{db: db} }

func (r *RegionRepo) Create(ctx context.Context, sess *txn.Session, in domain.Region) (domain.Region, error) {
	if in.ID == "" {
		in.ID = utils.NewID()
	}
	m := region.FromDomain(in)
	if err := conn(ctx, r.db, sess).Omit(clause.Associations).Create(&m).Error; err != nil {
		return domain.Region{}, err
	}
	return m.ToDomain(), nil
}

func (r *RegionRepo) read(ctx context.Context, sess *txn.Session) *gorm.DB {
	return conn(ctx, r.db, sess).Model(&region.RegionModel{}).Select(region.Columns).Preload("Owner")
}

// FindByID returns the region with its owner populated, or nil.
func (r *RegionRepo) FindByID(ctx context.Context, sess *txn.Session, id string) (*domain.Region, error) {
	var m region.RegionModel
	err := r.read(ctx, sess).Where("regions.id = ?", id).Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	out := m.ToDomain()
	return &out, nil
}

func (r *RegionRepo) Find(ctx context.Context, sess *txn.Session, offset, limit int) ([]domain.Region, int64, error) {
	return r.list(ctx, sess, nil, nil, offset, limit)
}

// FindByFilter applies a spatial filter before pagination.
func (r *RegionRepo) FindByFilter(ctx context.Context, sess *txn.Session, f geoquery.Filter, offset, limit int) ([]domain.Region, int64, error) {
	where := f.Where
	return r.list(ctx, sess, func(tx *gorm.DB) *gorm.DB {
		return tx.Where(where)
	}, f.Order, offset, limit)
}

// FindOrphans lists regions whose owner no longer exists.
func (r *RegionRepo) FindOrphans(ctx context.Context, sess *txn.Session, offset, limit int) ([]domain.Region, int64, error) {
	return r.list(ctx, sess, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("NOT EXISTS (SELECT 1 FROM users WHERE users.id = regions.owner_id)")
	}, nil, offset, limit)
}

func (r *RegionRepo) list(ctx context.Context, sess *txn.Session, scope func(*gorm.DB) *gorm.DB, order *clause.Expr, offset, limit int) ([]domain.Region, int64, error) {
	filtered := func(tx *gorm.DB) *gorm.DB {
		if scope != nil {
			tx = tx.Scopes(scope)
		}
		return tx
	}
	var total int64
	if err := filtered(conn(ctx, r.db, sess).Model(&region.RegionModel{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	tx := filtered(r.read(ctx, sess))
	if order != nil {
		tx = tx.Clauses(clause.OrderBy{Expression: *order})
	} else {
		tx = tx.Order("regions.created_at desc")
	}
	var rows []region.RegionModel
	if err := tx.Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.Region, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToDomain())
	}
	return out, total, nil
}

// Update applies the patch and reports whether a row matched.
func (r *RegionRepo) Update(ctx context.Context, sess *txn.Session, id string, p domain.RegionPatch) (bool, error) {
	cols := region.Updates(p)
	if len(cols) == 0 {
		var n int64
		err := conn(ctx, r.db, sess).Model(&region.RegionModel{}).Where("id = ?", id).Count(&n).Error
		return n > 0, err
	}
	res := conn(ctx, r.db, sess).Model(&region.RegionModel{}).Where("id = ?", id).Updates(cols)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return true, nil
	}
	// MySQL reports zero affected rows when values are unchanged.
	var n int64
	err := conn(ctx, r.db, sess).Model(&region.RegionModel{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *RegionRepo) Delete(ctx context.Context, sess *txn.Session, id string) (bool, error) {
	res := conn(ctx, r.db, sess).Where("id = ?", id).Delete(&region.RegionModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
