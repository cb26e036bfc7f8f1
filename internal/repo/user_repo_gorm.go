package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/feature/user"
	"geo-region-api/internal/txn"
	"geo-region-api/pkg/utils"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// Create stores u, assigning an id when it has none. A unique violation on
// email is reported as ErrEmailAlreadyExists.
func (r *UserRepo) Create(ctx context.Context, sess *txn.Session, u domain.User) (domain.User, error) {
	if u.ID == "" {
		u.ID = utils.NewID()
	}
	m := user.FromDomain(u)
	if err := conn(ctx, r.db, sess).Create(&m).Error; err != nil {
		if isDupKey(err) {
			return domain.User{}, domain.ErrEmailAlreadyExists
		}
		return domain.User{}, err
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) FindByID(ctx context.Context, sess *txn.Session, id string) (*domain.User, error) {
	return r.first(ctx, sess, "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, sess *txn.Session, email string) (*domain.User, error) {
	return r.first(ctx, sess, "email = ?", email)
}

func (r *UserRepo) first(ctx context.Context, sess *txn.Session, query string, arg any) (*domain.User, error) {
	var m user.UserModel
	err := conn(ctx, r.db, sess).First(&m, query, arg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	u := m.ToDomain()
	return &u, nil
}

func (r *UserRepo) Find(ctx context.Context, sess *txn.Session, offset, limit int) ([]domain.User, int64, error) {
	return r.list(ctx, sess, nil, offset, limit)
}

// Search matches q against name and email, case-insensitively.
func (r *UserRepo) Search(ctx context.Context, sess *txn.Session, q string, offset, limit int) ([]domain.User, int64, error) {
	if q == "" {
		return r.list(ctx, sess, nil, offset, limit)
	}
	p := likePattern(q)
	return r.list(ctx, sess, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", p, p)
	}, offset, limit)
}

func (r *UserRepo) list(ctx context.Context, sess *txn.Session, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]domain.User, int64, error) {
	base := func() *gorm.DB {
		tx := conn(ctx, r.db, sess).Model(&user.UserModel{})
		if scope != nil {
			tx = tx.Scopes(scope)
		}
		return tx
	}
	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []user.UserModel
	if err := base().Order("created_at desc").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	out := make([]domain.User, 0, len(rows))
	for _, m := range rows {
		out = append(out, m.ToDomain())
	}
	return out, total, nil
}

// Update applies the patch and returns the stored user, or nil when no user
// has that id.
func (r *UserRepo) Update(ctx context.Context, sess *txn.Session, id string, p domain.UserPatch) (*domain.User, error) {
	cols := user.Columns(p)
	if len(cols) > 0 {
		err := conn(ctx, r.db, sess).Model(&user.UserModel{}).Where("id = ?", id).Updates(cols).Error
		if err != nil {
			if isDupKey(err) {
				return nil, domain.ErrEmailAlreadyExists
			}
			return nil, err
		}
	}
	return r.FindByID(ctx, sess, id)
}

// Delete reports whether a row was removed.
func (r *UserRepo) Delete(ctx context.Context, sess *txn.Session, id string) (bool, error) {
	res := conn(ctx, r.db, sess).Where("id = ?", id).Delete(&user.UserModel{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
