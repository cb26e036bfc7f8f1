package txn

import (
	"context"

	"gorm.io/gorm"
)

// GormBeginner starts units of work on a gorm connection pool.
type GormBeginner struct{ DB *gorm.DB }

func NewGormBeginner(db *gorm.DB) GormBeginner { return GormBeginner{DB: db} }

func (g GormBeginner) Begin(ctx context.Context) (Unit, error) {
	tx := g.DB.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, tx.Error
	}
	return gormUnit{tx: tx}, nil
}

type gormUnit struct{ tx *gorm.DB }

func (u gormUnit) DB() *gorm.DB    { return u.tx }
func (u gormUnit) Commit() error   { return u.tx.Commit().Error }
func (u gormUnit) Rollback() error { return u.tx.Rollback().Error }
