// Package repo holds the gorm-backed stores. Every method takes the
// caller's session; a nil session runs on the pool outside any transaction.
package repo

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"geo-region-api/internal/txn"
)

func conn(ctx context.Context, db *gorm.DB, sess *txn.Session) *gorm.DB {
	if tx := sess.DB(); tx != nil {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}

func isDupKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}

func likePattern(q string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + strings.ToLower(r.Replace(strings.TrimSpace(q))) + "%"
}
