// Package txntest provides an in-memory Beginner for service tests.
package txntest

import (
	"context"
	"sync"

	"gorm.io/gorm"

	"geo-region-api/internal/txn"
)

// Beginner records how each unit of work ended.
type Beginner struct {
	mu        sync.Mutex
	BeginErr  error
	CommitErr error
	Begins    int
	Commits   int
	Rollbacks int

	// OnCommit / OnRollback run when a unit ends, letting fakes stage writes.
	OnCommit   func()
	OnRollback func()
}

func (b *Beginner) Begin(context.Context) (txn.Unit, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.BeginErr != nil {
		return nil, b.BeginErr
	}
	b.Begins++
	return &unit{b: b}, nil
}

// Ended is the number of units that committed or rolled back.
func (b *Beginner) Ended() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Commits + b.Rollbacks
}

type unit struct{ b *Beginner }

func (u *unit) DB() *gorm.DB { return nil }

func (u *unit) Commit() error {
	u.b.mu.Lock()
	u.b.Commits++
	err, hook := u.b.CommitErr, u.b.OnCommit
	u.b.mu.Unlock()
	if err == nil && hook != nil {
		hook()
	}
	return err
}

func (u *unit) Rollback() error {
	u.b.mu.Lock()
	u.b.Rollbacks++
	hook := u.b.OnRollback
	u.b.mu.Unlock()
	if hook != nil {
		hook()
	}
	return nil
}
