package txn_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"geo-region-api/internal/domain"
	"geo-region-api/internal/txn"
	"geo-region-api/internal/txn/txntest"
)

const op = domain.CodeCreateRegion

func TestRunCommitsSuccess(t *testing.T) {
	b := &txntest.Beginner{}
	s := txn.NewScope(b, nil, txn.Options{})

	var seen *txn.Session
	res := txn.Run(context.Background(), s, op, func(_ context.Context, sess *txn.Session) (domain.Result[string], error) {
		seen = sess
		return domain.OK("done"), nil
	})

	assert.True(t, res.Success)
	assert.Equal(t, "done", res.Data)
	assert.NotNil(t, seen)
	assert.Equal(t, 1, b.Commits)
	assert.Equal(t, 0, b.Rollbacks)
}

func TestRunAbortsOnError(t *testing.T) {
	t.Run("plain error uses the operation code", func(t *testing.T) {
		b := &txntest.Beginner{}
		s := txn.NewScope(b, nil, txn.Options{})
		res := txn.Run(context.Background(), s, op, func(context.Context, *txn.Session) (domain.Result[string], error) {
			return domain.Result[string]{}, errors.New("store unavailable")
		})
		assert.False(t, res.Success)
		assert.Equal(t, op, res.Code())
		assert.Equal(t, "store unavailable", res.Error.Message)
		assert.Equal(t, 0, b.Commits)
		assert.Equal(t, 1, b.Rollbacks)
	})

	t.Run("coded error keeps its code", func(t *testing.T) {
		b := &txntest.Beginner{}
		s := txn.NewScope(b, nil, txn.Options{})
		res := txn.Run(context.Background(), s, domain.CodeCreateUser, func(context.Context, *txn.Session) (domain.Result[string], error) {
			return domain.Result[string]{}, domain.NewError(domain.CodeAddressNotFound, "Address not found.")
		})
		assert.Equal(t, domain.CodeAddressNotFound, res.Code())
		assert.Equal(t, 1, b.Rollbacks)
	})

	t.Run("empty message falls back", func(t *testing.T) {
		b := &txntest.Beginner{}
		s := txn.NewScope(b, nil, txn.Options{})
		res := txn.Run(context.Background(), s, op, func(context.Context, *txn.Session) (domain.Result[string], error) {
			return domain.Result[string]{}, errors.New("")
		})
		assert.Equal(t, "Failed to create region", res.Error.Message)
	})
}

func TestRunLogicalFailure(t *testing.T) {
	body := func(context.Context, *txn.Session) (domain.Result[string], error) {
		return domain.FailFrom[string](domain.ErrOwnerNotFound, op), nil
	}

	t.Run("rolled back by default", func(t *testing.T) {
		b := &txntest.Beginner{}
		res := txn.Run(context.Background(), txn.NewScope(b, nil, txn.Options{}), op, body)
		assert.Equal(t, domain.CodeUserNotFound, res.Code())
		assert.Equal(t, 0, b.Commits)
		assert.Equal(t, 1, b.Rollbacks)
	})

	t.Run("committed in legacy mode", func(t *testing.T) {
		b := &txntest.Beginner{}
		res := txn.Run(context.Background(), txn.NewScope(b, nil, txn.Options{CommitLogicalFailures: true}), op, body)
		assert.Equal(t, domain.CodeUserNotFound, res.Code())
		assert.Equal(t, 1, b.Commits)
		assert.Equal(t, 0, b.Rollbacks)
	})
}

func TestRunBeginAndCommitFailures(t *testing.T) {
	b := &txntest.Beginner{BeginErr: errors.New("pool exhausted")}
	called := false
	res := txn.Run(context.Background(), txn.NewScope(b, nil, txn.Options{}), op, func(context.Context, *txn.Session) (domain.Result[int], error) {
		called = true
		return domain.OK(1), nil
	})
	assert.False(t, called)
	assert.Equal(t, op, res.Code())

	b = &txntest.Beginner{CommitErr: errors.New("serialization failure")}
	res = txn.Run(context.Background(), txn.NewScope(b, nil, txn.Options{}), op, func(context.Context, *txn.Session) (domain.Result[int], error) {
		return domain.OK(1), nil
	})
	assert.False(t, res.Success)
	assert.Equal(t, op, res.Code())
	assert.Equal(t, 1, b.Ended())
}

func TestRunPanicRollsBack(t *testing.T) {
	b := &txntest.Beginner{}
	s := txn.NewScope(b, nil, txn.Options{})
	assert.PanicsWithValue(t, "boom", func() {
		txn.Run(context.Background(), s, op, func(context.Context, *txn.Session) (domain.Result[int], error) {
			panic("boom")
		})
	})
	assert.Equal(t, 1, b.Rollbacks)
	assert.Equal(t, 1, b.Ended())
}

func TestNilSessionDB(t *testing.T) {
	var s *txn.Session
	assert.Nil(t, s.DB())
}
