package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geo-region-api/internal/core/cache"
	"geo-region-api/internal/domain"
	"geo-region-api/internal/txn"
	"geo-region-api/internal/txn/txntest"
)

// events is a shared, ordered log of redis commands and unit-of-work ends.
type events struct {
	mu  sync.Mutex
	log []string
}

func (e *events) add(s string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.log = append(e.log, s)
}

func (e *events) take() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := e.log
	e.log = nil
	return out
}

// recordHook answers every command locally: GET misses, everything else
// succeeds. No connection is ever dialed.
type recordHook struct{ ev *events }

func (h recordHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h recordHook) ProcessHook(redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		args := make([]string, 0, len(cmd.Args()))
		for _, a := range cmd.Args() {
			args = append(args, fmt.Sprint(a))
		}
		name := strings.ToLower(cmd.Name())
		if name == "get" || name == "set" || name == "del" {
			h.ev.add(strings.ToLower(args[0]) + " " + args[1])
		}
		if name == "get" {
			cmd.SetErr(redis.Nil)
			return redis.Nil
		}
		return nil
	}
}

func (h recordHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func newCachedUserFixture(t *testing.T) (*UserService, *events) {
	t.Helper()
	ev := &events{}
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	rdb.AddHook(recordHook{ev: ev})
	t.Cleanup(func() { _ = rdb.Close() })

	tx := &txntest.Beginner{
		OnCommit:   func() { ev.add("commit") },
		OnRollback: func() { ev.add("rollback") },
	}
	geo := &stubGeo{forward: map[string]domain.Coordinates{"New York": newYork}}
	svc := NewUserService(newMemUsers(), geo, txn.NewScope(tx, nil, txn.Options{}), cache.NewWithClient(rdb, time.Minute, nil), nil)
	return svc, ev
}

func TestUserWritesInvalidateAroundCommit(t *testing.T) {
	svc, ev := newCachedUserFixture(t)
	ctx := context.Background()

	created := svc.Create(ctx, domain.NewUser{Name: "Ana", Email: "ana@x.com", Address: "New York"})
	require.True(t, created.Success)
	key := "user:" + created.Data.ID
	ev.take()

	name := "Ana B"
	require.True(t, svc.Update(ctx, created.Data.ID, domain.UserPatch{Name: &name}).Success)
	assert.Equal(t, []string{"del " + key, "commit", "del " + key}, ev.take())

	require.True(t, svc.Get(ctx, created.Data.ID).Success)
	assert.Equal(t, []string{"get " + key, "set " + key}, ev.take())

	require.True(t, svc.Delete(ctx, created.Data.ID).Success)
	assert.Equal(t, []string{"del " + key, "commit", "del " + key}, ev.take())
}

func TestFailedUpdateOnlyInvalidatesBefore(t *testing.T) {
	svc, ev := newCachedUserFixture(t)
	name := "Ghost"

	res := svc.Update(context.Background(), "missing", domain.UserPatch{Name: &name})
	assert.Equal(t, domain.CodeUserNotFound, res.Code())
	assert.Equal(t, []string{"del user:missing", "rollback"}, ev.take())
}
