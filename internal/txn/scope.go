// Package txn demarcates units of work. A Session is the explicit handle
// every store call inside a unit of work receives.
package txn

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"geo-region-api/internal/domain"
)

// Unit is one started transaction.
type Unit interface {
	DB() *gorm.DB
	Commit() error
	Rollback() error
}

type Beginner interface {
	Begin(ctx context.Context) (Unit, error)
}

// Session is request scoped and never shared between units of work.
type Session struct {
	unit  Unit
	ended bool
}

// DB returns the transaction-bound handle, or nil for a nil session.
func (s *Session) DB() *gorm.DB {
	if s == nil || s.unit == nil {
		return nil
	}
	return s.unit.DB()
}

func (s *Session) commit() error {
	if s.ended {
		return nil
	}
	s.ended = true
	return s.unit.Commit()
}

func (s *Session) abort() error {
	if s.ended {
		return nil
	}
	s.ended = true
	return s.unit.Rollback()
}

type Options struct {
	// CommitLogicalFailures commits when the body returns a failed Result
	// without an error (e.g. "owner not found" found before any write).
	// Off by default: such results roll back like errors do.
	CommitLogicalFailures bool
}

type Scope struct {
	b    Beginner
	opts Options
	log  *zap.Logger
}

func NewScope(b Beginner, l *zap.Logger, opts Options) *Scope {
	if l == nil {
		l = zap.NewNop()
	}
	return &Scope{b: b, opts: opts, log: l}
}

var tracer = otel.Tracer("geo-region-api/txn")

// Body is the work run inside a unit of work. Returning an error aborts;
// the error becomes a failure under the operation code unless it already
// carries a code of its own.
type Body[T any] func(ctx context.Context, sess *Session) (domain.Result[T], error)

// Run executes body in a fresh transaction. The session ends exactly once
// on every path, including panics, which roll back and propagate.
func Run[T any](ctx context.Context, s *Scope, code string, body Body[T]) domain.Result[T] {
	ctx, span := tracer.Start(ctx, "txn."+strings.ToLower(code))
	defer span.End()

	unit, err := s.b.Begin(ctx)
	if err != nil {
		s.log.Error("begin transaction", zap.String("op", code), zap.Error(err))
		span.SetStatus(codes.Error, err.Error())
		return domain.Fail[T](code, err.Error())
	}
	sess := &Session{unit: unit}
	defer func() {
		if rec := recover(); rec != nil {
			_ = sess.abort()
			panic(rec)
		}
	}()

	res, err := body(ctx, sess)
	if err != nil {
		if rbErr := sess.abort(); rbErr != nil {
			s.log.Warn("rollback failed", zap.String("op", code), zap.Error(rbErr))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.FailFrom[T](err, code)
	}

	if !res.Success && !s.opts.CommitLogicalFailures {
		if rbErr := sess.abort(); rbErr != nil {
			s.log.Warn("rollback failed", zap.String("op", code), zap.Error(rbErr))
		}
		span.SetAttributes(attribute.String("result.code", res.Code()))
		return res
	}

	if err := sess.commit(); err != nil {
		s.log.Error("commit transaction", zap.String("op", code), zap.Error(err))
		span.SetStatus(codes.Error, err.Error())
		return domain.Fail[T](code, err.Error())
	}
	span.SetAttributes(attribute.String("result.code", res.Code()))
	return res
}
