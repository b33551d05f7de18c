package uow

import (
	"context"
	"errors"
)

var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextInjector is implemented by units that carry driver state, such as a
// database session, which repositories read from the context.
type ContextInjector interface {
	InjectContext(ctx context.Context) context.Context
}

func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(ctxKey{}).(UnitOfWork)
	return unit, ok
}

// Run executes fn inside the unit of work found in ctx, or inside a fresh one
// begun from factory. A fresh unit is committed when fn succeeds and rolled
// back otherwise; an inherited unit is left to its owner.
func Run(ctx context.Context, factory UoWFactory, opts TxOptions, fn func(ctx context.Context, unit UnitOfWork) error) error {
	if unit, ok := FromContext(ctx); ok {
		return fn(ctx, unit)
	}
	if factory == nil {
		return ErrUnitOfWorkMissing
	}
	unit, err := factory.Begin(ctx, opts)
	if err != nil {
		return err
	}
	if injector, ok := unit.(ContextInjector); ok {
		ctx = injector.InjectContext(ctx)
	}
	ctx = ContextWithUnitOfWork(ctx, unit)
	if err := fn(ctx, unit); err != nil {
		if rbErr := unit.Rollback(ctx); rbErr != nil {
			return errors.Join(err, rbErr)
		}
		return err
	}
	if opts.ReadOnly {
		return unit.Rollback(ctx)
	}
	return unit.Commit(ctx)
}
