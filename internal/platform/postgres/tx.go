package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type txKey struct{}

// Transactor runs units of work inside a single database transaction carried by the context.
type Transactor struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewTransactor scopes transactions on db. A positive timeout bounds each unit of work.
func NewTransactor(db *gorm.DB, timeout time.Duration) *Transactor {
	return &Transactor{db: db, timeout: timeout}
}

// WithinTx commits when fn returns nil and rolls back on error or panic.
// Calls made with a context that already carries a transaction join it.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if t == nil || t.db == nil {
		return errors.New("postgres transactor not configured")
	}
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn returns the transaction carried by ctx, or db bound to ctx when there is none.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return db.WithContext(ctx)
}
