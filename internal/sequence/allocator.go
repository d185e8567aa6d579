// Package sequence issues gap-free, strictly increasing invoice numbers from
// a named counter row. The increment is a single atomic upsert at the storage
// layer, never a read-then-write pair.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InvoiceNumberCounter names the counter row backing invoice numbering.
const InvoiceNumberCounter = "invoice_number"

// invoiceNumberWidth is the zero-padded width of issued numbers.
const invoiceNumberWidth = 6

// ErrUnavailable signals that the atomic increment could not be performed.
var ErrUnavailable = errors.New("sequence_unavailable")

// Counter is a named monotonically increasing sequence row.
type Counter struct {
	Name string `gorm:"primaryKey;type:text"`
	Seq  int64  `gorm:"not null;default:0"`
}

// TableName sets the database table name.
func (Counter) TableName() string { return "counters" }

// Allocator hands out invoice numbers. Once issued, a number is never reused;
// a creation that fails after allocation leaves a tolerable gap.
type Allocator interface {
	NextInvoiceNumber(ctx context.Context) (string, error)
	WithTx(tx *gorm.DB) Allocator
}

type Params struct {
	fx.In

	DB  *gorm.DB
	Log *zap.Logger
}

type allocator struct {
	db  *gorm.DB
	log *zap.Logger
}

// New builds the database-backed allocator.
func New(p Params) Allocator {
	return &allocator{
		db:  p.DB,
		log: p.Log.Named("sequence.allocator"),
	}
}

// WithTx returns an allocator bound to the given transaction, so the
// increment commits or rolls back with the caller's write.
func (a *allocator) WithTx(tx *gorm.DB) Allocator {
	return &allocator{db: tx, log: a.log}
}

func (a *allocator) NextInvoiceNumber(ctx context.Context) (string, error) {
	seq, err := a.next(ctx, InvoiceNumberCounter)
	if err != nil {
		a.log.Error("invoice number allocation failed", zap.Error(err))
		return "", errors.Join(ErrUnavailable, err)
	}
	return fmt.Sprintf("%0*d", invoiceNumberWidth, seq), nil
}

// next increments the named counter and returns the new value. The upsert
// creates the row at zero on first use, so the first allocation returns 1.
func (a *allocator) next(ctx context.Context, name string) (int64, error) {
	var seq int64
	err := a.db.WithContext(ctx).Raw(
		`INSERT INTO counters (name, seq) VALUES (?, 1)
		 ON CONFLICT (name) DO UPDATE SET seq = counters.seq + 1
		 RETURNING seq`,
		name,
	).Scan(&seq).Error
	if err != nil {
		return 0, err
	}
	if seq <= 0 {
		return 0, ErrUnavailable
	}
	return seq, nil
}
