package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupAllocatorDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&Counter{}))
	return db
}

func TestNextInvoiceNumber_FirstAllocation(t *testing.T) {
	db := setupAllocatorDB(t)
	alloc := New(Params{DB: db, Log: zap.NewNop()})

	number, err := alloc.NextInvoiceNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "000001", number)
}

func TestNextInvoiceNumber_StrictlyIncreasing(t *testing.T) {
	db := setupAllocatorDB(t)
	alloc := New(Params{DB: db, Log: zap.NewNop()})
	ctx := context.Background()

	prev := ""
	for i := 1; i <= 12; i++ {
		number, err := alloc.NextInvoiceNumber(ctx)
		require.NoError(t, err)
		assert.Len(t, number, 6)
		assert.Greater(t, number, prev)
		prev = number
	}
	assert.Equal(t, "000012", prev)
}

func TestNextInvoiceNumber_ConcurrentAllocationsDistinct(t *testing.T) {
	db := setupAllocatorDB(t)
	alloc := New(Params{DB: db, Log: zap.NewNop()})
	ctx := context.Background()

	const workers = 8
	const perWorker = 5

	var mu sync.Mutex
	seen := make(map[string]bool)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				number, err := alloc.NextInvoiceNumber(ctx)
				if err != nil {
					t.Errorf("allocate: %v", err)
					return
				}
				mu.Lock()
				if seen[number] {
					t.Errorf("duplicate invoice number %s", number)
				}
				seen[number] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// No duplicates and no gaps: exactly N dense values.
	assert.Len(t, seen, workers*perWorker)
	assert.True(t, seen["000001"])
	assert.True(t, seen["000040"])
}

func TestNextInvoiceNumber_RollbackLeavesNoDuplicate(t *testing.T) {
	db := setupAllocatorDB(t)
	alloc := New(Params{DB: db, Log: zap.NewNop()})
	ctx := context.Background()

	first, err := alloc.NextInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "000001", first)

	// Allocation inside a transaction that rolls back.
	tx := db.Begin()
	require.NoError(t, tx.Error)
	inTx, err := alloc.WithTx(tx).NextInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, "000002", inTx)
	require.NoError(t, tx.Rollback().Error)

	// The next committed allocation never repeats an issued committed number.
	next, err := alloc.NextInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first, next)
	assert.Equal(t, "000002", next)
}

func TestNextInvoiceNumber_StorageUnavailable(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	// No counters table migrated: the increment must fail, not fabricate a number.
	alloc := New(Params{DB: db, Log: zap.NewNop()})

	_, err = alloc.NextInvoiceNumber(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnavailable)
}
