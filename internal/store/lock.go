package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"entitlements-app/internal/domain/upgrades"
)

// Locker serialises mutations for one account. Lock runs inside the
// transaction tx; the returned unlock must be called after it ends.
type Locker interface {
	Lock(ctx context.Context, tx *gorm.DB, accountID uint) (unlock func(), err error)
}

// AdvisoryLocker takes pg_advisory_xact_lock, which postgres releases at
// commit or rollback.
type AdvisoryLocker struct {
	Timeout time.Duration
}

func (l AdvisoryLocker) Lock(ctx context.Context, tx *gorm.DB, accountID uint) (func(), error) {
	ms := l.Timeout.Milliseconds()
	if ms <= 0 {
		ms = 1
	}
	if err := tx.WithContext(ctx).Exec(fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", ms)).Error; err != nil {
		return nil, translate(err)
	}
	err := tx.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?::bigint)", advisoryKey(accountID)).Error
	if err != nil {
		return nil, translate(err)
	}
	return func() {}, nil
}

// advisoryKey is the full account id. The single bigint key space is separate
// from the two-int4 one in pg_locks, so other users of that form never collide.
func advisoryKey(accountID uint) int64 {
	return int64(accountID)
}

// MemoryLocker is an in-process per-account lock for single-node and sqlite setups.
type MemoryLocker struct {
	Timeout time.Duration

	mu    sync.Mutex
	slots map[uint]chan struct{}
}

func NewMemoryLocker(timeout time.Duration) *MemoryLocker {
	return &MemoryLocker{Timeout: timeout, slots: map[uint]chan struct{}{}}
}

func (l *MemoryLocker) slot(accountID uint) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	ch, ok := l.slots[accountID]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[accountID] = ch
	}
	return ch
}

func (l *MemoryLocker) Lock(ctx context.Context, _ *gorm.DB, accountID uint) (func(), error) {
	ch := l.slot(accountID)

	timer := time.NewTimer(l.Timeout)
	defer timer.Stop()

	select {
	case ch <- struct{}{}:
		var once sync.Once
		return func() { once.Do(func() { <-ch }) }, nil
	case <-timer.C:
		return nil, fmt.Errorf("account %d: %w", accountID, upgrades.ErrContention)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// NewLocker picks the advisory lock on postgres and the in-process one elsewhere.
func NewLocker(db *gorm.DB, timeout time.Duration) Locker {
	if db.Dialector.Name() == "postgres" {
		return AdvisoryLocker{Timeout: timeout}
	}
	return NewMemoryLocker(timeout)
}

// postgres codes that mean "someone else holds it, try again".
var contentionCodes = map[string]bool{
	"55P03": true, // lock_not_available
	"40001": true, // serialization_failure
	"40P01": true, // deadlock_detected
}

func isContention(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return contentionCodes[pgErr.Code]
	}
	// sqlite once busy_timeout runs out: SQLITE_BUSY / SQLITE_LOCKED
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "SQLITE_LOCKED") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked")
}
