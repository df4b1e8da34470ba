// Package store is the gorm-backed repository for accounts, plans,
// subscriptions and upgrade requests. Every mutation goes through a Tx so
// related writes share one transaction.
package store

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Store struct {
	db     *gorm.DB
	locker Locker
}

func New(db *gorm.DB, locker Locker) *Store {
	return &Store{db: db, locker: locker}
}

// Tx wraps a gorm handle, either a live transaction or a plain read session.
type Tx struct {
	db *gorm.DB
}

// Read returns a non-transactional handle for queries.
func (s *Store) Read(ctx context.Context) *Tx {
	return &Tx{db: s.db.WithContext(ctx)}
}

// InTx runs fn in a transaction without any account lock.
func (s *Store) InTx(ctx context.Context, fn func(tx *Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		return fn(&Tx{db: gtx})
	})
}

// InAccountTx runs fn in a transaction holding the account's lock. The lock
// is taken before fn reads anything and released after commit or rollback.
func (s *Store) InAccountTx(ctx context.Context, accountID uint, fn func(tx *Tx) error) error {
	var unlock func()
	defer func() {
		if unlock != nil {
			unlock()
		}
	}()

	err := s.db.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		release, err := s.locker.Lock(ctx, gtx, accountID)
		if err != nil {
			return err
		}
		unlock = release
		return fn(&Tx{db: gtx})
	})
	return translate(err)
}

// DB exposes the handle for collaborators that need raw access (migrations, health).
func (s *Store) DB() *gorm.DB { return s.db }

// Ping checks connectivity for the health endpoint.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
