package database

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the reservation and table stores over one connection or
// transaction.
type Store struct {
	db           *gorm.DB
	Reservations *ReservationStore
	Tables       *TableStore
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Reservations: NewReservationStore(db),
		Tables:       NewTableStore(db),
	}
}

// InTx runs fn with stores bound to a single transaction. The transaction
// is rolled back when fn returns an error.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
