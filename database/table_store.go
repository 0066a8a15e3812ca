package database

import (
	"context"
	"errors"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

type TableStore struct {
	db *gorm.DB
}

func NewTableStore(db *gorm.DB) *TableStore {
	return &TableStore{db: db}
}

// List returns all tables ordered by name.
func (s *TableStore) List(ctx context.Context) ([]models.Table, error) {
	var tables []models.Table
	err := s.db.WithContext(ctx).Order("table_name ASC").Find(&tables).Error
	return tables, err
}

func (s *TableStore) Create(ctx context.Context, t *models.Table) error {
	return s.db.WithContext(ctx).Create(t).Error
}

// Read returns nil without an error when no table has the id.
func (s *TableStore) Read(ctx context.Context, id string) (*models.Table, error) {
	var t models.Table
	if err := s.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// FindByReservation returns the table the reservation occupies, or nil.
func (s *TableStore) FindByReservation(ctx context.Context, reservationID string) (*models.Table, error) {
	var t models.Table
	err := s.db.WithContext(ctx).Where("reservation_id = ?", reservationID).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// ErrTableOccupied is returned by Seat when the table already has an
// occupant, including one seated by a concurrent transaction.
var ErrTableOccupied = errors.New("table is already occupied")

// Seat records reservationID as the occupant of a free table.
func (s *TableStore) Seat(ctx context.Context, tableID, reservationID string) error {
	res := s.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ? AND occupied = ?", tableID, false).
		Updates(map[string]interface{}{
			"reservation_id": reservationID,
			"occupied":       true,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrTableOccupied
	}
	return nil
}

// Clear frees the table.
func (s *TableStore) Clear(ctx context.Context, tableID string) error {
	return s.db.WithContext(ctx).
		Model(&models.Table{}).
		Where("id = ?", tableID).
		Updates(map[string]interface{}{
			"reservation_id": nil,
			"occupied":       false,
		}).Error
}
