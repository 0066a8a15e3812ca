package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Table is a dining table. ReservationID is a weak reference to the
// reservation currently seated at it; Occupied is kept in step with it.
type Table struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"table_id"`
	TableName     string    `gorm:"type:varchar(100);not null;index" json:"table_name"`
	Capacity      int       `gorm:"not null" json:"capacity"`
	ReservationID *string   `gorm:"type:varchar(36);index" json:"reservation_id"`
	Occupied      bool      `gorm:"not null;default:false" json:"occupied"`
	CreatedAt     time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time `gorm:"not null" json:"updated_at"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
