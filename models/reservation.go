package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reservation dates and times are stored in the layouts below so that
// listing by date and ordering by time stay plain string comparisons on
// every supported driver.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

type Reservation struct {
	ID              string            `gorm:"type:varchar(36);primaryKey" json:"reservation_id"`
	FirstName       string            `gorm:"type:varchar(100);not null" json:"first_name"`
	LastName        string            `gorm:"type:varchar(100);not null" json:"last_name"`
	MobileNumber    string            `gorm:"type:varchar(50);not null;index" json:"mobile_number"`
	ReservationDate string            `gorm:"type:varchar(10);not null;index" json:"reservation_date"`
	ReservationTime string            `gorm:"type:varchar(5);not null" json:"reservation_time"`
	People          int               `gorm:"not null" json:"people"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'booked';index" json:"status"`
	CreatedAt       time.Time         `gorm:"not null" json:"created_at"`
	UpdatedAt       time.Time         `gorm:"not null" json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = StatusBooked
	}
	return nil
}

// StartsAt combines the stored date and time in loc.
func (r *Reservation) StartsAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout+" "+TimeLayout, r.ReservationDate+" "+r.ReservationTime, loc)
}
