package database

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/yeremiapane/reservation-app/models"
	"gorm.io/gorm"
)

// stripPhone removes the punctuation people type into phone numbers so that
// "(555) 010-0" and "5550100" compare equal.
const stripPhone = "REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(REPLACE(mobile_number, '(', ''), ')', ''), '-', ''), ' ', ''), '.', ''), '+', '')"

// likeEscaper makes a query match literally inside LIKE ... ESCAPE '!'.
// '!' works as the escape character on mysql, postgres and sqlite alike.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

type ReservationStore struct {
	db *gorm.DB
}

func NewReservationStore(db *gorm.DB) *ReservationStore {
	return &ReservationStore{db: db}
}

// List returns every reservation ordered by date and time.
func (s *ReservationStore) List(ctx context.Context) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).
		Order("reservation_date ASC").
		Order("reservation_time ASC").
		Find(&reservations).Error
	return reservations, err
}

// ListByDate returns the reservations of one day that are not finished,
// ordered by time.
func (s *ReservationStore) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	var reservations []models.Reservation
	err := s.db.WithContext(ctx).
		Where("reservation_date = ?", date).
		Where("status <> ?", models.StatusFinished).
		Order("reservation_time ASC").
		Find(&reservations).Error
	return reservations, err
}

// ListByPhone matches number as a substring of the stored mobile numbers.
// When number contains digits only the digits are compared.
func (s *ReservationStore) ListByPhone(ctx context.Context, number string) ([]models.Reservation, error) {
	q := s.db.WithContext(ctx).Model(&models.Reservation{})
	if digits := onlyDigits(number); digits != "" {
		q = q.Where(stripPhone+" LIKE ?", "%"+digits+"%")
	} else {
		q = q.Where("mobile_number LIKE ? ESCAPE '!'", "%"+likeEscaper.Replace(strings.TrimSpace(number))+"%")
	}

	var reservations []models.Reservation
	err := q.Order("reservation_date ASC").
		Order("reservation_time ASC").
		Find(&reservations).Error
	return reservations, err
}

// Read returns nil without an error when no reservation has the id.
func (s *ReservationStore) Read(ctx context.Context, id string) (*models.Reservation, error) {
	var r models.Reservation
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *ReservationStore) Create(ctx context.Context, r *models.Reservation) error {
	return s.db.WithContext(ctx).Create(r).Error
}

// UpdateFields overwrites the guest and booking fields of a reservation.
// Status and identity are left untouched.
func (s *ReservationStore) UpdateFields(ctx context.Context, id string, fields models.Reservation) error {
	return s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Select("first_name", "last_name", "mobile_number", "reservation_date", "reservation_time", "people").
		Updates(&fields).Error
}

func (s *ReservationStore) UpdateStatus(ctx context.Context, id string, status models.ReservationStatus) error {
	return s.db.WithContext(ctx).
		Model(&models.Reservation{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
