package services

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

// ReservationService is the reservation workflow consumed by the API.
type ReservationService interface {
	List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error)
	Get(ctx context.Context, id string) (*models.Reservation, error)
	Create(ctx context.Context, payload ReservationPayload) (*models.Reservation, error)
	Update(ctx context.Context, id string, payload ReservationPayload) (*models.Reservation, error)
	UpdateStatus(ctx context.Context, id string, status string) (*models.Reservation, error)
}

// ReservationFilter selects a listing: by date first, then by phone, else all.
type ReservationFilter struct {
	Date         string
	MobileNumber string
}

type ReservationWorkflow struct {
	store     *database.Store
	validator *Validator
}

func NewReservationWorkflow(store *database.Store, validator *Validator) *ReservationWorkflow {
	return &ReservationWorkflow{store: store, validator: validator}
}

func (w *ReservationWorkflow) List(ctx context.Context, filter ReservationFilter) ([]models.Reservation, error) {
	var (
		reservations []models.Reservation
		err          error
	)
	switch {
	case filter.Date != "":
		if !validDate(filter.Date) {
			verr := &ValidationError{}
			verr.add(ErrInvalidFormat, "date", "Invalid date format: date")
			return nil, verr
		}
		reservations, err = w.store.Reservations.ListByDate(ctx, filter.Date)
	case filter.MobileNumber != "":
		reservations, err = w.store.Reservations.ListByPhone(ctx, filter.MobileNumber)
	default:
		reservations, err = w.store.Reservations.List(ctx)
	}
	if err != nil {
		return nil, storeFailure("list reservations", err)
	}
	if reservations == nil {
		reservations = []models.Reservation{}
	}
	return reservations, nil
}

func (w *ReservationWorkflow) Get(ctx context.Context, id string) (*models.Reservation, error) {
	r, err := w.store.Reservations.Read(ctx, id)
	if err != nil {
		return nil, storeFailure("read reservation", err)
	}
	if r == nil {
		return nil, reservationNotFound(id)
	}
	return r, nil
}

// Create validates the payload, including the schedule rules, and stores a
// booked reservation.
func (w *ReservationWorkflow) Create(ctx context.Context, payload ReservationPayload) (*models.Reservation, error) {
	if status := strings.TrimSpace(payload.Status); status != "" && models.ReservationStatus(status) != models.StatusBooked {
		return nil, newError(ErrInvalidInitialStatus, "Status '%s' is not allowed upon creation.", status)
	}

	r, err := w.validator.Fields(payload)
	if err != nil {
		return nil, err
	}
	if err := w.validator.Schedule(r); err != nil {
		return nil, err
	}

	r.Status = models.StatusBooked
	if err := w.store.Reservations.Create(ctx, &r); err != nil {
		return nil, storeFailure("create reservation", err)
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": r.ID,
		"date":           r.ReservationDate,
		"time":           r.ReservationTime,
		"people":         r.People,
	}).Info("reservation created")
	return &r, nil
}

// Update replaces the guest and booking fields. The status is not touched.
func (w *ReservationWorkflow) Update(ctx context.Context, id string, payload ReservationPayload) (*models.Reservation, error) {
	fields, err := w.validator.Fields(payload)
	if err != nil {
		return nil, err
	}

	var updated *models.Reservation
	err = w.store.InTx(ctx, func(tx *database.Store) error {
		existing, err := tx.Reservations.Read(ctx, id)
		if err != nil {
			return storeFailure("read reservation", err)
		}
		if existing == nil {
			return reservationNotFound(id)
		}
		if err := tx.Reservations.UpdateFields(ctx, id, fields); err != nil {
			return storeFailure("update reservation", err)
		}
		updated, err = tx.Reservations.Read(ctx, id)
		if err != nil {
			return storeFailure("read reservation", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus moves a reservation through the status machine. A seated
// reservation that is finished or cancelled also frees its table.
func (w *ReservationWorkflow) UpdateStatus(ctx context.Context, id string, status string) (*models.Reservation, error) {
	target := models.ReservationStatus(strings.TrimSpace(status))

	var updated *models.Reservation
	err := w.store.InTx(ctx, func(tx *database.Store) error {
		current, err := tx.Reservations.Read(ctx, id)
		if err != nil {
			return storeFailure("read reservation", err)
		}
		if current == nil {
			return reservationNotFound(id)
		}
		if err := checkTransition(current.Status, target); err != nil {
			return err
		}

		if err := tx.Reservations.UpdateStatus(ctx, id, target); err != nil {
			return storeFailure("update reservation status", err)
		}
		if current.Status == models.StatusSeated && target.Terminal() {
			if err := releaseTable(ctx, tx, id); err != nil {
				return err
			}
		}

		updated, err = tx.Reservations.Read(ctx, id)
		if err != nil {
			return storeFailure("read reservation", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %s status changed to %s", id, target)
	return updated, nil
}

// checkTransition validates the target before looking at the current status,
// so an unknown status is reported as such even for a finished reservation.
func checkTransition(from, to models.ReservationStatus) error {
	if !to.Valid() {
		return newError(ErrInvalidStatus, "Status '%s' is not valid.", to)
	}
	switch from {
	case models.StatusFinished:
		return newError(ErrReservationFinalized, "A finished reservation cannot be updated.")
	case models.StatusCancelled:
		return newError(ErrReservationAlreadyCancelled, "A cancelled reservation cannot be updated.")
	}
	if !from.CanTransitionTo(to) {
		return newError(ErrInvalidTransition, "Reservation status cannot change from '%s' to '%s'.", from, to)
	}
	return nil
}

func releaseTable(ctx context.Context, tx *database.Store, reservationID string) error {
	table, err := tx.Tables.FindByReservation(ctx, reservationID)
	if err != nil {
		return storeFailure("find table", err)
	}
	if table == nil {
		return nil
	}
	if err := tx.Tables.Clear(ctx, table.ID); err != nil {
		return storeFailure("clear table", err)
	}
	return nil
}

func reservationNotFound(id string) error {
	return newError(ErrNotFound, "Reservation %s cannot be found.", id)
}

var _ ReservationService = (*ReservationWorkflow)(nil)
