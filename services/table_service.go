package services

import (
	"context"
	"errors"
	"strings"

	"github.com/yeremiapane/reservation-app/database"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/utils"
)

type TableService interface {
	List(ctx context.Context) ([]models.Table, error)
	Get(ctx context.Context, id string) (*models.Table, error)
	Create(ctx context.Context, payload TablePayload) (*models.Table, error)
	Seat(ctx context.Context, tableID, reservationID string) (*Seating, error)
	Finish(ctx context.Context, tableID string) (*Seating, error)
}

// Seating is the state of a table and its reservation after a seat or
// finish. Reservation is nil when a finished table referenced nothing.
type Seating struct {
	Table       *models.Table       `json:"table"`
	Reservation *models.Reservation `json:"reservation"`
}

// FloorService manages tables and moves reservations on and off them.
type FloorService struct {
	store     *database.Store
	validator *Validator
}

func NewFloorService(store *database.Store, validator *Validator) *FloorService {
	return &FloorService{store: store, validator: validator}
}

func (f *FloorService) List(ctx context.Context) ([]models.Table, error) {
	tables, err := f.store.Tables.List(ctx)
	if err != nil {
		return nil, storeFailure("list tables", err)
	}
	if tables == nil {
		tables = []models.Table{}
	}
	return tables, nil
}

func (f *FloorService) Get(ctx context.Context, id string) (*models.Table, error) {
	t, err := f.store.Tables.Read(ctx, id)
	if err != nil {
		return nil, storeFailure("read table", err)
	}
	if t == nil {
		return nil, tableNotFound(id)
	}
	return t, nil
}

func (f *FloorService) Create(ctx context.Context, payload TablePayload) (*models.Table, error) {
	t, err := f.validator.Table(payload)
	if err != nil {
		return nil, err
	}
	if err := f.store.Tables.Create(ctx, &t); err != nil {
		return nil, storeFailure("create table", err)
	}
	utils.InfoLogger.Printf("New table created: %s (capacity=%d)", t.TableName, t.Capacity)
	return &t, nil
}

// Seat puts a booked reservation at a free table large enough for the party.
// The table and the reservation are written in one transaction.
func (f *FloorService) Seat(ctx context.Context, tableID, reservationID string) (*Seating, error) {
	reservationID = strings.TrimSpace(reservationID)
	if reservationID == "" {
		verr := &ValidationError{}
		verr.add(ErrMissingField, "reservation_id", "Field required: reservation_id")
		return nil, verr
	}

	var seating Seating
	err := f.store.InTx(ctx, func(tx *database.Store) error {
		table, err := tx.Tables.Read(ctx, tableID)
		if err != nil {
			return storeFailure("read table", err)
		}
		if table == nil {
			return tableNotFound(tableID)
		}
		reservation, err := tx.Reservations.Read(ctx, reservationID)
		if err != nil {
			return storeFailure("read reservation", err)
		}
		if reservation == nil {
			return reservationNotFound(reservationID)
		}

		if table.Occupied {
			return newError(ErrTableOccupied, "Table %s is occupied.", table.TableName)
		}
		if table.Capacity < reservation.People {
			return newError(ErrInsufficientCapacity, "Table %s seats %d, the party has %d.",
				table.TableName, table.Capacity, reservation.People)
		}
		if err := checkTransition(reservation.Status, models.StatusSeated); err != nil {
			return err
		}

		if err := tx.Tables.Seat(ctx, table.ID, reservation.ID); err != nil {
			if errors.Is(err, database.ErrTableOccupied) {
				return newError(ErrTableOccupied, "Table %s is occupied.", table.TableName)
			}
			return storeFailure("seat table", err)
		}
		if err := tx.Reservations.UpdateStatus(ctx, reservation.ID, models.StatusSeated); err != nil {
			return storeFailure("update reservation status", err)
		}

		return reload(ctx, tx, table.ID, reservation.ID, &seating)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %s seated at table %s", reservationID, seating.Table.TableName)
	return &seating, nil
}

// Finish frees an occupied table; its reservation, if still seated, becomes
// finished in the same transaction.
func (f *FloorService) Finish(ctx context.Context, tableID string) (*Seating, error) {
	var seating Seating
	err := f.store.InTx(ctx, func(tx *database.Store) error {
		table, err := tx.Tables.Read(ctx, tableID)
		if err != nil {
			return storeFailure("read table", err)
		}
		if table == nil {
			return tableNotFound(tableID)
		}
		if !table.Occupied {
			return newError(ErrTableNotOccupied, "Table %s is not occupied.", table.TableName)
		}

		if err := tx.Tables.Clear(ctx, table.ID); err != nil {
			return storeFailure("clear table", err)
		}

		var reservationID string
		if table.ReservationID != nil {
			reservationID = *table.ReservationID
			reservation, err := tx.Reservations.Read(ctx, reservationID)
			if err != nil {
				return storeFailure("read reservation", err)
			}
			if reservation != nil && reservation.Status == models.StatusSeated {
				if err := tx.Reservations.UpdateStatus(ctx, reservationID, models.StatusFinished); err != nil {
					return storeFailure("update reservation status", err)
				}
			}
		}

		return reload(ctx, tx, table.ID, reservationID, &seating)
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Table %s finished", seating.Table.TableName)
	return &seating, nil
}

func reload(ctx context.Context, tx *database.Store, tableID, reservationID string, into *Seating) error {
	table, err := tx.Tables.Read(ctx, tableID)
	if err != nil {
		return storeFailure("read table", err)
	}
	into.Table = table

	if reservationID == "" {
		return nil
	}
	reservation, err := tx.Reservations.Read(ctx, reservationID)
	if err != nil {
		return storeFailure("read reservation", err)
	}
	into.Reservation = reservation
	return nil
}

func tableNotFound(id string) error {
	return newError(ErrNotFound, "Table %s cannot be found.", id)
}

var _ TableService = (*FloorService)(nil)
