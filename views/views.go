// Package views holds the host-stand pages: the dashboard, phone search and
// the reservation, table and seating forms. Every page reads and writes
// through the reservations API.
package views

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/yeremiapane/reservation-app/client"
	"github.com/yeremiapane/reservation-app/models"
)

var ErrInvalidDate = errors.New("date must be YYYY-MM-DD")

// API is the part of the reservations API the pages use. *client.Client
// implements it.
type API interface {
	ListReservations(ctx context.Context, date string) ([]models.Reservation, error)
	SearchByPhone(ctx context.Context, mobileNumber string) ([]models.Reservation, error)
	ReadReservation(ctx context.Context, id string) (*models.Reservation, error)
	CreateReservation(ctx context.Context, in client.ReservationInput) (*models.Reservation, error)
	UpdateReservation(ctx context.Context, id string, in client.ReservationInput) (*models.Reservation, error)
	UpdateReservationStatus(ctx context.Context, id string, status models.ReservationStatus) (*models.Reservation, error)
	ListTables(ctx context.Context) ([]models.Table, error)
	CreateTable(ctx context.Context, in client.TableInput) (*models.Table, error)
	SeatReservation(ctx context.Context, tableID, reservationID string) (*client.Seating, error)
	FinishTable(ctx context.Context, tableID string) (*client.Seating, error)
}

// ReservationRow is a reservation with the actions its status allows.
type ReservationRow struct {
	models.Reservation
	CanSeat   bool
	CanCancel bool
	CanEdit   bool
}

func rowOf(r models.Reservation) ReservationRow {
	return ReservationRow{
		Reservation: r,
		CanSeat:     r.Status.CanTransitionTo(models.StatusSeated),
		CanCancel:   r.Status.CanTransitionTo(models.StatusCancelled),
		CanEdit:     r.Status == models.StatusBooked,
	}
}

func rowsOf(list []models.Reservation) []ReservationRow {
	rows := make([]ReservationRow, 0, len(list))
	for _, r := range list {
		rows = append(rows, rowOf(r))
	}
	return rows
}

type Dashboard struct {
	Date         string
	Previous     string
	Today        string
	Next         string
	Reservations []ReservationRow
	Tables       []models.Table
}

// LoadDashboard fetches the reservations for date, today when empty, and
// every table. Cancelled reservations are left out and the rest are sorted
// by time.
func LoadDashboard(ctx context.Context, api API, date string, now time.Time) (*Dashboard, error) {
	today := now.Format(models.DateLayout)
	if date == "" {
		date = today
	}
	day, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	reservations, err := api.ListReservations(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("load reservations: %w", err)
	}
	tables, err := api.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("load tables: %w", err)
	}

	visible := make([]models.Reservation, 0, len(reservations))
	for _, r := range reservations {
		if r.Status != models.StatusCancelled {
			visible = append(visible, r)
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].ReservationTime < visible[j].ReservationTime
	})

	return &Dashboard{
		Date:         date,
		Previous:     day.AddDate(0, 0, -1).Format(models.DateLayout),
		Today:        today,
		Next:         day.AddDate(0, 0, 1).Format(models.DateLayout),
		Reservations: rowsOf(visible),
		Tables:       tables,
	}, nil
}

func CancelReservation(ctx context.Context, api API, id string) (*models.Reservation, error) {
	return api.UpdateReservationStatus(ctx, id, models.StatusCancelled)
}

// FinishTable clears the table, then reloads the dashboard for date so the
// freed table and the finished reservation show up together.
func FinishTable(ctx context.Context, api API, tableID, date string, now time.Time) (*Dashboard, error) {
	if _, err := api.FinishTable(ctx, tableID); err != nil {
		return nil, err
	}
	return LoadDashboard(ctx, api, date, now)
}

// Search lists the reservations matching mobileNumber. An empty number
// searches nothing.
func Search(ctx context.Context, api API, mobileNumber string) ([]ReservationRow, error) {
	if mobileNumber == "" {
		return nil, nil
	}
	list, err := api.SearchByPhone(ctx, mobileNumber)
	if err != nil {
		return nil, err
	}
	return rowsOf(list), nil
}
