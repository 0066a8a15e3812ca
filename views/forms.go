package views

import (
	"context"
	"strconv"
	"strings"

	"github.com/yeremiapane/reservation-app/client"
	"github.com/yeremiapane/reservation-app/models"
)

// FormError is a form value rejected before it reaches the API.
type FormError struct {
	Message string
}

func (e *FormError) Error() string { return e.Message }

// ReservationForm is what the new and edit pages post. People stays text
// until submit so a bad value can be shown back as typed.
type ReservationForm struct {
	FirstName       string `form:"first_name"`
	LastName        string `form:"last_name"`
	MobileNumber    string `form:"mobile_number"`
	ReservationDate string `form:"reservation_date"`
	ReservationTime string `form:"reservation_time"`
	People          string `form:"people"`
}

func ReservationFormOf(r *models.Reservation) ReservationForm {
	return ReservationForm{
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		MobileNumber:    r.MobileNumber,
		ReservationDate: r.ReservationDate,
		ReservationTime: r.ReservationTime,
		People:          strconv.Itoa(r.People),
	}
}

func (f ReservationForm) input() (client.ReservationInput, error) {
	in := client.ReservationInput{
		FirstName:       strings.TrimSpace(f.FirstName),
		LastName:        strings.TrimSpace(f.LastName),
		MobileNumber:    strings.TrimSpace(f.MobileNumber),
		ReservationDate: strings.TrimSpace(f.ReservationDate),
		ReservationTime: strings.TrimSpace(f.ReservationTime),
	}
	people := strings.TrimSpace(f.People)
	if people == "" {
		return in, nil
	}
	n, err := strconv.Atoi(people)
	if err != nil {
		return in, &FormError{Message: "Invalid number of people: people"}
	}
	in.People = n
	return in, nil
}

// SubmitReservation creates the reservation, or updates it when id is set.
// The error is the API's message, ready to show on the form.
func SubmitReservation(ctx context.Context, api API, id string, form ReservationForm) (*models.Reservation, error) {
	in, err := form.input()
	if err != nil {
		return nil, err
	}
	if id == "" {
		return api.CreateReservation(ctx, in)
	}
	return api.UpdateReservation(ctx, id, in)
}

type TableForm struct {
	TableName string `form:"table_name"`
	Capacity  string `form:"capacity"`
}

func SubmitTable(ctx context.Context, api API, form TableForm) (*models.Table, error) {
	in := client.TableInput{TableName: strings.TrimSpace(form.TableName)}
	if c := strings.TrimSpace(form.Capacity); c != "" {
		n, err := strconv.Atoi(c)
		if err != nil {
			return nil, &FormError{Message: "capacity must be a whole number of at least 1"}
		}
		in.Capacity = n
	}
	return api.CreateTable(ctx, in)
}

// SeatForm lists the tables a reservation could be seated at. Occupied
// tables and tables that are too small are listed but not selectable.
type SeatForm struct {
	Reservation *models.Reservation
	Tables      []SeatOption
}

type SeatOption struct {
	models.Table
	Available bool
}

func LoadSeatForm(ctx context.Context, api API, reservationID string) (*SeatForm, error) {
	r, err := api.ReadReservation(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	tables, err := api.ListTables(ctx)
	if err != nil {
		return nil, err
	}

	options := make([]SeatOption, 0, len(tables))
	for _, t := range tables {
		options = append(options, SeatOption{
			Table:     t,
			Available: !t.Occupied && t.Capacity >= r.People,
		})
	}
	return &SeatForm{Reservation: r, Tables: options}, nil
}

func SubmitSeat(ctx context.Context, api API, reservationID, tableID string) error {
	if tableID == "" {
		return &FormError{Message: "Choose a table"}
	}
	_, err := api.SeatReservation(ctx, tableID, reservationID)
	return err
}
