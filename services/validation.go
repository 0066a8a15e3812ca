package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/models"
)

var (
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timePattern = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

const minTableNameLength = 2

// ReservationPayload is the body of a create or full update request.
// People stays raw so that a quoted number can be told apart from a number.
type ReservationPayload struct {
	FirstName       string          `json:"first_name"`
	LastName        string          `json:"last_name"`
	MobileNumber    string          `json:"mobile_number"`
	ReservationDate string          `json:"reservation_date"`
	ReservationTime string          `json:"reservation_time"`
	People          json.RawMessage `json:"people"`
	Status          string          `json:"status,omitempty"`
}

type TablePayload struct {
	TableName string          `json:"table_name"`
	Capacity  json.RawMessage `json:"capacity"`
}

// Validator checks reservation payloads against field rules and, on
// creation, against the restaurant schedule.
type Validator struct {
	loc       *time.Location
	closedDay time.Weekday
	opens     int // minutes after midnight
	closes    int
	now       func() time.Time
}

// NewValidator expects the schedule to be validated already; see config.Load.
func NewValidator(schedule config.RestaurantConfig, now func() time.Time) *Validator {
	loc := schedule.Location
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &Validator{
		loc:       loc,
		closedDay: schedule.ClosedDay,
		opens:     clockMinutes(schedule.Opens),
		closes:    clockMinutes(schedule.Closes),
		now:       now,
	}
}

// Fields applies the field rules shared by create and full update and
// returns the normalized reservation fields.
func (v *Validator) Fields(p ReservationPayload) (models.Reservation, error) {
	verr := &ValidationError{}
	r := models.Reservation{
		FirstName:       strings.TrimSpace(p.FirstName),
		LastName:        strings.TrimSpace(p.LastName),
		MobileNumber:    strings.TrimSpace(p.MobileNumber),
		ReservationDate: strings.TrimSpace(p.ReservationDate),
		ReservationTime: strings.TrimSpace(p.ReservationTime),
	}

	required := []struct {
		field string
		value string
	}{
		{"first_name", r.FirstName},
		{"last_name", r.LastName},
		{"mobile_number", r.MobileNumber},
		{"reservation_date", r.ReservationDate},
		{"reservation_time", r.ReservationTime},
	}
	for _, f := range required {
		if f.value == "" {
			verr.add(ErrMissingField, f.field, "Field required: "+f.field)
		}
	}
	if isAbsent(p.People) {
		verr.add(ErrMissingField, "people", "Field required: people")
	}

	if r.ReservationDate != "" && !validDate(r.ReservationDate) {
		verr.add(ErrInvalidFormat, "reservation_date", "Invalid date format: reservation_date")
	}
	if r.ReservationTime != "" && !validTime(r.ReservationTime) {
		verr.add(ErrInvalidFormat, "reservation_time", "Invalid time format: reservation_time")
	}

	if !isAbsent(p.People) {
		people, ok := positiveInt(p.People)
		if !ok {
			verr.add(ErrInvalidPartySize, "people", "Invalid number of people: people")
		}
		r.People = people
	}

	return r, verr.err()
}

// Schedule applies the creation-time rules: the date must be an open day,
// not in the past, the time inside opening hours and the whole instant in
// the future. Every broken rule is reported.
func (v *Validator) Schedule(r models.Reservation) error {
	verr := &ValidationError{}
	now := v.now().In(v.loc)

	day, err := time.ParseInLocation(models.DateLayout, r.ReservationDate, v.loc)
	if err != nil {
		verr.add(ErrInvalidFormat, "reservation_date", "Invalid date format: reservation_date")
		return verr
	}
	clock, err := time.Parse(models.TimeLayout, r.ReservationTime)
	if err != nil {
		verr.add(ErrInvalidFormat, "reservation_time", "Invalid time format: reservation_time")
		return verr
	}

	if day.Weekday() == v.closedDay {
		verr.add(ErrClosedDay, "reservation_date",
			fmt.Sprintf("The restaurant is closed on %ss.", v.closedDay))
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, v.loc)
	if day.Before(today) {
		verr.add(ErrPastDate, "reservation_date", "Reservations must be made for a future date.")
	}

	minutes := clock.Hour()*60 + clock.Minute()
	if minutes < v.opens || minutes > v.closes {
		verr.add(ErrOutsideHours, "reservation_time",
			fmt.Sprintf("Reservation time must be between %s and %s.", kitchenClock(v.opens), kitchenClock(v.closes)))
	}

	if startsAt, err := r.StartsAt(v.loc); err == nil && !startsAt.After(now) {
		verr.add(ErrNotInFuture, "reservation_time", "Reservation must be set for a future date and time.")
	}

	return verr.err()
}

// Table checks a new table payload.
func (v *Validator) Table(p TablePayload) (models.Table, error) {
	verr := &ValidationError{}
	t := models.Table{TableName: strings.TrimSpace(p.TableName)}

	if t.TableName == "" {
		verr.add(ErrMissingField, "table_name", "Field required: table_name")
	} else if utf8.RuneCountInString(t.TableName) < minTableNameLength {
		verr.add(ErrInvalidTableName, "table_name",
			fmt.Sprintf("table_name must be at least %d characters long", minTableNameLength))
	}

	if isAbsent(p.Capacity) {
		verr.add(ErrMissingField, "capacity", "Field required: capacity")
	} else if capacity, ok := positiveInt(p.Capacity); !ok {
		verr.add(ErrInvalidCapacity, "capacity", "capacity must be a whole number of at least 1")
	} else {
		t.Capacity = capacity
	}

	return t, verr.err()
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// positiveInt accepts a JSON number that is a whole number of at least 1.
func positiveInt(raw json.RawMessage) (int, bool) {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f < 1 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func validDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(models.DateLayout, s)
	return err == nil
}

func validTime(s string) bool {
	if !timePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(models.TimeLayout, s)
	return err == nil
}

func clockMinutes(s string) int {
	t, err := time.Parse(models.TimeLayout, s)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}

func kitchenClock(minutes int) string {
	return time.Date(0, 1, 1, minutes/60, minutes%60, 0, 0, time.UTC).Format(time.Kitchen)
}
