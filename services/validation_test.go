package services

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/reservation-app/config"
	"github.com/yeremiapane/reservation-app/models"
)

// Monday 3 June 2030, noon.
var fixedNow = time.Date(2030, time.June, 3, 12, 0, 0, 0, time.UTC)

func testValidator() *Validator {
	schedule := config.DefaultRestaurant()
	schedule.Location = time.UTC
	return NewValidator(schedule, func() time.Time { return fixedNow })
}

func validPayload() ReservationPayload {
	return ReservationPayload{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		MobileNumber:    "555-0100",
		ReservationDate: "2030-06-05",
		ReservationTime: "18:30",
		People:          json.RawMessage(`2`),
	}
}

func kindsOf(err error) []error {
	var verr *ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	kinds := make([]error, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		kinds = append(kinds, v.Kind)
	}
	return kinds
}

func TestValidatorFields_Valid(t *testing.T) {
	r, err := testValidator().Fields(validPayload())
	require.NoError(t, err)
	assert.Equal(t, "Ada", r.FirstName)
	assert.Equal(t, 2, r.People)
	assert.Equal(t, "2030-06-05", r.ReservationDate)
}

func TestValidatorFields_CollectsEveryMissingField(t *testing.T) {
	_, err := testValidator().Fields(ReservationPayload{})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		assert.ErrorIs(t, v.Kind, ErrMissingField)
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{"first_name", "last_name", "mobile_number", "reservation_date", "reservation_time", "people"}, fields)
	assert.Contains(t, err.Error(), "Field required: first_name")
}

func TestValidatorFields_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *ReservationPayload)
		kind   error
	}{
		{"blank first name", func(p *ReservationPayload) { p.FirstName = "   " }, ErrMissingField},
		{"null people", func(p *ReservationPayload) { p.People = json.RawMessage(`null`) }, ErrMissingField},
		{"date with slashes", func(p *ReservationPayload) { p.ReservationDate = "2030/06/05" }, ErrInvalidFormat},
		{"date not a calendar day", func(p *ReservationPayload) { p.ReservationDate = "2030-02-30" }, ErrInvalidFormat},
		{"time with seconds", func(p *ReservationPayload) { p.ReservationTime = "18:30:00" }, ErrInvalidFormat},
		{"time single digit hour", func(p *ReservationPayload) { p.ReservationTime = "9:30" }, ErrInvalidFormat},
		{"time out of range", func(p *ReservationPayload) { p.ReservationTime = "25:00" }, ErrInvalidFormat},
		{"people as string", func(p *ReservationPayload) { p.People = json.RawMessage(`"2"`) }, ErrInvalidPartySize},
		{"people zero", func(p *ReservationPayload) { p.People = json.RawMessage(`0`) }, ErrInvalidPartySize},
		{"people negative", func(p *ReservationPayload) { p.People = json.RawMessage(`-3`) }, ErrInvalidPartySize},
		{"people fractional", func(p *ReservationPayload) { p.People = json.RawMessage(`2.5`) }, ErrInvalidPartySize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPayload()
			tt.mutate(&p)
			_, err := testValidator().Fields(p)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Len(t, kindsOf(err), 1)
		})
	}
}

func TestValidatorSchedule(t *testing.T) {
	tests := []struct {
		name  string
		date  string
		time  string
		kinds []error
	}{
		{"open day in the future", "2030-06-05", "18:30", nil},
		{"later today", "2030-06-03", "13:00", nil},
		{"opening minute", "2030-06-05", "10:30", nil},
		{"closing minute", "2030-06-05", "21:30", nil},
		{"closed tuesday", "2030-06-04", "18:30", []error{ErrClosedDay}},
		{"earlier today", "2030-06-03", "11:00", []error{ErrNotInFuture}},
		{"before opening", "2030-06-05", "10:29", []error{ErrOutsideHours}},
		{"after closing", "2030-06-05", "21:31", []error{ErrOutsideHours}},
		{"yesterday", "2030-06-02", "18:30", []error{ErrPastDate, ErrNotInFuture}},
		{"past tuesday at dawn", "2030-05-28", "09:00", []error{ErrClosedDay, ErrPastDate, ErrOutsideHours, ErrNotInFuture}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := testValidator().Schedule(models.Reservation{ReservationDate: tt.date, ReservationTime: tt.time})
			if tt.kinds == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.kinds, kindsOf(err))
		})
	}
}

func TestValidatorSchedule_ClosedDayMessage(t *testing.T) {
	err := testValidator().Schedule(models.Reservation{ReservationDate: "2030-06-11", ReservationTime: "19:00"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed on Tuesdays")
}

func TestValidatorSchedule_UsesRestaurantTimezone(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	schedule := config.DefaultRestaurant()
	schedule.Location = tokyo
	// 23:00 UTC on Monday is already Tuesday 08:00 in Tokyo.
	v := NewValidator(schedule, func() time.Time { return time.Date(2030, time.June, 3, 23, 0, 0, 0, time.UTC) })

	err = v.Schedule(models.Reservation{ReservationDate: "2030-06-03", ReservationTime: "20:00"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPastDate)
}

func TestValidatorTable(t *testing.T) {
	tests := []struct {
		name    string
		payload TablePayload
		kind    error
	}{
		{"valid", TablePayload{TableName: "Bar #1", Capacity: json.RawMessage(`4`)}, nil},
		{"missing name", TablePayload{Capacity: json.RawMessage(`4`)}, ErrMissingField},
		{"short name", TablePayload{TableName: "A", Capacity: json.RawMessage(`4`)}, ErrInvalidTableName},
		{"missing capacity", TablePayload{TableName: "Bar #1"}, ErrMissingField},
		{"zero capacity", TablePayload{TableName: "Bar #1", Capacity: json.RawMessage(`0`)}, ErrInvalidCapacity},
		{"string capacity", TablePayload{TableName: "Bar #1", Capacity: json.RawMessage(`"4"`)}, ErrInvalidCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table, err := testValidator().Table(tt.payload)
			if tt.kind == nil {
				require.NoError(t, err)
				assert.Equal(t, 4, table.Capacity)
				return
			}
			assert.ErrorIs(t, err, tt.kind)
		})
	}
}
