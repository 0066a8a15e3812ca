package models

type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "booked"
	StatusSeated    ReservationStatus = "seated"
	StatusFinished  ReservationStatus = "finished"
	StatusCancelled ReservationStatus = "cancelled"
)

var transitions = map[ReservationStatus][]ReservationStatus{
	StatusBooked: {StatusSeated, StatusCancelled},
	StatusSeated: {StatusFinished, StatusCancelled},
}

// Valid reports whether s is one of the four known statuses.
func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusBooked, StatusSeated, StatusFinished, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses accept no further transitions.
func (s ReservationStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}
