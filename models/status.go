package models

import "fmt"

type ReservationStatus string

const (
	StatusBooked    ReservationStatus = "booked"
	StatusSeated    ReservationStatus = "seated"
	StatusFinished  ReservationStatus = "finished"
	StatusCancelled ReservationStatus = "cancelled"
)

// ReservationStatuses lists every recognised status in lifecycle order.
var ReservationStatuses = []ReservationStatus{StatusBooked, StatusSeated, StatusFinished, StatusCancelled}

// ActiveStatuses are the statuses shown on the day view.
var ActiveStatuses = []ReservationStatus{StatusBooked, StatusSeated}

// ParseReservationStatus accepts only the four recognised values.
func ParseReservationStatus(s string) (ReservationStatus, bool) {
	for _, st := range ReservationStatuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

// Terminal reports whether no further transition leaves the status.
func (s ReservationStatus) Terminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

type TableStatus string

const (
	TableFree     TableStatus = "Free"
	TableOccupied TableStatus = "Occupied"
)

type transition struct {
	From ReservationStatus
	To   ReservationStatus
	// ViaTable edges are only taken by seating or finishing a table.
	ViaTable bool
}

var reservationTransitions = []transition{
	{From: StatusBooked, To: StatusSeated, ViaTable: true},
	{From: StatusBooked, To: StatusCancelled},
	{From: StatusSeated, To: StatusFinished, ViaTable: true},
}

// TransitionError is returned when a requested status cannot follow the current one.
type TransitionError struct {
	From     ReservationStatus
	To       ReservationStatus
	ViaTable bool
}

func (e *TransitionError) Error() string {
	switch {
	case e.From.Terminal():
		return fmt.Sprintf("a %s reservation cannot be updated", e.From)
	case e.ViaTable:
		return fmt.Sprintf("reservation status %s is set by seating or finishing its table", e.To)
	default:
		return fmt.Sprintf("reservation status cannot change from %s to %s", e.From, e.To)
	}
}

// Transition returns the next status or a *TransitionError.
// Requesting the current status is a no-op and always allowed.
func Transition(current, requested ReservationStatus) (ReservationStatus, error) {
	if current == requested {
		return current, nil
	}
	for _, tr := range reservationTransitions {
		if tr.From == current && tr.To == requested {
			return requested, nil
		}
	}
	return current, &TransitionError{From: current, To: requested}
}

// RequestedTransition is Transition limited to the edges a caller may ask for directly.
// A reservation becomes seated or finished only together with its table.
func RequestedTransition(current, requested ReservationStatus) (ReservationStatus, error) {
	next, err := Transition(current, requested)
	if err != nil || next == current {
		return next, err
	}
	for _, tr := range reservationTransitions {
		if tr.From == current && tr.To == requested && tr.ViaTable {
			return current, &TransitionError{From: current, To: requested, ViaTable: true}
		}
	}
	return next, nil
}
