package validators

import (
	"context"
	"time"

	"github.com/yeremiapane/reservation-app/apperrors"
	"github.com/yeremiapane/reservation-app/models"
)

// ReservationCommand is a validated create or edit request.
type ReservationCommand struct {
	Body            Body
	FirstName       string
	LastName        string
	MobileNumber    string
	People          int
	ReservationDate string
	ReservationTime string
	At              time.Time
}

// Reservation builds the record described by the command.
func (c ReservationCommand) Reservation() models.Reservation {
	return models.Reservation{
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		MobileNumber:      c.MobileNumber,
		People:            c.People,
		ReservationDate:   c.ReservationDate,
		ReservationTime:   c.ReservationTime,
		ReservationStatus: models.StatusBooked,
	}
}

// ReservationChecks are run, in order, for reservation creation and edits.
func ReservationChecks(rules BusinessRules) []Check[ReservationCommand] {
	return []Check[ReservationCommand]{
		requireReservationString("first_name", func(c *ReservationCommand, v string) { c.FirstName = v }),
		requireReservationString("last_name", func(c *ReservationCommand, v string) { c.LastName = v }),
		requireReservationString("mobile_number", func(c *ReservationCommand, v string) { c.MobileNumber = v }),
		requireReservationField("people"),
		requireReservationField("reservation_date"),
		requireReservationField("reservation_time"),
		check("peopleIsPositiveInteger", peopleIsPositiveInteger),
		check("statusIsBookedOrAbsent", statusIsBookedOrAbsent),
		check("reservationIsInFuture", reservationIsInFuture(rules)),
		check("restaurantIsOpenThatDay", restaurantIsOpenThatDay(rules)),
		check("withinBusinessHours", withinBusinessHours(rules)),
	}
}

func requireReservationField(field string) Check[ReservationCommand] {
	return check("bodyHas_"+field, func(_ context.Context, c ReservationCommand) (ReservationCommand, error) {
		if !c.Body.present(field) {
			return c, apperrors.Validation(field, "Reservation must include a %s", field)
		}
		return c, nil
	})
}

func requireReservationString(field string, set func(*ReservationCommand, string)) Check[ReservationCommand] {
	return check("bodyHas_"+field, func(_ context.Context, c ReservationCommand) (ReservationCommand, error) {
		if !c.Body.present(field) {
			return c, apperrors.Validation(field, "Reservation must include a %s", field)
		}
		v, ok := c.Body.str(field)
		if !ok {
			return c, apperrors.Validation(field, "%s must be a string", field)
		}
		set(&c, v)
		return c, nil
	})
}

func peopleIsPositiveInteger(_ context.Context, c ReservationCommand) (ReservationCommand, error) {
	people, ok := c.Body.positiveInt("people")
	if !ok {
		return c, apperrors.Validation("people", "people must be a positive integer")
	}
	c.People = people
	return c, nil
}

// statusIsBookedOrAbsent rejects payloads that try to create a reservation past the booked state.
func statusIsBookedOrAbsent(_ context.Context, c ReservationCommand) (ReservationCommand, error) {
	if !c.Body.present("reservation_status") {
		return c, nil
	}
	if s, _ := c.Body.str("reservation_status"); s != string(models.StatusBooked) {
		return c, apperrors.Validation("reservation_status", "reservation_status cannot be %v when creating a reservation", c.Body["reservation_status"])
	}
	return c, nil
}

func reservationIsInFuture(rules BusinessRules) func(context.Context, ReservationCommand) (ReservationCommand, error) {
	return func(_ context.Context, c ReservationCommand) (ReservationCommand, error) {
		rawDate, ok := c.Body.str("reservation_date")
		date, err := time.Parse(models.DateLayout, rawDate)
		if !ok || err != nil {
			return c, apperrors.Validation("reservation_date", "reservation_date must be a date formatted YYYY-MM-DD")
		}
		rawTime, ok := c.Body.str("reservation_time")
		clock, ok := parseTimeOfDay(rawTime, ok)
		if !ok {
			return c, apperrors.Validation("reservation_time", "reservation_time must be a time formatted HH:MM")
		}

		at := time.Date(date.Year(), date.Month(), date.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, rules.location())
		if !at.After(rules.now()) {
			return c, apperrors.Validation("reservation_date", "Reservation must be made for a future date and time")
		}

		c.At = at
		c.ReservationDate = at.Format(models.DateLayout)
		c.ReservationTime = at.Format(models.TimeLayout)
		return c, nil
	}
}

func parseTimeOfDay(s string, ok bool) (time.Time, bool) {
	if !ok {
		return time.Time{}, false
	}
	for _, layout := range []string{"15:04", models.TimeLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func restaurantIsOpenThatDay(rules BusinessRules) func(context.Context, ReservationCommand) (ReservationCommand, error) {
	return func(_ context.Context, c ReservationCommand) (ReservationCommand, error) {
		if c.At.Weekday() == rules.ClosedWeekday {
			return c, apperrors.Validation("reservation_date", "The restaurant is closed on %ss", rules.ClosedWeekday)
		}
		return c, nil
	}
}

func withinBusinessHours(rules BusinessRules) func(context.Context, ReservationCommand) (ReservationCommand, error) {
	return func(_ context.Context, c ReservationCommand) (ReservationCommand, error) {
		if rules.beforeOpening(c.At) {
			return c, apperrors.Validation("reservation_time", "Reservations start at %s", rules.Opening)
		}
		if rules.afterLastSeating(c.At) {
			return c, apperrors.Validation("reservation_time", "The last reservation is at %s", rules.LastSeating)
		}
		return c, nil
	}
}
