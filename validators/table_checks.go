package validators

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/yeremiapane/reservation-app/apperrors"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/repository"
)

// TableCommand is a validated table creation request.
type TableCommand struct {
	Body      Body
	TableName string
	Capacity  int
}

func (c TableCommand) Table() models.Table {
	return models.Table{TableName: c.TableName, Capacity: c.Capacity, Status: models.TableFree}
}

// TableChecks are run, in order, for table creation.
func TableChecks() []Check[TableCommand] {
	return []Check[TableCommand]{
		check("bodyHasTableName", func(_ context.Context, c TableCommand) (TableCommand, error) {
			name, ok := c.Body.str("table_name")
			if !c.Body.present("table_name") || !ok {
				return c, apperrors.Validation("table_name", "Table must include a table_name")
			}
			c.TableName = name
			return c, nil
		}),
		check("tableNameHasValidLength", func(_ context.Context, c TableCommand) (TableCommand, error) {
			if utf8.RuneCountInString(c.TableName) < 2 {
				return c, apperrors.Validation("table_name", "table_name must be at least 2 characters long")
			}
			return c, nil
		}),
		check("bodyHasCapacity", func(_ context.Context, c TableCommand) (TableCommand, error) {
			if !c.Body.present("capacity") {
				return c, apperrors.Validation("capacity", "Table must include a capacity")
			}
			return c, nil
		}),
		check("capacityIsPositiveInteger", func(_ context.Context, c TableCommand) (TableCommand, error) {
			capacity, ok := c.Body.positiveInt("capacity")
			if !ok {
				return c, apperrors.Validation("capacity", "capacity must be a positive integer")
			}
			c.Capacity = capacity
			return c, nil
		}),
	}
}

var seatProperties = []string{"reservation_id"}

// SeatCommand carries a seat request and, once hydrated, the rows it acts on.
type SeatCommand struct {
	Body          Body
	TableID       uint
	ReservationID uint
	Table         models.Table
	Reservation   models.Reservation
}

// SeatRequestChecks validate the request body before any row is read.
func SeatRequestChecks() []Check[SeatCommand] {
	return []Check[SeatCommand]{
		check("bodyHasReservationId", func(_ context.Context, c SeatCommand) (SeatCommand, error) {
			if !c.Body.present("reservation_id") {
				return c, apperrors.Validation("reservation_id", "Request data must include a reservation_id")
			}
			id, ok := c.Body.id("reservation_id")
			if !ok {
				return c, apperrors.Validation("reservation_id", "reservation_id must be a positive integer")
			}
			c.ReservationID = id
			return c, nil
		}),
		check("hasOnlyValidProperties", func(_ context.Context, c SeatCommand) (SeatCommand, error) {
			if extra := c.Body.extraneous(seatProperties...); len(extra) > 0 {
				return c, apperrors.Validation(extra[0], "Invalid property(ies): %s", strings.Join(extra, ", "))
			}
			return c, nil
		}),
	}
}

// SeatLookup reads the rows a seat operation acts on. Lock* methods hold the row until the
// surrounding transaction ends.
type SeatLookup interface {
	FindReservation(ctx context.Context, id uint) (models.Reservation, error)
	LockReservation(ctx context.Context, id uint) (models.Reservation, error)
	LockTable(ctx context.Context, id uint) (models.Table, error)
}

// SeatStateChecks hydrate and verify the table and reservation. They must run inside the
// transaction that performs the seat so the verified state cannot change before the write.
func SeatStateChecks(lookup SeatLookup) []Check[SeatCommand] {
	return []Check[SeatCommand]{
		check("reservationIdExists", func(ctx context.Context, c SeatCommand) (SeatCommand, error) {
			res, err := lookup.FindReservation(ctx, c.ReservationID)
			if err != nil {
				return c, notFound(err, "reservation", c.ReservationID)
			}
			c.Reservation = res
			return c, nil
		}),
		check("tableExists", func(ctx context.Context, c SeatCommand) (SeatCommand, error) {
			table, err := lookup.LockTable(ctx, c.TableID)
			if err != nil {
				return c, notFound(err, "table", c.TableID)
			}
			c.Table = table
			res, err := lookup.LockReservation(ctx, c.ReservationID)
			if err != nil {
				return c, notFound(err, "reservation", c.ReservationID)
			}
			c.Reservation = res
			return c, nil
		}),
		check("tableIsNotOccupied", func(_ context.Context, c SeatCommand) (SeatCommand, error) {
			if !c.Table.IsFree() {
				return c, OccupiedError(c.Table)
			}
			return c, nil
		}),
		check("reservationFitsTableCapacity", func(_ context.Context, c SeatCommand) (SeatCommand, error) {
			if c.Reservation.People > c.Table.Capacity {
				return c, apperrors.Conflict("Maximum capacity for table_id #%d ('%s') is %d. Please select a table with capacity of at least %d to seat reservation_id #%d",
					c.Table.TableID, c.Table.TableName, c.Table.Capacity, c.Reservation.People, c.Reservation.ReservationID)
			}
			return c, nil
		}),
		check("reservationIsBooked", func(_ context.Context, c SeatCommand) (SeatCommand, error) {
			if c.Reservation.ReservationStatus != models.StatusBooked {
				return c, apperrors.Conflict("reservation_id #%d is already %s", c.Reservation.ReservationID, c.Reservation.ReservationStatus)
			}
			return c, nil
		}),
	}
}

// OccupiedError reports a seat attempt on a table that already holds a party.
func OccupiedError(t models.Table) error {
	return apperrors.Conflict("table_id #%d ('%s') is currently occupied. Finish current table seating to reset table status for new party seating.",
		t.TableID, t.TableName)
}

// TableIsOccupied is the precondition for finishing a table.
func TableIsOccupied(t models.Table) error {
	if t.Status != models.TableOccupied || t.ReservationID == nil {
		return apperrors.Conflict("table_id #%d ('%s') is currently not occupied", t.TableID, t.TableName)
	}
	return nil
}

func notFound(err error, entity string, id uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return err
}
