// Package repository is the persistence gateway for reservations and tables.
package repository

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/yeremiapane/reservation-app/models"
)

// ErrNotFound is returned when a looked up row does not exist.
var ErrNotFound = errors.New("record not found")

// ErrStaleState is returned by conditional writes whose precondition no longer holds,
// i.e. another request changed the row first.
var ErrStaleState = errors.New("row changed concurrently")

// ReservationQuery selects reservations. Zero fields do not filter.
type ReservationQuery struct {
	Date         string
	Statuses     []models.ReservationStatus
	MobileNumber string
}

// DayView selects the booked and seated reservations of one date.
func DayView(date string) ReservationQuery {
	return ReservationQuery{Date: date, Statuses: models.ActiveStatuses}
}

// MobileSearch selects reservations whose mobile number contains the given digits,
// ignoring formatting characters on both sides.
func MobileSearch(number string) ReservationQuery {
	return ReservationQuery{MobileNumber: digitsOnly(number)}
}

func digitsOnly(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, s)
}

// TableQuery selects tables. A zero Status lists every table.
type TableQuery struct {
	Status models.TableStatus
}

// FloorCounts summarises table occupancy.
type FloorCounts struct {
	Free         int64 `json:"free"`
	Occupied     int64 `json:"occupied"`
	Total        int64 `json:"total"`
	SeatedCovers int64 `json:"seated_covers"`
}

// Store is implemented by GormStore. Methods returning a single row return ErrNotFound
// when it does not exist.
type Store interface {
	CreateReservation(ctx context.Context, r *models.Reservation) error
	FindReservation(ctx context.Context, id uint) (models.Reservation, error)
	LockReservation(ctx context.Context, id uint) (models.Reservation, error)
	ListReservations(ctx context.Context, q ReservationQuery) ([]models.Reservation, error)
	UpdateReservationDetails(ctx context.Context, r models.Reservation) error
	SetReservationStatus(ctx context.Context, id uint, from, to models.ReservationStatus) error

	CreateTable(ctx context.Context, t *models.Table) error
	FindTable(ctx context.Context, id uint) (models.Table, error)
	LockTable(ctx context.Context, id uint) (models.Table, error)
	ListTables(ctx context.Context, q TableQuery) ([]models.Table, error)
	OccupyTable(ctx context.Context, tableID, reservationID uint) error
	ReleaseTable(ctx context.Context, tableID, reservationID uint) error
	CountFloor(ctx context.Context) (FloorCounts, error)

	// WithTx runs fn against a Store bound to one transaction. The transaction commits
	// when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
