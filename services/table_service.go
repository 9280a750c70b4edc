package services

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/apperrors"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/metrics"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/utils"
	"github.com/yeremiapane/reservation-app/validators"
)

// TableService manages tables and their occupancy. Seat and Finish each run as a single
// transaction that locks the table row first and the reservation row second.
type TableService struct {
	store     repository.Store
	publisher events.Publisher
}

func NewTableService(store repository.Store, publisher events.Publisher) *TableService {
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	return &TableService{store: store, publisher: publisher}
}

// SeatResult is the state of both rows after a committed seat or finish.
type SeatResult struct {
	Table       models.Table       `json:"table"`
	Reservation models.Reservation `json:"reservation"`
}

func (s *TableService) Create(ctx context.Context, body validators.Body) (models.Table, error) {
	cmd, err := validators.Run(ctx, validators.TableCommand{Body: body}, validators.TableChecks()...)
	if err != nil {
		return models.Table{}, rejected("create_table", err)
	}

	table := cmd.Table()
	if err := s.store.CreateTable(ctx, &table); err != nil {
		return models.Table{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id": table.TableID,
		"name":     table.TableName,
		"capacity": table.Capacity,
	}).Info("table created")
	publish(ctx, s.publisher, events.TableCreated, table)
	return table, nil
}

func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	return s.store.ListTables(ctx, repository.TableQuery{})
}

func (s *TableService) Read(ctx context.Context, id uint) (models.Table, error) {
	t, err := s.store.FindTable(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return t, apperrors.NotFound("table", id)
	}
	return t, err
}

// Seat assigns a free table to a booked reservation. Either both rows change or neither does.
func (s *TableService) Seat(ctx context.Context, tableID uint, body validators.Body) (SeatResult, error) {
	cmd, err := validators.Run(ctx, validators.SeatCommand{Body: body, TableID: tableID}, validators.SeatRequestChecks()...)
	if err != nil {
		return SeatResult{}, rejected("seat_table", err)
	}

	var result SeatResult
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		checked, err := validators.Run(ctx, cmd, validators.SeatStateChecks(tx)...)
		if err != nil {
			return err
		}
		resID := checked.Reservation.ReservationID

		if err := tx.OccupyTable(ctx, tableID, resID); err != nil {
			return seatConflict(err, validators.OccupiedError(checked.Table))
		}
		if err := tx.SetReservationStatus(ctx, resID, models.StatusBooked, models.StatusSeated); err != nil {
			return seatConflict(err, apperrors.Conflict("reservation_id #%d is no longer booked", resID))
		}

		result.Table = checked.Table.Seated(resID)
		result.Reservation = checked.Reservation
		result.Reservation.ReservationStatus = models.StatusSeated
		return nil
	})
	if err != nil {
		return SeatResult{}, rejected("seat_table", err)
	}

	metrics.IncTransition(string(models.StatusBooked), string(models.StatusSeated))
	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id":       tableID,
		"reservation_id": result.Reservation.ReservationID,
		"people":         result.Reservation.People,
	}).Info("reservation seated")
	publish(ctx, s.publisher, events.ReservationSeated, result)
	return result, nil
}

// seatConflict replaces a lost compare-and-set with the caller-facing conflict.
func seatConflict(err, conflict error) error {
	if errors.Is(err, repository.ErrStaleState) {
		metrics.IncSeatConflict()
		return conflict
	}
	return err
}

// Finish releases an occupied table and finishes the reservation seated at it.
func (s *TableService) Finish(ctx context.Context, tableID uint) (SeatResult, error) {
	var result SeatResult
	err := s.store.WithTx(ctx, func(tx repository.Store) error {
		table, err := tx.LockTable(ctx, tableID)
		if err != nil {
			return notFound(err, "table", tableID)
		}
		if err := validators.TableIsOccupied(table); err != nil {
			return err
		}

		resID := *table.ReservationID
		reservation, err := tx.LockReservation(ctx, resID)
		if err != nil {
			return notFound(err, "reservation", resID)
		}

		if err := tx.ReleaseTable(ctx, tableID, resID); err != nil {
			return stale(err, "table_id #%d was changed by another request", tableID)
		}
		if reservation.ReservationStatus == models.StatusSeated {
			if err := tx.SetReservationStatus(ctx, resID, models.StatusSeated, models.StatusFinished); err != nil {
				return stale(err, "reservation_id #%d was changed by another request", resID)
			}
			reservation.ReservationStatus = models.StatusFinished
		} else {
			utils.InfoLogger.WithFields(logrus.Fields{
				"table_id":       tableID,
				"reservation_id": resID,
				"status":         reservation.ReservationStatus,
			}).Warn("finished table held a reservation that was not seated")
		}

		result.Table = table.Cleared()
		result.Reservation = reservation
		return nil
	})
	if err != nil {
		return SeatResult{}, rejected("finish_table", err)
	}

	if result.Reservation.ReservationStatus == models.StatusFinished {
		metrics.IncTransition(string(models.StatusSeated), string(models.StatusFinished))
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"table_id":       tableID,
		"reservation_id": result.Reservation.ReservationID,
	}).Info("table finished")
	publish(ctx, s.publisher, events.ReservationFinished, result)
	return result, nil
}

func (s *TableService) Stats(ctx context.Context) (repository.FloorCounts, error) {
	return s.store.CountFloor(ctx)
}
