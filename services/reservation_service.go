package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/reservation-app/apperrors"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/metrics"
	"github.com/yeremiapane/reservation-app/models"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/utils"
	"github.com/yeremiapane/reservation-app/validators"
)

// ReservationService owns the reservation lifecycle outside of seating.
type ReservationService struct {
	store     repository.Store
	rules     validators.BusinessRules
	publisher events.Publisher
	strict    bool
}

// NewReservationService builds the service. When strict is false the status endpoint
// accepts any recognised status regardless of the current one.
func NewReservationService(store repository.Store, rules validators.BusinessRules, publisher events.Publisher, strict bool) *ReservationService {
	if publisher == nil {
		publisher = events.LogPublisher{}
	}
	return &ReservationService{store: store, rules: rules, publisher: publisher, strict: strict}
}

// ListFilter selects the listing mode. MobileNumber takes precedence over Date.
type ListFilter struct {
	Date         string
	MobileNumber string
}

func (s *ReservationService) Create(ctx context.Context, body validators.Body) (models.Reservation, error) {
	cmd, err := validators.Run(ctx, validators.ReservationCommand{Body: body}, validators.ReservationChecks(s.rules)...)
	if err != nil {
		return models.Reservation{}, rejected("create_reservation", err)
	}

	reservation := cmd.Reservation()
	if err := s.store.CreateReservation(ctx, &reservation); err != nil {
		return models.Reservation{}, err
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id":   reservation.ReservationID,
		"reservation_date": reservation.ReservationDate,
		"reservation_time": reservation.ReservationTime,
		"people":           reservation.People,
	}).Info("reservation created")
	s.publish(ctx, events.ReservationCreated, reservation)
	return reservation, nil
}

// List returns the booked and seated reservations of a day ordered by time, or, when a
// mobile number is given, every reservation matching it.
func (s *ReservationService) List(ctx context.Context, f ListFilter) ([]models.Reservation, error) {
	if f.MobileNumber != "" {
		q := repository.MobileSearch(f.MobileNumber)
		if q.MobileNumber == "" {
			return nil, apperrors.Validation("mobile_number", "mobile_number must contain at least one digit")
		}
		return s.store.ListReservations(ctx, q)
	}

	date, err := s.viewDate(f.Date)
	if err != nil {
		return nil, err
	}
	return s.store.ListReservations(ctx, repository.DayView(date))
}

// Day returns every reservation of a date regardless of status, for exports.
func (s *ReservationService) Day(ctx context.Context, date string) ([]models.Reservation, error) {
	d, err := s.viewDate(date)
	if err != nil {
		return nil, err
	}
	return s.store.ListReservations(ctx, repository.ReservationQuery{Date: d})
}

// Today is the current date in the restaurant's timezone.
func (s *ReservationService) Today() string {
	return s.rules.Today()
}

func (s *ReservationService) viewDate(date string) (string, error) {
	if date == "" {
		return s.rules.Today(), nil
	}
	if _, err := time.Parse(models.DateLayout, date); err != nil {
		return "", apperrors.Validation("date", "date must be formatted YYYY-MM-DD")
	}
	return date, nil
}

func (s *ReservationService) Read(ctx context.Context, id uint) (models.Reservation, error) {
	r, err := s.store.FindReservation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return r, apperrors.NotFound("reservation", id)
	}
	return r, err
}

// Update replaces the details of a booked reservation. The body goes through the same
// checks as creation.
func (s *ReservationService) Update(ctx context.Context, id uint, body validators.Body) (models.Reservation, error) {
	if _, err := s.Read(ctx, id); err != nil {
		return models.Reservation{}, err
	}

	cmd, err := validators.Run(ctx, validators.ReservationCommand{Body: body}, validators.ReservationChecks(s.rules)...)
	if err != nil {
		return models.Reservation{}, rejected("update_reservation", err)
	}

	var updated models.Reservation
	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		current, err := tx.LockReservation(ctx, id)
		if err != nil {
			return notFound(err, "reservation", id)
		}
		if current.ReservationStatus != models.StatusBooked {
			return apperrors.Conflict("Only booked reservations can be edited; reservation_id #%d is %s", id, current.ReservationStatus)
		}

		next := cmd.Reservation()
		next.ReservationID = id
		if err := tx.UpdateReservationDetails(ctx, next); err != nil {
			return stale(err, "reservation_id #%d was changed by another request", id)
		}
		updated, err = tx.FindReservation(ctx, id)
		return err
	})
	if err != nil {
		return models.Reservation{}, err
	}

	utils.InfoLogger.WithField("reservation_id", id).Info("reservation updated")
	s.publish(ctx, events.ReservationUpdated, updated)
	return updated, nil
}

// UpdateStatus applies a status change requested through the API. In strict mode only
// cancelling a booking changes anything here; seating and finishing go through TableService.
func (s *ReservationService) UpdateStatus(ctx context.Context, id uint, body validators.Body) (models.ReservationStatus, error) {
	cmd, err := validators.Run(ctx, validators.StatusCommand{Body: body, ReservationID: id}, validators.StatusChecks(s.store)...)
	if err != nil {
		return "", rejected("update_status", err)
	}

	current := cmd.Reservation.ReservationStatus
	next := cmd.Status
	if s.strict {
		if next, err = models.RequestedTransition(current, cmd.Status); err != nil {
			return "", rejected("update_status", apperrors.Conflict("%s", err.Error()))
		}
	}
	if next == current {
		return current, nil
	}

	if err := s.store.SetReservationStatus(ctx, id, current, next); err != nil {
		return "", stale(err, "reservation_id #%d was changed by another request", id)
	}

	metrics.IncTransition(string(current), string(next))
	utils.InfoLogger.WithFields(logrus.Fields{
		"reservation_id": id,
		"from":           current,
		"to":             next,
	}).Info("reservation status changed")

	reservation := cmd.Reservation
	reservation.ReservationStatus = next
	s.publish(ctx, events.ReservationStatusChanged, reservation)
	return next, nil
}

func (s *ReservationService) publish(ctx context.Context, eventType string, data interface{}) {
	publish(ctx, s.publisher, eventType, data)
}
