package validators

import (
	"context"

	"github.com/yeremiapane/reservation-app/apperrors"
	"github.com/yeremiapane/reservation-app/models"
)

// StatusCommand is a validated reservation status update.
type StatusCommand struct {
	Body          Body
	ReservationID uint
	Status        models.ReservationStatus
	Reservation   models.Reservation
}

// ReservationFinder is the single lookup a status update needs.
type ReservationFinder interface {
	FindReservation(ctx context.Context, id uint) (models.Reservation, error)
}

// StatusChecks are run, in order, for PUT /reservations/:id/status.
func StatusChecks(finder ReservationFinder) []Check[StatusCommand] {
	return []Check[StatusCommand]{
		check("reservationExists", func(ctx context.Context, c StatusCommand) (StatusCommand, error) {
			res, err := finder.FindReservation(ctx, c.ReservationID)
			if err != nil {
				return c, notFound(err, "reservation", c.ReservationID)
			}
			c.Reservation = res
			return c, nil
		}),
		check("bodyHasStatus", func(_ context.Context, c StatusCommand) (StatusCommand, error) {
			if !c.Body.present("status") {
				return c, apperrors.Validation("status", "Request data must include a status")
			}
			return c, nil
		}),
		check("statusIsValid", func(_ context.Context, c StatusCommand) (StatusCommand, error) {
			raw, _ := c.Body.str("status")
			status, ok := models.ParseReservationStatus(raw)
			if !ok {
				return c, apperrors.Validation("status", "status %v is unknown", c.Body["status"])
			}
			c.Status = status
			return c, nil
		}),
	}
}
