// Package services applies validated commands to the store and announces the results.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yeremiapane/reservation-app/apperrors"
	"github.com/yeremiapane/reservation-app/events"
	"github.com/yeremiapane/reservation-app/metrics"
	"github.com/yeremiapane/reservation-app/repository"
	"github.com/yeremiapane/reservation-app/utils"
)

// rejected counts caller errors per operation and passes err through.
func rejected(operation string, err error) error {
	if apperrors.Public(err) {
		metrics.IncValidationFailure(operation)
	}
	return err
}

func notFound(err error, entity string, id uint) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(entity, id)
	}
	return err
}

func stale(err error, format string, args ...interface{}) error {
	if errors.Is(err, repository.ErrStaleState) {
		return apperrors.Conflict(format, args...)
	}
	return err
}

// publish runs after commit. Delivery failures are logged and never undo the change.
func publish(ctx context.Context, p events.Publisher, eventType string, data interface{}) {
	if err := p.Publish(context.WithoutCancel(ctx), events.New(eventType, data)); err != nil {
		utils.ErrorLogger.WithField("event", eventType).Error(fmt.Errorf("publish: %w", err))
	}
}
