package service

import (
	"context"
	"fmt"
	"time"

	"seatwise/internal/reservations/validator"
	apperrors "seatwise/pkg/errors"
	"seatwise/pkg/model"
	"seatwise/pkg/sanitizer"
	"seatwise/pkg/wallclock"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Confirm moves a pending booking to confirmed. Only pending bookings can be
// confirmed; anything else is a conflict, including a repeat confirm.
func (s *bookingService) Confirm(ctx context.Context, id string, actor string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.StatusPending {
		return nil, apperrors.Conflict(fmt.Sprintf("Only pending bookings can be confirmed, booking is %s", booking.Status))
	}

	result, err := s.repo.UpdateStatus(ctx, id, []string{model.StatusPending}, bson.M{
		"status": model.StatusConfirmed,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to confirm booking", err)
	}
	if result.MatchedCount == 0 {
		// Raced with another transition between the read and the write.
		return nil, apperrors.Conflict("Booking is no longer pending")
	}

	booking.Status = model.StatusConfirmed
	s.cfg.Log.Info("Booking confirmed", "id", id, "unit_id", booking.UnitID, "actor", actor)

	s.sideEffects.BookingConfirmed(booking, actor)
	return booking, nil
}

// Cancel transitions a pending or confirmed booking to cancelled. Cancelling
// an already cancelled booking is a conflict, not a silent success, so the
// caller learns their view of the booking was stale.
func (s *bookingService) Cancel(ctx context.Context, id string, actor, reason string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Booking is already cancelled")
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	reason = sanitizer.TrimAndNormalize(reason)

	result, err := s.repo.UpdateStatus(ctx, id, []string{model.StatusPending, model.StatusConfirmed}, bson.M{
		"status":        model.StatusCancelled,
		"cancelled_at":  now,
		"cancel_reason": reason,
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to cancel booking", err)
	}
	if result.MatchedCount == 0 {
		return nil, apperrors.Conflict("Booking is already cancelled")
	}

	booking.Status = model.StatusCancelled
	booking.CancelledAt = &now
	booking.CancelReason = reason
	s.cfg.Log.Info("Booking cancelled", "id", id, "unit_id", booking.UnitID, "actor", actor, "reason", reason)

	s.sideEffects.BookingCancelled(booking, actor, reason)
	return booking, nil
}

// CancelByReference is the guest-facing cancel: the opaque code is the only
// credential.
func (s *bookingService) CancelByReference(ctx context.Context, code string, reason string) (*model.Booking, error) {
	booking, err := s.GetByReference(ctx, code)
	if err != nil {
		return nil, err
	}
	return s.Cancel(ctx, booking.ID, model.ActorGuest, reason)
}

// Update patches a pending or confirmed booking. When the patch moves the
// booking's date or changes its headcount, the merged booking goes through
// admission again with the booking's own current contribution excluded, so a
// party of 6 can still grow to 8 on a day with 2 seats nominally left.
func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate, actor string) (*model.Booking, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if existing.Status == model.StatusCancelled {
		return nil, apperrors.Conflict("Cancelled bookings cannot be modified")
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		s.cfg.Log.Warn("Booking update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.mergeBookingUpdates(existing, updates)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	needsAdmission := merged.Headcount != existing.Headcount ||
		merged.DateKey != existing.DateKey

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if needsAdmission {
			setting, err := s.settings.Resolve(sessCtx, merged.UnitID)
			if err != nil {
				return err
			}

			aggregate, err := s.aggregateForDateKey(sessCtx, merged.UnitID, merged.DateKey)
			if err != nil {
				return apperrors.Internal("Failed to read current occupancy", err)
			}
			// The stored booking still counts toward its date; remove its own
			// headcount when it stays on the same day.
			if merged.DateKey == existing.DateKey {
				aggregate -= existing.Headcount
			}

			rejection, err := validator.Admit(validator.Candidate{
				StartTime: merged.StartTime,
				DateKey:   merged.DateKey,
				Headcount: merged.Headcount,
			}, aggregate, setting)
			if err != nil {
				return apperrors.Internal("Failed to evaluate booking admission", err)
			}
			if rejection != nil {
				return rejection.AppError()
			}
		}

		result, err := s.repo.Update(sessCtx, id, merged)
		if err != nil {
			return apperrors.Internal("Failed to update booking", err)
		}
		if result.MatchedCount == 0 {
			// Raced with a cancel between the read and the write.
			return apperrors.Conflict("Booking is no longer modifiable")
		}
		return nil
	})
	if err != nil {
		if reason := apperrors.RejectionReason(err); reason != "" {
			s.cfg.Log.Info("Booking update rejected", "id", id, "reason", reason)
			return nil, err
		}
		if apperrors.AsAppError(err).Code == apperrors.CodeConflict {
			return nil, err
		}
		s.cfg.Log.Error("Failed to update booking", "id", id, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id, "unit_id", merged.UnitID, "actor", actor)

	s.sideEffects.BookingUpdated(merged, actor)
	return merged, nil
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.Name != nil {
		merged.Name = *updates.Name
	}
	if updates.Headcount != nil {
		merged.Headcount = *updates.Headcount
	}
	if updates.Occasion != nil {
		merged.Occasion = *updates.Occasion
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
		merged.DateKey = wallclock.DateKey(merged.StartTime)
		if updates.EndTime == nil {
			// Keep the booked duration when only the start moves.
			merged.EndTime = merged.StartTime.Add(existing.EndTime.Sub(existing.StartTime))
		}
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.Phone != nil {
		merged.Phone = *updates.Phone
	}
	if updates.Email != nil {
		merged.Email = *updates.Email
	}
	if updates.CustomData != nil {
		merged.CustomData = *updates.CustomData
	}

	return &merged
}
