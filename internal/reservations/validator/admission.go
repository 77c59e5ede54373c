package validator

import (
	"fmt"
	"time"

	apperrors "seatwise/pkg/errors"
	"seatwise/pkg/model"
	"seatwise/pkg/wallclock"
)

// Candidate is the slice of a submission the admission decision looks at.
// Contact fields and occasion are deliberately absent: they are a shape
// concern, not an admission concern. DateKey is the venue-local calendar date
// the booking counts toward; when empty it is derived from StartTime.
type Candidate struct {
	StartTime time.Time
	DateKey   string
	Headcount int
}

// Rejection explains why a candidate was refused. A nil *Rejection means the
// candidate is admitted.
type Rejection struct {
	Reason  string
	Message string
	Details map[string]any
}

func (r *Rejection) AppError() *apperrors.AppError {
	return apperrors.Rejection(r.Reason, r.Message, r.Details)
}

// Admit decides whether a candidate may be accepted for its date given the
// venue settings and the current capacity aggregate for that date.
//
// Checks run in a fixed order and short-circuit on the first failure, because
// the order is the user-facing error precedence: blackout, then time window,
// then capacity. The returned error reports malformed settings, not a
// rejection.
func Admit(c Candidate, aggregateForDate int, s *model.ReservationSetting) (*Rejection, error) {
	dateKey := c.DateKey
	if dateKey == "" {
		dateKey = wallclock.DateKey(c.StartTime)
	}

	if s.IsBlackout(dateKey) {
		return &Rejection{
			Reason:  apperrors.ReasonBlackoutDate,
			Message: fmt.Sprintf("Bookings cannot be placed on %s", dateKey),
			Details: map[string]any{"date": dateKey},
		}, nil
	}

	inWindow, err := wallclock.Within(c.StartTime, s.BookableFrom, s.BookableTo)
	if err != nil {
		return nil, fmt.Errorf("malformed bookable window for unit %s: %w", s.UnitID, err)
	}
	if !inWindow {
		return &Rejection{
			Reason:  apperrors.ReasonTimeWindow,
			Message: fmt.Sprintf("Bookings must start between %s and %s", s.BookableFrom, s.BookableTo),
			Details: map[string]any{"from": s.BookableFrom, "to": s.BookableTo},
		}, nil
	}

	if s.DailyCapacity != nil {
		capacity := *s.DailyCapacity
		if aggregateForDate >= capacity {
			return &Rejection{
				Reason:  apperrors.ReasonCapacityFull,
				Message: fmt.Sprintf("%s is fully booked", dateKey),
				Details: map[string]any{"date": dateKey},
			}, nil
		}
		if aggregateForDate+c.Headcount > capacity {
			remaining := capacity - aggregateForDate
			return &Rejection{
				Reason:  apperrors.ReasonCapacityLimited,
				Message: fmt.Sprintf("Only %d seats remain on %s", remaining, dateKey),
				Details: map[string]any{"date": dateKey, "remaining": remaining},
			}, nil
		}
	}

	return nil, nil
}
