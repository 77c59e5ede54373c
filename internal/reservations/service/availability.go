package service

import (
	"context"
	"fmt"
	"time"

	apperrors "seatwise/pkg/errors"
	"seatwise/pkg/model"
)

// MonthlyAvailability computes the public per-day view of one calendar month.
// Only day-level state is exposed: blackouts, fullness, and remaining seats
// when a capacity is configured. Individual bookings are never revealed.
func (s *bookingService) MonthlyAvailability(ctx context.Context, unitID string, month string) (*model.MonthAvailability, error) {
	if unitID == "" {
		return nil, apperrors.InvalidInput("Unit ID is required")
	}

	monthStart, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, apperrors.InvalidInput("Month must be in YYYY-MM format")
	}
	monthEnd := monthStart.AddDate(0, 1, 0)
	daysInMonth := monthEnd.Sub(monthStart).Hours() / 24

	setting, err := s.settings.Resolve(ctx, unitID)
	if err != nil {
		return nil, err
	}

	// Without a daily capacity no booking volume can close a day, so the
	// occupancy aggregation is skipped entirely.
	var totals map[string]int
	if setting.DailyCapacity != nil {
		totals, err = s.repo.SumHeadcountByDateKey(ctx, unitID, monthStart.Format("2006-01-02"), monthEnd.Format("2006-01-02"))
		if err != nil {
			s.cfg.Log.Error("Failed to aggregate month occupancy", "unit_id", unitID, "month", month, "error", err)
			return nil, apperrors.Internal("Failed to compute availability", err)
		}
	}

	days := make([]model.DayAvailability, 0, int(daysInMonth))
	for d := monthStart; d.Before(monthEnd); d = d.AddDate(0, 0, 1) {
		dateKey := d.Format("2006-01-02")
		day := model.DayAvailability{Date: dateKey, Bookable: true}

		switch {
		case setting.IsBlackout(dateKey):
			day.Bookable = false
			day.Reason = apperrors.ReasonBlackoutDate
		case setting.DailyCapacity != nil:
			remaining := *setting.DailyCapacity - totals[dateKey]
			if remaining <= 0 {
				remaining = 0
				day.Bookable = false
				day.Reason = apperrors.ReasonCapacityFull
			}
			day.Remaining = &remaining
		}

		days = append(days, day)
	}

	s.cfg.Log.Debug("Computed monthly availability",
		"unit_id", unitID,
		"month", month,
		"days", len(days),
		"capacity_limited", setting.DailyCapacity != nil,
	)

	return &model.MonthAvailability{
		UnitID: unitID,
		Month:  fmt.Sprintf("%04d-%02d", monthStart.Year(), monthStart.Month()),
		Days:   days,
	}, nil
}
