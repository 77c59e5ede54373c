package service

import (
	"context"
	"testing"

	apperrors "seatwise/pkg/errors"
	"seatwise/pkg/model"
)

func TestMonthlyAvailability_WithCapacity(t *testing.T) {
	setting := requestModeSetting()
	setting.DailyCapacity = intPtr(40)
	setting.BlackoutDates = []string{"2025-12-24", "2025-12-25"}

	repo := &mockBookingRepository{
		sumHeadcountFunc: func(ctx context.Context, unitID string, fromKey, toKey string) (map[string]int, error) {
			return map[string]int{
				"2025-12-20": 40,
				"2025-12-21": 45,
				"2025-12-22": 12,
			}, nil
		},
	}
	svc := newTestService(t, repo, setting, &mockSideEffects{})

	availability, err := svc.MonthlyAvailability(context.Background(), "unit-1", "2025-12")
	if err != nil {
		t.Fatalf("MonthlyAvailability() error = %v", err)
	}

	if availability.Month != "2025-12" {
		t.Errorf("month = %q, want 2025-12", availability.Month)
	}
	if len(availability.Days) != 31 {
		t.Fatalf("days = %d, want 31", len(availability.Days))
	}

	byDate := make(map[string]model.DayAvailability, len(availability.Days))
	for _, d := range availability.Days {
		byDate[d.Date] = d
	}

	if d := byDate["2025-12-20"]; d.Bookable || d.Reason != apperrors.ReasonCapacityFull {
		t.Errorf("2025-12-20 = %+v, want closed capacity_full", d)
	}
	if d := byDate["2025-12-21"]; d.Bookable || d.Remaining == nil || *d.Remaining != 0 {
		t.Errorf("overbooked day = %+v, want remaining 0", d)
	}
	if d := byDate["2025-12-22"]; !d.Bookable || d.Remaining == nil || *d.Remaining != 28 {
		t.Errorf("2025-12-22 = %+v, want bookable with 28 remaining", d)
	}
	if d := byDate["2025-12-24"]; d.Bookable || d.Reason != apperrors.ReasonBlackoutDate {
		t.Errorf("2025-12-24 = %+v, want closed blackout_date", d)
	}
	if d := byDate["2025-12-01"]; !d.Bookable || d.Remaining == nil || *d.Remaining != 40 {
		t.Errorf("untouched day = %+v, want full capacity remaining", d)
	}
}

func TestMonthlyAvailability_NoCapacitySkipsAggregation(t *testing.T) {
	setting := requestModeSetting()
	setting.BlackoutDates = []string{"2026-02-14"}

	aggregated := false
	repo := &mockBookingRepository{
		sumHeadcountFunc: func(ctx context.Context, unitID string, fromKey, toKey string) (map[string]int, error) {
			aggregated = true
			return map[string]int{}, nil
		},
	}
	svc := newTestService(t, repo, setting, &mockSideEffects{})

	availability, err := svc.MonthlyAvailability(context.Background(), "unit-1", "2026-02")
	if err != nil {
		t.Fatalf("MonthlyAvailability() error = %v", err)
	}

	if aggregated {
		t.Error("aggregation must not run without a daily capacity")
	}
	if len(availability.Days) != 28 {
		t.Errorf("days = %d, want 28", len(availability.Days))
	}
	for _, d := range availability.Days {
		if d.Date == "2026-02-14" {
			if d.Bookable {
				t.Error("blackout day must stay closed without a capacity")
			}
			continue
		}
		if !d.Bookable {
			t.Errorf("day %s closed without capacity or blackout", d.Date)
		}
		if d.Remaining != nil {
			t.Errorf("day %s has remaining without a capacity", d.Date)
		}
	}
}

func TestMonthlyAvailability_InvalidMonth(t *testing.T) {
	svc := newTestService(t, &mockBookingRepository{}, requestModeSetting(), &mockSideEffects{})

	_, err := svc.MonthlyAvailability(context.Background(), "unit-1", "December 2025")
	if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeInvalidInput {
		t.Fatalf("MonthlyAvailability() = %v, want invalid input", err)
	}
}
