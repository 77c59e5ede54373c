package validator

import (
	"testing"
	"time"

	apperrors "seatwise/pkg/errors"
	"seatwise/pkg/model"
)

func intPtr(v int) *int { return &v }

func testSetting() *model.ReservationSetting {
	return &model.ReservationSetting{
		UnitID:        "unit-1",
		BlackoutDates: []string{"2025-12-24", "2025-12-25"},
		DailyCapacity: intPtr(40),
		BookableFrom:  "11:00",
		BookableTo:    "23:00",
		Mode:          model.ModeRequest,
	}
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		t.Fatalf("bad test timestamp %q: %v", value, err)
	}
	return ts
}

func TestAdmit(t *testing.T) {
	tests := []struct {
		name       string
		candidate  Candidate
		aggregate  int
		setting    func() *model.ReservationSetting
		wantReason string
	}{
		{
			name:      "admitted inside window with room to spare",
			candidate: Candidate{StartTime: at(t, "2025-12-20T19:00:00Z"), Headcount: 4},
			aggregate: 10,
			setting:   testSetting,
		},
		{
			name:       "blackout date rejected",
			candidate:  Candidate{StartTime: at(t, "2025-12-24T19:00:00Z"), Headcount: 2},
			aggregate:  0,
			setting:    testSetting,
			wantReason: apperrors.ReasonBlackoutDate,
		},
		{
			name:      "blackout wins over capacity full",
			candidate: Candidate{StartTime: at(t, "2025-12-25T19:00:00Z"), Headcount: 2},
			aggregate: 40,
			setting:   testSetting,
			wantReason: apperrors.ReasonBlackoutDate,
		},
		{
			name:       "before window rejected",
			candidate:  Candidate{StartTime: at(t, "2025-12-20T10:59:00Z"), Headcount: 2},
			aggregate:  0,
			setting:    testSetting,
			wantReason: apperrors.ReasonTimeWindow,
		},
		{
			name:       "after window rejected",
			candidate:  Candidate{StartTime: at(t, "2025-12-20T23:01:00Z"), Headcount: 2},
			aggregate:  0,
			setting:    testSetting,
			wantReason: apperrors.ReasonTimeWindow,
		},
		{
			name:      "window lower bound is inclusive",
			candidate: Candidate{StartTime: at(t, "2025-12-20T11:00:00Z"), Headcount: 2},
			aggregate: 0,
			setting:   testSetting,
		},
		{
			name:      "window upper bound is inclusive",
			candidate: Candidate{StartTime: at(t, "2025-12-20T23:00:00Z"), Headcount: 2},
			aggregate: 0,
			setting:   testSetting,
		},
		{
			name:       "date already full",
			candidate:  Candidate{StartTime: at(t, "2025-12-20T19:00:00Z"), Headcount: 1},
			aggregate:  40,
			setting:    testSetting,
			wantReason: apperrors.ReasonCapacityFull,
		},
		{
			name:       "over capacity counts as full too",
			candidate:  Candidate{StartTime: at(t, "2025-12-20T19:00:00Z"), Headcount: 1},
			aggregate:  45,
			setting:    testSetting,
			wantReason: apperrors.ReasonCapacityFull,
		},
		{
			name:       "party too large for remaining seats",
			candidate:  Candidate{StartTime: at(t, "2025-12-20T19:00:00Z"), Headcount: 6},
			aggregate:  36,
			setting:    testSetting,
			wantReason: apperrors.ReasonCapacityLimited,
		},
		{
			name:      "party exactly fills remaining seats",
			candidate: Candidate{StartTime: at(t, "2025-12-20T19:00:00Z"), Headcount: 4},
			aggregate: 36,
			setting:   testSetting,
		},
		{
			name:      "no capacity limit admits any aggregate",
			candidate: Candidate{StartTime: at(t, "2025-12-20T19:00:00Z"), Headcount: 150},
			aggregate: 10000,
			setting: func() *model.ReservationSetting {
				s := testSetting()
				s.DailyCapacity = nil
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejection, err := Admit(tt.candidate, tt.aggregate, tt.setting())
			if err != nil {
				t.Fatalf("Admit() error = %v", err)
			}
			if tt.wantReason == "" {
				if rejection != nil {
					t.Fatalf("Admit() = rejection %q, want admitted", rejection.Reason)
				}
				return
			}
			if rejection == nil {
				t.Fatalf("Admit() = admitted, want rejection %q", tt.wantReason)
			}
			if rejection.Reason != tt.wantReason {
				t.Errorf("Admit() reason = %q, want %q", rejection.Reason, tt.wantReason)
			}
		})
	}
}

func TestAdmitCapacityLimitedRemaining(t *testing.T) {
	s := testSetting()
	rejection, err := Admit(Candidate{StartTime: at(t, "2025-12-20T19:00:00Z"), Headcount: 10}, 35, s)
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	if rejection == nil {
		t.Fatal("Admit() = admitted, want capacity_limited rejection")
	}
	remaining, ok := rejection.Details["remaining"].(int)
	if !ok || remaining != 5 {
		t.Errorf("rejection remaining = %v, want 5", rejection.Details["remaining"])
	}
}

func TestAdmitMalformedWindow(t *testing.T) {
	s := testSetting()
	s.BookableFrom = "25:00"
	_, err := Admit(Candidate{StartTime: at(t, "2025-12-20T19:00:00Z"), Headcount: 2}, 0, s)
	if err == nil {
		t.Fatal("Admit() error = nil, want malformed window error")
	}
}

func TestAdmitRejectionAppError(t *testing.T) {
	s := testSetting()
	rejection, err := Admit(Candidate{StartTime: at(t, "2025-12-24T19:00:00Z"), Headcount: 2}, 0, s)
	if err != nil {
		t.Fatalf("Admit() error = %v", err)
	}
	appErr := rejection.AppError()
	if appErr.Code != apperrors.CodeValidation {
		t.Errorf("AppError code = %q, want %q", appErr.Code, apperrors.CodeValidation)
	}
	if got := apperrors.RejectionReason(appErr); got != apperrors.ReasonBlackoutDate {
		t.Errorf("RejectionReason = %q, want %q", got, apperrors.ReasonBlackoutDate)
	}
}
