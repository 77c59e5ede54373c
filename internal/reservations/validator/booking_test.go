package validator

import (
	"strings"
	"testing"
	"time"

	"seatwise/pkg/logger"
	"seatwise/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json", Service: "test"})
}

func baseBooking() *model.Booking {
	return &model.Booking{
		UnitID:    "unit-1",
		Name:      "Nadia Kov",
		Headcount: 4,
		StartTime: time.Date(2025, 12, 20, 19, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 12, 20, 21, 0, 0, 0, time.UTC),
		Status:    model.StatusPending,
		Source:    model.SourceGuest,
		Email:     "nadia@example.com",
	}
}

func TestValidate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name      string
		mutate    func(b *model.Booking)
		wantField string
	}{
		{name: "valid guest booking", mutate: func(b *model.Booking) {}},
		{
			name:   "valid manual booking without contact",
			mutate: func(b *model.Booking) { b.Source = model.SourceManual; b.Email = ""; b.Phone = "" },
		},
		{
			name:      "missing name",
			mutate:    func(b *model.Booking) { b.Name = "" },
			wantField: "Name",
		},
		{
			name:      "single character name",
			mutate:    func(b *model.Booking) { b.Name = "N" },
			wantField: "Name",
		},
		{
			name:      "zero headcount",
			mutate:    func(b *model.Booking) { b.Headcount = 0 },
			wantField: "Headcount",
		},
		{
			name:      "headcount above cap",
			mutate:    func(b *model.Booking) { b.Headcount = 500 },
			wantField: "Headcount",
		},
		{
			name:      "end before start",
			mutate:    func(b *model.Booking) { b.EndTime = b.StartTime.Add(-time.Hour) },
			wantField: "EndTime",
		},
		{
			name:      "unknown status",
			mutate:    func(b *model.Booking) { b.Status = "tentative" },
			wantField: "Status",
		},
		{
			name:      "malformed phone",
			mutate:    func(b *model.Booking) { b.Phone = "0791234567" },
			wantField: "Phone",
		},
		{
			name:      "malformed email",
			mutate:    func(b *model.Booking) { b.Email = "not-an-email" },
			wantField: "Email",
		},
		{
			name:      "guest without any contact",
			mutate:    func(b *model.Booking) { b.Email = ""; b.Phone = "" },
			wantField: "Phone",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := baseBooking()
			tt.mutate(booking)

			err := v.Validate(booking)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatal("Validate() error = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantField) {
				t.Errorf("Validate() error = %v, want mention of %s", err, tt.wantField)
			}
		})
	}
}

func TestValidateUpdate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	start := time.Date(2025, 12, 20, 19, 0, 0, 0, time.UTC)
	badEnd := start.Add(-time.Hour)
	goodEnd := start.Add(2 * time.Hour)
	tooMany := 500
	badPhone := "12345"

	tests := []struct {
		name    string
		update  *model.BookingUpdate
		wantErr bool
	}{
		{name: "empty patch", update: &model.BookingUpdate{}},
		{name: "move both times", update: &model.BookingUpdate{StartTime: &start, EndTime: &goodEnd}},
		{name: "end before start", update: &model.BookingUpdate{StartTime: &start, EndTime: &badEnd}, wantErr: true},
		{name: "headcount above cap", update: &model.BookingUpdate{Headcount: &tooMany}, wantErr: true},
		{name: "malformed phone", update: &model.BookingUpdate{Phone: &badPhone}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateUpdate(tt.update)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUpdate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
