package service

import (
	"context"
	"testing"
	"time"

	settingserrors "seatwise/internal/settings/errors"
	"seatwise/internal/settings/validator"
	"seatwise/pkg/config"
	apperrors "seatwise/pkg/errors"
	"seatwise/pkg/logger"
	"seatwise/pkg/model"
)

// Mock repository for testing
type mockSettingRepository struct {
	findByUnitFunc func(ctx context.Context, unitID string) (*model.ReservationSetting, error)
	upsertFunc     func(ctx context.Context, setting *model.ReservationSetting) error
}

func (m *mockSettingRepository) FindByUnit(ctx context.Context, unitID string) (*model.ReservationSetting, error) {
	if m.findByUnitFunc != nil {
		return m.findByUnitFunc(ctx, unitID)
	}
	return nil, settingserrors.ErrNotFound
}

func (m *mockSettingRepository) Upsert(ctx context.Context, setting *model.ReservationSetting) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, setting)
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  "json",
			Service: "test",
		}),
		ReadTimeout:         5 * time.Second,
		WriteTimeout:        5 * time.Second,
		DefaultBookableFrom: "11:00",
		DefaultBookableTo:   "23:00",
		DefaultMode:         model.ModeRequest,
	}
}

func newTestService(t *testing.T, repo *mockSettingRepository) SettingService {
	t.Helper()
	cfg := testConfig()
	settingValidator, err := validator.NewSettingValidator(cfg.Log)
	if err != nil {
		t.Fatalf("NewSettingValidator() error = %v", err)
	}
	return NewSettingService(repo, settingValidator, cfg)
}

func intPtr(v int) *int { return &v }

func TestResolve_FallsBackToDefaults(t *testing.T) {
	svc := newTestService(t, &mockSettingRepository{})

	setting, err := svc.Resolve(context.Background(), "unit-1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	if setting.UnitID != "unit-1" {
		t.Errorf("unit_id = %q, want unit-1", setting.UnitID)
	}
	if setting.BookableFrom != "11:00" || setting.BookableTo != "23:00" {
		t.Errorf("window = %s-%s, want defaults", setting.BookableFrom, setting.BookableTo)
	}
	if setting.Mode != model.ModeRequest {
		t.Errorf("mode = %q, want request", setting.Mode)
	}
	if setting.DailyCapacity != nil {
		t.Error("defaults must not carry a daily capacity")
	}
}

func TestResolve_ReturnsStoredSettings(t *testing.T) {
	stored := &model.ReservationSetting{
		UnitID:        "unit-1",
		BookableFrom:  "17:00",
		BookableTo:    "22:00",
		Mode:          model.ModeAuto,
		DailyCapacity: intPtr(30),
	}
	svc := newTestService(t, &mockSettingRepository{
		findByUnitFunc: func(ctx context.Context, unitID string) (*model.ReservationSetting, error) {
			return stored, nil
		},
	})

	setting, err := svc.Resolve(context.Background(), "unit-1")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if setting.BookableFrom != "17:00" || setting.Mode != model.ModeAuto {
		t.Errorf("got %+v, want stored settings", setting)
	}
}

func TestUpdate_MergesIntoDefaults(t *testing.T) {
	var upserted *model.ReservationSetting
	svc := newTestService(t, &mockSettingRepository{
		upsertFunc: func(ctx context.Context, setting *model.ReservationSetting) error {
			upserted = setting
			return nil
		},
	})

	capacity := 25
	blackouts := []string{"2026-01-01"}
	emails := []string{" Owner@Example.COM "}
	setting, err := svc.Update(context.Background(), "unit-1", &model.ReservationSettingUpdate{
		DailyCapacity:      &capacity,
		BlackoutDates:      &blackouts,
		NotificationEmails: &emails,
		Mode:               model.ModeAuto,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if upserted == nil {
		t.Fatal("expected Upsert to be called")
	}
	if setting.DailyCapacity == nil || *setting.DailyCapacity != 25 {
		t.Errorf("daily_capacity = %v, want 25", setting.DailyCapacity)
	}
	if setting.BookableFrom != "11:00" {
		t.Errorf("untouched bookable_from = %q, want default 11:00", setting.BookableFrom)
	}
	if setting.Mode != model.ModeAuto {
		t.Errorf("mode = %q, want auto", setting.Mode)
	}
	if len(setting.NotificationEmails) != 1 || setting.NotificationEmails[0] != "owner@example.com" {
		t.Errorf("notification_emails = %v, want normalized lowercase", setting.NotificationEmails)
	}
}

func TestUpdate_ZeroCapacityClearsLimit(t *testing.T) {
	stored := &model.ReservationSetting{
		UnitID:        "unit-1",
		BookableFrom:  "11:00",
		BookableTo:    "23:00",
		Mode:          model.ModeRequest,
		DailyCapacity: intPtr(40),
	}
	svc := newTestService(t, &mockSettingRepository{
		findByUnitFunc: func(ctx context.Context, unitID string) (*model.ReservationSetting, error) {
			return stored, nil
		},
	})

	zero := 0
	setting, err := svc.Update(context.Background(), "unit-1", &model.ReservationSettingUpdate{
		DailyCapacity: &zero,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if setting.DailyCapacity != nil {
		t.Errorf("daily_capacity = %v, want cleared", setting.DailyCapacity)
	}
}

func TestUpdate_RejectsInvalidInput(t *testing.T) {
	svc := newTestService(t, &mockSettingRepository{})

	tests := []struct {
		name   string
		update *model.ReservationSettingUpdate
	}{
		{
			name:   "malformed wall clock",
			update: &model.ReservationSettingUpdate{BookableFrom: "25:00"},
		},
		{
			name:   "malformed blackout date",
			update: &model.ReservationSettingUpdate{BlackoutDates: &[]string{"24.12.2025"}},
		},
		{
			name:   "unknown mode",
			update: &model.ReservationSettingUpdate{Mode: "instant"},
		},
		{
			name:   "inverted window",
			update: &model.ReservationSettingUpdate{BookableFrom: "23:00", BookableTo: "11:00"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(context.Background(), "unit-1", tt.update)
			if err == nil {
				t.Fatal("Update() error = nil, want validation error")
			}
			if apperrors.AsAppError(err).Code != apperrors.CodeValidation {
				t.Errorf("error code = %q, want %q", apperrors.AsAppError(err).Code, apperrors.CodeValidation)
			}
		})
	}
}
