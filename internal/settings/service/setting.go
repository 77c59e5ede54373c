package service

import (
	"context"
	"errors"

	settingserrors "seatwise/internal/settings/errors"
	"seatwise/internal/settings/repository"
	"seatwise/internal/settings/validator"
	"seatwise/pkg/config"
	apperrors "seatwise/pkg/errors"
	"seatwise/pkg/model"
	"seatwise/pkg/sanitizer"
)

type SettingService interface {
	// Resolve returns the unit's effective settings, falling back to the
	// configured defaults when the unit never stored any.
	Resolve(ctx context.Context, unitID string) (*model.ReservationSetting, error)
	Update(ctx context.Context, unitID string, update *model.ReservationSettingUpdate) (*model.ReservationSetting, error)
}

type settingService struct {
	repo      repository.SettingRepository
	validator *validator.SettingValidator
	cfg       *config.Config
}

func NewSettingService(
	repo repository.SettingRepository,
	settingValidator *validator.SettingValidator,
	cfg *config.Config,
) SettingService {
	return &settingService{
		repo:      repo,
		validator: settingValidator,
		cfg:       cfg,
	}
}

func (s *settingService) Resolve(ctx context.Context, unitID string) (*model.ReservationSetting, error) {
	if unitID == "" {
		return nil, apperrors.InvalidInput("Unit ID is required")
	}

	setting, err := s.repo.FindByUnit(ctx, unitID)
	if err != nil {
		if errors.Is(err, settingserrors.ErrNotFound) {
			return s.defaults(unitID), nil
		}
		return nil, apperrors.Internal("Failed to load reservation settings", err)
	}

	return setting, nil
}

// Update merges the administrator patch into the stored document field by
// field and persists the result. The merge is typed: only the fixed set of
// known fields can change, and a zero daily capacity clears the limit.
func (s *settingService) Update(ctx context.Context, unitID string, update *model.ReservationSettingUpdate) (*model.ReservationSetting, error) {
	if unitID == "" {
		return nil, apperrors.InvalidInput("Unit ID is required")
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		s.cfg.Log.Warn("Settings update validation failed", "unit_id", unitID, "error", err)
		return nil, apperrors.Validation("Invalid settings input", map[string]any{"error": err.Error()})
	}

	existing, err := s.Resolve(ctx, unitID)
	if err != nil {
		return nil, err
	}

	merged := s.merge(existing, update)
	s.sanitize(merged)

	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Merged settings validation failed", "unit_id", unitID, "error", err)
		return nil, apperrors.Validation("Settings validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Upsert(ctx, merged); err != nil {
		s.cfg.Log.Error("Failed to store reservation settings", "unit_id", unitID, "error", err)
		return nil, apperrors.Internal("Failed to store reservation settings", err)
	}

	s.cfg.Log.Info("Reservation settings updated",
		"unit_id", unitID,
		"mode", merged.Mode,
		"daily_capacity", merged.DailyCapacity,
		"blackout_dates", len(merged.BlackoutDates),
	)
	return merged, nil
}

func (s *settingService) defaults(unitID string) *model.ReservationSetting {
	return &model.ReservationSetting{
		UnitID:       unitID,
		BookableFrom: s.cfg.DefaultBookableFrom,
		BookableTo:   s.cfg.DefaultBookableTo,
		Mode:         s.cfg.DefaultMode,
	}
}

func (s *settingService) merge(existing *model.ReservationSetting, update *model.ReservationSettingUpdate) *model.ReservationSetting {
	merged := *existing

	if update.BlackoutDates != nil {
		merged.BlackoutDates = *update.BlackoutDates
	}
	if update.DailyCapacity != nil {
		if *update.DailyCapacity == 0 {
			merged.DailyCapacity = nil
		} else {
			capacity := *update.DailyCapacity
			merged.DailyCapacity = &capacity
		}
	}
	if update.BookableFrom != "" {
		merged.BookableFrom = update.BookableFrom
	}
	if update.BookableTo != "" {
		merged.BookableTo = update.BookableTo
	}
	if update.KitchenFrom != "" {
		merged.KitchenFrom = update.KitchenFrom
	}
	if update.KitchenTo != "" {
		merged.KitchenTo = update.KitchenTo
	}
	if update.BarFrom != "" {
		merged.BarFrom = update.BarFrom
	}
	if update.BarTo != "" {
		merged.BarTo = update.BarTo
	}
	if update.Mode != "" {
		merged.Mode = update.Mode
	}
	if update.NotificationEmails != nil {
		merged.NotificationEmails = *update.NotificationEmails
	}

	return &merged
}

func (s *settingService) sanitize(setting *model.ReservationSetting) {
	for i, email := range setting.NotificationEmails {
		setting.NotificationEmails[i] = sanitizer.NormalizeEmail(email)
	}
	for i, d := range setting.BlackoutDates {
		setting.BlackoutDates[i] = sanitizer.TrimAndNormalize(d)
	}
}
