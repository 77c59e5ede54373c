package service

import (
	"context"
	"errors"
	"sync"
	"time"

	reservationserrors "seatwise/internal/reservations/errors"
	"seatwise/internal/reservations/repository"
	"seatwise/internal/reservations/validator"
	"seatwise/pkg/config"
	apperrors "seatwise/pkg/errors"
	"seatwise/pkg/model"
	"seatwise/pkg/refcode"
	"seatwise/pkg/sanitizer"
	"seatwise/pkg/wallclock"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// SettingSource resolves the effective reservation settings for a unit,
// falling back to configured defaults when the unit stored none.
type SettingSource interface {
	Resolve(ctx context.Context, unitID string) (*model.ReservationSetting, error)
}

// SideEffects receives successful booking transitions. Implementations must
// never block the caller or surface failures; a booking outcome does not
// depend on its side effects.
type SideEffects interface {
	BookingCreated(booking *model.Booking, setting *model.ReservationSetting)
	BookingConfirmed(booking *model.Booking, actor string)
	BookingCancelled(booking *model.Booking, actor, reason string)
	BookingUpdated(booking *model.Booking, actor string)
}

type BookingService interface {
	Submit(ctx context.Context, booking *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetByReference(ctx context.Context, code string) (*model.Booking, error)
	ListByUnit(ctx context.Context, unitID string, from, to *time.Time, statuses []string, limit int, offset int64) ([]*model.Booking, int64, error)
	MonthlyAvailability(ctx context.Context, unitID string, month string) (*model.MonthAvailability, error)
	Confirm(ctx context.Context, id string, actor string) (*model.Booking, error)
	Cancel(ctx context.Context, id string, actor, reason string) (*model.Booking, error)
	CancelByReference(ctx context.Context, code string, reason string) (*model.Booking, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate, actor string) (*model.Booking, error)
}

type bookingService struct {
	repo        repository.BookingRepository
	settings    SettingSource
	validator   *validator.BookingValidator
	sealer      *refcode.Sealer
	sideEffects SideEffects
	cfg         *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	settings SettingSource,
	bookingValidator *validator.BookingValidator,
	sealer *refcode.Sealer,
	sideEffects SideEffects,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:        repo,
		settings:    settings,
		validator:   bookingValidator,
		sealer:      sealer,
		sideEffects: sideEffects,
		cfg:         cfg,
	}
}

// Submit runs the two-phase submission pipeline: shape validation against the
// unit's settings outside the transaction, then admission plus insert inside
// one, so a concurrent submission cannot slip past the capacity check.
func (s *bookingService) Submit(ctx context.Context, booking *model.Booking) error {
	s.sanitize(booking)

	setting, err := s.settings.Resolve(ctx, booking.UnitID)
	if err != nil {
		return err
	}

	s.applyDefaults(booking, setting)

	if err := s.validate(booking); err != nil {
		return err
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		aggregate, err := s.aggregateForDateKey(sessCtx, booking.UnitID, booking.DateKey)
		if err != nil {
			return apperrors.Internal("Failed to read current occupancy", err)
		}

		rejection, err := validator.Admit(validator.Candidate{
			StartTime: booking.StartTime,
			DateKey:   booking.DateKey,
			Headcount: booking.Headcount,
		}, aggregate, setting)
		if err != nil {
			return apperrors.Internal("Failed to evaluate booking admission", err)
		}
		if rejection != nil {
			return rejection.AppError()
		}

		// The id is assigned before the insert so the reference code can be
		// sealed and stored atomically with the booking.
		booking.ID = primitive.NewObjectID().Hex()
		code, err := s.sealer.Seal(booking.UnitID, booking.ID)
		if err != nil {
			return apperrors.Internal("Failed to issue reference code", err)
		}
		booking.ReferenceCode = code

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		if reason := apperrors.RejectionReason(err); reason != "" {
			s.cfg.Log.Info("Booking rejected",
				"unit_id", booking.UnitID,
				"reason", reason,
				"start_time", booking.StartTime,
			)
			return err
		}
		s.cfg.Log.Error("Failed to create booking", "unit_id", booking.UnitID, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"unit_id", booking.UnitID,
		"status", booking.Status,
		"headcount", booking.Headcount,
		"start_time", booking.StartTime,
	)

	s.sideEffects.BookingCreated(booking, setting)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

// GetByReference resolves a guest's opaque code. Any failure along the way
// collapses into not-found so the endpoint cannot be used as an oracle.
func (s *bookingService) GetByReference(ctx context.Context, code string) (*model.Booking, error) {
	if code == "" {
		return nil, apperrors.NotFound("Booking")
	}

	unitID, bookingID, err := s.sealer.Open(code)
	if err != nil {
		return nil, apperrors.NotFound("Booking")
	}

	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) || errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.NotFound("Booking")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	if booking.UnitID != unitID || booking.ReferenceCode != code {
		return nil, apperrors.NotFound("Booking")
	}

	return booking, nil
}

func (s *bookingService) ListByUnit(ctx context.Context, unitID string, from, to *time.Time, statuses []string, limit int, offset int64) ([]*model.Booking, int64, error) {
	if unitID == "" {
		return nil, 0, apperrors.InvalidInput("Unit ID is required")
	}

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByUnitAndRange(ctx, unitID, from, to, statuses)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "unit_id", unitID, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByUnitAndRange(ctx, unitID, from, to, statuses, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"unit_id", unitID,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

// --- Helpers ---

func (s *bookingService) sanitize(b *model.Booking) {
	b.Name = sanitizer.NormalizeName(b.Name)
	b.Occasion = sanitizer.NormalizeOccasion(b.Occasion)
	b.Email = sanitizer.NormalizeEmail(b.Email)
	b.CustomData = sanitizer.NormalizeCustomData(b.CustomData)
}

// applyDefaults fills server-derived fields. The requested start time is kept
// exactly as submitted: nudging it could move the booking across a window
// bound or past midnight onto another date.
func (s *bookingService) applyDefaults(b *model.Booking, setting *model.ReservationSetting) {
	if b.EndTime.IsZero() && !b.StartTime.IsZero() {
		b.EndTime = b.StartTime.Add(2 * time.Hour)
	}
	b.DateKey = wallclock.DateKey(b.StartTime)

	if setting.AutoConfirm() {
		b.Status = model.StatusConfirmed
	} else {
		b.Status = model.StatusPending
	}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "unit_id", booking.UnitID, "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// aggregateForDateKey sums the active headcount counting toward one venue-local
// calendar date.
func (s *bookingService) aggregateForDateKey(ctx context.Context, unitID, dateKey string) (int, error) {
	day, err := time.Parse("2006-01-02", dateKey)
	if err != nil {
		return 0, err
	}

	totals, err := s.repo.SumHeadcountByDateKey(ctx, unitID, dateKey, wallclock.DateKey(day.AddDate(0, 0, 1)))
	if err != nil {
		return 0, err
	}
	return totals[dateKey], nil
}
