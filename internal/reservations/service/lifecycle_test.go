package service

import (
	"context"
	"testing"
	"time"

	apperrors "seatwise/pkg/errors"
	"seatwise/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func storedBooking(status string) *model.Booking {
	b := validBooking()
	b.ID = "5f2a6c9e8b4e4e0001a3d2f1"
	b.Status = status
	b.DateKey = "2025-12-20"
	return b
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name         string
		status       string
		wantErr      bool
		wantConflict bool
	}{
		{name: "pending booking confirms", status: model.StatusPending},
		{name: "confirmed booking conflicts", status: model.StatusConfirmed, wantErr: true, wantConflict: true},
		{name: "cancelled booking conflicts", status: model.StatusCancelled, wantErr: true, wantConflict: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stored := storedBooking(tt.status)
			repo := &mockBookingRepository{
				findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return stored, nil
				},
			}
			effects := &mockSideEffects{}
			svc := newTestService(t, repo, requestModeSetting(), effects)

			booking, err := svc.Confirm(context.Background(), stored.ID, model.ActorStaff)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Confirm() error = nil, want error")
				}
				if tt.wantConflict && apperrors.AsAppError(err).Code != apperrors.CodeConflict {
					t.Errorf("error code = %q, want %q", apperrors.AsAppError(err).Code, apperrors.CodeConflict)
				}
				if effects.confirmed != 0 {
					t.Error("side effects must not fire on a failed confirm")
				}
				return
			}

			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if booking.Status != model.StatusConfirmed {
				t.Errorf("status = %q, want %q", booking.Status, model.StatusConfirmed)
			}
			if effects.confirmed != 1 {
				t.Errorf("confirmed side effects = %d, want 1", effects.confirmed)
			}
		})
	}
}

func TestConfirm_RaceLosesToOtherTransition(t *testing.T) {
	stored := storedBooking(model.StatusPending)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, expect []string, set bson.M) (*mongo.UpdateResult, error) {
			return &mongo.UpdateResult{MatchedCount: 0}, nil
		},
	}
	svc := newTestService(t, repo, requestModeSetting(), &mockSideEffects{})

	_, err := svc.Confirm(context.Background(), stored.ID, model.ActorStaff)
	if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Fatalf("Confirm() after race = %v, want conflict", err)
	}
}

func TestCancel(t *testing.T) {
	stored := storedBooking(model.StatusConfirmed)

	var capturedSet bson.M
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		updateStatusFunc: func(ctx context.Context, id string, expect []string, set bson.M) (*mongo.UpdateResult, error) {
			capturedSet = set
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	effects := &mockSideEffects{}
	svc := newTestService(t, repo, requestModeSetting(), effects)

	booking, err := svc.Cancel(context.Background(), stored.ID, model.ActorStaff, "  guest asked  to cancel ")
	if err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	if booking.Status != model.StatusCancelled {
		t.Errorf("status = %q, want %q", booking.Status, model.StatusCancelled)
	}
	if booking.CancelledAt == nil {
		t.Error("expected cancelled_at to be set")
	}
	if capturedSet["cancel_reason"] != "guest asked to cancel" {
		t.Errorf("cancel_reason = %v, want normalized reason", capturedSet["cancel_reason"])
	}
	if effects.cancelled != 1 || effects.lastActor != model.ActorStaff {
		t.Errorf("cancelled side effects = %d actor %q", effects.cancelled, effects.lastActor)
	}
}

func TestCancel_SecondCancelConflicts(t *testing.T) {
	stored := storedBooking(model.StatusCancelled)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
	}
	svc := newTestService(t, repo, requestModeSetting(), &mockSideEffects{})

	_, err := svc.Cancel(context.Background(), stored.ID, model.ActorStaff, "")
	if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Fatalf("second Cancel() = %v, want conflict", err)
	}
}

func TestCancelByReference_UsesGuestActor(t *testing.T) {
	stored := storedBooking(model.StatusPending)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
	}
	effects := &mockSideEffects{}
	svc := newTestService(t, repo, requestModeSetting(), effects)

	code, err := svc.sealer.Seal(stored.UnitID, stored.ID)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	stored.ReferenceCode = code

	if _, err := svc.CancelByReference(context.Background(), code, "plans changed"); err != nil {
		t.Fatalf("CancelByReference() error = %v", err)
	}
	if effects.lastActor != model.ActorGuest {
		t.Errorf("actor = %q, want %q", effects.lastActor, model.ActorGuest)
	}
}

func TestUpdate_HeadcountGrowthExcludesOwnSeats(t *testing.T) {
	setting := requestModeSetting()
	setting.DailyCapacity = intPtr(40)

	stored := storedBooking(model.StatusConfirmed)
	stored.Headcount = 6

	updateCalled := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		sumHeadcountFunc: func(ctx context.Context, unitID string, fromKey, toKey string) (map[string]int, error) {
			// 38 seats taken, including this booking's own 6.
			return map[string]int{"2025-12-20": 38}, nil
		},
		updateFunc: func(ctx context.Context, id string, b *model.Booking) (*mongo.UpdateResult, error) {
			updateCalled = true
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	effects := &mockSideEffects{}
	svc := newTestService(t, repo, setting, effects)

	booking, err := svc.Update(context.Background(), stored.ID, &model.BookingUpdate{Headcount: intPtr(8)}, model.ActorStaff)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if !updateCalled {
		t.Fatal("expected repo update to run")
	}
	if booking.Headcount != 8 {
		t.Errorf("headcount = %d, want 8", booking.Headcount)
	}
	if effects.updated != 1 {
		t.Errorf("updated side effects = %d, want 1", effects.updated)
	}
}

func TestUpdate_GrowthBeyondCapacityRejected(t *testing.T) {
	setting := requestModeSetting()
	setting.DailyCapacity = intPtr(40)

	stored := storedBooking(model.StatusConfirmed)
	stored.Headcount = 6

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		sumHeadcountFunc: func(ctx context.Context, unitID string, fromKey, toKey string) (map[string]int, error) {
			return map[string]int{"2025-12-20": 38}, nil
		},
	}
	svc := newTestService(t, repo, setting, &mockSideEffects{})

	_, err := svc.Update(context.Background(), stored.ID, &model.BookingUpdate{Headcount: intPtr(12)}, model.ActorStaff)
	if reason := apperrors.RejectionReason(err); reason != apperrors.ReasonCapacityLimited {
		t.Fatalf("rejection reason = %q, want %q (err=%v)", reason, apperrors.ReasonCapacityLimited, err)
	}
}

func TestUpdate_MovedDateCountsFullAggregate(t *testing.T) {
	setting := requestModeSetting()
	setting.DailyCapacity = intPtr(40)

	stored := storedBooking(model.StatusConfirmed)
	stored.Headcount = 6

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		sumHeadcountFunc: func(ctx context.Context, unitID string, fromKey, toKey string) (map[string]int, error) {
			// The target date is nearly full; the booking's own seats are on
			// another day and must not be subtracted.
			return map[string]int{"2025-12-21": 38}, nil
		},
	}
	svc := newTestService(t, repo, setting, &mockSideEffects{})

	newStart := time.Date(2025, 12, 21, 19, 0, 0, 0, time.UTC)
	_, err := svc.Update(context.Background(), stored.ID, &model.BookingUpdate{StartTime: &newStart}, model.ActorStaff)
	if reason := apperrors.RejectionReason(err); reason != apperrors.ReasonCapacityLimited {
		t.Fatalf("rejection reason = %q, want %q (err=%v)", reason, apperrors.ReasonCapacityLimited, err)
	}
}

func TestUpdate_CancelledBookingConflicts(t *testing.T) {
	stored := storedBooking(model.StatusCancelled)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
	}
	svc := newTestService(t, repo, requestModeSetting(), &mockSideEffects{})

	_, err := svc.Update(context.Background(), stored.ID, &model.BookingUpdate{Name: strPtr("New Name")}, model.ActorStaff)
	if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Fatalf("Update() on cancelled = %v, want conflict", err)
	}
}

func TestUpdate_RaceLosesToCancel(t *testing.T) {
	stored := storedBooking(model.StatusConfirmed)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		updateFunc: func(ctx context.Context, id string, b *model.Booking) (*mongo.UpdateResult, error) {
			// Cancelled between the read and the guarded write.
			return &mongo.UpdateResult{MatchedCount: 0}, nil
		},
	}
	effects := &mockSideEffects{}
	svc := newTestService(t, repo, requestModeSetting(), effects)

	_, err := svc.Update(context.Background(), stored.ID, &model.BookingUpdate{Name: strPtr("New Name")}, model.ActorStaff)
	if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeConflict {
		t.Fatalf("Update() after losing race = %v, want conflict", err)
	}
	if effects.updated != 0 {
		t.Error("side effects must not fire on a lost race")
	}
}

func TestUpdate_ClearsContact(t *testing.T) {
	stored := storedBooking(model.StatusConfirmed)
	stored.Source = model.SourceManual
	stored.Phone = "+41791234567"
	stored.Email = ""

	var updated *model.Booking
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		updateFunc: func(ctx context.Context, id string, b *model.Booking) (*mongo.UpdateResult, error) {
			updated = b
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestService(t, repo, requestModeSetting(), &mockSideEffects{})

	if _, err := svc.Update(context.Background(), stored.ID, &model.BookingUpdate{Phone: strPtr("")}, model.ActorStaff); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Phone != "" {
		t.Errorf("phone = %q, want cleared", updated.Phone)
	}
}

func TestUpdate_GuestCannotLoseLastContact(t *testing.T) {
	stored := storedBooking(model.StatusConfirmed)

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
	}
	svc := newTestService(t, repo, requestModeSetting(), &mockSideEffects{})

	_, err := svc.Update(context.Background(), stored.ID, &model.BookingUpdate{Email: strPtr("")}, model.ActorStaff)
	if err == nil || apperrors.AsAppError(err).Code != apperrors.CodeValidation {
		t.Fatalf("Update() clearing a guest's only contact = %v, want validation error", err)
	}
}

func TestUpdate_MovedStartKeepsDuration(t *testing.T) {
	stored := storedBooking(model.StatusConfirmed)

	var updated *model.Booking
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return stored, nil
		},
		updateFunc: func(ctx context.Context, id string, b *model.Booking) (*mongo.UpdateResult, error) {
			updated = b
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestService(t, repo, requestModeSetting(), &mockSideEffects{})

	newStart := time.Date(2025, 12, 20, 20, 0, 0, 0, time.UTC)
	if _, err := svc.Update(context.Background(), stored.ID, &model.BookingUpdate{StartTime: &newStart}, model.ActorStaff); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	if !updated.StartTime.Equal(newStart) {
		t.Errorf("start = %v, want %v", updated.StartTime, newStart)
	}
	if got, want := updated.EndTime.Sub(updated.StartTime), stored.EndTime.Sub(stored.StartTime); got != want {
		t.Errorf("duration = %v, want %v", got, want)
	}
}
