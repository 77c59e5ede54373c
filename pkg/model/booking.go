package model

import (
	"time"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	SourceGuest  = "guest"
	SourceManual = "manual"
)

// Booking is append-only: records are never deleted, only transitioned to
// cancelled by the lifecycle manager.
type Booking struct {
	ID            string            `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UnitID        string            `json:"unit_id" bson:"unit_id" validate:"required,min=1,max=64"`
	Name          string            `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Headcount     int               `json:"headcount" bson:"headcount" validate:"required,min=1,max=200"`
	Occasion      string            `json:"occasion,omitempty" bson:"occasion,omitempty" validate:"omitempty,max=100"`
	StartTime     time.Time         `json:"start_time" bson:"start_time" validate:"required"`
	EndTime       time.Time         `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	DateKey       string            `json:"-" bson:"date_key"`
	Status        string            `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled"`
	Source        string            `json:"source" bson:"source" validate:"required,oneof=guest manual"`
	Phone         string            `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	Email         string            `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	ReferenceCode string            `json:"reference_code,omitempty" bson:"reference_code,omitempty"`
	CustomData    map[string]string `json:"custom_data,omitempty" bson:"custom_data,omitempty"`
	CreatedAt     time.Time         `json:"created_at" bson:"created_at" validate:"omitempty"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CancelReason  string            `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty"`
}

// BookingUpdate is the staff-facing patch. Status is deliberately absent:
// transitions go through the lifecycle operations, never through Update. All
// fields are pointers so a patch can distinguish "leave untouched" (nil) from
// "clear" (pointer to the zero value).
type BookingUpdate struct {
	Name       *string            `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Headcount  *int               `json:"headcount,omitempty" validate:"omitempty,min=1,max=200"`
	Occasion   *string            `json:"occasion,omitempty" validate:"omitempty,max=100"`
	StartTime  *time.Time         `json:"start_time,omitempty" validate:"omitempty"`
	EndTime    *time.Time         `json:"end_time,omitempty" validate:"omitempty"`
	Phone      *string            `json:"phone,omitempty" validate:"omitempty,e164"`
	Email      *string            `json:"email,omitempty" validate:"omitempty,email"`
	CustomData *map[string]string `json:"custom_data,omitempty" validate:"omitempty"`
}

// Active reports whether the booking still counts toward its date's capacity
// aggregate.
func (b *Booking) Active() bool {
	return b.Status == StatusPending || b.Status == StatusConfirmed
}
