package model

import "time"

// Audit transition kinds.
const (
	AuditBookingCreated   = "booking_created"
	AuditBookingConfirmed = "booking_confirmed"
	AuditBookingCancelled = "booking_cancelled"
	AuditBookingUpdated   = "booking_updated"
)

// Audit actors.
const (
	// ActorGuest identifies unauthenticated guest actions.
	ActorGuest = "guest"
	// ActorStaff identifies authenticated venue staff actions.
	ActorStaff = "staff"
)

// AuditEvent records one successful booking transition. Emission is
// fire-and-forget; failures never affect the booking outcome.
type AuditEvent struct {
	EventID   string    `json:"event_id"`
	BookingID string    `json:"booking_id"`
	UnitID    string    `json:"unit_id"`
	Kind      string    `json:"kind"`
	Actor     string    `json:"actor"`
	Summary   string    `json:"summary"`
	At        time.Time `json:"at"`
}

// Notification templates.
const (
	TemplateGuestReceived   = "guest_booking_received"
	TemplateGuestConfirmed  = "guest_booking_confirmed"
	TemplateGuestCancelled  = "guest_booking_cancelled"
	TemplateVenueNewBooking = "venue_new_booking"
)

// Notification asks the delivery service to send one message. The engine does
// not wait for, retry, or observe delivery.
type Notification struct {
	Target   string            `json:"target"`
	Template string            `json:"template"`
	Payload  map[string]string `json:"payload,omitempty"`
	SentAt   time.Time         `json:"sent_at"`
}
