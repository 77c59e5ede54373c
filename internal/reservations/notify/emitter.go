// Package notify turns successful booking transitions into audit and
// notification events. Everything here is fire-and-forget: publishing happens
// on its own goroutine with its own timeout, and a broker outage degrades to
// warning logs without touching the booking outcome.
package notify

import (
	"context"
	"fmt"
	"time"

	"seatwise/pkg/config"
	"seatwise/pkg/kafka"
	kafkaconfig "seatwise/pkg/kafka/config"
	"seatwise/pkg/model"

	"github.com/google/uuid"
)

const sourceName = "seatwise-reservations"

type publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
	Close() error
}

// Emitter publishes audit events and notification requests. A nil *Emitter
// and an Emitter built without brokers are both safe no-ops.
type Emitter struct {
	audit         publisher
	notifications publisher
	cfg           *config.Config
}

// NewEmitter wires producers for the audit and notification topics. When no
// brokers are configured it returns a disabled emitter rather than an error;
// a booking engine without a broker still takes bookings.
func NewEmitter(cfg *config.Config, kafkaCfg *kafkaconfig.Config) (*Emitter, error) {
	if kafkaCfg == nil || !kafkaCfg.Enabled() {
		cfg.Log.Warn("Kafka brokers not configured, audit and notification events disabled")
		return &Emitter{cfg: cfg}, nil
	}

	audit, err := kafka.NewProducer(kafkaCfg, cfg.AuditTopic, "")
	if err != nil {
		return nil, fmt.Errorf("failed to create audit producer: %w", err)
	}

	notifications, err := kafka.NewProducer(kafkaCfg, cfg.NotificationTopic, cfg.NotificationDLQ)
	if err != nil {
		audit.Close()
		return nil, fmt.Errorf("failed to create notification producer: %w", err)
	}

	return &Emitter{
		audit:         audit,
		notifications: notifications,
		cfg:           cfg,
	}, nil
}

func (e *Emitter) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		if err := e.audit.Close(); err != nil {
			e.cfg.Log.Warn("Failed to close audit producer", "error", err)
		}
	}
	if e.notifications != nil {
		if err := e.notifications.Close(); err != nil {
			e.cfg.Log.Warn("Failed to close notification producer", "error", err)
		}
	}
}

func (e *Emitter) enabled() bool {
	return e != nil && e.audit != nil
}

func (e *Emitter) BookingCreated(booking *model.Booking, setting *model.ReservationSetting) {
	if !e.enabled() {
		return
	}

	summary := fmt.Sprintf("Booking for %d on %s created as %s",
		booking.Headcount, booking.StartTime.Format("2006-01-02 15:04"), booking.Status)

	go func() {
		ctx, cancel := e.effectContext()
		defer cancel()

		e.publishAudit(ctx, booking, model.AuditBookingCreated, actorForSource(booking.Source), summary)

		guestTemplate := model.TemplateGuestReceived
		if booking.Status == model.StatusConfirmed {
			guestTemplate = model.TemplateGuestConfirmed
		}
		e.notifyGuest(ctx, booking, guestTemplate)

		for _, email := range setting.NotificationEmails {
			e.publishNotification(ctx, booking, email, model.TemplateVenueNewBooking)
		}
	}()
}

func (e *Emitter) BookingConfirmed(booking *model.Booking, actor string) {
	if !e.enabled() {
		return
	}

	go func() {
		ctx, cancel := e.effectContext()
		defer cancel()

		e.publishAudit(ctx, booking, model.AuditBookingConfirmed, actor, "Booking confirmed")
		e.notifyGuest(ctx, booking, model.TemplateGuestConfirmed)
	}()
}

func (e *Emitter) BookingCancelled(booking *model.Booking, actor, reason string) {
	if !e.enabled() {
		return
	}

	summary := "Booking cancelled"
	if reason != "" {
		summary = fmt.Sprintf("Booking cancelled: %s", reason)
	}

	go func() {
		ctx, cancel := e.effectContext()
		defer cancel()

		e.publishAudit(ctx, booking, model.AuditBookingCancelled, actor, summary)
		if actor != model.ActorGuest {
			// Guests cancelling themselves don't need to be told about it.
			e.notifyGuest(ctx, booking, model.TemplateGuestCancelled)
		}
	}()
}

func (e *Emitter) BookingUpdated(booking *model.Booking, actor string) {
	if !e.enabled() {
		return
	}

	go func() {
		ctx, cancel := e.effectContext()
		defer cancel()

		e.publishAudit(ctx, booking, model.AuditBookingUpdated, actor, "Booking details updated")
	}()
}

func (e *Emitter) effectContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), e.cfg.SideEffectTimeout)
}

func (e *Emitter) publishAudit(ctx context.Context, booking *model.Booking, kind, actor, summary string) {
	event := model.AuditEvent{
		EventID:   uuid.New().String(),
		BookingID: booking.ID,
		UnitID:    booking.UnitID,
		Kind:      kind,
		Actor:     actor,
		Summary:   summary,
		At:        time.Now().UTC(),
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(event).
		WithEventType(kind).
		WithSource(sourceName).
		Build()
	if err != nil {
		e.cfg.Log.Warn("Failed to build audit event", "booking_id", booking.ID, "kind", kind, "error", err)
		return
	}

	if err := e.audit.Publish(ctx, msg); err != nil {
		e.cfg.Log.Warn("Failed to publish audit event", "booking_id", booking.ID, "kind", kind, "error", err)
	}
}

// notifyGuest targets the booking's email, falling back to phone. Bookings
// without either (manual walk-ins) emit nothing.
func (e *Emitter) notifyGuest(ctx context.Context, booking *model.Booking, template string) {
	target := booking.Email
	if target == "" {
		target = booking.Phone
	}
	if target == "" {
		return
	}
	e.publishNotification(ctx, booking, target, template)
}

func (e *Emitter) publishNotification(ctx context.Context, booking *model.Booking, target, template string) {
	notification := model.Notification{
		Target:   target,
		Template: template,
		Payload: map[string]string{
			"name":           booking.Name,
			"headcount":      fmt.Sprintf("%d", booking.Headcount),
			"start_time":     booking.StartTime.Format(time.RFC3339),
			"status":         booking.Status,
			"reference_code": booking.ReferenceCode,
		},
		SentAt: time.Now().UTC(),
	}

	msg, err := kafka.NewMessage().
		WithKey(booking.ID).
		WithValue(notification).
		WithEventType(template).
		WithSource(sourceName).
		Build()
	if err != nil {
		e.cfg.Log.Warn("Failed to build notification", "booking_id", booking.ID, "template", template, "error", err)
		return
	}

	if err := e.notifications.Publish(ctx, msg); err != nil {
		e.cfg.Log.Warn("Failed to publish notification", "booking_id", booking.ID, "template", template, "error", err)
	}
}

func actorForSource(source string) string {
	if source == model.SourceManual {
		return model.ActorStaff
	}
	return model.ActorGuest
}
