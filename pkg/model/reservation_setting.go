package model

import "time"

const (
	// ModeRequest leaves new bookings pending until staff confirm them.
	ModeRequest = "request"
	// ModeAuto creates new bookings already confirmed.
	ModeAuto = "auto"
)

// ReservationSetting holds one venue's booking rules. Mutated only by venue
// administrators; the booking engine reads it on every validation.
type ReservationSetting struct {
	ID                 string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	UnitID             string    `json:"unit_id" bson:"unit_id" validate:"required,min=1,max=64"`
	BlackoutDates      []string  `json:"blackout_dates" bson:"blackout_dates" validate:"omitempty,dive,datekey"`
	DailyCapacity      *int      `json:"daily_capacity,omitempty" bson:"daily_capacity,omitempty" validate:"omitempty,min=1"`
	BookableFrom       string    `json:"bookable_from" bson:"bookable_from" validate:"required,wallclock"`
	BookableTo         string    `json:"bookable_to" bson:"bookable_to" validate:"required,wallclock"`
	KitchenFrom        string    `json:"kitchen_from,omitempty" bson:"kitchen_from,omitempty" validate:"omitempty,wallclock"`
	KitchenTo          string    `json:"kitchen_to,omitempty" bson:"kitchen_to,omitempty" validate:"omitempty,wallclock"`
	BarFrom            string    `json:"bar_from,omitempty" bson:"bar_from,omitempty" validate:"omitempty,wallclock"`
	BarTo              string    `json:"bar_to,omitempty" bson:"bar_to,omitempty" validate:"omitempty,wallclock"`
	Mode               string    `json:"mode" bson:"mode" validate:"required,oneof=request auto"`
	NotificationEmails []string  `json:"notification_emails,omitempty" bson:"notification_emails,omitempty" validate:"omitempty,dive,email"`
	CreatedAt          time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ReservationSettingUpdate is the administrator patch. The merge into the
// stored document uses this fixed field set; unknown JSON fields are rejected
// at decode time.
type ReservationSettingUpdate struct {
	BlackoutDates      *[]string `json:"blackout_dates,omitempty" validate:"omitempty,dive,datekey"`
	DailyCapacity      *int      `json:"daily_capacity,omitempty" validate:"omitempty,min=0"`
	BookableFrom       string    `json:"bookable_from,omitempty" validate:"omitempty,wallclock"`
	BookableTo         string    `json:"bookable_to,omitempty" validate:"omitempty,wallclock"`
	KitchenFrom        string    `json:"kitchen_from,omitempty" validate:"omitempty,wallclock"`
	KitchenTo          string    `json:"kitchen_to,omitempty" validate:"omitempty,wallclock"`
	BarFrom            string    `json:"bar_from,omitempty" validate:"omitempty,wallclock"`
	BarTo              string    `json:"bar_to,omitempty" validate:"omitempty,wallclock"`
	Mode               string    `json:"mode,omitempty" validate:"omitempty,oneof=request auto"`
	NotificationEmails *[]string `json:"notification_emails,omitempty" validate:"omitempty,dive,email"`
}

// IsBlackout reports whether the YYYY-MM-DD date key is blacked out.
func (s *ReservationSetting) IsBlackout(dateKey string) bool {
	for _, d := range s.BlackoutDates {
		if d == dateKey {
			return true
		}
	}
	return false
}

// AutoConfirm reports whether new bookings skip the pending state.
func (s *ReservationSetting) AutoConfirm() bool {
	return s.Mode == ModeAuto
}
