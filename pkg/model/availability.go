package model

// DayAvailability is one calendar day of the public availability response.
// Remaining is only populated when the unit has a daily capacity configured.
type DayAvailability struct {
	Date      string `json:"date"`
	Bookable  bool   `json:"bookable"`
	Reason    string `json:"reason,omitempty"`
	Remaining *int   `json:"remaining,omitempty"`
}

// MonthAvailability is the public month view for one unit.
type MonthAvailability struct {
	UnitID string            `json:"unit_id"`
	Month  string            `json:"month"`
	Days   []DayAvailability `json:"days"`
}
