package models

import "time"

// TimeSlot is one feasible appointment candidate. Slots are computed on
// demand by the availability solver and never persisted.
type TimeSlot struct {
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DurationMinutes int       `json:"duration_minutes"`
	TechnicianID    string    `json:"technician_id,omitempty"`
}

// BusinessHours describes one weekday's opening times for a company.
// Open and Close use the "15:04" 24h clock format.
type BusinessHours struct {
	CompanyID string `json:"company_id"`
	Weekday   int    `json:"weekday"` // time.Weekday: 0 = Sunday
	Open      string `json:"open"`
	Close     string `json:"close"`
	Closed    bool   `json:"closed"`
}

// BreakWindow is the fixed daily break (e.g. lunch) excluded from
// availability. Start and End use the "15:04" 24h clock format.
type BreakWindow struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// AvailabilityQuery carries the parameters of a slot search.
type AvailabilityQuery struct {
	Date            string `query:"date" validate:"required,datetime=2006-01-02"`
	DurationMinutes int    `query:"duration_minutes" validate:"required,gt=0,lte=720"`
	TechnicianID    string `query:"technician_id"`
	ServiceType     string `query:"service_type"`
}
