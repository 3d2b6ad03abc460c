package models

import "time"

// Coordinates is an immutable latitude/longitude pair.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is a geocoded service stop candidate built transiently from a Job
// for one optimization run. Priority ranges 1-5, higher meaning more urgent.
// The optional time window is the half-open interval [start, end) during
// which arrival is acceptable.
type Location struct {
	Address                  string     `json:"address"`
	Coordinates              Coordinates `json:"coordinates"`
	JobID                    string     `json:"job_id,omitempty"`
	EstimatedDurationMinutes int        `json:"estimated_duration_minutes"`
	Priority                 int        `json:"priority"`
	TimeWindowStart          *time.Time `json:"time_window_start,omitempty"`
	TimeWindowEnd            *time.Time `json:"time_window_end,omitempty"`
}

// HasTimeWindow reports whether any window constraint is set on the location.
func (l Location) HasTimeWindow() bool {
	return l.TimeWindowStart != nil || l.TimeWindowEnd != nil
}
