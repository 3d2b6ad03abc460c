package models

import "time"

// Job statuses as stored on the CRM job records. The optimizer only ever
// schedules jobs in one of the eligible statuses; cancelled and completed
// jobs never count toward technician availability.
const (
	JobStatusScheduled  = "scheduled"
	JobStatusConfirmed  = "confirmed"
	JobStatusInProgress = "in_progress"
	JobStatusCompleted  = "completed"
	JobStatusCancelled  = "cancelled"
)

// EligibleJobStatuses are the statuses considered for route optimization.
var EligibleJobStatuses = []string{JobStatusScheduled, JobStatusConfirmed, JobStatusInProgress}

// Job is the CRM job record as read and written by the scheduling engine.
// The engine does not own the full job lifecycle; it only reads address,
// duration, priority and status, and writes back the scheduling fields.
type Job struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	Address         string     `json:"address"`
	ScheduledStart  *time.Time `json:"scheduled_start,omitempty"`
	ScheduledEnd    *time.Time `json:"scheduled_end,omitempty"`
	DurationMinutes int        `json:"duration_minutes"`
	Priority        int        `json:"priority"`
	Status          string     `json:"status"`
	TechnicianID    string     `json:"technician_id,omitempty"`
	RouteSequence   *int       `json:"route_sequence,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsActive reports whether the job still occupies its technician's time.
func (j *Job) IsActive() bool {
	return j.Status != JobStatusCancelled && j.Status != JobStatusCompleted
}

// RescheduleRequest is the request body for moving a job to a new interval.
type RescheduleRequest struct {
	ScheduledStart time.Time `json:"scheduled_start" validate:"required"`
	ScheduledEnd   time.Time `json:"scheduled_end" validate:"required,gtfield=ScheduledStart"`
}
