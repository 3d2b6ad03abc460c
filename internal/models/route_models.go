package models

import "time"

// RouteStop is a Location bound to concrete timestamps within a built route.
// Stops are immutable once produced by the route builder.
type RouteStop struct {
	Location               Location  `json:"location"`
	ArrivalTime            time.Time `json:"arrival_time"`
	DepartureTime          time.Time `json:"departure_time"`
	TravelTimeFromPrevious float64   `json:"travel_time_from_previous_minutes"`
	SequenceNumber         int       `json:"sequence_number"`
}

// OptimizedRoute is one technician's sequenced day of work. One instance
// exists per (technician, date, optimization run); re-running optimization
// for the same key produces a new instance that supersedes the prior one.
type OptimizedRoute struct {
	ID                      string      `json:"id"`
	CompanyID               string      `json:"company_id"`
	TechnicianID            string      `json:"technician_id"`
	TechnicianName          string      `json:"technician_name"`
	RouteDate               time.Time   `json:"route_date"`
	Stops                   []RouteStop `json:"stops"`
	TotalDistanceMiles      float64     `json:"total_distance_miles"`
	TotalTravelTimeMinutes  float64     `json:"total_travel_time_minutes"`
	TotalWorkTimeMinutes    int         `json:"total_work_time_minutes"`
	EstimatedCompletionTime time.Time   `json:"estimated_completion_time"`
	EfficiencyScore         float64     `json:"efficiency_score"`
	SkippedJobIDs           []string    `json:"skipped_job_ids,omitempty"`
	UnscheduledJobIDs       []string    `json:"unscheduled_job_ids,omitempty"`
	CreatedBy               string      `json:"created_by,omitempty"`
	CreatedAt               time.Time   `json:"created_at"`
}

// Assignment policies selectable per optimization request.
const (
	AssignmentPolicyPreassigned = "preassigned"
	AssignmentPolicyBalanced    = "balanced"
)

// OptimizeRoutesRequest is the request body for a route optimization run.
type OptimizeRoutesRequest struct {
	Date              string   `json:"date" validate:"required,datetime=2006-01-02"`
	TechnicianIDs     []string `json:"technician_ids,omitempty"`
	MaxHoursPerRoute  float64  `json:"max_hours_per_route,omitempty" validate:"omitempty,gt=0,lte=24"`
	IncludeTravelTime *bool    `json:"include_travel_time,omitempty"`
	AssignmentPolicy  string   `json:"assignment_policy,omitempty" validate:"omitempty,oneof=preassigned balanced"`
	Save              bool     `json:"save,omitempty"`
}

// RouteSaveStatus reports the persistence outcome for one technician's route.
// A failed save never rolls back or blocks the other routes in the batch.
type RouteSaveStatus struct {
	TechnicianID string `json:"technician_id"`
	RouteID      string `json:"route_id,omitempty"`
	Saved        bool   `json:"saved"`
	Error        string `json:"error,omitempty"`
}

// OptimizeRoutesResponse is the reply for an optimization run.
type OptimizeRoutesResponse struct {
	Routes       []*OptimizedRoute `json:"routes"`
	SaveStatuses []RouteSaveStatus `json:"save_statuses,omitempty"`
}

// TechnicianRouteStats is one row of the route analytics aggregate.
type TechnicianRouteStats struct {
	TechnicianID       string  `json:"technician_id"`
	TechnicianName     string  `json:"technician_name"`
	RouteCount         int     `json:"route_count"`
	TotalStops         int     `json:"total_stops"`
	AvgEfficiency      float64 `json:"avg_efficiency"`
	TotalDistanceMiles float64 `json:"total_distance_miles"`
	TotalTravelMinutes float64 `json:"total_travel_minutes"`
}
