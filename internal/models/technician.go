package models

import "time"

// Technician statuses tracked by the roster directory.
const (
	TechnicianStatusActive   = "active"
	TechnicianStatusInactive = "inactive"
	TechnicianStatusOnLeave  = "on_leave"
)

// Technician is one member of a company's field-service roster.
type Technician struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TechnicianStatusUpdateRequest contains fields for updating a technician's
// roster status.
type TechnicianStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=active inactive on_leave"`
}
