package models

import "time"

// Report is one technician service visit. JSON names follow the browser form.
type Report struct {
	ID             int64     `json:"id"`
	Location       string    `json:"location" validate:"required"`
	Date           string    `json:"date" validate:"required"`
	MachineNumber  string    `json:"machineNumber" validate:"required"`
	TechnicianName string    `json:"technicianName" validate:"required"`
	ProblemSolved  string    `json:"problemSolved" validate:"required"`
	CreatedAt      time.Time `json:"-"`
}

// SortOrder selects the id ordering of a report listing.
type SortOrder string

const (
	// Newest first, used for the on-screen list.
	OrderDesc SortOrder = "desc"
	// Oldest first, used for exports.
	OrderAsc SortOrder = "asc"
)
