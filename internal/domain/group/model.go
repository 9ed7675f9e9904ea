package group

import (
	"time"

	"github.com/google/uuid"
)

// Group is a care team or administrative grouping of patients and staff.
type Group struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Kind        string    `db:"kind" json:"kind"`
	Description *string   `db:"description" json:"description,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Member links a subject (patient or staff) to a group.
type Member struct {
	ID        uuid.UUID `db:"id" json:"id"`
	GroupID   uuid.UUID `db:"group_id" json:"group_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	Role      *string   `db:"role" json:"role,omitempty"`
	AddedAt   time.Time `db:"added_at" json:"added_at"`
}
