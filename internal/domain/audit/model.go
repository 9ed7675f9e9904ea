package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event is an append-only record of a privileged action.
type Event struct {
	ID         uuid.UUID `db:"id" json:"id"`
	ActorID    string    `db:"actor_id" json:"actor_id"`
	ActorRole  *string   `db:"actor_role" json:"actor_role,omitempty"`
	Action     string    `db:"action" json:"action"`
	TargetType *string   `db:"target_type" json:"target_type,omitempty"`
	TargetID   *string   `db:"target_id" json:"target_id,omitempty"`
	RequestID  *string   `db:"request_id" json:"request_id,omitempty"`
	Detail     *string   `db:"detail" json:"detail,omitempty"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
}

// GDPRRequest tracks a data subject's export or erasure request through
// its review lifecycle.
type GDPRRequest struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	SubjectID   string     `db:"subject_id" json:"subject_id"`
	Kind        string     `db:"kind" json:"kind"`
	Status      string     `db:"status" json:"status"`
	RequestedBy string     `db:"requested_by" json:"requested_by"`
	ReviewedBy  *string    `db:"reviewed_by" json:"reviewed_by,omitempty"`
	Reason      *string    `db:"reason" json:"reason,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt  *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

const (
	RequestKindExport  = "export"
	RequestKindErasure = "erasure"

	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)
