package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventFilter narrows an audit event listing. Zero values mean no filter.
type EventFilter struct {
	ActorID string
	Action  string
	Since   time.Time
	Until   time.Time
}

type EventRepository interface {
	Append(ctx context.Context, ev *Event) error
	List(ctx context.Context, f EventFilter, limit, offset int) ([]*Event, int, error)
}

type GDPRRepository interface {
	Create(ctx context.Context, req *GDPRRequest) error
	GetByID(ctx context.Context, id uuid.UUID) (*GDPRRequest, error)
	Update(ctx context.Context, req *GDPRRequest) error
	List(ctx context.Context, status string, limit, offset int) ([]*GDPRRequest, int, error)
}
