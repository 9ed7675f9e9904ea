package group

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, g *Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*Group, error)
	Update(ctx context.Context, g *Group) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, kind string, limit, offset int) ([]*Group, int, error)
	AddMember(ctx context.Context, m *Member) error
	RemoveMember(ctx context.Context, groupID uuid.UUID, subjectID string) error
	ListMembers(ctx context.Context, groupID uuid.UUID) ([]*Member, error)
}
