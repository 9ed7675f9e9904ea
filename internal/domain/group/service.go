package group

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type Service struct {
	groups Repository
}

func NewService(groups Repository) *Service {
	return &Service{groups: groups}
}

var validGroupKinds = map[string]bool{
	"care_team": true, "ward": true, "cohort": true, "administrative": true,
}

func (s *Service) Create(ctx context.Context, g *Group) error {
	if g.Name == "" {
		return fmt.Errorf("name is required")
	}
	if g.Kind == "" {
		g.Kind = "care_team"
	}
	if !validGroupKinds[g.Kind] {
		return fmt.Errorf("invalid group kind: %s", g.Kind)
	}
	g.Active = true
	return s.groups.Create(ctx, g)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Group, error) {
	return s.groups.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, g *Group) error {
	if g.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !validGroupKinds[g.Kind] {
		return fmt.Errorf("invalid group kind: %s", g.Kind)
	}
	return s.groups.Update(ctx, g)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	members, err := s.groups.ListMembers(ctx, id)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		return fmt.Errorf("group has members; remove them first")
	}
	return s.groups.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, kind string, limit, offset int) ([]*Group, int, error) {
	if kind != "" && !validGroupKinds[kind] {
		return nil, 0, fmt.Errorf("invalid group kind: %s", kind)
	}
	return s.groups.List(ctx, kind, limit, offset)
}

func (s *Service) AddMember(ctx context.Context, m *Member) error {
	if m.SubjectID == "" {
		return fmt.Errorf("subject_id is required")
	}
	if _, err := s.groups.GetByID(ctx, m.GroupID); err != nil {
		return fmt.Errorf("group not found")
	}
	return s.groups.AddMember(ctx, m)
}

func (s *Service) RemoveMember(ctx context.Context, groupID uuid.UUID, subjectID string) error {
	return s.groups.RemoveMember(ctx, groupID, subjectID)
}

func (s *Service) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*Member, error) {
	return s.groups.ListMembers(ctx, groupID)
}
