package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	events EventRepository
	gdpr   GDPRRepository
	logger zerolog.Logger
}

func NewService(events EventRepository, gdpr GDPRRepository, logger zerolog.Logger) *Service {
	return &Service{events: events, gdpr: gdpr, logger: logger}
}

// Record appends an audit event. Recording failures are logged but never
// surfaced to the caller: audit must not break the guarded operation.
func (s *Service) Record(ctx context.Context, ev *Event) {
	if ev.ActorID == "" || ev.Action == "" {
		return
	}
	if err := s.events.Append(ctx, ev); err != nil {
		s.logger.Error().Err(err).Str("action", ev.Action).Msg("audit append failed")
	}
}

func (s *Service) ListEvents(ctx context.Context, f EventFilter, limit, offset int) ([]*Event, int, error) {
	return s.events.List(ctx, f, limit, offset)
}

func (s *Service) CreateGDPRRequest(ctx context.Context, req *GDPRRequest) error {
	if req.SubjectID == "" {
		return fmt.Errorf("subject_id is required")
	}
	if req.Kind != RequestKindExport && req.Kind != RequestKindErasure {
		return fmt.Errorf("invalid request kind: %s", req.Kind)
	}
	if req.RequestedBy == "" {
		return fmt.Errorf("requested_by is required")
	}
	req.Status = RequestStatusPending
	return s.gdpr.Create(ctx, req)
}

func (s *Service) GetGDPRRequest(ctx context.Context, id uuid.UUID) (*GDPRRequest, error) {
	return s.gdpr.GetByID(ctx, id)
}

func (s *Service) ListGDPRRequests(ctx context.Context, status string, limit, offset int) ([]*GDPRRequest, int, error) {
	return s.gdpr.List(ctx, status, limit, offset)
}

// ResolveGDPRRequest moves a pending request to approved or rejected.
// Resolved requests are immutable.
func (s *Service) ResolveGDPRRequest(ctx context.Context, id uuid.UUID, status, reviewedBy string, reason *string) (*GDPRRequest, error) {
	if status != RequestStatusApproved && status != RequestStatusRejected {
		return nil, fmt.Errorf("invalid resolution status: %s", status)
	}
	req, err := s.gdpr.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != RequestStatusPending {
		return nil, fmt.Errorf("request already resolved")
	}
	now := time.Now().UTC()
	req.Status = status
	req.ReviewedBy = &reviewedBy
	req.Reason = reason
	req.ResolvedAt = &now
	if err := s.gdpr.Update(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}
