package audit_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/medcrm/medcrm/internal/domain/audit"
)

type mockEventRepo struct {
	events  []*audit.Event
	failing bool
}

func (m *mockEventRepo) Append(ctx context.Context, ev *audit.Event) error {
	if m.failing {
		return fmt.Errorf("append failed")
	}
	ev.ID = uuid.New()
	m.events = append(m.events, ev)
	return nil
}

func (m *mockEventRepo) List(ctx context.Context, f audit.EventFilter, limit, offset int) ([]*audit.Event, int, error) {
	var out []*audit.Event
	for _, ev := range m.events {
		if f.ActorID != "" && ev.ActorID != f.ActorID {
			continue
		}
		if f.Action != "" && ev.Action != f.Action {
			continue
		}
		out = append(out, ev)
	}
	return out, len(out), nil
}

type mockGDPRRepo struct {
	requests map[uuid.UUID]*audit.GDPRRequest
}

func newMockGDPRRepo() *mockGDPRRepo {
	return &mockGDPRRepo{requests: make(map[uuid.UUID]*audit.GDPRRequest)}
}

func (m *mockGDPRRepo) Create(ctx context.Context, req *audit.GDPRRequest) error {
	req.ID = uuid.New()
	m.requests[req.ID] = req
	return nil
}

func (m *mockGDPRRepo) GetByID(ctx context.Context, id uuid.UUID) (*audit.GDPRRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("request not found")
	}
	return req, nil
}

func (m *mockGDPRRepo) Update(ctx context.Context, req *audit.GDPRRequest) error {
	if _, ok := m.requests[req.ID]; !ok {
		return fmt.Errorf("request not found")
	}
	m.requests[req.ID] = req
	return nil
}

func (m *mockGDPRRepo) List(ctx context.Context, status string, limit, offset int) ([]*audit.GDPRRequest, int, error) {
	var out []*audit.GDPRRequest
	for _, req := range m.requests {
		if status == "" || req.Status == status {
			out = append(out, req)
		}
	}
	return out, len(out), nil
}

func newTestService() (*audit.Service, *mockEventRepo, *mockGDPRRepo) {
	events := &mockEventRepo{}
	gdpr := newMockGDPRRepo()
	return audit.NewService(events, gdpr, zerolog.Nop()), events, gdpr
}

func TestRecordSkipsIncompleteEvents(t *testing.T) {
	svc, events, _ := newTestService()
	ctx := context.Background()

	svc.Record(ctx, &audit.Event{Action: "POST /x"})
	svc.Record(ctx, &audit.Event{ActorID: "u-1"})
	if len(events.events) != 0 {
		t.Errorf("incomplete events recorded: %d", len(events.events))
	}

	svc.Record(ctx, &audit.Event{ActorID: "u-1", Action: "POST /x"})
	if len(events.events) != 1 {
		t.Errorf("complete event not recorded")
	}
}

func TestRecordSwallowsRepoFailure(t *testing.T) {
	svc, events, _ := newTestService()
	events.failing = true

	// Must not panic or surface the error.
	svc.Record(context.Background(), &audit.Event{ActorID: "u-1", Action: "POST /x"})
}

func TestCreateGDPRRequestValidation(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name string
		req  *audit.GDPRRequest
	}{
		{"missing subject", &audit.GDPRRequest{Kind: audit.RequestKindExport, RequestedBy: "u-1"}},
		{"bad kind", &audit.GDPRRequest{SubjectID: "p-1", Kind: "purge", RequestedBy: "u-1"}},
		{"missing requester", &audit.GDPRRequest{SubjectID: "p-1", Kind: audit.RequestKindExport}},
	}
	for _, tc := range cases {
		if err := svc.CreateGDPRRequest(ctx, tc.req); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}

	req := &audit.GDPRRequest{SubjectID: "p-1", Kind: audit.RequestKindErasure, RequestedBy: "u-1", Status: "approved"}
	if err := svc.CreateGDPRRequest(ctx, req); err != nil {
		t.Fatalf("create: %v", err)
	}
	if req.Status != audit.RequestStatusPending {
		t.Errorf("status = %q, new requests always start pending", req.Status)
	}
}

func TestResolveGDPRRequest(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	req := &audit.GDPRRequest{SubjectID: "p-1", Kind: audit.RequestKindErasure, RequestedBy: "u-1"}
	if err := svc.CreateGDPRRequest(ctx, req); err != nil {
		t.Fatal(err)
	}

	if _, err := svc.ResolveGDPRRequest(ctx, req.ID, "maybe", "u-admin", nil); err == nil {
		t.Error("unknown resolution status should fail")
	}

	resolved, err := svc.ResolveGDPRRequest(ctx, req.ID, audit.RequestStatusApproved, "u-admin", nil)
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if resolved.Status != audit.RequestStatusApproved {
		t.Errorf("status = %q", resolved.Status)
	}
	if resolved.ReviewedBy == nil || *resolved.ReviewedBy != "u-admin" {
		t.Errorf("reviewed_by = %v", resolved.ReviewedBy)
	}
	if resolved.ResolvedAt == nil {
		t.Error("resolved_at not set")
	}

	if _, err := svc.ResolveGDPRRequest(ctx, req.ID, audit.RequestStatusRejected, "u-admin", nil); err == nil {
		t.Error("resolving twice should fail")
	}
}

func TestListEventsFilter(t *testing.T) {
	svc, events, _ := newTestService()
	ctx := context.Background()

	for _, ev := range []*audit.Event{
		{ActorID: "u-1", Action: "POST /api/v1/patients"},
		{ActorID: "u-1", Action: "DELETE /api/v1/patients/:id"},
		{ActorID: "u-2", Action: "POST /api/v1/patients"},
	} {
		if err := events.Append(ctx, ev); err != nil {
			t.Fatal(err)
		}
	}

	got, total, err := svc.ListEvents(ctx, audit.EventFilter{ActorID: "u-1"}, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || total != 2 {
		t.Errorf("actor filter: got %d events", len(got))
	}

	got, _, err = svc.ListEvents(ctx, audit.EventFilter{Action: "POST /api/v1/patients"}, 20, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 {
		t.Errorf("action filter: got %d events", len(got))
	}
}
