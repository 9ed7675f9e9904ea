package audit

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type eventRepoPG struct{ pool *pgxpool.Pool }

func NewEventRepoPG(pool *pgxpool.Pool) EventRepository { return &eventRepoPG{pool: pool} }

const eventCols = `id, actor_id, actor_role, action, target_type, target_id, request_id, detail, occurred_at`

func (r *eventRepoPG) Append(ctx context.Context, ev *Event) error {
	ev.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO audit_events (id, actor_id, actor_role, action, target_type, target_id, request_id, detail)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING occurred_at`,
		ev.ID, ev.ActorID, ev.ActorRole, ev.Action, ev.TargetType, ev.TargetID, ev.RequestID, ev.Detail,
	).Scan(&ev.OccurredAt)
}

func (r *eventRepoPG) List(ctx context.Context, f EventFilter, limit, offset int) ([]*Event, int, error) {
	where := ``
	args := []interface{}{}
	add := func(cond string, val interface{}) {
		args = append(args, val)
		if where == `` {
			where = ` WHERE `
		} else {
			where += ` AND `
		}
		where += fmt.Sprintf(cond, len(args))
	}
	if f.ActorID != "" {
		add(`actor_id = $%d`, f.ActorID)
	}
	if f.Action != "" {
		add(`action = $%d`, f.Action)
	}
	if !f.Since.IsZero() {
		add(`occurred_at >= $%d`, f.Since)
	}
	if !f.Until.IsZero() {
		add(`occurred_at <= $%d`, f.Until)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_events`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT `+eventCols+` FROM audit_events`+where+`
		ORDER BY occurred_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.pool.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.ActorID, &ev.ActorRole, &ev.Action, &ev.TargetType,
			&ev.TargetID, &ev.RequestID, &ev.Detail, &ev.OccurredAt); err != nil {
			return nil, 0, err
		}
		events = append(events, &ev)
	}
	return events, total, rows.Err()
}

type gdprRepoPG struct{ pool *pgxpool.Pool }

func NewGDPRRepoPG(pool *pgxpool.Pool) GDPRRepository { return &gdprRepoPG{pool: pool} }

const gdprCols = `id, subject_id, kind, status, requested_by, reviewed_by, reason, created_at, resolved_at`

func scanGDPR(row pgx.Row) (*GDPRRequest, error) {
	var req GDPRRequest
	err := row.Scan(&req.ID, &req.SubjectID, &req.Kind, &req.Status, &req.RequestedBy,
		&req.ReviewedBy, &req.Reason, &req.CreatedAt, &req.ResolvedAt)
	return &req, err
}

func (r *gdprRepoPG) Create(ctx context.Context, req *GDPRRequest) error {
	req.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO gdpr_requests (id, subject_id, kind, status, requested_by, reason)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING created_at`,
		req.ID, req.SubjectID, req.Kind, req.Status, req.RequestedBy, req.Reason,
	).Scan(&req.CreatedAt)
}

func (r *gdprRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*GDPRRequest, error) {
	return scanGDPR(r.pool.QueryRow(ctx, `SELECT `+gdprCols+` FROM gdpr_requests WHERE id = $1`, id))
}

func (r *gdprRepoPG) Update(ctx context.Context, req *GDPRRequest) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE gdpr_requests SET status=$2, reviewed_by=$3, reason=$4, resolved_at=$5
		WHERE id = $1`,
		req.ID, req.Status, req.ReviewedBy, req.Reason, req.ResolvedAt)
	return err
}

func (r *gdprRepoPG) List(ctx context.Context, status string, limit, offset int) ([]*GDPRRequest, int, error) {
	countWhere, where := ``, ``
	countArgs := []interface{}{}
	args := []interface{}{limit, offset}
	if status != "" {
		countWhere, where = ` WHERE status = $1`, ` WHERE status = $3`
		countArgs = append(countArgs, status)
		args = append(args, status)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM gdpr_requests`+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+gdprCols+` FROM gdpr_requests`+where+`
		ORDER BY created_at DESC LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reqs []*GDPRRequest
	for rows.Next() {
		req, err := scanGDPR(rows)
		if err != nil {
			return nil, 0, err
		}
		reqs = append(reqs, req)
	}
	return reqs, total, rows.Err()
}
