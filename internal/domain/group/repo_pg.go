package group

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const groupCols = `id, name, kind, description, active, created_at, updated_at`

func scanGroup(row pgx.Row) (*Group, error) {
	var g Group
	err := row.Scan(&g.ID, &g.Name, &g.Kind, &g.Description, &g.Active, &g.CreatedAt, &g.UpdatedAt)
	return &g, err
}

func (r *repoPG) Create(ctx context.Context, g *Group) error {
	g.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO groups (id, name, kind, description, active)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at, updated_at`,
		g.ID, g.Name, g.Kind, g.Description, g.Active,
	).Scan(&g.CreatedAt, &g.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Group, error) {
	return scanGroup(r.pool.QueryRow(ctx, `SELECT `+groupCols+` FROM groups WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, g *Group) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE groups SET name=$2, kind=$3, description=$4, active=$5, updated_at=NOW()
		WHERE id = $1`,
		g.ID, g.Name, g.Kind, g.Description, g.Active)
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM groups WHERE id = $1`, id)
	return err
}

func (r *repoPG) List(ctx context.Context, kind string, limit, offset int) ([]*Group, int, error) {
	countWhere, where := ``, ``
	countArgs := []interface{}{}
	args := []interface{}{limit, offset}
	if kind != "" {
		countWhere, where = ` WHERE kind = $1`, ` WHERE kind = $3`
		countArgs = append(countArgs, kind)
		args = append(args, kind)
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM groups`+countWhere, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+groupCols+` FROM groups`+where+`
		ORDER BY name LIMIT $1 OFFSET $2`, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var groups []*Group
	for rows.Next() {
		g, err := scanGroup(rows)
		if err != nil {
			return nil, 0, err
		}
		groups = append(groups, g)
	}
	return groups, total, rows.Err()
}

func (r *repoPG) AddMember(ctx context.Context, m *Member) error {
	m.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO group_members (id, group_id, subject_id, role)
		VALUES ($1,$2,$3,$4)
		RETURNING added_at`,
		m.ID, m.GroupID, m.SubjectID, m.Role,
	).Scan(&m.AddedAt)
}

func (r *repoPG) RemoveMember(ctx context.Context, groupID uuid.UUID, subjectID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM group_members WHERE group_id = $1 AND subject_id = $2`, groupID, subjectID)
	return err
}

func (r *repoPG) ListMembers(ctx context.Context, groupID uuid.UUID) ([]*Member, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, group_id, subject_id, role, added_at
		FROM group_members WHERE group_id = $1 ORDER BY added_at`, groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.GroupID, &m.SubjectID, &m.Role, &m.AddedAt); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}
