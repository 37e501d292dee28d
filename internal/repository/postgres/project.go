package postgres

import (
	"context"
	"database/sql"
	"time"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

const projectColumns = `p.id, p.slug, p.name, p.description, p.creator_id, p.private, p.created_on,
	(SELECT COUNT(*) FROM project_members m WHERE m.project_id = p.id)`

type projectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) repository.ProjectRepository {
	return &projectRepository{db: db}
}

func scanProject(row rowScanner, p *domain.Project) error {
	return row.Scan(&p.ID, &p.Slug, &p.Name, &p.Description, &p.CreatorID, &p.Private, &p.CreatedOn, &p.MemberCount)
}

func (r *projectRepository) Create(ctx context.Context, p *domain.Project) error {
	p.CreatedOn = time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO projects (slug, name, description, creator_id, private, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	if err := tx.QueryRowContext(ctx, query, p.Slug, p.Name, p.Description, p.CreatorID, p.Private, p.CreatedOn).Scan(&p.ID); err != nil {
		return mapError(err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO project_members (project_id, user_id, away, away_message, joined_on) VALUES ($1, $2, FALSE, '', $3)`,
		p.ID, p.CreatorID, p.CreatedOn); err != nil {
		return mapError(err)
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	p.MemberCount = 1
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id int32) (*domain.Project, error) {
	p := &domain.Project{}
	if err := scanProject(r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.id = $1`, id), p); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (r *projectRepository) GetBySlug(ctx context.Context, slug string) (*domain.Project, error) {
	p := &domain.Project{}
	if err := scanProject(r.db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects p WHERE p.slug = $1`, slug), p); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

const visibleProjectsWhere = `(p.name ILIKE $1 OR p.description ILIKE $1)
	AND (NOT p.private OR EXISTS (SELECT 1 FROM project_members vm WHERE vm.project_id = p.id AND vm.user_id = $2))`

func (r *projectRepository) List(ctx context.Context, viewerID int32, query string, page, pageSize int32) ([]domain.Project, int32, error) {
	pattern := "%" + query + "%"
	var total int32
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM projects p WHERE `+visibleProjectsWhere, pattern, viewerID).Scan(&total); err != nil {
		return nil, 0, err
	}

	listQuery := `SELECT ` + projectColumns + ` FROM projects p WHERE ` + visibleProjectsWhere + `
	              ORDER BY p.created_on DESC, p.id DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, listQuery, pattern, viewerID, pageSize, offset(page, pageSize))
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	projects, err := collectProjects(rows)
	return projects, total, err
}

func (r *projectRepository) ListByMember(ctx context.Context, userID int32) ([]domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects p
	          JOIN project_members pm ON pm.project_id = p.id WHERE pm.user_id = $1 ORDER BY p.name`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProjects(rows)
}

func collectProjects(rows *sql.Rows) ([]domain.Project, error) {
	var projects []domain.Project
	for rows.Next() {
		var p domain.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *projectRepository) Update(ctx context.Context, p *domain.Project) error {
	res, err := r.db.ExecContext(ctx, `UPDATE projects SET name = $1, description = $2, private = $3 WHERE id = $4`,
		p.Name, p.Description, p.Private, p.ID)
	return expectAffected(res, err)
}

func (r *projectRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	return expectAffected(res, err)
}

func (r *projectRepository) AddMember(ctx context.Context, m *domain.ProjectMember) error {
	m.JoinedOn = time.Now().UTC()
	query := `INSERT INTO project_members (project_id, user_id, away, away_message, joined_on) VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, m.ProjectID, m.UserID, m.Away, m.AwayMessage, m.JoinedOn)
	return mapError(err)
}

func (r *projectRepository) GetMember(ctx context.Context, projectID, userID int32) (*domain.ProjectMember, error) {
	m := &domain.ProjectMember{}
	query := `SELECT project_id, user_id, away, away_message, joined_on FROM project_members WHERE project_id = $1 AND user_id = $2`
	if err := r.db.QueryRowContext(ctx, query, projectID, userID).Scan(&m.ProjectID, &m.UserID, &m.Away, &m.AwayMessage, &m.JoinedOn); err != nil {
		return nil, mapError(err)
	}
	return m, nil
}

func (r *projectRepository) UpdateMember(ctx context.Context, m *domain.ProjectMember) error {
	res, err := r.db.ExecContext(ctx, `UPDATE project_members SET away = $1, away_message = $2 WHERE project_id = $3 AND user_id = $4`,
		m.Away, m.AwayMessage, m.ProjectID, m.UserID)
	return expectAffected(res, err)
}

func (r *projectRepository) RemoveMember(ctx context.Context, projectID, userID int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM project_members WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	return expectAffected(res, err)
}

func (r *projectRepository) CountMembers(ctx context.Context, projectID int32) (int32, error) {
	var n int32
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM project_members WHERE project_id = $1`, projectID).Scan(&n)
	return n, err
}

func (r *projectRepository) ListMembers(ctx context.Context, projectID int32) ([]domain.ProjectMember, error) {
	query := `SELECT pm.project_id, pm.away, pm.away_message, pm.joined_on, ` + prefixedUserColumns + `
	          FROM project_members pm JOIN users u ON u.id = pm.user_id
	          WHERE pm.project_id = $1 ORDER BY pm.joined_on`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []domain.ProjectMember
	for rows.Next() {
		var m domain.ProjectMember
		u := &domain.User{}
		if err := rows.Scan(&m.ProjectID, &m.Away, &m.AwayMessage, &m.JoinedOn, &u.ID, &u.Username, &u.Email,
			&u.PasswordHash, &u.Name, &u.About, &u.Location, &u.Website, &u.Timezone, &u.Language, &u.AvatarURL,
			&u.CreatedOn, &u.UpdatedOn); err != nil {
			return nil, err
		}
		m.UserID = u.ID
		m.User = u
		members = append(members, m)
	}
	return members, rows.Err()
}
