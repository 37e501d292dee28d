package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

const (
	pointColumns  = `id, label, app, idx, registered, status, created_on, updated_on`
	pluginColumns = `p.id, p.point_id, pp.label AS point_label, p.label, p.app, p.template, p.idx, p.required, p.registered, p.status, p.created_on, p.updated_on`
)

// pluginStore runs registry queries against either the database or a transaction.
type pluginStore struct {
	q sqlx.ExtContext
}

type pluginRepository struct {
	pluginStore
	db *sqlx.DB
}

func NewPluginRepository(db *sqlx.DB) repository.PluginRepository {
	return &pluginRepository{pluginStore: pluginStore{q: db}, db: db}
}

func (r *pluginRepository) InTx(ctx context.Context, fn func(store repository.PluginStore) error) error {
	const op = "repo.plugin.InTx"

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer tx.Rollback()

	if err := fn(&pluginStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}
	return nil
}

func (s *pluginStore) ListPoints(ctx context.Context) ([]domain.PluginPoint, error) {
	const op = "repo.plugin.ListPoints"

	var points []domain.PluginPoint
	if err := sqlx.SelectContext(ctx, s.q, &points, `SELECT `+pointColumns+` FROM plugin_points ORDER BY idx, label`); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return points, nil
}

func (s *pluginStore) GetPointByID(ctx context.Context, id int32) (*domain.PluginPoint, error) {
	const op = "repo.plugin.GetPointByID"

	var p domain.PluginPoint
	if err := sqlx.GetContext(ctx, s.q, &p, `SELECT `+pointColumns+` FROM plugin_points WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &p, nil
}

func (s *pluginStore) GetPointByLabel(ctx context.Context, label string) (*domain.PluginPoint, error) {
	const op = "repo.plugin.GetPointByLabel"

	var p domain.PluginPoint
	if err := sqlx.GetContext(ctx, s.q, &p, `SELECT `+pointColumns+` FROM plugin_points WHERE label = $1`, label); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &p, nil
}

func (s *pluginStore) CreatePoint(ctx context.Context, p *domain.PluginPoint) error {
	const op = "repo.plugin.CreatePoint"

	now := time.Now().UTC()
	p.CreatedOn = now
	p.UpdatedOn = now
	query := `INSERT INTO plugin_points (label, app, idx, registered, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := sqlx.GetContext(ctx, s.q, &p.ID, query, p.Label, p.App, p.Index, p.Registered, p.Status, p.CreatedOn, p.UpdatedOn); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

func (s *pluginStore) UpdatePoint(ctx context.Context, p *domain.PluginPoint) error {
	const op = "repo.plugin.UpdatePoint"

	p.UpdatedOn = time.Now().UTC()
	query := `UPDATE plugin_points SET app = :app, idx = :idx, registered = :registered, status = :status, updated_on = :updated_on WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, s.q, query, p)
	if err := expectAffected(res, err); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *pluginStore) DeletePoint(ctx context.Context, id int32) error {
	const op = "repo.plugin.DeletePoint"

	res, err := s.q.ExecContext(ctx, `DELETE FROM plugin_points WHERE id = $1`, id)
	if err := expectAffected(res, err); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *pluginStore) ListPlugins(ctx context.Context, pointID int32) ([]domain.Plugin, error) {
	const op = "repo.plugin.ListPlugins"

	query := `SELECT ` + pluginColumns + ` FROM plugins p JOIN plugin_points pp ON pp.id = p.point_id
	          WHERE p.point_id = $1 ORDER BY p.idx, p.label`
	var plugins []domain.Plugin
	if err := sqlx.SelectContext(ctx, s.q, &plugins, query, pointID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plugins, nil
}

func (s *pluginStore) ListAllPlugins(ctx context.Context) ([]domain.Plugin, error) {
	const op = "repo.plugin.ListAllPlugins"

	query := `SELECT ` + pluginColumns + ` FROM plugins p JOIN plugin_points pp ON pp.id = p.point_id ORDER BY pp.label, p.idx, p.label`
	var plugins []domain.Plugin
	if err := sqlx.SelectContext(ctx, s.q, &plugins, query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return plugins, nil
}

func (s *pluginStore) GetPlugin(ctx context.Context, id int32) (*domain.Plugin, error) {
	const op = "repo.plugin.GetPlugin"

	query := `SELECT ` + pluginColumns + ` FROM plugins p JOIN plugin_points pp ON pp.id = p.point_id WHERE p.id = $1`
	var p domain.Plugin
	if err := sqlx.GetContext(ctx, s.q, &p, query, id); err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapError(err))
	}
	return &p, nil
}

func (s *pluginStore) CreatePlugin(ctx context.Context, p *domain.Plugin) error {
	const op = "repo.plugin.CreatePlugin"

	now := time.Now().UTC()
	p.CreatedOn = now
	p.UpdatedOn = now
	query := `INSERT INTO plugins (point_id, label, app, template, idx, required, registered, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10) RETURNING id`
	if err := sqlx.GetContext(ctx, s.q, &p.ID, query, p.PointID, p.Label, p.App, p.Template, p.Index, p.Required,
		p.Registered, p.Status, p.CreatedOn, p.UpdatedOn); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

func (s *pluginStore) UpdatePlugin(ctx context.Context, p *domain.Plugin) error {
	const op = "repo.plugin.UpdatePlugin"

	p.UpdatedOn = time.Now().UTC()
	query := `UPDATE plugins SET app = :app, template = :template, idx = :idx, required = :required,
	          registered = :registered, status = :status, updated_on = :updated_on WHERE id = :id`
	res, err := sqlx.NamedExecContext(ctx, s.q, query, p)
	if err := expectAffected(res, err); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *pluginStore) DeletePlugin(ctx context.Context, id int32) error {
	const op = "repo.plugin.DeletePlugin"

	res, err := s.q.ExecContext(ctx, `DELETE FROM plugins WHERE id = $1`, id)
	if err := expectAffected(res, err); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *pluginStore) UpsertPreference(ctx context.Context, pref *domain.UserPluginPreference) error {
	const op = "repo.plugin.UpsertPreference"

	query := `INSERT INTO user_plugin_preferences (user_id, plugin_id, visible, idx) VALUES (:user_id, :plugin_id, :visible, :idx)
	          ON CONFLICT (user_id, plugin_id) DO UPDATE SET visible = EXCLUDED.visible, idx = EXCLUDED.idx`
	if _, err := sqlx.NamedExecContext(ctx, s.q, query, pref); err != nil {
		return fmt.Errorf("%s: %w", op, mapError(err))
	}
	return nil
}

func (s *pluginStore) ListPreferences(ctx context.Context, userID, pointID int32) ([]domain.UserPluginPreference, error) {
	const op = "repo.plugin.ListPreferences"

	query := `SELECT up.user_id, up.plugin_id, up.visible, up.idx FROM user_plugin_preferences up
	          JOIN plugins p ON p.id = up.plugin_id WHERE up.user_id = $1 AND p.point_id = $2`
	var prefs []domain.UserPluginPreference
	if err := sqlx.SelectContext(ctx, s.q, &prefs, query, userID, pointID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return prefs, nil
}
