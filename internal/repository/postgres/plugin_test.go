package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

func newPluginRepo(t *testing.T) (repository.PluginRepository, sqlmock.Sqlmock) {
	db, mock := newMock(t)
	return NewPluginRepository(sqlx.NewDb(db, "postgres")), mock
}

func TestPluginRepository_ListPoints(t *testing.T) {
	repo, mock := newPluginRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT (.+) FROM plugin_points ORDER BY idx, label").
		WillReturnRows(sqlmock.NewRows([]string{"id", "label", "app", "idx", "registered", "status", "created_on", "updated_on"}).
			AddRow(1, "profile_sidebar", "profiles", 0, true, "ENABLED", now, now).
			AddRow(2, "tribe_header", "tribes", 1, false, "REMOVED", now, now))

	points, err := repo.ListPoints(context.Background())
	require.NoError(t, err)
	require.Len(t, points, 2)
	assert.Equal(t, "profile_sidebar", points[0].Label)
	assert.Equal(t, domain.PluginStatusRemoved, points[1].Status)
	assert.Equal(t, int32(1), points[1].Index)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPluginRepository_GetPointByLabel_NotFound(t *testing.T) {
	repo, mock := newPluginRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM plugin_points WHERE label = \\$1").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetPointByLabel(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPluginRepository_InTx(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit", func(t *testing.T) {
		repo, mock := newPluginRepo(t)
		mock.ExpectBegin()
		mock.ExpectQuery("INSERT INTO plugin_points").
			WithArgs("feed_sidebar", "feeds", int32(0), true, domain.PluginStatusEnabled, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))
		mock.ExpectCommit()

		var created *domain.PluginPoint
		err := repo.InTx(ctx, func(store repository.PluginStore) error {
			created = &domain.PluginPoint{Label: "feed_sidebar", App: "feeds", Registered: true, Status: domain.PluginStatusEnabled}
			return store.CreatePoint(ctx, created)
		})
		require.NoError(t, err)
		assert.Equal(t, int32(3), created.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RollbackOnError", func(t *testing.T) {
		repo, mock := newPluginRepo(t)
		mock.ExpectBegin()
		mock.ExpectExec("UPDATE plugin_points SET").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectRollback()

		stop := errors.New("stop")
		err := repo.InTx(ctx, func(store repository.PluginStore) error {
			if err := store.UpdatePoint(ctx, &domain.PluginPoint{ID: 1, App: "feeds", Status: domain.PluginStatusRemoved}); err != nil {
				return err
			}
			return stop
		})
		assert.ErrorIs(t, err, stop)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestFeedRepository_UpsertEntries(t *testing.T) {
	db, mock := newMock(t)
	repo := NewFeedRepository(sqlx.NewDb(db, "postgres"))

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO feed_entries").
		WithArgs(int32(9), "guid-1", "First", "http://example.com/1", "", nil).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO feed_entries").
		WithArgs(int32(9), "guid-2", "Second", "http://example.com/2", "", nil).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := repo.UpsertEntries(context.Background(), 9, []domain.FeedEntry{
		{GUID: "guid-1", Title: "First", Link: "http://example.com/1"},
		{GUID: "guid-2", Title: "Second", Link: "http://example.com/2"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
