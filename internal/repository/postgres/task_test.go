package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pinax-social-backend/internal/domain"
	"pinax-social-backend/internal/repository"
)

var taskRowColumns = []string{"id", "project_id", "summary", "detail", "creator_id", "assignee_id", "state", "status", "created_on", "modified_on"}

func TestTaskRepository_List_Filters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	state := domain.TaskStateOpen
	assignee := int32(4)

	mock.ExpectQuery("SELECT (.+) FROM tasks WHERE project_id = \\$1 AND state = \\$2 AND assignee_id = \\$3").
		WithArgs(int32(10), state, assignee).
		WillReturnRows(sqlmock.NewRows(taskRowColumns).
			AddRow(1, 10, "Fix login", "", 2, 4, 1, "", time.Now(), time.Now()).
			AddRow(2, 10, "Write docs", "", 2, nil, 1, "", time.Now(), time.Now()))

	tasks, err := repo.List(context.Background(), repository.TaskFilter{ProjectID: 10, State: &state, AssigneeID: &assignee})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.NotNil(t, tasks[0].AssigneeID)
	assert.Equal(t, int32(4), *tasks[0].AssigneeID)
	assert.Nil(t, tasks[1].AssigneeID)
	assert.Equal(t, domain.TaskStateOpen, tasks[0].State)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_List_ProjectOnly(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM tasks WHERE project_id = \\$1 ORDER BY").
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows(taskRowColumns))

	tasks, err := repo.List(context.Background(), repository.TaskFilter{ProjectID: 10})
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NoError(t, mock.ExpectationsWereMet())
}
