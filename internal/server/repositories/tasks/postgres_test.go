package tasks

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

const (
	insertQuery = `(?s)^INSERT\s+INTO\s+tasks\s*\(id,\s*user_id,\s*title,\s*description,\s*category,\s*priority,\s*status,\s*due_date\)\s*VALUES\s*\(\$1,.*\$8\)\s*RETURNING\s+created_at,\s*updated_at\s*$`
	getQuery    = `(?s)^SELECT\s+id,\s*user_id,.*FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	lockQuery   = `(?s)^SELECT\s+id,\s*user_id,.*FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+FOR\s+UPDATE\s*$`
	listQuery   = `(?s)^SELECT\s+id,\s*user_id,.*FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s*$`
	updateQuery = `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*\$3,.*updated_at\s*=\s*now\(\)\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s+RETURNING\s+updated_at\s*$`
	deleteQuery = `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2\s*$`
	statsQuery  = `(?s)^SELECT\s+COUNT\(\*\),.*FILTER\s*\(WHERE\s+priority\s*=\s*'High'\)\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s*$`
)

var taskCols = []string{"id", "user_id", "title", "description", "category", "priority", "status", "due_date", "created_at", "updated_at"}

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	created := time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)
	due := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(insertQuery).
		WithArgs("t-1", "u-1", "Buy milk", "2 litres", "home", "Medium", "Pending", due).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, created))

	task := &models.Task{
		ID: "t-1", UserID: "u-1", Title: "Buy milk", Description: "2 litres", Category: "home",
		Priority: models.PriorityMedium, Status: models.StatusPending, DueDate: &due,
	}
	got, err := repo.Create(context.Background(), task)
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created, got.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NoDueDateAndGeneratedID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).
		WithArgs(sqlmock.AnyArg(), "u-1", "t", "", "", "High", "Pending", nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(time.Now(), time.Now()))

	got, err := repo.Create(context.Background(), &models.Task{
		UserID: "u-1", Title: "t", Priority: models.PriorityHigh, Status: models.StatusPending,
	})
	require.NoError(t, err)
	assert.Len(t, got.ID, 36)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(insertQuery).WillReturnError(errors.New("boom"))

	_, err := repo.Create(context.Background(), &models.Task{UserID: "u", Title: "t"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error: boom")
}

func TestGetByID(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now().UTC()
	due := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(getQuery).WithArgs("t-1", "u-1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t-1", "u-1", "Walk dog", "", "pets", "Low", "In Progress", due, now, now))
	mock.ExpectQuery(getQuery).WithArgs("t-1", "u-2").WillReturnError(sql.ErrNoRows)

	got, err := repo.GetByID(context.Background(), "u-1", "t-1")
	require.NoError(t, err)
	assert.Equal(t, models.PriorityLow, got.Priority)
	assert.Equal(t, models.StatusInProgress, got.Status)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due, *got.DueDate)

	_, err = repo.GetByID(context.Background(), "u-2", "t-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now().UTC()
	mock.ExpectQuery(lockQuery).WithArgs("t-1", "u-1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("t-1", "u-1", "Pay rent", "", "", "High", "Pending", nil, now, now))

	got, err := repo.GetForUpdate(context.Background(), "u-1", "t-1")
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListByOwner(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	t1 := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	t0 := t1.Add(-time.Hour)
	mock.ExpectQuery(listQuery).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("b", "u-1", "second", "", "", "Medium", "Pending", nil, t1, t1).
			AddRow("a", "u-1", "first", "", "", "Medium", "Completed", nil, t0, t0))

	got, err := repo.ListByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
}

func TestListByOwner_EmptyIsNotNil(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(listQuery).WithArgs("u-1").WillReturnRows(sqlmock.NewRows(taskCols))

	got, err := repo.ListByOwner(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByOwner_RowError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	now := time.Now()
	mock.ExpectQuery(listQuery).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow("a", "u-1", "x", "", "", "Medium", "Pending", nil, now, now).
			RowError(0, errors.New("broken row")))

	_, err := repo.ListByOwner(context.Background(), "u-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestUpdate(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	updated := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(updateQuery).
		WithArgs("t-1", "u-1", "new", "", "", "Medium", "Completed", nil).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(updated))
	mock.ExpectQuery(updateQuery).
		WithArgs("t-2", "u-1", "gone", "", "", "Medium", "Pending", nil).
		WillReturnError(sql.ErrNoRows)

	got, err := repo.Update(context.Background(), &models.Task{
		ID: "t-1", UserID: "u-1", Title: "new", Priority: models.PriorityMedium, Status: models.StatusCompleted,
	})
	require.NoError(t, err)
	assert.Equal(t, updated, got.UpdatedAt)

	_, err = repo.Update(context.Background(), &models.Task{
		ID: "t-2", UserID: "u-1", Title: "gone", Priority: models.PriorityMedium, Status: models.StatusPending,
	})
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestDelete(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectExec(deleteQuery).WithArgs("t-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(deleteQuery).WithArgs("t-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(deleteQuery).WithArgs("t-2", "u-1").WillReturnError(errors.New("down"))

	require.NoError(t, repo.Delete(context.Background(), "u-1", "t-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "u-1", "t-1"), common.ErrorNotFound)

	err := repo.Delete(context.Background(), "u-1", "t-2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrorNotFound)
}

func TestStats(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(statsQuery).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"total", "completed", "pending", "in_progress", "high"}).
			AddRow(5, 2, 2, 1, 3))

	got, err := repo.Stats(context.Background(), "u-1")
	require.NoError(t, err)
	assert.Equal(t, &models.TaskStats{Total: 5, Completed: 2, Pending: 2, InProgress: 1, HighPriority: 3}, got)
}
