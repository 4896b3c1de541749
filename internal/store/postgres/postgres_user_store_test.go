package postgres

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/internal/store"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testID = "6f1c2d3e-4b5a-4c7d-8e9f-0a1b2c3d4e5f"

var columns = []string{"id", "username", "email", "telephone", "first_name", "last_name", "active", "type_user", "date_creation"}

func userRow(rows *sqlmock.Rows, id, username string, active bool, created time.Time) *sqlmock.Rows {
	return rows.AddRow(id, username, username+"@example.com", "", "Jean", "Dupont", active, "ADMIN", created)
}

func TestNewPostgresUserStore(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userStore := NewPostgresUserStore(db)
	require.NotNil(t, userStore)
	var _ store.UserStore = userStore
}

func TestPostgresUserStore_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM recordgrid_schema.users WHERE (username ILIKE $1 OR email ILIKE $1")).
		WithArgs("%jean%", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(21))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE (username ILIKE $1") + ".*" + regexp.QuoteMeta("AND active = $2 ORDER BY email DESC, id ASC LIMIT $3 OFFSET $4")).
		WithArgs("%jean%", true, 10, 20).
		WillReturnRows(userRow(sqlmock.NewRows(columns), testID, "jean", true, created))

	page, err := NewPostgresUserStore(db).List(context.Background(), query.ListRequest{
		Search: "jean", Status: "active", Page: 2, Size: 10, SortBy: "email", SortDir: query.Desc,
	})
	require.NoError(t, err)
	assert.Equal(t, 21, page.TotalCount)
	assert.Equal(t, 2, page.PageIndex)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "jean", page.Items[0].Username)
	assert.Equal(t, types.UserTypes{"ADMIN"}, page.Items[0].TypeUser)
	assert.True(t, page.Items[0].DateCreation.Equal(created))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_List_UnknownSortFallsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM recordgrid_schema.users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY date_creation ASC, id ASC LIMIT $1 OFFSET $2")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(columns))

	page, err := NewPostgresUserStore(db).List(context.Background(), query.ListRequest{Size: 10, SortBy: "password; DROP", SortDir: query.Asc})
	require.NoError(t, err)
	assert.Empty(t, page.Items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT id, username").
		WithArgs(testID).
		WillReturnError(sql.ErrNoRows)

	userStore := NewPostgresUserStore(db)
	_, err = userStore.Get(context.Background(), testID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = userStore.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO recordgrid_schema.users").
		WithArgs(sqlmock.AnyArg(), "newuser", "newuser@example.com", "", "Jean", "Dupont", true, "CUSTOMER").
		WillReturnRows(userRow(sqlmock.NewRows(columns), testID, "newuser", true, time.Now()))

	u, err := NewPostgresUserStore(db).Create(context.Background(), types.CreateUser{
		Username: " newuser ", Email: "newuser@example.com", FirstName: "Jean", LastName: "Dupont", Active: true,
	})
	require.NoError(t, err)
	assert.Equal(t, testID, u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_Create_Conflict(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO recordgrid_schema.users").
		WillReturnError(&pq.Error{Code: "23505"})

	_, err = NewPostgresUserStore(db).Create(context.Background(), types.CreateUser{Username: "dup", Email: "dup@example.com"})
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE recordgrid_schema.users SET email = $1, active = $2, type_user = $3 WHERE id = $4 RETURNING")).
		WithArgs("new@example.com", false, "MANAGER", testID).
		WillReturnRows(userRow(sqlmock.NewRows(columns), testID, "jean", false, time.Now()))

	u, err := NewPostgresUserStore(db).Update(context.Background(), testID, map[string]any{
		"email":    "new@example.com",
		"active":   false,
		"typeUser": []any{"manager"},
		"password": "ignored",
	})
	require.NoError(t, err)
	assert.False(t, u.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_Update_EmptyAndMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userStore := NewPostgresUserStore(db)
	_, err = userStore.Update(context.Background(), testID, map[string]any{"username": "  "})
	assert.ErrorIs(t, err, store.ErrEmptyUpdate)

	mock.ExpectQuery("UPDATE recordgrid_schema.users").
		WithArgs(true, testID).
		WillReturnError(sql.ErrNoRows)
	_, err = userStore.Update(context.Background(), testID, map[string]any{"active": true})
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	userStore := NewPostgresUserStore(db)

	mock.ExpectExec("DELETE FROM recordgrid_schema.users").
		WithArgs(testID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, userStore.Delete(context.Background(), testID))

	mock.ExpectExec("DELETE FROM recordgrid_schema.users").
		WithArgs(testID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	assert.ErrorIs(t, userStore.Delete(context.Background(), testID), store.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUserStore_Stats(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Date(2025, 6, 12, 15, 0, 0, 0, time.UTC)
	day, week, month := store.StatsWindows(now)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE active)")).
		WithArgs(day, week, month).
		WillReturnRows(sqlmock.NewRows([]string{"total", "active", "today", "week", "month"}).AddRow(8, 6, 1, 3, 5))
	mock.ExpectQuery("GROUP BY type_user").
		WillReturnRows(sqlmock.NewRows([]string{"type_user", "count"}).AddRow("ADMIN", 2).AddRow("CUSTOMER", 6))

	stats, err := NewPostgresUserStore(db).Stats(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, types.UserStats{
		Total: 8, Active: 6, Inactive: 2, ActivePercentage: 75,
		Today: 1, ThisWeek: 3, ThisMonth: 5,
		Breakdown: map[string]int{"ADMIN": 2, "MANAGER": 0, "CUSTOMER": 6},
	}, stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}
