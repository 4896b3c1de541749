package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RezaEskandarii/recordgrid/internal/constants"
	"github.com/RezaEskandarii/recordgrid/internal/query"
	"github.com/RezaEskandarii/recordgrid/internal/state"
	"github.com/RezaEskandarii/recordgrid/internal/store"
	"github.com/RezaEskandarii/recordgrid/types"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const userColumns = "id, username, email, telephone, first_name, last_name, active, type_user, date_creation"

// uniqueViolation is the postgres error code for a unique constraint failure.
const uniqueViolation = "23505"

type postgresUserStore struct {
	db *sql.DB
}

// NewPostgresUserStore creates a new UserStore with a DB connection
func NewPostgresUserStore(db *sql.DB) store.UserStore {
	return &postgresUserStore{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*types.User, error) {
	var (
		u        types.User
		typeUser string
		created  time.Time
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Telephone, &u.FirstName, &u.LastName, &u.Active, &typeUser, &created); err != nil {
		return nil, err
	}
	u.TypeUser = types.UserTypes{typeUser}
	u.DateCreation = types.NewTimestamp(created)
	return &u, nil
}

func whereClause(req query.ListRequest) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if term := strings.TrimSpace(req.Search); term != "" {
		args = append(args, "%"+term+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(username ILIKE $%d OR email ILIKE $%d OR first_name ILIKE $%d OR last_name ILIKE $%d OR telephone ILIKE $%d)",
			n, n, n, n, n))
	}
	if active, ok := store.StatusFilter(req.Status); ok {
		args = append(args, active)
		conds = append(conds, fmt.Sprintf("active = $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (r *postgresUserStore) List(ctx context.Context, req query.ListRequest) (*types.PageResult[types.User], error) {
	size := req.Size
	if size <= 0 {
		size = 10
	}
	where, args := whereClause(req)

	var total int
	countQuery := "SELECT COUNT(*) FROM " + constants.UsersTable + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	dir := "ASC"
	if req.SortDir == query.Desc {
		dir = "DESC"
	}
	args = append(args, size, req.Page*size)
	listQuery := fmt.Sprintf("SELECT %s FROM %s%s ORDER BY %s %s, id ASC LIMIT $%d OFFSET $%d",
		userColumns, constants.UsersTable, where, store.SortColumn(req.SortBy), dir, len(args)-1, len(args))

	rows, err := r.db.QueryContext(ctx, listQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	items := make([]types.User, 0, size)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &types.PageResult[types.User]{
		Items:      items,
		TotalCount: total,
		PageIndex:  req.Page,
		PageSize:   size,
	}, nil
}

func (r *postgresUserStore) Get(ctx context.Context, id string) (*types.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.ErrNotFound
	}
	q := "SELECT " + userColumns + " FROM " + constants.UsersTable + " WHERE id = $1"
	u, err := scanUser(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	return u, err
}

func (r *postgresUserStore) Create(ctx context.Context, in types.CreateUser) (*types.User, error) {
	q := `INSERT INTO ` + constants.UsersTable + ` (id, username, email, telephone, first_name, last_name, active, type_user)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, q,
		uuid.NewString(),
		strings.TrimSpace(in.Username),
		strings.TrimSpace(in.Email),
		strings.TrimSpace(in.Telephone),
		strings.TrimSpace(in.FirstName),
		strings.TrimSpace(in.LastName),
		in.Active,
		store.NormalizeType(in.TypeUser),
	))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *postgresUserStore) Update(ctx context.Context, id string, patch map[string]any) (*types.User, error) {
	assignments, err := store.NormalizePatch(patch)
	if err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, store.ErrNotFound
	}

	sets := make([]string, len(assignments))
	args := make([]any, 0, len(assignments)+1)
	for i, a := range assignments {
		args = append(args, a.Value)
		sets[i] = fmt.Sprintf("%s = $%d", a.Column, len(args))
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = $%d RETURNING %s",
		constants.UsersTable, strings.Join(sets, ", "), len(args), userColumns)
	u, err := scanUser(r.db.QueryRowContext(ctx, q, args...))
	if err != nil {
		return nil, translate(err)
	}
	return u, nil
}

func (r *postgresUserStore) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return store.ErrNotFound
	}
	result, err := r.db.ExecContext(ctx, "DELETE FROM "+constants.UsersTable+" WHERE id = $1", id)
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *postgresUserStore) Stats(ctx context.Context, now time.Time) (types.UserStats, error) {
	day, week, month := store.StatsWindows(now)
	stats := types.UserStats{Breakdown: map[string]int{
		string(state.TypeAdmin):    0,
		string(state.TypeManager):  0,
		string(state.TypeCustomer): 0,
	}}

	q := `SELECT COUNT(*),
		COUNT(*) FILTER (WHERE active),
		COUNT(*) FILTER (WHERE date_creation >= $1),
		COUNT(*) FILTER (WHERE date_creation >= $2),
		COUNT(*) FILTER (WHERE date_creation >= $3)
		FROM ` + constants.UsersTable
	err := r.db.QueryRowContext(ctx, q, day, week, month).
		Scan(&stats.Total, &stats.Active, &stats.Today, &stats.ThisWeek, &stats.ThisMonth)
	if err != nil {
		return types.UserStats{}, fmt.Errorf("user stats: %w", err)
	}
	stats.Inactive = stats.Total - stats.Active
	stats.ActivePercentage = store.Percentage(stats.Active, stats.Total)

	rows, err := r.db.QueryContext(ctx, "SELECT type_user, COUNT(*) FROM "+constants.UsersTable+" GROUP BY type_user")
	if err != nil {
		return types.UserStats{}, fmt.Errorf("user type breakdown: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			typeUser string
			count    int
		)
		if err := rows.Scan(&typeUser, &count); err != nil {
			return types.UserStats{}, err
		}
		stats.Breakdown[typeUser] = count
	}
	return stats, rows.Err()
}

func translate(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return store.ErrConflict
	}
	return err
}
