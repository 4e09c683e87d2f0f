package task

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "github.com/example/todo-api/domain/task"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes relevant to the error taxonomy.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// TaskRepository provides durable task storage.
type TaskRepository interface {
	// Create inserts a new row. The store generates the id and timestamps.
	Create(ctx context.Context, title, description string, status domain.Status, completed bool) (*domain.Task, error)
	// FindAll returns every row in no particular order.
	FindAll(ctx context.Context) ([]domain.Task, error)
	// FindByID returns the row with the given id, or ErrNotFound.
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)
	// Update merges the provided fields into the row and refreshes
	// updated_at, even for an empty patch. Returns ErrNotFound if the id
	// does not exist.
	Update(ctx context.Context, id uuid.UUID, patch TaskPatch) (*domain.Task, error)
	// Delete permanently removes the row, or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
}

// TaskPatch holds the fields of a partial update. Nil means "leave as is".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *domain.Status
	Completed   *bool
}

// PostgresRepository implements TaskRepository on a pgx connection pool.
// Every operation is a single round trip; consistency under concurrent
// requests is delegated to the database.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// Compile-time interface check.
var _ TaskRepository = (*PostgresRepository)(nil)

// NewPostgresRepository creates a task repository backed by the given pool.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

const taskColumns = "id, title, description, status, completed, created_at, updated_at"

// Create inserts a new task. created_at and updated_at come from the same
// statement default, so they are equal at the instant of creation.
func (r *PostgresRepository) Create(ctx context.Context, title, description string, status domain.Status, completed bool) (*domain.Task, error) {
	query := `
		INSERT INTO tasks (id, title, description, status, completed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + taskColumns

	row := r.pool.QueryRow(ctx, query, uuid.New().String(), title, description, string(status), completed)
	t, err := scanTask(row)
	if err != nil {
		return nil, classify("create", err)
	}
	return t, nil
}

// FindAll returns every task. No ORDER BY is imposed. An empty table yields
// an empty slice, not an error.
func (r *PostgresRepository) FindAll(ctx context.Context) ([]domain.Task, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+taskColumns+" FROM tasks")
	if err != nil {
		return nil, classify("list", err)
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, classify("list", err)
		}
		tasks = append(tasks, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, classify("list", err)
	}
	return tasks, nil
}

// FindByID returns a single task by id.
func (r *PostgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+taskColumns+" FROM tasks WHERE id = $1", id.String())
	t, err := scanTask(row)
	if err != nil {
		return nil, classify("get", err)
	}
	return t, nil
}

// Update merges the patch into the row. Non-existence is detected from this
// statement's own result (RETURNING yields no row), so a concurrent delete
// cannot slip between an existence probe and the mutation.
func (r *PostgresRepository) Update(ctx context.Context, id uuid.UUID, patch TaskPatch) (*domain.Task, error) {
	query, args := buildUpdate(id, patch)

	row := r.pool.QueryRow(ctx, query, args...)
	t, err := scanTask(row)
	if err != nil {
		return nil, classify("update", err)
	}
	return t, nil
}

// Delete removes the row. Zero rows affected means the id did not exist.
func (r *PostgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM tasks WHERE id = $1", id.String())
	if err != nil {
		return classify("delete", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// buildUpdate assembles the UPDATE statement for a patch. updated_at is
// always refreshed, so an empty patch still touches the row.
func buildUpdate(id uuid.UUID, patch TaskPatch) (string, []any) {
	set := []string{"updated_at = now()"}
	args := []any{id.String()}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Completed != nil {
		add("completed", *patch.Completed)
	}

	query := fmt.Sprintf(
		"UPDATE tasks SET %s WHERE id = $1 RETURNING %s",
		strings.Join(set, ", "), taskColumns,
	)
	return query, args
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	var status string
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = domain.Status(status)
	return &t, nil
}

// classify maps a backend failure onto the domain error taxonomy. The store
// never swallows a failure: anything unrecognized becomes a StorageError
// carrying the original error for diagnostics.
func classify(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return domain.ErrConflict
		case pgForeignKeyViolation:
			return domain.ErrForeignKey
		}
	}
	return &domain.StorageError{Op: op, Err: err}
}
