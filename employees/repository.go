package employees

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/uptrace/bun"
)

// FirstEmployeeNumber is the floor for generated ids; the first id is EMP1001
const FirstEmployeeNumber = 1000

// ErrEmployeeNotFound is returned when no record has the given id
var ErrEmployeeNotFound = errors.New("employee not found")

// Store is the persistence contract used by Service
type Store interface {
	List(ctx context.Context, skip, limit int) ([]Employee, error)
	Get(ctx context.Context, id string) (*Employee, error)
	Create(ctx context.Context, e *Employee) (*Employee, error)
	Save(ctx context.Context, e *Employee) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

// Repository stores employees in a bun database
type Repository struct {
	db bun.IDB
	// serializes id allocation with insert
	mu sync.Mutex
}

// NewRepository returns a Repository over db
func NewRepository(db bun.IDB) *Repository {
	return &Repository{db: db}
}

// List returns records in insertion order
func (r *Repository) List(ctx context.Context, skip, limit int) ([]Employee, error) {
	var records []Employee
	err := r.db.NewSelect().
		Model(&records).
		OrderExpr("rowid ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	return records, nil
}

// Get returns the record with id
func (r *Repository) Get(ctx context.Context, id string) (*Employee, error) {
	record := new(Employee)
	err := r.db.NewSelect().
		Model(record).
		Where("employee_id = ?", id).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("get employee %s: %w", id, err)
	}
	return record, nil
}

// Create assigns the next EMP id and inserts e
func (r *Repository) Create(ctx context.Context, e *Employee) (*Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.nextID(ctx)
	if err != nil {
		return nil, err
	}

	record := *e
	record.EmployeeID = id

	if _, err := r.db.NewInsert().Model(&record).Exec(ctx); err != nil {
		return nil, fmt.Errorf("insert employee: %w", err)
	}

	return &record, nil
}

// Save writes every column of e
func (r *Repository) Save(ctx context.Context, e *Employee) error {
	res, err := r.db.NewUpdate().
		Model(e).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update employee %s: %w", e.EmployeeID, err)
	}
	return expectRow(res)
}

// Delete removes the record with id
func (r *Repository) Delete(ctx context.Context, id string) error {
	res, err := r.db.NewDelete().
		Model((*Employee)(nil)).
		Where("employee_id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete employee %s: %w", id, err)
	}
	return expectRow(res)
}

// Count returns the number of records
func (r *Repository) Count(ctx context.Context) (int, error) {
	n, err := r.db.NewSelect().Model((*Employee)(nil)).Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count employees: %w", err)
	}
	return n, nil
}

// Seed inserts records verbatim, keeping their ids
func (r *Repository) Seed(ctx context.Context, records []Employee) error {
	const batch = 200
	for start := 0; start < len(records); start += batch {
		end := min(start+batch, len(records))
		chunk := records[start:end]
		if _, err := r.db.NewInsert().Model(&chunk).Exec(ctx); err != nil {
			return fmt.Errorf("seed employees: %w", err)
		}
	}
	return nil
}

// nextID returns EMP followed by one more than the largest numeric suffix,
// never lower than EMP1001
func (r *Repository) nextID(ctx context.Context) (string, error) {
	var current sql.NullInt64
	err := r.db.NewSelect().
		Model((*Employee)(nil)).
		ColumnExpr("MAX(CAST(SUBSTR(employee_id, 4) AS INTEGER))").
		Where("employee_id LIKE 'EMP%'").
		Scan(ctx, &current)
	if err != nil {
		return "", fmt.Errorf("next employee id: %w", err)
	}

	n := int64(FirstEmployeeNumber)
	if current.Valid && current.Int64 > n {
		n = current.Int64
	}

	return fmt.Sprintf("EMP%d", n+1), nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEmployeeNotFound
	}
	return nil
}
