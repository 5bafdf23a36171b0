package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx/reflectx"

	"github.com/iliyamo/hotel-booking-api/internal/database"
)

// Schema describes a flat table keyed by a single string column.  Column
// names double as the `db` tags of the record type, and they are the only
// identifiers ever written into SQL text.
type Schema struct {
	Table   string   // table name
	Key     string   // business key column
	Columns []string // every column, in select/insert order; must include Key
	Updates []string // columns rewritten by Update
}

var mapper = reflectx.NewMapper("db")

// Table runs the five CRUD statements for one Schema against a gateway.
// The statements are built once at construction.
type Table[T any] struct {
	db     database.Gateway
	schema Schema

	listSQL   string
	getSQL    string
	insertSQL string
	updateSQL string
	deleteSQL string
}

// NewTable builds a Table for record type T.  It panics when the schema is
// incomplete or names a column T has no `db` tag for, since that is a
// programming error rather than a runtime condition.
func NewTable[T any](db database.Gateway, s Schema) *Table[T] {
	if db == nil {
		panic("nil gateway passed to NewTable")
	}
	if s.Table == "" || s.Key == "" || len(s.Columns) == 0 {
		panic("incomplete schema passed to NewTable")
	}
	fields := mapper.TypeMap(reflect.TypeOf((*T)(nil)).Elem())
	hasKey := false
	for _, col := range append(append([]string{}, s.Columns...), s.Updates...) {
		if fields.GetByPath(col) == nil {
			panic(fmt.Sprintf("%s: column %q has no matching db tag", s.Table, col))
		}
		if col == s.Key {
			hasKey = true
		}
	}
	if !hasKey {
		panic(fmt.Sprintf("%s: key column %q missing from columns", s.Table, s.Key))
	}

	cols := strings.Join(s.Columns, ", ")
	sets := make([]string, len(s.Updates))
	for i, col := range s.Updates {
		sets[i] = col + " = ?"
	}
	return &Table[T]{
		db:        db,
		schema:    s,
		listSQL:   fmt.Sprintf("SELECT %s FROM %s", cols, s.Table),
		getSQL:    fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", cols, s.Table, s.Key),
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", s.Table, cols, placeholders(len(s.Columns))),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", s.Table, strings.Join(sets, ", "), s.Key),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE %s = ?", s.Table, s.Key),
	}
}

// Name returns the table name.
func (t *Table[T]) Name() string { return t.schema.Table }

// List returns every row.  An empty table yields an empty, non-nil slice.
func (t *Table[T]) List(ctx context.Context) ([]T, error) {
	out := []T{}
	if err := t.db.Select(ctx, &out, t.listSQL); err != nil {
		return nil, fmt.Errorf("list %s: %w", t.schema.Table, err)
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}

// Get returns the row whose key equals code, or ErrNotFound.
func (t *Table[T]) Get(ctx context.Context, code string) (*T, error) {
	var rec T
	if err := t.db.Get(ctx, &rec, t.getSQL, code); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s %q: %w", t.schema.Table, code, err)
	}
	return &rec, nil
}

// Create inserts every column of rec.  Uniqueness of the key is left to
// the store.
func (t *Table[T]) Create(ctx context.Context, rec *T) error {
	if _, err := t.db.Exec(ctx, t.insertSQL, values(rec, t.schema.Columns)...); err != nil {
		return fmt.Errorf("insert %s: %w", t.schema.Table, err)
	}
	return nil
}

// Update rewrites the Updates columns of the row keyed by code and reports
// how many rows matched.  Zero is not an error.
func (t *Table[T]) Update(ctx context.Context, code string, rec *T) (int64, error) {
	args := append(values(rec, t.schema.Updates), code)
	n, err := t.db.Exec(ctx, t.updateSQL, args...)
	if err != nil {
		return 0, fmt.Errorf("update %s %q: %w", t.schema.Table, code, err)
	}
	return n, nil
}

// Delete removes the row keyed by code and reports how many rows matched.
// Zero is not an error.
func (t *Table[T]) Delete(ctx context.Context, code string) (int64, error) {
	n, err := t.db.Exec(ctx, t.deleteSQL, code)
	if err != nil {
		return 0, fmt.Errorf("delete %s %q: %w", t.schema.Table, code, err)
	}
	return n, nil
}

// CodeOf reads the key column out of rec.  A missing key reads as "".
func (t *Table[T]) CodeOf(rec *T) string {
	v := values(rec, []string{t.schema.Key})[0]
	switch k := v.(type) {
	case *string:
		if k != nil {
			return *k
		}
		return ""
	case string:
		return k
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

// values returns the fields of rec tagged with cols, in that order.
// Pointer fields are passed through; the driver binds nil as NULL.
func values(rec any, cols []string) []any {
	fm := mapper.FieldMap(reflect.ValueOf(rec))
	out := make([]any, len(cols))
	for i, col := range cols {
		out[i] = fm[col].Interface()
	}
	return out
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
