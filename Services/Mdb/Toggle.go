package services

import (
	"context"
	"fmt"
	"strings"
)

// Relation describes a binary relation table (likes, subscriptions) whose
// identity columns are covered by a unique index. The unique index is what
// makes ToggleRelation race-safe: two concurrent toggles can never leave two
// rows behind.
type Relation struct {
	Table    string
	IDColumn string   // primary key column, filled with a fresh UUID on create
	Columns  []string // identity columns, in the order values are passed
	// Predicate is the partial unique index predicate, required when the
	// index is partial (the likes table has one unique index per target kind)
	Predicate string
}

// ToggleRelation inverts the existence of the relation row identified by
// vals. If the row is absent it is created and ToggleRelation reports true;
// if present it is deleted and ToggleRelation reports false.
//
// The create path is a single conditional INSERT scoped by the unique index,
// so check-then-act races collapse into the constraint: the losing INSERT
// affects zero rows and falls through to the delete path.
func ToggleRelation(ctx context.Context, db PgxIface, rel Relation, id string, vals ...any) (bool, error) {
	if len(vals) != len(rel.Columns) {
		return false, fmt.Errorf("relation %s expects %d values, got %d", rel.Table, len(rel.Columns), len(vals))
	}

	placeholders := make([]string, 0, len(rel.Columns)+1)
	for i := range len(rel.Columns) + 1 {
		placeholders = append(placeholders, fmt.Sprintf("$%d", i+1))
	}

	conflict := strings.Join(rel.Columns, ", ")
	if rel.Predicate != "" {
		conflict += ") WHERE (" + rel.Predicate
	}

	insertSQL := fmt.Sprintf(
		"INSERT INTO %s (%s, %s) VALUES (%s) ON CONFLICT (%s) DO NOTHING",
		rel.Table, rel.IDColumn, strings.Join(rel.Columns, ", "),
		strings.Join(placeholders, ", "), conflict,
	)

	args := append([]any{id}, vals...)
	tag, err := db.Exec(ctx, insertSQL, args...)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	conds := make([]string, len(rel.Columns))
	for i, col := range rel.Columns {
		conds[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	deleteSQL := fmt.Sprintf("DELETE FROM %s WHERE %s", rel.Table, strings.Join(conds, " AND "))

	if _, err := db.Exec(ctx, deleteSQL, vals...); err != nil {
		return false, err
	}
	return false, nil
}

// Exists reports whether a row with column = value exists in table. Table
// and column always come from handler-level literals, never from input.
func Exists(ctx context.Context, db PgxIface, table, column string, value any) (bool, error) {
	var exists bool
	sql := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)", table, column)
	if err := db.QueryRow(ctx, sql, value).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
