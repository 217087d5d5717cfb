package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// setBuilder accumulates SET clauses with positional args for partial updates.
type setBuilder struct {
	columns []string
	args    []interface{}
}

func newSetBuilder() *setBuilder {
	return &setBuilder{}
}

func (b *setBuilder) add(column string, value interface{}) {
	b.args = append(b.args, value)
	b.columns = append(b.columns, fmt.Sprintf("%s = $%d", column, len(b.args)))
}

func (b *setBuilder) empty() bool {
	return len(b.columns) == 0
}

// exec runs the UPDATE and reports whether a row was touched.
func (b *setBuilder) exec(db *sqlx.DB, table, keyColumn string, key interface{}) (bool, error) {
	args := append(b.args, key)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		table, strings.Join(b.columns, ", "), keyColumn, len(args))
	result, err := db.Exec(query, args...)
	if err != nil {
		return false, err
	}
	count, _ := result.RowsAffected()
	return count > 0, nil
}

func trimPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
