package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// integrity violations the schema raises on purpose: duplicate favorites,
// featured-but-unapproved offers, inverted ad date ranges.
var sqlStateNames = map[string]string{
	"23502": "not_null_violation",
	"23503": "foreign_key_violation",
	"23505": "unique_violation",
	"23514": "check_violation",
}

type pgFields struct {
	code, constraint, table, column, detail, message string
}

// LogFields flattens err for a structured log line. It always carries the
// message and unwrap chain; the code, the details step and Postgres
// diagnostics are added only when present.
func LogFields(err error) map[string]any {
	if err == nil {
		return map[string]any{}
	}
	fields := map[string]any{"error": err.Error()}

	var chain []string
	for e := err; e != nil; e = errors.Unwrap(e) {
		chain = append(chain, fmt.Sprintf("%T: %v", e, e))
	}
	fields["error_chain"] = chain

	if typed := As(err); typed != nil {
		fields["error_code"] = typed.Code()
		if details, ok := typed.Details().(map[string]any); ok {
			if step, ok := details["step"]; ok {
				fields["step"] = step
			}
		}
	}

	pg, ok := postgresFields(err)
	if !ok {
		return fields
	}
	put := func(key, value string) {
		if value != "" {
			fields[key] = value
		}
	}
	put("pg_code", pg.code)
	put("pg_violation", sqlStateNames[pg.code])
	put("pg_constraint", pg.constraint)
	put("pg_table", pg.table)
	put("pg_column", pg.column)
	put("pg_detail", pg.detail)
	put("pg_message", pg.message)
	return fields
}

func postgresFields(err error) (pgFields, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgFields{
			code:       pgxErr.Code,
			constraint: pgxErr.ConstraintName,
			table:      pgxErr.TableName,
			column:     pgxErr.ColumnName,
			detail:     pgxErr.Detail,
			message:    pgxErr.Message,
		}, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pgFields{
			code:       string(pqErr.Code),
			constraint: pqErr.Constraint,
			table:      pqErr.Table,
			column:     pqErr.Column,
			detail:     pqErr.Detail,
			message:    pqErr.Message,
		}, true
	}
	return pgFields{}, false
}
