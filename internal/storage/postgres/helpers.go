package postgres

import (
	"errors"
	"fmt"
	"strings"

	"shiftdesk/internal/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
)

// mapPgError translates constraint violations into storage sentinel errors.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgCodeUniqueViolation:
			return fmt.Errorf("unique constraint %q violated: %w", pgErr.ConstraintName, storage.ErrDuplicate)
		case pgCodeForeignKeyViolation:
			return fmt.Errorf("foreign key constraint %q violated: %w", pgErr.ConstraintName, storage.ErrConflict)
		}
	}
	return err
}

// buildListQuery appends WHERE conditions, default ordering and pagination
// to a base SELECT.
func buildListQuery(baseQuery string, conditions []string, args *[]interface{}, reqOffset, reqLimit int) string {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(baseQuery)

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE ")
		queryBuilder.WriteString(strings.Join(conditions, " AND "))
	}

	queryBuilder.WriteString(" ORDER BY created_at DESC")

	*args = append(*args, reqLimit)
	queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", len(*args)))
	*args = append(*args, reqOffset)
	queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", len(*args)))

	return queryBuilder.String()
}
