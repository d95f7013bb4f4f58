// Package mysql implements the persistence ports with hand-written SQL.
// Outcomes are mapped onto the domain error taxonomy: sql.ErrNoRows becomes
// ErrNotFound and MySQL error 1062 (duplicate key) becomes ErrConflict, so
// usecases can distinguish them without driver knowledge.
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"

	"github.com/coursehub/coursehub-api/internal/common/logging"
	"github.com/coursehub/coursehub-api/internal/domain"
)

const mysqlDuplicateEntry = 1062

// wrapWriteError maps a driver error from an INSERT/UPDATE onto the domain
// taxonomy.
func wrapWriteError(op string, err error) error {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlDuplicateEntry {
		return fmt.Errorf("%s: %w", op, domain.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func logQuery(ctx context.Context, logger *logrus.Logger, query string, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["component"] = "mysql"
	fields["query"] = query
	logging.LogWithTrace(ctx, logger, "repository", "Executing SQL query", fields)
}

func logQueryError(ctx context.Context, logger *logrus.Logger, query string, err error) {
	logging.LogErrorWithTrace(ctx, logger, "repository", "Failed to execute SQL query", err, logrus.Fields{
		"component": "mysql",
		"query":     query,
	})
}
