// Package sqlxrepos implements the repositories on Postgres with sqlx; queries are built with squirrel.
package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"

	"github.com/trezcool/tafakari/core"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func get(ctx context.Context, db core.DBExecutor, dest interface{}, query sq.Sqlizer) error {
	stmt, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return db.GetContext(ctx, dest, stmt, args...)
}

func selectAll(ctx context.Context, db core.DBExecutor, dest interface{}, query sq.Sqlizer) error {
	stmt, args, err := query.ToSql()
	if err != nil {
		return errors.Wrap(err, "building query")
	}
	return db.SelectContext(ctx, dest, stmt, args...)
}
