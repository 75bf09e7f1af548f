package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resort/shared/constant"
	"resort/shared/logger"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

// StatementBuilder renders squirrel queries with Postgres placeholders.
var StatementBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Select starts a query over the repository columns.
func (repo *Repository[T]) Select() squirrel.SelectBuilder {
	builder := StatementBuilder.Select(repo.SelectColumns()...).From(repo.table)
	if repo.join != "" {
		builder = builder.JoinClause(repo.join)
	}

	return builder
}

// Queryer picks the transaction when one is open and the read pool otherwise.
func (repo *Repository[T]) Queryer(sqltx *sqlx.Tx) sqlx.QueryerContext {
	if sqltx != nil {
		return sqltx
	}

	return repo.db.Read
}

// GetWith runs a single-row squirrel query. A missing row yields the zero model and no error.
func (repo *Repository[T]) GetWith(ctx context.Context, queryer sqlx.QueryerContext, builder squirrel.Sqlizer) (T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.GetWith", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	var model T

	query, args, err := builder.ToSql()
	if err != nil {
		scope.TraceError(err)

		return model, fmt.Errorf("failed to build query (%s): %w", repo.entitas, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	err = sqlx.GetContext(ctx, queryer, &model, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model, fmt.Errorf("failed to get data (%s): %w", repo.entitas, err)
	}

	return model, nil
}

// SelectWith runs a multi-row squirrel query.
func (repo *Repository[T]) SelectWith(ctx context.Context, queryer sqlx.QueryerContext, builder squirrel.Sqlizer) ([]T, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.SelectWith", constant.OtelRepositoryScopeName, repo.entitas))
	defer scope.End()

	query, args, err := builder.ToSql()
	if err != nil {
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to build query (%s): %w", repo.entitas, err)
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var models []T

	if err = sqlx.SelectContext(ctx, queryer, &models, query, args...); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to select data (%s): %w", repo.entitas, err)
	}

	return models, nil
}
