package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"resort/config"
	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/internal/domains/reservation/model"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	gRepo "resort/shared/repository"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const defaultMaxAttempts = 3

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	// GetTx reads one reservation inside sqltx, locking its row when forUpdate is set.
	GetTx(ctx context.Context, sqltx *sqlx.Tx, id string, forUpdate bool) (model.Reservation, error)
	// FindOverlapping returns reservations matching query. A nil sqltx reads from the read pool.
	FindOverlapping(ctx context.Context, sqltx *sqlx.Tx, query model.OverlapQuery) ([]model.Reservation, error)
	// Transact runs fn in a serializable transaction and retries it when Postgres reports a
	// serialization failure or deadlock.
	Transact(ctx context.Context, fn func(sqltx *sqlx.Tx) error) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	cfg  *config.Config
	otel otel.Otel
}

func New(db *postgres.Connection, cfg *config.Config, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		cfg:        cfg,
		otel:       otel,
	}
}

func column(field string) string {
	return model.TableName + "." + field
}

func (repo *repositoryImpl) GetTx(ctx context.Context, sqltx *sqlx.Tx, id string, forUpdate bool) (model.Reservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetTx")
	defer scope.End()

	builder := repo.Select().Where(squirrel.Eq{column(model.FieldID): id})
	if forUpdate && sqltx != nil {
		builder = builder.Suffix("FOR UPDATE OF " + model.TableName)
	}

	return repo.GetWith(ctx, repo.Queryer(sqltx), builder) //nolint:wrapcheck
}

func (repo *repositoryImpl) FindOverlapping(ctx context.Context, sqltx *sqlx.Tx, query model.OverlapQuery) ([]model.Reservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.FindOverlapping")
	defer scope.End()

	scope.SetAttributes(map[string]any{
		"resource_id": query.ResourceID,
		"start_at":    query.Range.Start,
		"end_at":      query.Range.End,
	})

	return repo.SelectWith(ctx, repo.Queryer(sqltx), overlapQuery(repo.Select(), query, sqltx != nil)) //nolint:wrapcheck
}

// overlapQuery expresses the half-open rule start_at < end AND end_at > start.
func overlapQuery(builder squirrel.SelectBuilder, query model.OverlapQuery, inTx bool) squirrel.SelectBuilder {
	builder = builder.
		Where(squirrel.Eq{column(model.FieldResourceID): query.ResourceID}).
		Where(squirrel.Lt{column(model.FieldStartAt): query.Range.End}).
		Where(squirrel.Gt{column(model.FieldEndAt): query.Range.Start}).
		Where(squirrel.Eq{column(model.FieldStatus): query.Blocking.Strings()}).
		OrderBy(column(model.FieldStartAt))

	if query.ExcludeID != constant.Empty {
		builder = builder.Where(squirrel.NotEq{column(model.FieldID): query.ExcludeID})
	}

	if query.ForUpdate && inTx {
		builder = builder.Suffix("FOR UPDATE OF " + model.TableName)
	}

	return builder
}

func (repo *repositoryImpl) Transact(ctx context.Context, fn func(sqltx *sqlx.Tx) error) (err error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Transact")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	attempts := repo.cfg.Reservation.TxMaxAttempts
	if attempts <= 0 {
		attempts = defaultMaxAttempts
	}

	for attempt := 1; ; attempt++ {
		err = repo.db.WithTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable}, func(sqltx *sqlx.Tx) error {
			if repo.cfg.Reservation.LockTimeoutMs > 0 {
				stmt := fmt.Sprintf("SET LOCAL lock_timeout = %d", repo.cfg.Reservation.LockTimeoutMs)
				if _, err := sqltx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("failed to set lock timeout: %w", err)
				}
			}

			return fn(sqltx)
		})

		if err == nil || !Retryable(err) || attempt >= attempts || ctx.Err() != nil {
			return err
		}

		log.Warn().Err(err).Int("attempt", attempt).Msg("reservation transaction aborted by a concurrent writer, retrying")
	}
}

// Retryable reports whether err is a serialization failure or deadlock.
func Retryable(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == constant.PqErrorCodeSerializationFailure || pqErr.Code == constant.PqErrorCodeDeadlockDetected
}
