package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/internal/domains/resource/model"
	"resort/shared/constant"
	gDto "resort/shared/dto"
	gRepo "resort/shared/repository"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

type Resource interface {
	Insert(ctx context.Context, model model.Resource) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Resource, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Resource, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	// GetForUpdateTx reads the resource row and locks it until the transaction ends.
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Resource, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Resource]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Resource {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Resource](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, id string) (model.Resource, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".resource.GetForUpdateTx")
	defer scope.End()

	builder := repo.Select().Where(squirrel.Eq{model.TableName + "." + model.FieldID: id})
	if sqltx != nil {
		builder = builder.Suffix("FOR UPDATE")
	}

	return repo.GetWith(ctx, repo.Queryer(sqltx), builder) //nolint:wrapcheck
}
