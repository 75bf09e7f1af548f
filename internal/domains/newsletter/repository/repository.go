package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"resort/infras/otel"
	"resort/infras/postgres"
	"resort/internal/domains/newsletter/model"
	gDto "resort/shared/dto"
	gRepo "resort/shared/repository"
)

type Subscriber interface {
	Insert(ctx context.Context, model model.Subscriber) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Subscriber, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Subscriber, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Subscriber]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Subscriber {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Subscriber](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
