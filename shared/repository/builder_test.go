package repository_test

import (
	"testing"

	"resort/infras/otel/mocks"
	"resort/shared/model"
	"resort/shared/repository"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	ID     string `db:"id"`
	Name   string `db:"name"`
	Parent string `column:"name" db:"parent_name" table:"parents"`
	model.Metadata
}

func TestRepository_Select(t *testing.T) {
	repo := repository.NewRepository[sample]("sample", "samples", "id", nil, mocks.NewOtel())

	query, args, err := repo.Select().Where(squirrel.Eq{"samples.id": "s-1"}).Suffix("FOR UPDATE").ToSql()
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT samples.id, samples.name, parents.name AS parent_name, samples.created_at, samples.modified_at, "+
			"samples.created_by, samples.modified_by FROM samples WHERE samples.id = $1 FOR UPDATE",
		query,
	)
	assert.Equal(t, []any{"s-1"}, args)
	assert.Equal(t, "samples", repo.Table())
}

func TestRepository_InsertColumns(t *testing.T) {
	repo := repository.NewRepository[sample]("sample", "samples", "id", nil, mocks.NewOtel())

	assert.Equal(t, []string{"id", "name", "created_at", "modified_at", "created_by", "modified_by"}, repo.InsertColumns)
}
