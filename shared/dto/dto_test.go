package dto_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"resort/shared/constant"
	"resort/shared/dto"
	"resort/shared/model"

	"github.com/stretchr/testify/assert"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	modifiedAt := time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt:  createdAt,
		ModifiedAt: modifiedAt,
		CreatedBy:  "creator",
		ModifiedBy: "modifier",
	})

	assert.Equal(t, createdAt.Format(constant.DateFormat), metadata.CreatedAt)
	assert.Equal(t, modifiedAt.Format(constant.DateFormat), metadata.ModifiedAt)
	assert.Equal(t, "creator", metadata.CreatedBy)
	assert.Equal(t, "modifier", metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		defaultRequest bool
		expected       dto.QueryParams
	}{
		{
			name:           "all parameters",
			query:          "page=2&limit=20&sort_by=start_at&sort_dir=asc",
			defaultRequest: false,
			expected:       dto.QueryParams{Page: 2, Limit: 20, SortBy: "start_at", SortDir: dto.SortDirAsc},
		},
		{
			name:           "defaults applied",
			query:          "",
			defaultRequest: true,
			expected: dto.QueryParams{
				Page:    constant.DefaultValuePage,
				Limit:   constant.DefaultValueLimit,
				SortBy:  constant.DefaultValueSortBy,
				SortDir: constant.DefaultValueSortDir,
			},
		},
		{
			name:           "invalid numbers ignored",
			query:          "page=-1&limit=abc",
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
		{
			name:           "sort column outside the allowed pattern is dropped",
			query:          "sort_by=name%3BDROP%20TABLE%20reservations&sort_dir=sideways",
			defaultRequest: false,
			expected:       dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/v1/reservations?"+tt.query, nil)

			params := dto.QueryParams{}
			params.FromRequest(request, tt.defaultRequest)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name      string
		filter    dto.Filter
		wantWhere string
		wantArgs  map[string]any
	}{
		{
			name:      "eq with table",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorEq, Value: "pending", Table: "reservations"},
			wantWhere: "reservations.status = :status",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "less with arg name",
			filter:    dto.Filter{Field: "start_at", ArgName: "window_end", Operator: dto.FilterOperatorLess, Value: "2025-06-05"},
			wantWhere: "start_at < :window_end",
			wantArgs:  map[string]any{"window_end": "2025-06-05"},
		},
		{
			name:      "greater with arg name",
			filter:    dto.Filter{Field: "end_at", ArgName: "window_start", Operator: dto.FilterOperatorGreater, Value: "2025-06-01"},
			wantWhere: "end_at > :window_start",
			wantArgs:  map[string]any{"window_start": "2025-06-01"},
		},
		{
			name:      "in with slice",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{"pending", "confirmed"}},
			wantWhere: "status IN (:status_0, :status_1)",
			wantArgs:  map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:      "like lowers both sides",
			filter:    dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "suite"},
			wantWhere: "LOWER(name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": "%suite%"},
		},
		{
			name:      "like escapes wildcards",
			filter:    dto.Filter{Field: "name", Operator: dto.FilterOperatorLike, Value: "50%_off"},
			wantWhere: "LOWER(name) LIKE LOWER(:name)",
			wantArgs:  map[string]any{"name": `%50\%\_off%`},
		},
		{
			name:      "in with a scalar binds a single value",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: "pending"},
			wantWhere: "status = :status",
			wantArgs:  map[string]any{"status": "pending"},
		},
		{
			name:      "in with an empty slice matches nothing",
			filter:    dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{}},
			wantWhere: "FALSE",
			wantArgs:  map[string]any{},
		},
		{
			name:      "is null",
			filter:    dto.Filter{Field: "read_at", Operator: dto.FilterIsNull},
			wantWhere: "read_at IS NULL",
			wantArgs:  map[string]any{},
		},
		{
			name:      "unknown operator",
			filter:    dto.Filter{Field: "x", Operator: "between"},
			wantWhere: "",
			wantArgs:  map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.wantWhere, where)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "resource_id", Operator: dto.FilterOperatorEq, Value: "r-101"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{Field: "status", ArgName: "s1", Operator: dto.FilterOperatorEq, Value: "pending"},
					dto.Filter{Field: "status", ArgName: "s2", Operator: dto.FilterOperatorEq, Value: "confirmed"},
				},
			},
			"ignored",
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(resource_id = :resource_id AND (status = :s1 OR status = :s2))", where)
	assert.Equal(t, map[string]any{"resource_id": "r-101", "s1": "pending", "s2": "confirmed"}, args)

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
