package permissions

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	data := Get()
	require.NotNil(t, data)
	assert.False(t, data.Skip)
	assert.NotEmpty(t, data.Endpoints)
}

func TestFindPermissions(t *testing.T) {
	data := Get()
	require.NotNil(t, data)

	tests := []struct {
		name        string
		path        string
		method      string
		found       bool
		skip        bool
		permissions []string
	}{
		{name: "public catalog", path: "/v1/resources/", method: http.MethodGet, found: true, skip: true},
		{name: "public catalog without slash", path: "/v1/resources", method: http.MethodGet, found: true, skip: true},
		{name: "availability is public", path: "/v1/resources/{id}/availability", method: http.MethodGet, found: true, skip: true},
		{name: "create resource without slash", path: "/v1/resources", method: http.MethodPost, found: true, permissions: []string{"superadmin", "admin"}},
		{name: "list users without slash", path: "/v1/users", method: http.MethodGet, found: true, permissions: []string{"superadmin", "admin"}},
		{name: "list reservations without slash", path: "/v1/reservations", method: http.MethodGet, found: true, permissions: []string{"superadmin", "admin", "staff"}},
		{name: "any member may book", path: "/v1/reservations/", method: http.MethodPost, found: true, permissions: []string{}},
		{name: "purge", path: "/v1/reservations/{id}", method: http.MethodDelete, found: true, permissions: []string{"superadmin"}},
		{name: "purge with trailing slash", path: "/v1/reservations/{id}/", method: http.MethodDelete, found: true, permissions: []string{"superadmin"}},
		{name: "confirm", path: "/v1/reservations/{id}/confirm", method: http.MethodPost, found: true, permissions: []string{"superadmin", "admin", "staff"}},
		{name: "unknown route", path: "/v1/unknown", method: http.MethodGet},
		{name: "unknown method", path: "/v1/resources", method: http.MethodDelete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			permission, found := data.FindPermissions(tt.path, tt.method)

			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.skip, permission.Skip)

			if tt.permissions != nil {
				assert.ElementsMatch(t, tt.permissions, permission.Roles)
			}
		})
	}
}

func TestNormalizePath(t *testing.T) {
	assert.Equal(t, "/", normalizePath("/"))
	assert.Equal(t, "/v1/resources", normalizePath("/v1/resources/"))
	assert.Equal(t, "/v1/resources", normalizePath("/v1/resources"))
	assert.Equal(t, "/v1/resources/{id}", normalizePath("/v1/resources/{id}/"))
}

func TestPermission_Allows(t *testing.T) {
	open := Permission{}
	assert.True(t, open.Allows("user"))
	assert.False(t, open.Allows(""))

	staffOnly := Permission{Roles: []string{"superadmin", "admin", "staff"}}
	assert.True(t, staffOnly.Allows("staff"))
	assert.False(t, staffOnly.Allows("user"))
	assert.False(t, staffOnly.Allows(""))
}

func TestPermissionData_Validate(t *testing.T) {
	t.Run("unknown role", func(t *testing.T) {
		data := PermissionData{Endpoints: []Permission{{Path: "/v1/x", Method: http.MethodGet, Roles: []string{"owner"}}}}
		assert.ErrorContains(t, data.validate(), "unknown role")
	})

	t.Run("duplicate route", func(t *testing.T) {
		data := PermissionData{Endpoints: []Permission{
			{Path: "/v1/x", Method: http.MethodGet},
			{Path: "/v1/x", Method: "get"},
		}}
		assert.ErrorContains(t, data.validate(), "duplicate endpoint")
	})

	t.Run("slash forms collide", func(t *testing.T) {
		data := PermissionData{Endpoints: []Permission{
			{Path: "/v1/x/", Method: http.MethodGet},
			{Path: "/v1/x", Method: http.MethodGet},
		}}
		assert.ErrorContains(t, data.validate(), "duplicate endpoint")
	})

	t.Run("embedded file is consistent", func(t *testing.T) {
		data := Get()
		require.NotNil(t, data)
		assert.NoError(t, data.validate())
	})
}
