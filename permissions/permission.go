package permissions

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/rs/zerolog/log"

	"resort/shared/constant"
)

//go:embed permissions.json
var permissionsData []byte

var knownRoles = []string{constant.RoleSuperAdmin, constant.RoleAdmin, constant.RoleStaff, constant.RoleUser}

// Permission describes who may call one route. An empty Roles list admits any authenticated caller.
// Routes without an entry are denied.
type Permission struct {
	Roles  []string `json:"permissions"`
	Path   string   `json:"path"`
	Method string   `json:"method"`
	Skip   bool     `json:"skip"`
}

// Allows reports whether role may call the route. An empty role is never allowed.
func (p Permission) Allows(role string) bool {
	if role == "" {
		return false
	}

	return len(p.Roles) == 0 || slices.Contains(p.Roles, role)
}

type PermissionData struct {
	Endpoints []Permission `json:"endpoints"`
	Skip      bool         `json:"skip"`

	index map[string]Permission
}

// normalizePath drops a trailing slash so "/v1/resources" and "/v1/resources/" share an entry.
// chi resolves a subrouter root to either form depending on the request.
func normalizePath(path string) string {
	if path == "/" {
		return path
	}

	return strings.TrimSuffix(path, "/")
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + normalizePath(path)
}

// FindPermissions looks a route up by its chi pattern, with or without a trailing slash.
// The second result is false when the route has no entry.
func (r *PermissionData) FindPermissions(path, method string) (Permission, bool) {
	if r.index == nil {
		r.buildIndex()
	}

	permission, ok := r.index[routeKey(method, path)]

	return permission, ok
}

func (r *PermissionData) buildIndex() {
	r.index = make(map[string]Permission, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		r.index[routeKey(endpoint.Method, endpoint.Path)] = endpoint
	}
}

func (r *PermissionData) validate() error {
	seen := make(map[string]struct{}, len(r.Endpoints))

	for _, endpoint := range r.Endpoints {
		key := routeKey(endpoint.Method, endpoint.Path)
		if _, ok := seen[key]; ok {
			return fmt.Errorf("duplicate endpoint %s", key)
		}

		seen[key] = struct{}{}

		for _, role := range endpoint.Roles {
			if !slices.Contains(knownRoles, role) {
				return fmt.Errorf("endpoint %s names unknown role %q", key, role)
			}
		}
	}

	return nil
}

func Get() *PermissionData {
	var permissions PermissionData

	err := json.Unmarshal(permissionsData, &permissions)
	if err != nil {
		log.Err(err).Msg("Failed to decode embedded permissions")

		return nil
	}

	if err := permissions.validate(); err != nil {
		log.Err(err).Msg("Embedded permissions are inconsistent")

		return nil
	}

	permissions.buildIndex()

	log.Info().Int("endpoints", len(permissions.Endpoints)).Msg("Successfully loaded embedded permissions")

	return &permissions
}
