package domain

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

func ParseRole(s string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleUser:
		return RoleUser, nil
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleSuperAdmin:
		return RoleSuperAdmin, nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// RoleList is stored as a comma-joined text column.
type RoleList []Role

func (r RoleList) Has(role Role) bool {
	for _, have := range r {
		if have == role {
			return true
		}
	}
	return false
}

func (r RoleList) HasAny(roles ...Role) bool {
	for _, want := range roles {
		if r.Has(want) {
			return true
		}
	}
	return false
}

func (r RoleList) Strings() []string {
	out := make([]string, len(r))
	for i, role := range r {
		out[i] = string(role)
	}
	return out
}

func (r RoleList) Value() (driver.Value, error) {
	if len(r) == 0 {
		return string(RoleUser), nil
	}
	return strings.Join(r.Strings(), ","), nil
}

func (r *RoleList) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*r = RoleList{RoleUser}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("cannot scan %T into RoleList", src)
	}

	var out RoleList
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		role, err := ParseRole(part)
		if err != nil {
			return err
		}
		out = append(out, role)
	}
	if len(out) == 0 {
		out = RoleList{RoleUser}
	}
	*r = out
	return nil
}
