package domain

import (
	"reflect"
	"testing"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		in      string
		want    Role
		wantErr bool
	}{
		{in: "user", want: RoleUser},
		{in: " Admin ", want: RoleAdmin},
		{in: "SUPER_ADMIN", want: RoleSuperAdmin},
		{in: "owner", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tc := range tests {
		got, err := ParseRole(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("ParseRole(%q): expected an error", tc.in)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("ParseRole(%q) = %q, %v; want %q", tc.in, got, err, tc.want)
		}
	}
}

func TestRoleListHas(t *testing.T) {
	list := RoleList{RoleUser, RoleAdmin}
	if !list.Has(RoleAdmin) || list.Has(RoleSuperAdmin) {
		t.Fatalf("unexpected membership for %v", list)
	}
	if !list.HasAny(RoleSuperAdmin, RoleAdmin) {
		t.Fatal("HasAny must match on any role")
	}
	if list.HasAny(RoleSuperAdmin) {
		t.Fatal("HasAny must not invent matches")
	}
}

func TestRoleListRoundTrip(t *testing.T) {
	list := RoleList{RoleUser, RoleAdmin}
	val, err := list.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if val != "user,admin" {
		t.Fatalf("unexpected column value %q", val)
	}

	var scanned RoleList
	if err := scanned.Scan(val); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !reflect.DeepEqual(scanned, list) {
		t.Fatalf("round trip mismatch: %v", scanned)
	}
}

func TestRoleListScanDefaults(t *testing.T) {
	// Empty and NULL columns fall back to the plain user role.
	for _, src := range []any{nil, "", []byte("")} {
		var scanned RoleList
		if err := scanned.Scan(src); err != nil {
			t.Fatalf("scan %v: %v", src, err)
		}
		if !reflect.DeepEqual(scanned, RoleList{RoleUser}) {
			t.Fatalf("scan %v = %v, want default", src, scanned)
		}
	}

	var scanned RoleList
	if err := scanned.Scan("user,owner"); err == nil {
		t.Fatal("unknown role names must fail the scan")
	}
}
