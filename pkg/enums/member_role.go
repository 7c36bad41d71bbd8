package enums

import "fmt"

// MemberRole scopes what a back-office user may do. Admins hold every
// permission including refunds, managers may edit data, viewers are
// read-only.
type MemberRole string

const (
	MemberRoleAdmin   MemberRole = "admin"
	MemberRoleManager MemberRole = "manager"
	MemberRoleViewer  MemberRole = "viewer"
)

// String implements fmt.Stringer.
func (m MemberRole) String() string {
	return string(m)
}

// IsValid reports whether the value is a known MemberRole.
func (m MemberRole) IsValid() bool {
	switch m {
	case MemberRoleAdmin, MemberRoleManager, MemberRoleViewer:
		return true
	}
	return false
}

// CanWrite reports whether the role may mutate catalog and order data.
func (m MemberRole) CanWrite() bool {
	return m == MemberRoleAdmin || m == MemberRoleManager
}

// ParseMemberRole converts raw input into a MemberRole.
func ParseMemberRole(value string) (MemberRole, error) {
	role := MemberRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid member role %q", value)
	}
	return role, nil
}
