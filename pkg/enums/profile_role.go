package enums

import "fmt"

// ProfileRole maps to the profile_role enum in Postgres. Administrators are
// not a profile role; they are flagged on users.system_role.
type ProfileRole string

const (
	ProfileRoleMother ProfileRole = "mother"
	ProfileRoleVendor ProfileRole = "vendor"
)

var validProfileRoles = []ProfileRole{
	ProfileRoleMother,
	ProfileRoleVendor,
}

func (r ProfileRole) String() string {
	return string(r)
}

func (r ProfileRole) IsValid() bool {
	for _, candidate := range validProfileRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

func ParseProfileRole(value string) (ProfileRole, error) {
	for _, candidate := range validProfileRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid profile role %q", value)
}

// SystemRoleAdmin is the users.system_role value granting console access.
const SystemRoleAdmin = "admin"
