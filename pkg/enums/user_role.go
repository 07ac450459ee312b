package enums

import "fmt"

// UserRole represents an account's authorization level.
type UserRole string

const (
	UserRoleCustomer UserRole = "customer"
	UserRoleStaff    UserRole = "staff"
	UserRoleAdmin    UserRole = "admin"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleStaff,
	UserRoleAdmin,
}

// Higher rank implies every lower-ranked permission.
var userRoleRank = map[UserRole]int{
	UserRoleCustomer: 0,
	UserRoleStaff:    1,
	UserRoleAdmin:    2,
}

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// AtLeast reports whether the role satisfies a check for required.
// admin passes staff checks, staff passes customer checks.
func (r UserRole) AtLeast(required UserRole) bool {
	rank, ok := userRoleRank[r]
	if !ok {
		return false
	}
	requiredRank, ok := userRoleRank[required]
	if !ok {
		return false
	}
	return rank >= requiredRank
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
