package enums

import (
	"fmt"
	"strings"
)

// UserRole is the platform-level role carried in access tokens.
type UserRole string

const (
	UserRoleCustomer UserRole = "CUSTOMER"
	UserRoleSeller   UserRole = "SELLER"
	UserRoleAdmin    UserRole = "ADMIN"
)

var validUserRoles = []UserRole{
	UserRoleCustomer,
	UserRoleSeller,
	UserRoleAdmin,
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

// SelfAssignable reports whether the role may be chosen at registration.
func (r UserRole) SelfAssignable() bool {
	return r == UserRoleCustomer || r == UserRoleSeller
}

// ParseUserRole converts raw input into a UserRole. Matching is case-insensitive.
func ParseUserRole(value string) (UserRole, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	for _, candidate := range validUserRoles {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
