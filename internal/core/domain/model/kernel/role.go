package kernel

import (
	"fmt"
	"strings"

	"shopping/internal/pkg/errs"
)

// Role is the authorization level of a caller.
//
// Ordinary users may act only on their own orders; administrators may act on any order
// and manage inventory.
type Role int

const (
	// RoleUnknown is the zero value and is never a valid role.
	RoleUnknown Role = iota

	// RoleUser is a regular customer.
	RoleUser

	// RoleAdmin has override access to every order.
	RoleAdmin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown: "UNKNOWN",
		RoleUser:    "USER",
		RoleAdmin:   "ADMIN",
	}
}

// ParseRole converts a case-insensitive role name ("user", "ADMIN") into a Role.
func ParseRole(s string) (Role, error) {
	needle := strings.ToUpper(strings.TrimSpace(s))
	for role, name := range getRoleStrings() {
		if role != RoleUnknown && name == needle {
			return role, nil
		}
	}
	return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
}

// Validate returns an error for RoleUnknown and out-of-range values.
func (r Role) Validate() error {
	if r != RoleUser && r != RoleAdmin {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}
