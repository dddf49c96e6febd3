package user

import "strings"

type RoleCode string

const (
	RoleCodeAdmin    RoleCode = "ADMIN"
	RoleCodeCustomer RoleCode = "CUSTOMER"
)

func (c RoleCode) IsValid() bool {
	switch c {
	case RoleCodeAdmin, RoleCodeCustomer:
		return true
	default:
		return false
	}
}

func (c RoleCode) IsAdmin() bool {
	return c == RoleCodeAdmin
}

// ParseRoleCode converts a string from a token or the DB into a RoleCode.
func ParseRoleCode(s string) (RoleCode, error) {
	c := RoleCode(strings.ToUpper(strings.TrimSpace(s)))
	if !c.IsValid() {
		return "", ErrInvalidRoleCode
	}
	return c, nil
}
