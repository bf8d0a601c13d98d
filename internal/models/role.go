package models

// Role is the access level of an account, derived from factory queries on
// every account change and never persisted.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleOperator      Role = "operator"
	RoleUser          Role = "user"
)

// RoleFrom combines the two factory query results. Administrator wins over
// operator; everything else is a plain user.
func RoleFrom(isAdmin, isOperator bool) Role {
	switch {
	case isAdmin:
		return RoleAdministrator
	case isOperator:
		return RoleOperator
	default:
		return RoleUser
	}
}
