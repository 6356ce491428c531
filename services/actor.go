package services

type Role string

const (
	RoleAdmin Role = "admin"
	RoleJudge Role = "judge"
	RoleTeam  Role = "team"
)

// Actor is the authenticated caller of an operation. For teams and judges ID is the team or judge id.
type Actor struct {
	ID   string
	Role Role
}

// require fails with Forbidden unless the actor holds one of roles
func (a Actor) require(roles ...Role) error {
	if a.ID == "" {
		return forbidden("missing caller identity")
	}
	for _, r := range roles {
		if a.Role == r {
			return nil
		}
	}
	return forbidden("role %q may not perform this action", a.Role)
}

// ParseRole accepts the role names carried in tokens
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleJudge, RoleTeam:
		return r, nil
	}
	return "", validationError("unknown role %q", s)
}
