package domain

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the caller identity resolved by the auth layer.
type Principal struct {
	ID    int64
	Role  Role
	Email string
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanManage reports whether the principal may act on a record owned by ownerID.
func (p Principal) CanManage(ownerID int64) bool {
	return p.IsAdmin() || p.ID == ownerID
}
