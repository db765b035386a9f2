package entity

// Roles reconocidos en el token.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// Actor identidad del llamador; se pasa explícita a cada operación que muta el ledger.
type Actor struct {
	UserID string
	Name   string
	Role   string
}

// Label nombre que se guarda en la columna user del movimiento.
func (a Actor) Label() string {
	if a.Name != "" {
		return a.Name
	}
	return a.UserID
}
