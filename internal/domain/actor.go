package domain

// Role is a user's role within the hotel maintenance team.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleOperater     Role = "operater"     // Operator: reports and verifies tasks
	RoleSef          Role = "sef"          // Supervisor: routes tasks to workers
	RoleRadnik       Role = "radnik"       // Technician
	RoleServiser     Role = "serviser"     // Service technician
	RoleRecepcioner  Role = "recepcioner"  // Reception
	RoleMenadzer     Role = "menadzer"     // Manager
	roleSystemLegacy Role = "system"       // Accepted on old history rows
)

// AllRoles returns all valid roles.
func AllRoles() []Role {
	return []Role{RoleAdmin, RoleOperater, RoleSef, RoleRadnik, RoleServiser, RoleRecepcioner, RoleMenadzer}
}

// IsValid returns true if the role is known.
func (r Role) IsValid() bool {
	for _, v := range AllRoles() {
		if v == r {
			return true
		}
	}
	return r == roleSystemLegacy
}

// IsSupervisor returns true for roles allowed to edit task details,
// correct statuses and delete tasks.
func (r Role) IsSupervisor() bool {
	return r == RoleSef || r == RoleAdmin
}

// Actor identifies the user performing an operation.
type Actor struct {
	ID   string
	Name string
	Role Role
}

// SystemActor is the identity used for rows written by the recurring processor.
var SystemActor = Actor{ID: "system", Name: "System", Role: RoleAdmin}

// IsZero returns true if no actor was provided.
func (a Actor) IsZero() bool {
	return a.ID == ""
}
