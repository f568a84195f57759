package models

import "fmt"

type Role string

const (
	RoleAdmin     Role = "admin"
	RoleResponder Role = "responder"
	RoleUser      Role = "user"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleResponder, RoleUser:
		return Role(s), nil
	}
	return "", fmt.Errorf("role %q: %w", s, ErrInvalidValue)
}

// Identity - учетная запись пользователя
type Identity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       Role   `json:"role"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
}

// Profile - необязательные данные при регистрации
type Profile struct {
	Name  string
	Phone string
}

const DefaultProfileName = "New User"

// SeedIdentities возвращает встроенные учетные записи, создаваемые при старте процесса
func SeedIdentities() []*Identity {
	return []*Identity{
		{ID: "admin-1", Name: "System Administrator", Email: "admin@ers.com", Role: RoleAdmin},
		{ID: "resp-1", Name: "Fire Chief Smith", Email: "chief@firedept.com", Role: RoleResponder, Department: "Fire Department"},
		{ID: "resp-2", Name: "Officer Johnson", Email: "johnson@police.com", Role: RoleResponder, Department: "Police Department"},
		{ID: "user-1", Name: "John Doe", Email: "john@example.com", Role: RoleUser, Phone: "+1234567890"},
	}
}
