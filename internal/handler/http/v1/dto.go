package v1

import (
	"time"
)

// SignInRequest DTO для входа
// @Description DTO для входа
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignUpRequest DTO для регистрации
// @Description DTO для регистрации
type SignUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=255"`
	Phone    string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

// SessionResponse DTO с состоянием сессии
// @Description DTO с состоянием сессии
type SessionResponse struct {
	Authenticated bool              `json:"authenticated"`
	Busy          bool              `json:"busy"`
	Identity      *IdentityResponse `json:"identity,omitempty"`
}

// IdentityResponse DTO учетной записи
type IdentityResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	Phone      string `json:"phone,omitempty"`
	Department string `json:"department,omitempty"`
}

// UsersResponse DTO для панели администратора
// @Description DTO для панели администратора
type UsersResponse struct {
	Users  []*IdentityResponse `json:"users"`
	ByRole map[string]int      `json:"by_role"`
}

// CreateIncidentRequest DTO для создания отчета
// @Description DTO для создания отчета
type CreateIncidentRequest struct {
	Type          string `json:"type" validate:"required,oneof=fire medical police accident natural other"`
	Description   string `json:"description" validate:"required,min=2,max=2000"`
	Location      string `json:"location" validate:"required,max=255"`
	ResponderType string `json:"responder_type" validate:"required,oneof=fire-dept police medical emergency"`
	Severity      string `json:"severity" validate:"required,oneof=low medium high critical"`
	IsAnonymous   bool   `json:"is_anonymous"`
}

// UpdateIncidentRequest DTO для частичного обновления отчета
// @Description DTO для частичного обновления отчета; отсутствующие поля не меняются
type UpdateIncidentRequest struct {
	Type          *string `json:"type,omitempty" validate:"omitempty,oneof=fire medical police accident natural other"`
	Description   *string `json:"description,omitempty" validate:"omitempty,min=2,max=2000"`
	Location      *string `json:"location,omitempty" validate:"omitempty,max=255"`
	ResponderType *string `json:"responder_type,omitempty" validate:"omitempty,oneof=fire-dept police medical emergency"`
	Severity      *string `json:"severity,omitempty" validate:"omitempty,oneof=low medium high critical"`
	Status        *string `json:"status,omitempty" validate:"omitempty,oneof=reported in-progress resolved rejected"`
	IsAnonymous   *bool   `json:"is_anonymous,omitempty"`
}

// IncidentResponse DTO для ответа с информацией об отчете
// @Description DTO для ответа с информацией об отчете
type IncidentResponse struct {
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	TypeLabel     string     `json:"type_label"`
	Description   string     `json:"description"`
	Location      string     `json:"location"`
	ResponderType string     `json:"responder_type"`
	Severity      string     `json:"severity"`
	Status        string     `json:"status"`
	UserID        string     `json:"user_id,omitempty"`
	IsAnonymous   bool       `json:"is_anonymous"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
}

// StatsResponse DTO для ответа со статистикой
// @Description DTO для ответа со статистикой
type StatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	BySeverity map[string]int `json:"by_severity"`
}

// CatalogEntry - значение перечисления с подписью для форм клиента
type CatalogEntry struct {
	Value string `json:"value"`
	Label string `json:"label,omitempty"`
}

// CatalogResponse DTO справочника значений
// @Description DTO справочника значений
type CatalogResponse struct {
	Types          []CatalogEntry `json:"types"`
	ResponderTypes []CatalogEntry `json:"responder_types"`
	Severities     []CatalogEntry `json:"severities"`
	Statuses       []CatalogEntry `json:"statuses"`
}
