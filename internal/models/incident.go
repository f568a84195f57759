package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidValue возвращается при разборе неизвестного значения перечисления
var ErrInvalidValue = errors.New("invalid value")

type Category string

const (
	CategoryFire     Category = "fire"
	CategoryMedical  Category = "medical"
	CategoryPolice   Category = "police"
	CategoryAccident Category = "accident"
	CategoryNatural  Category = "natural"
	CategoryOther    Category = "other"
)

var categoryLabels = map[Category]string{
	CategoryFire:     "Fire Emergency",
	CategoryMedical:  "Medical Emergency",
	CategoryPolice:   "Police Emergency",
	CategoryAccident: "Traffic Accident",
	CategoryNatural:  "Natural Disaster",
	CategoryOther:    "Other Emergency",
}

// Categories возвращает категории в порядке отображения на форме отчета
func Categories() []Category {
	return []Category{CategoryFire, CategoryMedical, CategoryPolice, CategoryAccident, CategoryNatural, CategoryOther}
}

func (c Category) Label() string {
	return categoryLabels[c]
}

func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if _, ok := categoryLabels[c]; !ok {
		return "", fmt.Errorf("category %q: %w", s, ErrInvalidValue)
	}
	return c, nil
}

type ResponderType string

const (
	ResponderFireDept  ResponderType = "fire-dept"
	ResponderPolice    ResponderType = "police"
	ResponderMedical   ResponderType = "medical"
	ResponderEmergency ResponderType = "emergency"
)

var responderLabels = map[ResponderType]string{
	ResponderFireDept:  "Fire Department",
	ResponderPolice:    "Police Department",
	ResponderMedical:   "Medical Services",
	ResponderEmergency: "Emergency Services",
}

func ResponderTypes() []ResponderType {
	return []ResponderType{ResponderFireDept, ResponderPolice, ResponderMedical, ResponderEmergency}
}

func (r ResponderType) Label() string {
	return responderLabels[r]
}

func ParseResponderType(s string) (ResponderType, error) {
	r := ResponderType(s)
	if _, ok := responderLabels[r]; !ok {
		return "", fmt.Errorf("responder type %q: %w", s, ErrInvalidValue)
	}
	return r, nil
}

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

func Severities() []Severity {
	return []Severity{SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical}
}

func ParseSeverity(s string) (Severity, error) {
	for _, v := range Severities() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("severity %q: %w", s, ErrInvalidValue)
}

type Status string

const (
	StatusReported   Status = "reported"
	StatusInProgress Status = "in-progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

func Statuses() []Status {
	return []Status{StatusReported, StatusInProgress, StatusResolved, StatusRejected}
}

func ParseStatus(s string) (Status, error) {
	for _, v := range Statuses() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("status %q: %w", s, ErrInvalidValue)
}

// CanTransition сообщает, допустим ли переход статуса в потоке работы ответчика:
// reported -> in-progress -> resolved, reported -> rejected.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusReported:
		return to == StatusInProgress || to == StatusRejected
	case StatusInProgress:
		return to == StatusResolved
	}
	return false
}

// Incident - отчет о происшествии
type Incident struct {
	ID            string        `json:"id"`
	Category      Category      `json:"type"`
	Description   string        `json:"description"`
	Location      string        `json:"location"`
	ResponderType ResponderType `json:"responder_type"`
	Severity      Severity      `json:"severity"`
	Status        Status        `json:"status"`
	OwnerID       string        `json:"user_id,omitempty"`
	IsAnonymous   bool          `json:"is_anonymous"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	ResolvedAt    *time.Time    `json:"resolved_at,omitempty"`
}

// VisibleOwnerID возвращает владельца для отображения; у анонимных отчетов владельца нет
func (i *Incident) VisibleOwnerID() string {
	if i.IsAnonymous {
		return ""
	}
	return i.OwnerID
}

// Clone возвращает независимую копию отчета
func (i *Incident) Clone() *Incident {
	c := *i
	if i.ResolvedAt != nil {
		t := *i.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

// IncidentPatch - частичное обновление отчета; nil означает "не менять"
type IncidentPatch struct {
	Category      *Category
	Description   *string
	Location      *string
	ResponderType *ResponderType
	Severity      *Severity
	Status        *Status
	IsAnonymous   *bool
}

// IncidentFilter - фильтр выборки; пустые поля не ограничивают выборку
type IncidentFilter struct {
	Status        Status
	Severity      Severity
	ResponderType ResponderType
}

func (f IncidentFilter) Match(i *Incident) bool {
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.Severity != "" && i.Severity != f.Severity {
		return false
	}
	if f.ResponderType != "" && i.ResponderType != f.ResponderType {
		return false
	}
	return true
}

// IncidentStats - производная статистика, не сохраняется
type IncidentStats struct {
	Total      int              `json:"total"`
	ByStatus   map[Status]int   `json:"by_status"`
	BySeverity map[Severity]int `json:"by_severity"`
}
