package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/shenikar/emergency_reporting_system/internal/service"
)

// IncidentRepository хранит отчеты в памяти процесса.
// Индекс 0 среза - самый новый отчет.
type IncidentRepository struct {
	mu        sync.RWMutex
	incidents []*models.Incident
	byID      map[string]*models.Incident
}

func NewIncidentRepository() service.IncidentRepository {
	return &IncidentRepository{
		byID: make(map[string]*models.Incident),
	}
}

// Create добавляет отчет в начало коллекции
func (r *IncidentRepository) Create(_ context.Context, incident *models.Incident) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[incident.ID]; exists {
		return fmt.Errorf("incident with id %s: %w", incident.ID, service.ErrDuplicateIncident)
	}

	stored := incident.Clone()
	r.incidents = append([]*models.Incident{stored}, r.incidents...)
	r.byID[stored.ID] = stored
	return nil
}

// GetByID возвращает копию отчета по идентификатору
func (r *IncidentRepository) GetByID(_ context.Context, id string) (*models.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incident, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("incident with id %s: %w", id, service.ErrIncidentNotFound)
	}
	return incident.Clone(), nil
}

// Update применяет fn к копии отчета и сохраняет ее только при успехе fn
func (r *IncidentRepository) Update(_ context.Context, id string, fn func(*models.Incident) error) (*models.Incident, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("incident with id %s not found for update: %w", id, service.ErrIncidentNotFound)
	}

	draft := stored.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	draft.ID = stored.ID
	draft.CreatedAt = stored.CreatedAt
	*stored = *draft

	return stored.Clone(), nil
}

// List возвращает копии отчетов, подходящих под фильтр, в порядке хранения
func (r *IncidentRepository) List(_ context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incidents := make([]*models.Incident, 0, len(r.incidents))
	for _, incident := range r.incidents {
		if filter.Match(incident) {
			incidents = append(incidents, incident.Clone())
		}
	}
	return incidents, nil
}

// ListByOwner возвращает копии отчетов с указанным владельцем
func (r *IncidentRepository) ListByOwner(_ context.Context, ownerID string) ([]*models.Incident, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	incidents := make([]*models.Incident, 0)
	for _, incident := range r.incidents {
		if incident.OwnerID == ownerID {
			incidents = append(incidents, incident.Clone())
		}
	}
	return incidents, nil
}
