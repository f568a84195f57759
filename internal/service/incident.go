package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_reporting_system/internal/config"
	"github.com/shenikar/emergency_reporting_system/internal/events"
	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=incident.go -destination=mocks/mock_incident.go -package=mocks

// IncidentRepository определяет контракт хранилища отчетов.
// List возвращает отчеты в порядке хранения: новые первыми.
type IncidentRepository interface {
	Create(ctx context.Context, incident *models.Incident) error
	GetByID(ctx context.Context, id string) (*models.Incident, error)
	// Update атомарно применяет fn к сохраненному отчету и возвращает результат
	Update(ctx context.Context, id string, fn func(*models.Incident) error) (*models.Incident, error)
	List(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Incident, error)
}

// IncidentService определяет контракт реестра отчетов о происшествиях
type IncidentService interface {
	CreateIncident(ctx context.Context, incident *models.Incident) error
	UpdateIncident(ctx context.Context, id string, patch models.IncidentPatch) (*models.Incident, error)
	GetIncident(ctx context.Context, id string) (*models.Incident, error)
	GetIncidentsByUser(ctx context.Context, ownerID string) ([]*models.Incident, error)
	GetAllIncidents(ctx context.Context) ([]*models.Incident, error)
	ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error)
	AcceptIncident(ctx context.Context, id string) (*models.Incident, error)
	ResolveIncident(ctx context.Context, id string) (*models.Incident, error)
	RejectIncident(ctx context.Context, id string) (*models.Incident, error)
	GetStats(ctx context.Context) (*models.IncidentStats, error)
}

type incidentService struct {
	repo      IncidentRepository
	logger    *logrus.Logger
	cfg       *config.Config
	publisher events.Publisher
	now       func() time.Time
	sleep     func(time.Duration)
}

func NewIncidentService(repo IncidentRepository, logger *logrus.Logger, cfg *config.Config, publisher events.Publisher) IncidentService {
	return &incidentService{
		repo:      repo,
		logger:    logger,
		cfg:       cfg,
		publisher: publisher,
		now:       time.Now,
		sleep:     time.Sleep,
	}
}

func (s *incidentService) wait(d time.Duration) {
	if d > 0 {
		s.sleep(d)
	}
}

// CreateIncident регистрирует новый отчет со статусом reported
func (s *incidentService) CreateIncident(ctx context.Context, incident *models.Incident) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "incident",
		"method":   "CreateIncident",
		"category": incident.Category,
	})
	log.Info("Attempting to create a new incident")
	s.wait(s.cfg.CreateIncidentLatency)

	if incident.ID == "" {
		incident.ID = uuid.NewString()
	}
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = s.now()
	}
	incident.Status = models.StatusReported
	incident.UpdatedAt = incident.CreatedAt
	incident.ResolvedAt = nil

	if err := s.repo.Create(ctx, incident); err != nil {
		log.WithError(err).Error("Failed to create incident in repository")
		return wrapRepoErr("could not create incident", err)
	}

	log.WithField("incident_id", incident.ID).Info("Incident created successfully")
	s.publish(ctx, events.IncidentCreated, incident)
	return nil
}

// UpdateIncident применяет частичное обновление и сдвигает UpdatedAt вперед.
// Переходы статуса здесь не проверяются, проверяется только допустимость значений.
func (s *incidentService) UpdateIncident(ctx context.Context, id string, patch models.IncidentPatch) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      "UpdateIncident",
		"incident_id": id,
	})
	log.Info("Attempting to update incident")

	if err := validatePatch(patch); err != nil {
		log.WithError(err).Warn("Rejected incident patch")
		return nil, fmt.Errorf("service: could not update incident: %w", err)
	}
	return s.mutate(ctx, log, id, func(inc *models.Incident) error {
		applyPatch(inc, patch)
		return nil
	})
}

func (s *incidentService) AcceptIncident(ctx context.Context, id string) (*models.Incident, error) {
	return s.transition(ctx, "AcceptIncident", id, models.StatusInProgress)
}

func (s *incidentService) ResolveIncident(ctx context.Context, id string) (*models.Incident, error) {
	return s.transition(ctx, "ResolveIncident", id, models.StatusResolved)
}

func (s *incidentService) RejectIncident(ctx context.Context, id string) (*models.Incident, error) {
	return s.transition(ctx, "RejectIncident", id, models.StatusRejected)
}

func (s *incidentService) transition(ctx context.Context, method, id string, to models.Status) (*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":     "incident",
		"method":      method,
		"incident_id": id,
		"to":          to,
	})
	log.Info("Attempting status transition")

	return s.mutate(ctx, log, id, func(inc *models.Incident) error {
		if !inc.Status.CanTransition(to) {
			return fmt.Errorf("%s -> %s: %w", inc.Status, to, ErrInvalidTransition)
		}
		applyPatch(inc, models.IncidentPatch{Status: &to})
		return nil
	})
}

// mutate выполняет изменение под блокировкой репозитория и обновляет метки времени
func (s *incidentService) mutate(ctx context.Context, log *logrus.Entry, id string, fn func(*models.Incident) error) (*models.Incident, error) {
	s.wait(s.cfg.UpdateIncidentLatency)

	updated, err := s.repo.Update(ctx, id, func(inc *models.Incident) error {
		prevStatus := inc.Status
		if err := fn(inc); err != nil {
			return err
		}
		ts := s.now()
		if !ts.After(inc.UpdatedAt) {
			ts = inc.UpdatedAt.Add(time.Nanosecond)
		}
		inc.UpdatedAt = ts
		if inc.Status == models.StatusResolved && prevStatus != models.StatusResolved {
			resolvedAt := ts
			inc.ResolvedAt = &resolvedAt
		}
		return nil
	})
	if err != nil {
		log.WithError(err).Warn("Failed to update incident in repository")
		return nil, wrapRepoErr("could not update incident", err)
	}

	log.WithField("status", updated.Status).Info("Incident updated successfully")
	s.publish(ctx, events.IncidentUpdated, updated)
	return updated, nil
}

func (s *incidentService) GetIncident(ctx context.Context, id string) (*models.Incident, error) {
	incident, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":     "incident",
			"method":      "GetIncident",
			"incident_id": id,
		}).WithError(err).Warn("Failed to get incident")
		return nil, wrapRepoErr("could not get incident", err)
	}
	return incident, nil
}

// GetIncidentsByUser возвращает отчеты владельца; анонимные исключаются всегда
func (s *incidentService) GetIncidentsByUser(ctx context.Context, ownerID string) ([]*models.Incident, error) {
	incidents, err := s.repo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, wrapRepoErr("could not list incidents by user", err)
	}
	result := make([]*models.Incident, 0, len(incidents))
	for _, inc := range incidents {
		if inc.IsAnonymous || inc.OwnerID != ownerID {
			continue
		}
		result = append(result, inc)
	}
	return result, nil
}

func (s *incidentService) GetAllIncidents(ctx context.Context) ([]*models.Incident, error) {
	return s.ListIncidents(ctx, models.IncidentFilter{})
}

// ListIncidents возвращает отчеты, подходящие под фильтр, новые первыми
func (s *incidentService) ListIncidents(ctx context.Context, filter models.IncidentFilter) ([]*models.Incident, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "incident",
		"method":  "ListIncidents",
	})

	incidents, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list incidents from repository")
		return nil, wrapRepoErr("could not list incidents", err)
	}

	log.WithField("count", len(incidents)).Debug("Incidents listed")
	return incidents, nil
}

// GetStats считает отчеты по статусам и серьезности
func (s *incidentService) GetStats(ctx context.Context) (*models.IncidentStats, error) {
	incidents, err := s.GetAllIncidents(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.IncidentStats{
		Total:      len(incidents),
		ByStatus:   make(map[models.Status]int, len(models.Statuses())),
		BySeverity: make(map[models.Severity]int, len(models.Severities())),
	}
	for _, st := range models.Statuses() {
		stats.ByStatus[st] = 0
	}
	for _, sv := range models.Severities() {
		stats.BySeverity[sv] = 0
	}
	for _, inc := range incidents {
		stats.ByStatus[inc.Status]++
		stats.BySeverity[inc.Severity]++
	}
	return stats, nil
}

func (s *incidentService) publish(ctx context.Context, t events.EventType, incident *models.Incident) {
	if err := s.publisher.Publish(ctx, events.NewIncidentEvent(t, incident, s.now())); err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":     "incident",
			"event":       t,
			"incident_id": incident.ID,
		}).WithError(err).Warn("Failed to publish incident event")
	}
}

func validatePatch(p models.IncidentPatch) error {
	if p.Category != nil {
		if _, err := models.ParseCategory(string(*p.Category)); err != nil {
			return err
		}
	}
	if p.ResponderType != nil {
		if _, err := models.ParseResponderType(string(*p.ResponderType)); err != nil {
			return err
		}
	}
	if p.Severity != nil {
		if _, err := models.ParseSeverity(string(*p.Severity)); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if _, err := models.ParseStatus(string(*p.Status)); err != nil {
			return err
		}
	}
	return nil
}

func applyPatch(inc *models.Incident, p models.IncidentPatch) {
	if p.Category != nil {
		inc.Category = *p.Category
	}
	if p.Description != nil {
		inc.Description = *p.Description
	}
	if p.Location != nil {
		inc.Location = *p.Location
	}
	if p.ResponderType != nil {
		inc.ResponderType = *p.ResponderType
	}
	if p.Severity != nil {
		inc.Severity = *p.Severity
	}
	if p.Status != nil {
		inc.Status = *p.Status
	}
	if p.IsAnonymous != nil {
		inc.IsAnonymous = *p.IsAnonymous
	}
}
