package service

import (
	"errors"
	"fmt"

	"github.com/shenikar/emergency_reporting_system/internal/models"
)

var (
	ErrIncidentNotFound  = errors.New("incident not found")
	ErrDuplicateIncident = errors.New("incident with this id already exists")
	ErrIdentityNotFound  = errors.New("identity not found")
	ErrEmailTaken        = errors.New("identity with this email already exists")
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInfrastructure помечает сбои хранилища, не связанные с бизнес-правилами
	ErrInfrastructure = errors.New("infrastructure failure")
)

// wrapRepoErr оборачивает ошибку репозитория; доменные ошибки сохраняются,
// остальные помечаются как ErrInfrastructure.
func wrapRepoErr(op string, err error) error {
	if isDomainErr(err) {
		return fmt.Errorf("service: %s: %w", op, err)
	}
	return fmt.Errorf("service: %s: %w: %w", op, ErrInfrastructure, err)
}

func isDomainErr(err error) bool {
	return errors.Is(err, ErrIncidentNotFound) ||
		errors.Is(err, ErrDuplicateIncident) ||
		errors.Is(err, ErrIdentityNotFound) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, models.ErrInvalidValue)
}
