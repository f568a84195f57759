package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/shenikar/emergency_reporting_system/internal/service"
)

// IdentityRepository хранит учетные записи в памяти; email - уникальный ключ,
// сравнение с учетом регистра.
type IdentityRepository struct {
	mu         sync.RWMutex
	identities []*models.Identity
	byEmail    map[string]*models.Identity
}

// NewIdentityRepository создает хранилище и заполняет его seed-записями.
// Записи с повторяющимся email пропускаются.
func NewIdentityRepository(seed []*models.Identity) service.IdentityRepository {
	r := &IdentityRepository{
		byEmail: make(map[string]*models.Identity, len(seed)),
	}
	for _, identity := range seed {
		if _, exists := r.byEmail[identity.Email]; exists {
			continue
		}
		c := *identity
		r.identities = append(r.identities, &c)
		r.byEmail[c.Email] = &c
	}
	return r
}

func (r *IdentityRepository) FindByEmail(_ context.Context, email string) (*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("identity with email %s: %w", email, service.ErrIdentityNotFound)
	}
	c := *identity
	return &c, nil
}

// Add добавляет учетную запись; проверка уникальности и вставка атомарны
func (r *IdentityRepository) Add(_ context.Context, identity *models.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[identity.Email]; exists {
		return fmt.Errorf("identity with email %s: %w", identity.Email, service.ErrEmailTaken)
	}
	c := *identity
	r.identities = append(r.identities, &c)
	r.byEmail[c.Email] = &c
	return nil
}

// List возвращает копии учетных записей в порядке добавления
func (r *IdentityRepository) List(_ context.Context) ([]*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identities := make([]*models.Identity, len(r.identities))
	for i, identity := range r.identities {
		c := *identity
		identities[i] = &c
	}
	return identities, nil
}
