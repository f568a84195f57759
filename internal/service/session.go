package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/emergency_reporting_system/internal/config"
	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/sirupsen/logrus"
)

//go:generate mockgen -source=session.go -destination=mocks/mock_session.go -package=mocks

const minPasswordLength = 6

// IdentityRepository определяет контракт хранилища учетных записей
type IdentityRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Identity, error)
	Add(ctx context.Context, identity *models.Identity) error
	List(ctx context.Context) ([]*models.Identity, error)
}

// SessionService определяет контракт хранилища сессии: не более одной
// аутентифицированной учетной записи на процесс.
type SessionService interface {
	SignIn(ctx context.Context, email, password string) (bool, error)
	SignUp(ctx context.Context, email, password string, profile *models.Profile) (bool, error)
	SignOut(ctx context.Context)
	CurrentIdentity() (*models.Identity, bool)
	Busy() bool
	ListIdentities(ctx context.Context) ([]*models.Identity, error)
	CountByRole(ctx context.Context) (map[models.Role]int, error)
}

type sessionService struct {
	repo   IdentityRepository
	logger *logrus.Logger
	cfg    *config.Config

	mu      sync.RWMutex
	current *models.Identity
	// inflight - число незавершенных операций; флаг busy поднят, пока оно > 0
	inflight atomic.Int32
	sleep    func(time.Duration)
}

func NewSessionService(repo IdentityRepository, logger *logrus.Logger, cfg *config.Config) SessionService {
	return &sessionService{
		repo:   repo,
		logger: logger,
		cfg:    cfg,
		sleep:  time.Sleep,
	}
}

// begin поднимает флаг busy и выдерживает имитацию сетевой задержки.
// Возвращаемая функция снимает флаг и должна вызываться через defer.
func (s *sessionService) begin(latency time.Duration) func() {
	s.inflight.Add(1)
	if latency > 0 {
		s.sleep(latency)
	}
	return func() { s.inflight.Add(-1) }
}

// SignIn аутентифицирует учетную запись по email
func (s *sessionService) SignIn(ctx context.Context, email, password string) (bool, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "session",
		"method":  "SignIn",
		"email":   email,
	})
	done := s.begin(s.cfg.SignInLatency)
	defer done()

	if email == "" || password == "" {
		log.Warn("Sign in rejected: empty credentials")
		return false, nil
	}

	identity, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			log.Info("Sign in failed: unknown email")
			return false, nil
		}
		log.WithError(err).Error("Failed to look up identity")
		return false, wrapRepoErr("could not sign in", err)
	}

	isAdmin := identity.Email == s.cfg.AdminEmail && password == s.cfg.AdminPassword
	if !isAdmin && len(password) < minPasswordLength {
		log.Info("Sign in failed: password policy")
		return false, nil
	}

	s.setCurrent(identity)
	log.WithFields(logrus.Fields{"identity_id": identity.ID, "role": identity.Role}).Info("Signed in successfully")
	return true, nil
}

// SignUp создает учетную запись с ролью user и делает ее текущей
func (s *sessionService) SignUp(ctx context.Context, email, password string, profile *models.Profile) (bool, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "session",
		"method":  "SignUp",
		"email":   email,
	})
	done := s.begin(s.cfg.SignUpLatency)
	defer done()

	if email == "" {
		log.Warn("Sign up rejected: empty email")
		return false, nil
	}

	identity := &models.Identity{
		ID:    "user-" + uuid.NewString(),
		Name:  models.DefaultProfileName,
		Email: email,
		Role:  models.RoleUser,
	}
	if profile != nil {
		if profile.Name != "" {
			identity.Name = profile.Name
		}
		identity.Phone = profile.Phone
	}

	if err := s.repo.Add(ctx, identity); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			log.Info("Sign up failed: email already registered")
			return false, nil
		}
		log.WithError(err).Error("Failed to add identity")
		return false, wrapRepoErr("could not sign up", err)
	}

	s.setCurrent(identity)
	log.WithField("identity_id", identity.ID).Info("Signed up successfully")
	return true, nil
}

// SignOut очищает сессию; повторный вызов ничего не меняет
func (s *sessionService) SignOut(ctx context.Context) {
	done := s.begin(s.cfg.SignOutLatency)
	defer done()

	s.setCurrent(nil)
	s.logger.WithFields(logrus.Fields{
		"service": "session",
		"method":  "SignOut",
	}).Info("Signed out")
}

// CurrentIdentity возвращает копию текущей учетной записи
func (s *sessionService) CurrentIdentity() (*models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	identity := *s.current
	return &identity, true
}

func (s *sessionService) Busy() bool {
	return s.inflight.Load() > 0
}

func (s *sessionService) ListIdentities(ctx context.Context) ([]*models.Identity, error) {
	identities, err := s.repo.List(ctx)
	if err != nil {
		s.logger.WithField("method", "ListIdentities").WithError(err).Error("Failed to list identities")
		return nil, wrapRepoErr("could not list identities", err)
	}
	return identities, nil
}

// CountByRole считает учетные записи по ролям для панели администратора
func (s *sessionService) CountByRole(ctx context.Context) (map[models.Role]int, error) {
	identities, err := s.ListIdentities(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[models.Role]int{
		models.RoleAdmin:     0,
		models.RoleResponder: 0,
		models.RoleUser:      0,
	}
	for _, identity := range identities {
		counts[identity.Role]++
	}
	return counts, nil
}

func (s *sessionService) setCurrent(identity *models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if identity == nil {
		s.current = nil
		return
	}
	c := *identity
	s.current = &c
}
