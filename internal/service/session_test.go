package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shenikar/emergency_reporting_system/internal/config"
	"github.com/shenikar/emergency_reporting_system/internal/models"
	"github.com/shenikar/emergency_reporting_system/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestSessionService(t *testing.T) (*sessionService, *mocks.MockIdentityRepository) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockIdentityRepository(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		AdminEmail:    "admin@ers.com",
		AdminPassword: "admin123",
	}

	service := NewSessionService(repoMock, logger, cfg)
	return service.(*sessionService), repoMock
}

var (
	adminIdentity = &models.Identity{ID: "admin-1", Email: "admin@ers.com", Role: models.RoleAdmin}
	userIdentity  = &models.Identity{ID: "user-1", Email: "john@example.com", Role: models.RoleUser}
)

func TestSignIn_Admin(t *testing.T) {
	// Подготовка
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().FindByEmail(ctx, "admin@ers.com").Return(adminIdentity, nil).Times(1)

	// Действие
	ok, err := service.SignIn(ctx, "admin@ers.com", "admin123")

	// Проверки
	require.NoError(t, err)
	assert.True(t, ok)
	current, signedIn := service.CurrentIdentity()
	require.True(t, signedIn)
	assert.Equal(t, models.RoleAdmin, current.Role)
}

func TestSignIn_PasswordPolicy(t *testing.T) {
	tests := []struct {
		name     string
		identity *models.Identity
		password string
		want     bool
	}{
		{"user long password", userIdentity, "secret1", true},
		{"user exactly six", userIdentity, "123456", true},
		{"user short password", userIdentity, "12345", false},
		{"admin wrong long password", adminIdentity, "whatever", true},
		{"admin short wrong password", adminIdentity, "adm", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, repoMock := newTestSessionService(t)
			ctx := context.Background()

			repoMock.EXPECT().FindByEmail(ctx, tt.identity.Email).Return(tt.identity, nil).Times(1)

			ok, err := service.SignIn(ctx, tt.identity.Email, tt.password)

			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			_, signedIn := service.CurrentIdentity()
			assert.Equal(t, tt.want, signedIn)
		})
	}
}

func TestSignIn_ShortAdminPasswordFromConfig(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()
	service.cfg.AdminPassword = "root"

	repoMock.EXPECT().FindByEmail(ctx, "admin@ers.com").Return(adminIdentity, nil).Times(1)

	// Точный пароль администратора проходит даже короче шести символов
	ok, err := service.SignIn(ctx, "admin@ers.com", "root")

	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSignIn_UnknownEmail(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	repoMock.EXPECT().FindByEmail(ctx, "nobody@x.com").Return(nil, ErrIdentityNotFound).Times(1)

	ok, err := service.SignIn(ctx, "nobody@x.com", "whatever")

	require.NoError(t, err)
	assert.False(t, ok)
	_, signedIn := service.CurrentIdentity()
	assert.False(t, signedIn)
}

func TestSignIn_EmptyCredentials(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	repoMock.EXPECT().FindByEmail(gomock.Any(), gomock.Any()).Times(0)

	ok, err := service.SignIn(ctx, "", "password")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = service.SignIn(ctx, "john@example.com", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSignIn_RepositoryFailure(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	repoMock.EXPECT().FindByEmail(ctx, "john@example.com").Return(nil, errors.New("timeout")).Times(1)

	ok, err := service.SignIn(ctx, "john@example.com", "secret1")

	require.Error(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrInfrastructure)
	assert.False(t, service.Busy())
}

func TestSignUp_Success(t *testing.T) {
	// Подготовка
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	// Ожидания
	repoMock.EXPECT().
		Add(ctx, gomock.Any()).
		Do(func(_ context.Context, identity *models.Identity) {
			assert.Equal(t, models.RoleUser, identity.Role)
			assert.Equal(t, "Jane Roe", identity.Name)
			assert.Equal(t, "+100", identity.Phone)
			assert.Contains(t, identity.ID, "user-")
		}).Return(nil).Times(1)

	// Действие
	ok, err := service.SignUp(ctx, "jane@example.com", "secret1", &models.Profile{Name: "Jane Roe", Phone: "+100"})

	// Проверки
	require.NoError(t, err)
	assert.True(t, ok)
	current, signedIn := service.CurrentIdentity()
	require.True(t, signedIn)
	assert.Equal(t, "jane@example.com", current.Email)
	assert.Equal(t, models.RoleUser, current.Role)
}

func TestSignUp_DefaultProfile(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	repoMock.EXPECT().Add(ctx, gomock.Any()).Return(nil).Times(1)

	ok, err := service.SignUp(ctx, "anon@example.com", "secret1", nil)

	require.NoError(t, err)
	assert.True(t, ok)
	current, _ := service.CurrentIdentity()
	assert.Equal(t, models.DefaultProfileName, current.Name)
	assert.Empty(t, current.Phone)
}

func TestSignUp_EmailTaken(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	repoMock.EXPECT().FindByEmail(ctx, "john@example.com").Return(userIdentity, nil).Times(1)
	repoMock.EXPECT().Add(ctx, gomock.Any()).Return(ErrEmailTaken).Times(1)

	ok, err := service.SignIn(ctx, "john@example.com", "secret1")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = service.SignUp(ctx, "john@example.com", "secret1", nil)

	require.NoError(t, err)
	assert.False(t, ok)
	// Сессия не изменилась
	current, _ := service.CurrentIdentity()
	assert.Equal(t, "user-1", current.ID)
}

func TestSignOut_Idempotent(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	repoMock.EXPECT().FindByEmail(ctx, "john@example.com").Return(userIdentity, nil).Times(1)
	_, err := service.SignIn(ctx, "john@example.com", "secret1")
	require.NoError(t, err)

	service.SignOut(ctx)
	_, signedIn := service.CurrentIdentity()
	assert.False(t, signedIn)

	service.SignOut(ctx)
	_, signedIn = service.CurrentIdentity()
	assert.False(t, signedIn)
}

func TestSession_BusyDuringLatency(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()
	service.cfg.SignInLatency = time.Second

	var busyWhileWaiting bool
	service.sleep = func(time.Duration) { busyWhileWaiting = service.Busy() }

	repoMock.EXPECT().FindByEmail(ctx, "nobody@x.com").Return(nil, ErrIdentityNotFound).Times(1)

	ok, err := service.SignIn(ctx, "nobody@x.com", "whatever")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.True(t, busyWhileWaiting)
	assert.False(t, service.Busy())
}

func TestCurrentIdentity_ReturnsCopy(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	repoMock.EXPECT().FindByEmail(ctx, "john@example.com").Return(userIdentity, nil).Times(1)
	_, err := service.SignIn(ctx, "john@example.com", "secret1")
	require.NoError(t, err)

	current, _ := service.CurrentIdentity()
	current.Role = models.RoleAdmin

	again, _ := service.CurrentIdentity()
	assert.Equal(t, models.RoleUser, again.Role)
}

func TestCountByRole(t *testing.T) {
	service, repoMock := newTestSessionService(t)
	ctx := context.Background()

	repoMock.EXPECT().List(ctx).Return(models.SeedIdentities(), nil).Times(1)

	counts, err := service.CountByRole(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, counts[models.RoleAdmin])
	assert.Equal(t, 2, counts[models.RoleResponder])
	assert.Equal(t, 1, counts[models.RoleUser])
}
