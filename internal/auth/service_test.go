package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgauth "github.com/smartgrocer/grocer-backend/pkg/auth"
	"github.com/smartgrocer/grocer-backend/pkg/config"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
	"github.com/smartgrocer/grocer-backend/pkg/security"
)

type stubEmployeeRepo struct {
	byEmail map[string]*models.Employee
}

func (s *stubEmployeeRepo) Create(ctx context.Context, employee *models.Employee) error {
	return nil
}

func (s *stubEmployeeRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	return nil, nil
}

func (s *stubEmployeeRepo) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	return s.byEmail[email], nil
}

func (s *stubEmployeeRepo) List(ctx context.Context, page pagination.Params) ([]models.Employee, error) {
	return nil, nil
}

type stubLimiter struct {
	allowed bool
	calls   int
}

func (s *stubLimiter) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	s.calls++
	return s.allowed, int64(s.calls), nil
}

type stubSessions struct {
	stored  map[string]string
	revoked []string
}

func (s *stubSessions) StoreSession(ctx context.Context, employeeID, token string, ttl time.Duration) error {
	if s.stored == nil {
		s.stored = map[string]string{}
	}
	s.stored[employeeID] = token
	return nil
}

func (s *stubSessions) RevokeSession(ctx context.Context, employeeID string) error {
	s.revoked = append(s.revoked, employeeID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "test-secret", Issuer: "grocer-test", ExpirationMinutes: 30}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8192,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func seedEmployee(t *testing.T, email, password string) *models.Employee {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	require.NoError(t, err)
	return &models.Employee{
		ID:           uuid.New(),
		Name:         "Pooja Malhotra",
		Position:     "Manager",
		Email:        email,
		PasswordHash: &hash,
	}
}

func TestLoginIssuesToken(t *testing.T) {
	employee := seedEmployee(t, "pooja@smartgrocer.test", "correct-horse")
	repo := &stubEmployeeRepo{byEmail: map[string]*models.Employee{employee.Email: employee}}
	sessions := &stubSessions{}

	svc, err := NewService(repo, &stubLimiter{allowed: true}, sessions, testJWTConfig(), config.RateLimitConfig{
		LoginWindow: time.Minute, LoginEmailLimit: 5, LoginIPLimit: 20,
	}, nil)
	require.NoError(t, err)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "  Pooja@SmartGrocer.test ",
		Password: "correct-horse",
		RemoteIP: "10.0.0.1",
	})
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.AccessToken)
	assert.Equal(t, employee.ID, result.Employee.ID)
	assert.Contains(t, sessions.stored, employee.ID.String())

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, employee.ID, claims.EmployeeID)
	assert.Equal(t, employee.Email, claims.Email)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	employee := seedEmployee(t, "pooja@smartgrocer.test", "correct-horse")
	repo := &stubEmployeeRepo{byEmail: map[string]*models.Employee{employee.Email: employee}}

	svc, err := NewService(repo, nil, nil, testJWTConfig(), config.RateLimitConfig{}, nil)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: employee.Email, Password: "wrong"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	repo := &stubEmployeeRepo{byEmail: map[string]*models.Employee{}}

	svc, err := NewService(repo, nil, nil, testJWTConfig(), config.RateLimitConfig{}, nil)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: "ghost@smartgrocer.test", Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRejectsEmployeeWithoutPassword(t *testing.T) {
	employee := &models.Employee{ID: uuid.New(), Email: "nopass@smartgrocer.test"}
	repo := &stubEmployeeRepo{byEmail: map[string]*models.Employee{employee.Email: employee}}

	svc, err := NewService(repo, nil, nil, testJWTConfig(), config.RateLimitConfig{}, nil)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: employee.Email, Password: "whatever"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.As(err).Code())
}

func TestLoginRateLimited(t *testing.T) {
	employee := seedEmployee(t, "pooja@smartgrocer.test", "correct-horse")
	repo := &stubEmployeeRepo{byEmail: map[string]*models.Employee{employee.Email: employee}}

	svc, err := NewService(repo, &stubLimiter{allowed: false}, nil, testJWTConfig(), config.RateLimitConfig{
		LoginWindow: time.Minute, LoginEmailLimit: 5, LoginIPLimit: 20,
	}, nil)
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginInput{Email: employee.Email, Password: "correct-horse"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeRateLimit, pkgerrors.As(err).Code())
}

func TestLogoutRevokesSession(t *testing.T) {
	repo := &stubEmployeeRepo{}
	sessions := &stubSessions{}

	svc, err := NewService(repo, nil, sessions, testJWTConfig(), config.RateLimitConfig{}, nil)
	require.NoError(t, err)

	id := uuid.New()
	require.NoError(t, svc.Logout(context.Background(), id))
	assert.Equal(t, []string{id.String()}, sessions.revoked)

	err = svc.Logout(context.Background(), uuid.Nil)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
