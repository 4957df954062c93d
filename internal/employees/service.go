package employees

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/smartgrocer/grocer-backend/pkg/config"
	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
	"github.com/smartgrocer/grocer-backend/pkg/pagination"
	"github.com/smartgrocer/grocer-backend/pkg/security"
)

// Service exposes employee management operations.
type Service interface {
	Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Employee, error)
	List(ctx context.Context, page pagination.Params) (pagination.Page[models.Employee], error)
}

// CreateEmployeeInput holds the employee payload. Password is optional; an
// employee without one cannot sign in to the admin app.
type CreateEmployeeInput struct {
	Name     string
	Position string
	Email    string
	Phone    *string
	HireDate *time.Time
	Password *string
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

// NewService constructs an employee service instance.
func NewService(repo Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Create(ctx context.Context, input CreateEmployeeInput) (*models.Employee, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(input.Position) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "position is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}

	hireDate := time.Now().UTC()
	if input.HireDate != nil {
		hireDate = *input.HireDate
	}

	employee := &models.Employee{
		Name:     strings.TrimSpace(input.Name),
		Position: strings.TrimSpace(input.Position),
		Email:    email,
		Phone:    input.Phone,
		HireDate: hireDate,
	}

	if input.Password != nil && *input.Password != "" {
		if len(*input.Password) < 8 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, err
		}
		employee.PasswordHash = &hash
	}

	if err := s.repo.Create(ctx, employee); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already registered")
		}
		return nil, err
	}
	return employee, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	employee, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
	}
	return employee, nil
}

func (s *service) List(ctx context.Context, page pagination.Params) (pagination.Page[models.Employee], error) {
	items, err := s.repo.List(ctx, page)
	if err != nil {
		return pagination.Page[models.Employee]{}, err
	}
	return pagination.NewPage(items, page.Limit, func(e models.Employee) pagination.Cursor {
		return pagination.Cursor{CreatedAt: e.CreatedAt, ID: e.ID}
	}), nil
}
