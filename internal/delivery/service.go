package delivery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/smartgrocer/grocer-backend/pkg/db"
	"github.com/smartgrocer/grocer-backend/pkg/db/models"
	"github.com/smartgrocer/grocer-backend/pkg/enums"
	pkgerrors "github.com/smartgrocer/grocer-backend/pkg/errors"
)

// Service exposes delivery zone, vehicle, and assignment operations.
type Service interface {
	CreateZone(ctx context.Context, input CreateZoneInput) (*models.DeliveryZone, error)
	ListZones(ctx context.Context) ([]models.DeliveryZone, error)
	CreateVehicle(ctx context.Context, input CreateVehicleInput) (*models.DeliveryVehicle, error)
	ListVehicles(ctx context.Context) ([]models.DeliveryVehicle, error)
	CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*models.DeliveryAssignment, error)
	ListAssignments(ctx context.Context) ([]AssignmentRow, error)
	UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status enums.DeliveryStatus) (*models.DeliveryAssignment, error)
}

// CreateZoneInput holds the delivery zone payload.
type CreateZoneInput struct {
	Name        string
	Description *string
	DeliveryFee decimal.Decimal
}

// CreateVehicleInput holds the delivery vehicle payload.
type CreateVehicleInput struct {
	PlateNumber string
	VehicleType string
	CapacityKG  *int
}

// CreateAssignmentInput holds the delivery assignment payload.
type CreateAssignmentInput struct {
	OrderID     uuid.UUID
	ZoneID      *uuid.UUID
	VehicleID   *uuid.UUID
	DriverID    *uuid.UUID
	ScheduledAt *time.Time
}

type service struct {
	repo Repository
}

// NewService constructs a delivery service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("delivery repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateZone(ctx context.Context, input CreateZoneInput) (*models.DeliveryZone, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.DeliveryFee.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery fee cannot be negative")
	}

	zone := &models.DeliveryZone{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		DeliveryFee: input.DeliveryFee,
	}
	if err := s.repo.CreateZone(ctx, zone); err != nil {
		return nil, err
	}
	return zone, nil
}

func (s *service) ListZones(ctx context.Context) ([]models.DeliveryZone, error) {
	return s.repo.ListZones(ctx)
}

func (s *service) CreateVehicle(ctx context.Context, input CreateVehicleInput) (*models.DeliveryVehicle, error) {
	if strings.TrimSpace(input.PlateNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "plate number is required")
	}
	if strings.TrimSpace(input.VehicleType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "vehicle type is required")
	}

	vehicle := &models.DeliveryVehicle{
		PlateNumber: strings.ToUpper(strings.TrimSpace(input.PlateNumber)),
		VehicleType: strings.TrimSpace(input.VehicleType),
		CapacityKG:  input.CapacityKG,
		Available:   true,
	}
	if err := s.repo.CreateVehicle(ctx, vehicle); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "plate number already registered")
		}
		return nil, err
	}
	return vehicle, nil
}

func (s *service) ListVehicles(ctx context.Context) ([]models.DeliveryVehicle, error) {
	return s.repo.ListVehicles(ctx)
}

func (s *service) CreateAssignment(ctx context.Context, input CreateAssignmentInput) (*models.DeliveryAssignment, error) {
	exists, err := s.repo.OrderExists(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}

	assignment := &models.DeliveryAssignment{
		OrderID:     input.OrderID,
		ZoneID:      input.ZoneID,
		VehicleID:   input.VehicleID,
		DriverID:    input.DriverID,
		Status:      enums.DeliveryStatusAssigned,
		ScheduledAt: input.ScheduledAt,
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}

func (s *service) ListAssignments(ctx context.Context) ([]AssignmentRow, error) {
	return s.repo.ListAssignments(ctx)
}

func (s *service) UpdateAssignmentStatus(ctx context.Context, id uuid.UUID, status enums.DeliveryStatus) (*models.DeliveryAssignment, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid delivery status %q", status))
	}

	assignment, err := s.repo.FindAssignmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
	}

	assignment.Status = status
	if status == enums.DeliveryStatusDelivered && assignment.DeliveredAt == nil {
		now := time.Now().UTC()
		assignment.DeliveredAt = &now
	}
	if err := s.repo.UpdateAssignment(ctx, assignment); err != nil {
		return nil, err
	}
	return assignment, nil
}
