package delivery

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartgrocer/grocer-backend/pkg/db/models"
)

// Repository manages persistence for delivery zones, vehicles, and assignments.
type Repository interface {
	CreateZone(ctx context.Context, zone *models.DeliveryZone) error
	ListZones(ctx context.Context) ([]models.DeliveryZone, error)
	CreateVehicle(ctx context.Context, vehicle *models.DeliveryVehicle) error
	ListVehicles(ctx context.Context) ([]models.DeliveryVehicle, error)
	CreateAssignment(ctx context.Context, assignment *models.DeliveryAssignment) error
	FindAssignmentByID(ctx context.Context, id uuid.UUID) (*models.DeliveryAssignment, error)
	ListAssignments(ctx context.Context) ([]AssignmentRow, error)
	UpdateAssignment(ctx context.Context, assignment *models.DeliveryAssignment) error
	OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error)
}

// AssignmentRow joins an assignment with its zone and vehicle labels.
type AssignmentRow struct {
	models.DeliveryAssignment
	ZoneName     *string `gorm:"column:zone_name"`
	VehiclePlate *string `gorm:"column:vehicle_plate"`
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a delivery repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateZone(ctx context.Context, zone *models.DeliveryZone) error {
	if zone.ID == uuid.Nil {
		zone.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(zone).Error
}

func (r *repository) ListZones(ctx context.Context) ([]models.DeliveryZone, error) {
	var zones []models.DeliveryZone
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&zones).Error; err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *repository) CreateVehicle(ctx context.Context, vehicle *models.DeliveryVehicle) error {
	if vehicle.ID == uuid.Nil {
		vehicle.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(vehicle).Error
}

func (r *repository) ListVehicles(ctx context.Context) ([]models.DeliveryVehicle, error) {
	var vehicles []models.DeliveryVehicle
	if err := r.db.WithContext(ctx).Order("plate_number ASC").Find(&vehicles).Error; err != nil {
		return nil, err
	}
	return vehicles, nil
}

func (r *repository) CreateAssignment(ctx context.Context, assignment *models.DeliveryAssignment) error {
	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(assignment).Error
}

func (r *repository) FindAssignmentByID(ctx context.Context, id uuid.UUID) (*models.DeliveryAssignment, error) {
	var assignment models.DeliveryAssignment
	if err := r.db.WithContext(ctx).First(&assignment, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &assignment, nil
}

func (r *repository) ListAssignments(ctx context.Context) ([]AssignmentRow, error) {
	var rows []AssignmentRow
	if err := r.db.WithContext(ctx).
		Table("delivery_assignments").
		Select(`delivery_assignments.*,
			delivery_zones.name AS zone_name,
			delivery_vehicles.plate_number AS vehicle_plate`).
		Joins("LEFT JOIN delivery_zones ON delivery_zones.id = delivery_assignments.zone_id").
		Joins("LEFT JOIN delivery_vehicles ON delivery_vehicles.id = delivery_assignments.vehicle_id").
		Order("delivery_assignments.created_at DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) UpdateAssignment(ctx context.Context, assignment *models.DeliveryAssignment) error {
	return r.db.WithContext(ctx).Save(assignment).Error
}

func (r *repository) OrderExists(ctx context.Context, orderID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
