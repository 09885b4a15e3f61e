package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/domain"
	"github.com/Apurer/go-gin-shipments-server/internal/domains/shipments/ports"
	platformpostgres "github.com/Apurer/go-gin-shipments-server/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists shipments in PostgreSQL using GORM. Calls join the transaction
// carried by the context, if any. Schema is owned by internal/platform/migrations.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type shipmentRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID      int32     `gorm:"column:user_id"`
	VehicleID   string    `gorm:"column:vehicle_id"`
	Origin      string    `gorm:"column:origin"`
	Destination string    `gorm:"column:destination"`
	ShipDate    time.Time `gorm:"column:ship_date"`
	Status      string    `gorm:"column:status"`
}

func (shipmentRecord) TableName() string { return "shipments" }

// List returns all shipments, newest id first.
func (r *Repository) List(ctx context.Context) ([]*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []shipmentRecord
	if err := r.conn(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	shipments := make([]*domain.Shipment, 0, len(records))
	for i := range records {
		shipments = append(shipments, records[i].toDomain())
	}
	return shipments, nil
}

// GetByID fetches a shipment by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record shipmentRecord
	if err := r.conn(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Insert stores a new shipment and returns the row as the database holds it.
func (r *Repository) Insert(ctx context.Context, shipment *domain.Shipment) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if shipment == nil {
		return nil, errors.New("shipment is nil")
	}
	record := toRecord(shipment)
	record.ID = 0
	if err := r.conn(ctx).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// UpdateStatus replaces the status column and returns the updated row.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status domain.Status) (*domain.Shipment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.conn(ctx).
		Model(&shipmentRecord{}).
		Where("id = ?", id).
		Update("status", string(status))
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

// Delete removes a shipment and reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	if err := r.ensureDB(); err != nil {
		return false, err
	}
	result := r.conn(ctx).Delete(&shipmentRecord{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *Repository) conn(ctx context.Context) *gorm.DB {
	return platformpostgres.Conn(ctx, r.db)
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres shipment repository not configured")
	}
	return nil
}

func toRecord(s *domain.Shipment) shipmentRecord {
	return shipmentRecord{
		ID:          s.ID,
		UserID:      s.UserID,
		VehicleID:   s.VehicleID,
		Origin:      s.Origin,
		Destination: s.Destination,
		ShipDate:    domain.NormalizeShipDate(s.ShipDate),
		Status:      string(s.Status),
	}
}

func (r shipmentRecord) toDomain() *domain.Shipment {
	return &domain.Shipment{
		ID:          r.ID,
		UserID:      r.UserID,
		VehicleID:   r.VehicleID,
		Origin:      r.Origin,
		Destination: r.Destination,
		ShipDate:    domain.NormalizeShipDate(r.ShipDate),
		Status:      domain.Status(r.Status),
	}
}
