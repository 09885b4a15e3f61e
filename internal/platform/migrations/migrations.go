package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema owned by the service. Adapters never automigrate on their own.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(&shipmentRecord{})
}

// Shipment schema mirrors the shipments Postgres adapter.
type shipmentRecord struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID      int32     `gorm:"column:user_id;not null;index"`
	VehicleID   string    `gorm:"column:vehicle_id;type:varchar(64);not null;index"`
	Origin      string    `gorm:"column:origin;type:varchar(255);not null"`
	Destination string    `gorm:"column:destination;type:varchar(255);not null"`
	ShipDate    time.Time `gorm:"column:ship_date;type:timestamp(0);not null"`
	Status      string    `gorm:"column:status;type:varchar(64);not null;index"`
}

func (shipmentRecord) TableName() string { return "shipments" }
