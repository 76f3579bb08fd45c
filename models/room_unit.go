package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomUnit statuses.
const (
	UnitStatusAvailable   = "available"
	UnitStatusOccupied    = "occupied"
	UnitStatusMaintenance = "maintenance"
	UnitStatusOutOfOrder  = "out-of-order"
	UnitStatusCleaning    = "cleaning"
)

// RoomUnit is a single physical room belonging to a RoomType.
type RoomUnit struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	RoomTypeID uint `gorm:"index;column:room_type_id" json:"roomTypeId"`

	UnitNumber string `gorm:"column:unit_number;uniqueIndex;size:50" json:"unitNumber"`
	UnitName   string `gorm:"column:unit_name;size:255" json:"unitName"`
	Floor      string `gorm:"size:10" json:"floor,omitempty"`

	Status string `gorm:"size:32;index;default:available" json:"status"`

	MaintenanceReason    string     `gorm:"size:255" json:"maintenanceReason,omitempty"`
	MaintenanceStartDate *time.Time `gorm:"column:maintenance_start_date" json:"maintenanceStartDate,omitempty"`
	MaintenanceEndDate   *time.Time `gorm:"column:maintenance_end_date" json:"maintenanceEndDate,omitempty"`

	// Tags like "accessible", "smoking", "sea-view". May override the
	// room type's features for this unit.
	SpecialFeatures datatypes.JSON `gorm:"column:special_features" json:"specialFeatures,omitempty"`

	Notes       string     `gorm:"type:text" json:"notes,omitempty"`
	LastCleaned *time.Time `gorm:"column:last_cleaned" json:"lastCleaned,omitempty"`

	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// MaintenanceOverlaps reports whether the unit's maintenance window
// intersects [checkin, checkout). A unit with no window never overlaps.
func (u *RoomUnit) MaintenanceOverlaps(checkin, checkout time.Time) bool {
	if u.MaintenanceStartDate == nil || u.MaintenanceEndDate == nil {
		return false
	}
	return !u.MaintenanceStartDate.After(checkout) && !u.MaintenanceEndDate.Before(checkin)
}
