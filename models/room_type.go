package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomType describes a bookable class of room. Price is kept as a decimal
// string (e.g. "850.00") so currency never round-trips through floats.
type RoomType struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name        string `gorm:"size:255;uniqueIndex" json:"name"`
	Slug        string `gorm:"column:slug;size:100;index" json:"type"`
	Description string `gorm:"type:text" json:"description"`
	Price       string `gorm:"size:20" json:"price"`
	MaxGuests   int    `gorm:"column:max_guests" json:"maxGuests"`

	Amenities datatypes.JSON `gorm:"column:amenities" json:"amenities,omitempty"`
	Images    datatypes.JSON `gorm:"column:images" json:"images,omitempty"`
	Features  datatypes.JSON `gorm:"column:features" json:"features,omitempty"`

	Size               string  `gorm:"size:50" json:"size,omitempty"`
	BedType            string  `gorm:"size:50" json:"bedType,omitempty"`
	View               string  `gorm:"size:100" json:"view,omitempty"`
	CleaningFee        float64 `gorm:"column:cleaning_fee;default:0" json:"cleaningFee"`
	CancellationPolicy string  `gorm:"size:255" json:"cancellationPolicy"`

	IsActive bool `gorm:"column:is_active;default:true" json:"isActive"`

	// Cached counters for display only. Availability decisions always
	// recompute from room_units and bookings.
	TotalUnits     int `gorm:"column:total_units;default:1" json:"totalUnits"`
	AvailableUnits int `gorm:"column:available_units;default:1" json:"availableUnits"`

	MinStay int `gorm:"column:min_stay;default:1" json:"minStay"`
	MaxStay int `gorm:"column:max_stay;default:30" json:"maxStay"`

	SeasonalPricing []SeasonalPricing `gorm:"foreignKey:RoomTypeID" json:"seasonalPricing"`
	BlackoutDates   []BlackoutDate    `gorm:"foreignKey:RoomTypeID" json:"blackoutDates"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// SeasonalPricing is a date-ranged price multiplier. Entries may overlap;
// the first active entry in insertion order wins.
type SeasonalPricing struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	RoomTypeID uint `gorm:"index;column:room_type_id" json:"roomTypeId"`

	Name            string    `gorm:"size:100" json:"name"`
	StartDate       time.Time `gorm:"column:start_date" json:"startDate"`
	EndDate         time.Time `gorm:"column:end_date" json:"endDate"`
	PriceMultiplier float64   `gorm:"column:price_multiplier;default:1.0" json:"priceMultiplier"`
	IsActive        bool      `gorm:"column:is_active;default:true" json:"isActive"`
}

// BlackoutDate blocks bookings whose stay intersects the window.
type BlackoutDate struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	RoomTypeID uint `gorm:"index;column:room_type_id" json:"roomTypeId"`

	StartDate time.Time `gorm:"column:start_date" json:"startDate"`
	EndDate   time.Time `gorm:"column:end_date" json:"endDate"`
	Reason    string    `gorm:"size:255" json:"reason"`
}
