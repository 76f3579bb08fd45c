package services

import (
	"errors"
	"fmt"
	"strings"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"

	"gorm.io/gorm"
)

// RoomTypeService manages the room catalog: room types, their physical
// units, seasonal pricing and blackout dates.
type RoomTypeService struct {
	DB *gorm.DB
}

func NewRoomTypeService(db *gorm.DB) *RoomTypeService {
	return &RoomTypeService{DB: db}
}

// Slugify turns a room type name into its URL slug.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// refreshUnitCounters overwrites the cached display counters from live unit
// rows. The counters are never used for availability decisions.
func (s *RoomTypeService) refreshUnitCounters(roomTypes []models.RoomType) error {
	if len(roomTypes) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(roomTypes))
	for i := range roomTypes {
		ids = append(ids, roomTypes[i].ID)
	}

	type unitCount struct {
		RoomTypeID uint
		Total      int
		Available  int
	}
	var counts []unitCount
	err := s.DB.Model(&models.RoomUnit{}).
		Select("room_type_id, COUNT(*) AS total, SUM(CASE WHEN status = ? THEN 1 ELSE 0 END) AS available",
			models.UnitStatusAvailable).
		Where("room_type_id IN ?", ids).
		Group("room_type_id").
		Scan(&counts).Error
	if err != nil {
		return fmt.Errorf("failed to count room units: %w", err)
	}

	byType := make(map[uint]unitCount, len(counts))
	for _, c := range counts {
		byType[c.RoomTypeID] = c
	}
	for i := range roomTypes {
		c := byType[roomTypes[i].ID]
		roomTypes[i].TotalUnits = c.Total
		roomTypes[i].AvailableUnits = c.Available
	}
	return nil
}

// ListActive returns the public catalog: active room types with pricing
// rules and live unit counts.
func (s *RoomTypeService) ListActive() ([]models.RoomType, error) {
	var roomTypes []models.RoomType
	err := s.DB.
		Preload("SeasonalPricing", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("BlackoutDates").
		Where("is_active = ?", true).
		Order("price ASC").
		Find(&roomTypes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	if err := s.refreshUnitCounters(roomTypes); err != nil {
		return nil, err
	}
	return roomTypes, nil
}

// ListAll returns every room type including inactive ones, for the admin
// panel.
func (s *RoomTypeService) ListAll() ([]models.RoomType, error) {
	var roomTypes []models.RoomType
	err := s.DB.
		Preload("SeasonalPricing", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("BlackoutDates").
		Order("id ASC").
		Find(&roomTypes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list room types: %w", err)
	}
	if err := s.refreshUnitCounters(roomTypes); err != nil {
		return nil, err
	}
	return roomTypes, nil
}

func (s *RoomTypeService) Get(id uint) (*models.RoomType, error) {
	var rt models.RoomType
	err := s.DB.
		Preload("SeasonalPricing", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("BlackoutDates").
		First(&rt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to load room type %d: %w", id, err)
	}
	single := []models.RoomType{rt}
	if err := s.refreshUnitCounters(single); err != nil {
		return nil, err
	}
	return &single[0], nil
}

// Create persists a room type and auto-provisions its physical units,
// numbered 001 upward.
func (s *RoomTypeService) Create(rt *models.RoomType, unitCount int) (*models.RoomType, error) {
	if rt.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}
	if cents, err := utils.ParseAmount(rt.Price); err != nil || cents <= 0 {
		return nil, &ValidationError{Field: "price", Reason: "price must be a positive decimal amount"}
	}
	if rt.MaxGuests < 1 {
		return nil, &ValidationError{Field: "maxGuests", Reason: "maxGuests must be at least 1"}
	}
	if rt.MinStay < 1 {
		rt.MinStay = 1
	}
	if rt.MaxStay < rt.MinStay {
		rt.MaxStay = 30
	}
	if unitCount < 1 {
		unitCount = 1
	}
	rt.Slug = Slugify(rt.Name)
	rt.IsActive = true

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(rt).Error; err != nil {
			lc := strings.ToLower(err.Error())
			if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") || strings.Contains(lc, "constraint") {
				return &ValidationError{Field: "name", Reason: "a room type with this name already exists"}
			}
			return fmt.Errorf("failed to create room type: %w", err)
		}
		for i := 1; i <= unitCount; i++ {
			unit := models.RoomUnit{
				RoomTypeID: rt.ID,
				UnitNumber: fmt.Sprintf("%s-%03d", rt.Slug, i),
				UnitName:   fmt.Sprintf("%s #%03d", rt.Name, i),
				Status:     models.UnitStatusAvailable,
			}
			if err := tx.Create(&unit).Error; err != nil {
				return fmt.Errorf("failed to provision unit %d: %w", i, err)
			}
		}
		return tx.Model(rt).Updates(map[string]interface{}{
			"total_units":     unitCount,
			"available_units": unitCount,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(rt.ID)
}

// protectedRoomTypeFields cannot be changed through the generic update map.
var protectedRoomTypeFields = map[string]bool{
	"id":              true,
	"slug":            true,
	"total_units":     true,
	"available_units": true,
	"created_at":      true,
	"updated_at":      true,
	"deleted_at":      true,
}

// Update applies a partial column update, skipping protected fields.
func (s *RoomTypeService) Update(id uint, updates map[string]interface{}) (*models.RoomType, error) {
	rt, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	filtered := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		if !protectedRoomTypeFields[key] {
			filtered[key] = value
		}
	}
	if price, ok := filtered["price"].(string); ok {
		if cents, err := utils.ParseAmount(price); err != nil || cents <= 0 {
			return nil, &ValidationError{Field: "price", Reason: "price must be a positive decimal amount"}
		}
	}
	if name, ok := filtered["name"].(string); ok && name != "" {
		filtered["slug"] = Slugify(name)
	}
	if len(filtered) == 0 {
		return rt, nil
	}

	if err := s.DB.Model(&models.RoomType{}).Where("id = ?", id).Updates(filtered).Error; err != nil {
		return nil, fmt.Errorf("failed to update room type %d: %w", id, err)
	}
	return s.Get(id)
}

// Deactivate hides a room type from the public catalog without touching its
// booking history.
func (s *RoomTypeService) Deactivate(id uint) error {
	res := s.DB.Model(&models.RoomType{}).Where("id = ?", id).Update("is_active", false)
	if res.Error != nil {
		return fmt.Errorf("failed to deactivate room type %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrRoomTypeNotFound
	}
	return nil
}

// ListUnits returns the physical units of a room type.
func (s *RoomTypeService) ListUnits(roomTypeID uint) ([]models.RoomUnit, error) {
	if _, err := s.Get(roomTypeID); err != nil {
		return nil, err
	}
	var units []models.RoomUnit
	err := s.DB.Where("room_type_id = ?", roomTypeID).Order("unit_number ASC").Find(&units).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list units: %w", err)
	}
	return units, nil
}

// AddUnit registers an extra physical unit under a room type.
func (s *RoomTypeService) AddUnit(roomTypeID uint, unit *models.RoomUnit) (*models.RoomUnit, error) {
	rt, err := s.Get(roomTypeID)
	if err != nil {
		return nil, err
	}
	if unit.UnitNumber == "" {
		return nil, &ValidationError{Field: "unitNumber", Reason: "unitNumber is required"}
	}
	unit.RoomTypeID = rt.ID
	if unit.UnitName == "" {
		unit.UnitName = fmt.Sprintf("%s %s", rt.Name, unit.UnitNumber)
	}
	if unit.Status == "" {
		unit.Status = models.UnitStatusAvailable
	}

	if err := s.DB.Create(unit).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") || strings.Contains(lc, "constraint") {
			return nil, &ValidationError{Field: "unitNumber", Reason: "a unit with this number already exists"}
		}
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	return unit, nil
}

// validUnitStatuses guards admin unit updates.
var validUnitStatuses = map[string]bool{
	models.UnitStatusAvailable:   true,
	models.UnitStatusOccupied:    true,
	models.UnitStatusMaintenance: true,
	models.UnitStatusOutOfOrder:  true,
	models.UnitStatusCleaning:    true,
}

// protectedRoomUnitFields cannot be changed through the generic update map.
var protectedRoomUnitFields = map[string]bool{
	"id":           true,
	"room_type_id": true,
	"created_at":   true,
	"updated_at":   true,
	"deleted_at":   true,
}

// UpdateUnit applies a partial update to a unit (status, maintenance
// window, notes).
func (s *RoomTypeService) UpdateUnit(unitID uint, updates map[string]interface{}) (*models.RoomUnit, error) {
	var unit models.RoomUnit
	if err := s.DB.First(&unit, unitID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomUnitNotFound
		}
		return nil, fmt.Errorf("failed to load unit %d: %w", unitID, err)
	}

	filtered := make(map[string]interface{}, len(updates))
	for key, value := range updates {
		if !protectedRoomUnitFields[key] {
			filtered[key] = value
		}
	}
	if status, ok := filtered["status"].(string); ok && !validUnitStatuses[status] {
		return nil, &ValidationError{Field: "status", Reason: "unknown unit status"}
	}
	if len(filtered) == 0 {
		return &unit, nil
	}

	if err := s.DB.Model(&unit).Updates(filtered).Error; err != nil {
		return nil, fmt.Errorf("failed to update unit %d: %w", unitID, err)
	}
	if err := s.DB.First(&unit, unitID).Error; err != nil {
		return nil, fmt.Errorf("failed to reload unit %d: %w", unitID, err)
	}
	return &unit, nil
}

// AddSeasonalPricing attaches a pricing rule to a room type. Rules are
// evaluated first-match in insertion order.
func (s *RoomTypeService) AddSeasonalPricing(roomTypeID uint, rule *models.SeasonalPricing) (*models.SeasonalPricing, error) {
	if _, err := s.Get(roomTypeID); err != nil {
		return nil, err
	}
	if rule.PriceMultiplier <= 0 {
		return nil, &ValidationError{Field: "priceMultiplier", Reason: "priceMultiplier must be positive"}
	}
	if rule.EndDate.Before(rule.StartDate) {
		return nil, &ValidationError{Field: "endDate", Reason: "endDate must not be before startDate"}
	}
	rule.RoomTypeID = roomTypeID
	rule.IsActive = true
	if err := s.DB.Create(rule).Error; err != nil {
		return nil, fmt.Errorf("failed to create seasonal pricing: %w", err)
	}
	return rule, nil
}

// AddBlackoutDate blocks a date range for a room type.
func (s *RoomTypeService) AddBlackoutDate(roomTypeID uint, blackout *models.BlackoutDate) (*models.BlackoutDate, error) {
	if _, err := s.Get(roomTypeID); err != nil {
		return nil, err
	}
	if blackout.EndDate.Before(blackout.StartDate) {
		return nil, &ValidationError{Field: "endDate", Reason: "endDate must not be before startDate"}
	}
	blackout.RoomTypeID = roomTypeID
	if err := s.DB.Create(blackout).Error; err != nil {
		return nil, fmt.Errorf("failed to create blackout date: %w", err)
	}
	return blackout, nil
}
