package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"sync"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AvailabilityService is the allocation engine: it decides whether a room
// type has a free physical unit for a date range and assigns a unit to new
// bookings. Occupancy is always derived from the booking ledger at read
// time; no unit counter is ever decremented.
type AvailabilityService struct {
	DB *gorm.DB

	mu        sync.Mutex
	typeLocks map[uint]*sync.Mutex
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{
		DB:        db,
		typeLocks: make(map[uint]*sync.Mutex),
	}
}

// lockForRoomType returns the per-room-type mutex that serializes the
// check-pool-then-insert sequence. Without it two concurrent requests for
// the last unit could both observe an empty conflict set.
func (s *AvailabilityService) lockForRoomType(roomTypeID uint) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.typeLocks[roomTypeID]
	if !ok {
		l = &sync.Mutex{}
		s.typeLocks[roomTypeID] = l
	}
	return l
}

// AvailabilityResult is the outcome of a pure availability check.
type AvailabilityResult struct {
	Available      bool   `json:"available"`
	AvailableUnits int    `json:"availableUnits"`
	TotalUnits     int    `json:"totalUnits"`
	Reason         string `json:"reason,omitempty"`
}

// AllocateRequest carries everything needed to create a booking. RoomUnitID
// nil means auto-assign.
type AllocateRequest struct {
	RoomTypeID      uint
	RoomUnitID      *uint
	Checkin         time.Time
	Checkout        time.Time
	NumberOfGuests  int
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	GuestAddress    string
	GuestIDNumber   string
	SpecialRequests string
	Preferences     models.GuestPreferences
	Source          string
}

// StayNights counts billable nights, rounding partial days up.
func StayNights(checkin, checkout time.Time) int {
	return int(math.Ceil(checkout.Sub(checkin).Hours() / 24))
}

// rangesOverlap is the shared conflict predicate for blackouts, bookings
// and maintenance windows: existingStart <= requestedEnd AND
// existingEnd >= requestedStart.
func rangesOverlap(existingStart, existingEnd, requestedStart, requestedEnd time.Time) bool {
	return !existingStart.After(requestedEnd) && !existingEnd.Before(requestedStart)
}

func (s *AvailabilityService) loadRoomType(db *gorm.DB, id uint) (*models.RoomType, error) {
	var rt models.RoomType
	err := db.
		Preload("SeasonalPricing", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Preload("BlackoutDates").
		First(&rt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomTypeNotFound
		}
		return nil, fmt.Errorf("failed to load room type %d: %w", id, err)
	}
	return &rt, nil
}

// stayReason runs the short-circuiting rule chain that does not touch
// inventory: active flag, guest capacity, stay length, blackout windows.
// An empty reason means all rules passed.
func stayReason(rt *models.RoomType, checkin, checkout time.Time, guests int) string {
	if !rt.IsActive {
		return "This room type is not currently available"
	}
	if guests > rt.MaxGuests {
		return fmt.Sprintf("This room type can only accommodate %d guests", rt.MaxGuests)
	}
	nights := StayNights(checkin, checkout)
	if nights < rt.MinStay {
		return fmt.Sprintf("Minimum stay is %d nights", rt.MinStay)
	}
	if nights > rt.MaxStay {
		return fmt.Sprintf("Maximum stay is %d nights", rt.MaxStay)
	}
	for _, b := range rt.BlackoutDates {
		if rangesOverlap(b.StartDate, b.EndDate, checkin, checkout) {
			return "Room type is not available for the selected dates due to blackout period"
		}
	}
	return ""
}

// EligibleUnits returns units of the room type that are in available status,
// free of overlapping maintenance, and have no conflicting non-cancelled
// booking in [checkin, checkout). Order is stable (unit number).
func (s *AvailabilityService) EligibleUnits(db *gorm.DB, roomTypeID uint, checkin, checkout time.Time) ([]models.RoomUnit, int, error) {
	var units []models.RoomUnit
	if err := db.
		Where("room_type_id = ? AND status = ?", roomTypeID, models.UnitStatusAvailable).
		Order("unit_number ASC").
		Find(&units).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to load room units: %w", err)
	}

	pool := units[:0]
	for i := range units {
		if !units[i].MaintenanceOverlaps(checkin, checkout) {
			pool = append(pool, units[i])
		}
	}
	poolSize := len(pool)

	occupied, err := s.conflictingUnitIDs(db, roomTypeID, checkin, checkout)
	if err != nil {
		return nil, 0, err
	}

	free := pool[:0]
	for i := range pool {
		if _, taken := occupied[pool[i].ID]; !taken {
			free = append(free, pool[i])
		}
	}
	return free, poolSize, nil
}

// conflictingUnitIDs collects units held by a non-cancelled booking that
// overlaps the requested range.
func (s *AvailabilityService) conflictingUnitIDs(db *gorm.DB, roomTypeID uint, checkin, checkout time.Time) (map[uint]struct{}, error) {
	var unitIDs []uint
	err := db.Model(&models.Booking{}).
		Where("room_type_id = ? AND status <> ?", roomTypeID, models.BookingStatusCancelled).
		Where("checkin_date <= ? AND checkout_date >= ?", checkout, checkin).
		Pluck("room_unit_id", &unitIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load conflicting bookings: %w", err)
	}
	occupied := make(map[uint]struct{}, len(unitIDs))
	for _, id := range unitIDs {
		occupied[id] = struct{}{}
	}
	return occupied, nil
}

// CheckAvailability is a pure read: it reports whether the room type has a
// free unit for the range and how many. Rule failures are reported in
// Reason, never as errors; only unknown room types error.
func (s *AvailabilityService) CheckAvailability(roomTypeID uint, checkin, checkout time.Time, guests int) (*AvailabilityResult, error) {
	if !checkout.After(checkin) {
		return nil, &ValidationError{Field: "checkoutDate", Reason: "check-out must be after check-in"}
	}
	if guests < 1 {
		return nil, &ValidationError{Field: "numberOfGuests", Reason: "at least one guest is required"}
	}

	rt, err := s.loadRoomType(s.DB, roomTypeID)
	if err != nil {
		return nil, err
	}

	if reason := stayReason(rt, checkin, checkout, guests); reason != "" {
		return &AvailabilityResult{Available: false, Reason: reason}, nil
	}

	free, poolSize, err := s.EligibleUnits(s.DB, roomTypeID, checkin, checkout)
	if err != nil {
		return nil, err
	}

	return &AvailabilityResult{
		Available:      len(free) > 0,
		AvailableUnits: len(free),
		TotalUnits:     poolSize,
	}, nil
}

// AvailableUnits lists the eligible unit records for a date range, for the
// unit-picker on the booking page.
func (s *AvailabilityService) AvailableUnits(roomTypeID uint, checkin, checkout time.Time) ([]models.RoomUnit, error) {
	if !checkout.After(checkin) {
		return nil, &ValidationError{Field: "checkoutDate", Reason: "check-out must be after check-in"}
	}
	if _, err := s.loadRoomType(s.DB, roomTypeID); err != nil {
		return nil, err
	}
	free, _, err := s.EligibleUnits(s.DB, roomTypeID, checkin, checkout)
	if err != nil {
		return nil, err
	}
	return free, nil
}

// unitHasFeature checks the unit's specialFeatures JSON array for a tag.
func unitHasFeature(u *models.RoomUnit, tag string) bool {
	if len(u.SpecialFeatures) == 0 {
		return false
	}
	var features []string
	if err := json.Unmarshal(u.SpecialFeatures, &features); err != nil {
		return false
	}
	for _, f := range features {
		if strings.EqualFold(f, tag) {
			return true
		}
	}
	return false
}

// SelectUnit picks a unit from the eligible pool honoring guest preferences
// as a priority cascade: floor, then view, then accessibility. Only one
// preference dimension is honored per call; a non-matching filter falls
// through to the next. Empty pool returns nil.
func SelectUnit(pool []models.RoomUnit, prefs models.GuestPreferences) *models.RoomUnit {
	if len(pool) == 0 {
		return nil
	}
	if prefs.Floor != "" {
		for i := range pool {
			if pool[i].Floor == prefs.Floor {
				return &pool[i]
			}
		}
	}
	if prefs.View != "" {
		for i := range pool {
			if unitHasFeature(&pool[i], prefs.View) {
				return &pool[i]
			}
		}
	}
	if prefs.Accessibility {
		for i := range pool {
			if unitHasFeature(&pool[i], "accessible") {
				return &pool[i]
			}
		}
	}
	return &pool[0]
}

// AllocateBooking validates the request, chooses a unit and persists the
// booking at (pending, pending). The eligible-pool check and the insert run
// inside one transaction under the room type's allocation lock, so two
// concurrent requests cannot both claim the last unit. No unit record is
// mutated: occupancy stays derived from the ledger.
func (s *AvailabilityService) AllocateBooking(req AllocateRequest) (*models.Booking, error) {
	if req.Checkin.IsZero() || req.Checkout.IsZero() {
		return nil, &ValidationError{Field: "checkinDate", Reason: "check-in and check-out dates are required"}
	}
	if !req.Checkout.After(req.Checkin) {
		return nil, &ValidationError{Field: "checkoutDate", Reason: "check-out must be after check-in"}
	}
	if req.NumberOfGuests < 1 {
		return nil, &ValidationError{Field: "numberOfGuests", Reason: "at least one guest is required"}
	}

	lock := s.lockForRoomType(req.RoomTypeID)
	lock.Lock()
	defer lock.Unlock()

	var booking *models.Booking
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		rt, err := s.loadRoomType(tx, req.RoomTypeID)
		if err != nil {
			return err
		}
		if reason := stayReason(rt, req.Checkin, req.Checkout, req.NumberOfGuests); reason != "" {
			return &CapacityError{Reason: reason}
		}

		unit, err := s.chooseUnit(tx, rt, req)
		if err != nil {
			return err
		}

		nights := StayNights(req.Checkin, req.Checkout)
		total, err := ComputeTotal(rt, req.Checkin, nights)
		if err != nil {
			return err
		}

		prefsJSON, err := json.Marshal(req.Preferences)
		if err != nil {
			return fmt.Errorf("failed to encode guest preferences: %w", err)
		}

		source := req.Source
		if source == "" {
			source = "website"
		}

		b := models.Booking{
			RoomUnitID:       unit.ID,
			RoomTypeID:       rt.ID,
			RoomUnitName:     unit.UnitName,
			RoomTypeName:     rt.Name,
			GuestName:        req.GuestName,
			GuestEmail:       req.GuestEmail,
			GuestPhone:       req.GuestPhone,
			GuestAddress:     req.GuestAddress,
			GuestIDNumber:    req.GuestIDNumber,
			CheckinDate:      req.Checkin,
			CheckoutDate:     req.Checkout,
			Nights:           nights,
			NumberOfGuests:   req.NumberOfGuests,
			TotalAmount:      total,
			Status:           models.BookingStatusPending,
			PaymentStatus:    models.PaymentStatusPending,
			SpecialRequests:  req.SpecialRequests,
			GuestPreferences: datatypes.JSON(prefsJSON),
			Source:           source,
		}

		// Reference is unique; retry on the rare collision.
		const maxAttempts = 5
		var createErr error
		for attempt := 0; attempt < maxAttempts; attempt++ {
			ref, refErr := utils.GenerateBookingReference()
			if refErr != nil {
				return fmt.Errorf("failed to generate booking reference: %w", refErr)
			}
			b.BookingReference = ref

			createErr = tx.Create(&b).Error
			if createErr == nil {
				break
			}
			lc := strings.ToLower(createErr.Error())
			if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") || strings.Contains(lc, "constraint") {
				log.Printf("booking reference collision (attempt %d) - retrying", attempt+1)
				continue
			}
			return fmt.Errorf("failed to create booking: %w", createErr)
		}
		if createErr != nil {
			return fmt.Errorf("failed to create booking after retries: %w", createErr)
		}

		booking = &b
		return nil
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// chooseUnit resolves the unit for a request: re-validated explicit unit, or
// preference-driven pick from the eligible pool.
func (s *AvailabilityService) chooseUnit(tx *gorm.DB, rt *models.RoomType, req AllocateRequest) (*models.RoomUnit, error) {
	if req.RoomUnitID != nil {
		var unit models.RoomUnit
		if err := tx.First(&unit, *req.RoomUnitID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrRoomUnitNotFound
			}
			return nil, fmt.Errorf("failed to load room unit %d: %w", *req.RoomUnitID, err)
		}
		if unit.RoomTypeID != rt.ID {
			return nil, &ConflictError{Reason: "Selected unit does not belong to the requested room type"}
		}
		if unit.Status != models.UnitStatusAvailable || unit.MaintenanceOverlaps(req.Checkin, req.Checkout) {
			return nil, &ConflictError{Reason: "Selected unit is not available for the selected dates"}
		}

		var conflicts int64
		err := tx.Model(&models.Booking{}).
			Where("room_unit_id = ? AND status <> ?", unit.ID, models.BookingStatusCancelled).
			Where("checkin_date <= ? AND checkout_date >= ?", req.Checkout, req.Checkin).
			Count(&conflicts).Error
		if err != nil {
			return nil, fmt.Errorf("failed to check unit conflicts: %w", err)
		}
		if conflicts > 0 {
			return nil, &ConflictError{Reason: "Selected unit is already booked for the selected dates"}
		}
		return &unit, nil
	}

	free, _, err := s.EligibleUnits(tx, rt.ID, req.Checkin, req.Checkout)
	if err != nil {
		return nil, err
	}
	unit := SelectUnit(free, req.Preferences)
	if unit == nil {
		return nil, &CapacityError{Reason: "No units are available for the selected dates"}
	}
	return unit, nil
}
