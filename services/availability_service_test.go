package services

import (
	"regexp"
	"sync"
	"testing"
	"time"

	"guesthouse-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func allocate(t *testing.T, svc *AvailabilityService, rt *models.RoomType, checkin, checkout time.Time) *models.Booking {
	t.Helper()
	booking, err := svc.AllocateBooking(AllocateRequest{
		RoomTypeID:     rt.ID,
		Checkin:        checkin,
		Checkout:       checkout,
		NumberOfGuests: 1,
		GuestName:      "Thabo Mokoena",
		GuestEmail:     "thabo@example.com",
		GuestPhone:     "+27821234567",
	})
	require.NoError(t, err)
	return booking
}

func TestCheckAvailabilityCountsFreeUnits(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Deluxe Room", "850.00", 2,
		unitSpec{number: "deluxe-001"}, unitSpec{number: "deluxe-002"})

	checkin, checkout := date(2026, 3, 10), date(2026, 3, 12)
	result, err := svc.CheckAvailability(rt.ID, checkin, checkout, 2)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, 2, result.AvailableUnits)
	assert.Equal(t, 2, result.TotalUnits)

	allocate(t, svc, rt, checkin, checkout)

	result, err = svc.CheckAvailability(rt.ID, checkin, checkout, 2)
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, 1, result.AvailableUnits)
	assert.Equal(t, 2, result.TotalUnits)
}

func TestCheckAvailabilityIsRepeatable(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Standard Room", "650.00", 2, unitSpec{number: "std-001"})

	checkin, checkout := date(2026, 5, 1), date(2026, 5, 3)
	first, err := svc.CheckAvailability(rt.ID, checkin, checkout, 1)
	require.NoError(t, err)
	second, err := svc.CheckAvailability(rt.ID, checkin, checkout, 1)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestOverlapBoundaries(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Deluxe Room", "850.00", 2, unitSpec{number: "deluxe-001"})

	allocate(t, svc, rt, date(2026, 3, 1), date(2026, 3, 5))

	// Fully after the existing stay: free.
	result, err := svc.CheckAvailability(rt.ID, date(2026, 3, 6), date(2026, 3, 8), 1)
	require.NoError(t, err)
	assert.True(t, result.Available)

	// Check-in on the existing check-out day still conflicts.
	result, err = svc.CheckAvailability(rt.ID, date(2026, 3, 5), date(2026, 3, 7), 1)
	require.NoError(t, err)
	assert.False(t, result.Available)

	// Fully before: free.
	result, err = svc.CheckAvailability(rt.ID, date(2026, 2, 25), date(2026, 2, 28), 1)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckAvailabilityGuestCapacity(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Standard Room", "650.00", 2, unitSpec{number: "std-001"})

	result, err := svc.CheckAvailability(rt.ID, date(2026, 4, 1), date(2026, 4, 3), 3)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "accommodate 2 guests")
}

func TestCheckAvailabilityStayLimits(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Executive Suite", "1200.00", 3, unitSpec{number: "suite-001"})
	require.NoError(t, db.Model(rt).Updates(map[string]interface{}{"min_stay": 2, "max_stay": 7}).Error)

	result, err := svc.CheckAvailability(rt.ID, date(2026, 6, 1), date(2026, 6, 2), 1)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "Minimum stay is 2 nights", result.Reason)

	result, err = svc.CheckAvailability(rt.ID, date(2026, 6, 1), date(2026, 6, 10), 1)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Equal(t, "Maximum stay is 7 nights", result.Reason)

	result, err = svc.CheckAvailability(rt.ID, date(2026, 6, 1), date(2026, 6, 4), 1)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckAvailabilityBlackout(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Family Room", "1500.00", 5, unitSpec{number: "fam-001"})
	require.NoError(t, db.Create(&models.BlackoutDate{
		RoomTypeID: rt.ID,
		StartDate:  date(2026, 12, 20),
		EndDate:    date(2026, 12, 27),
		Reason:     "Renovations",
	}).Error)

	result, err := svc.CheckAvailability(rt.ID, date(2026, 12, 18), date(2026, 12, 21), 2)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "blackout")

	result, err = svc.CheckAvailability(rt.ID, date(2026, 12, 28), date(2026, 12, 30), 2)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestCheckAvailabilityInactiveAndUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Standard Room", "650.00", 2, unitSpec{number: "std-001"})
	require.NoError(t, db.Model(rt).Update("is_active", false).Error)

	result, err := svc.CheckAvailability(rt.ID, date(2026, 4, 1), date(2026, 4, 3), 1)
	require.NoError(t, err)
	assert.False(t, result.Available)
	assert.Contains(t, result.Reason, "not currently available")

	_, err = svc.CheckAvailability(rt.ID+999, date(2026, 4, 1), date(2026, 4, 3), 1)
	assert.ErrorIs(t, err, ErrRoomTypeNotFound)
}

func TestMaintenanceWindowExcludesUnit(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Deluxe Room", "850.00", 2,
		unitSpec{number: "deluxe-001"}, unitSpec{number: "deluxe-002"})

	start, end := date(2026, 7, 1), date(2026, 7, 10)
	require.NoError(t, db.Model(&models.RoomUnit{}).
		Where("unit_number = ?", "deluxe-001").
		Updates(map[string]interface{}{
			"maintenance_start_date": &start,
			"maintenance_end_date":   &end,
			"maintenance_reason":     "Plumbing",
		}).Error)

	result, err := svc.CheckAvailability(rt.ID, date(2026, 7, 5), date(2026, 7, 7), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AvailableUnits)
	assert.Equal(t, 1, result.TotalUnits)

	// Outside the window both units count.
	result, err = svc.CheckAvailability(rt.ID, date(2026, 7, 15), date(2026, 7, 17), 1)
	require.NoError(t, err)
	assert.Equal(t, 2, result.AvailableUnits)
}

func TestCancelledBookingFreesUnit(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Standard Room", "650.00", 2, unitSpec{number: "std-001"})

	checkin, checkout := date(2026, 8, 1), date(2026, 8, 4)
	booking := allocate(t, svc, rt, checkin, checkout)

	result, err := svc.CheckAvailability(rt.ID, checkin, checkout, 1)
	require.NoError(t, err)
	assert.False(t, result.Available)

	require.NoError(t, db.Model(booking).Update("status", models.BookingStatusCancelled).Error)

	result, err = svc.CheckAvailability(rt.ID, checkin, checkout, 1)
	require.NoError(t, err)
	assert.True(t, result.Available)
}

func TestSelectUnitPreferenceCascade(t *testing.T) {
	pool := []models.RoomUnit{
		{UnitNumber: "a-001", Floor: "1"},
		{UnitNumber: "a-002", Floor: "2", SpecialFeatures: datatypes.JSON(`["garden view"]`)},
		{UnitNumber: "a-003", Floor: "2", SpecialFeatures: datatypes.JSON(`["accessible"]`)},
	}

	unit := SelectUnit(pool, models.GuestPreferences{Floor: "2"})
	require.NotNil(t, unit)
	assert.Equal(t, "a-002", unit.UnitNumber)

	unit = SelectUnit(pool, models.GuestPreferences{View: "garden view"})
	require.NotNil(t, unit)
	assert.Equal(t, "a-002", unit.UnitNumber)

	unit = SelectUnit(pool, models.GuestPreferences{Accessibility: true})
	require.NotNil(t, unit)
	assert.Equal(t, "a-003", unit.UnitNumber)

	// Floor wins over view when both are set.
	unit = SelectUnit(pool, models.GuestPreferences{Floor: "1", View: "garden view"})
	require.NotNil(t, unit)
	assert.Equal(t, "a-001", unit.UnitNumber)

	// No match on any preference falls back to the first unit.
	unit = SelectUnit(pool, models.GuestPreferences{Floor: "9"})
	require.NotNil(t, unit)
	assert.Equal(t, "a-001", unit.UnitNumber)

	assert.Nil(t, SelectUnit(nil, models.GuestPreferences{}))
}

func TestAllocateHonorsFloorPreference(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Deluxe Room", "850.00", 2,
		unitSpec{number: "deluxe-001", floor: "1"},
		unitSpec{number: "deluxe-002", floor: "2"})

	booking, err := svc.AllocateBooking(AllocateRequest{
		RoomTypeID:     rt.ID,
		Checkin:        date(2026, 9, 1),
		Checkout:       date(2026, 9, 3),
		NumberOfGuests: 2,
		GuestName:      "Lerato Dlamini",
		GuestEmail:     "lerato@example.com",
		GuestPhone:     "+27831234567",
		Preferences:    models.GuestPreferences{Floor: "2"},
	})
	require.NoError(t, err)

	var unit models.RoomUnit
	require.NoError(t, db.First(&unit, booking.RoomUnitID).Error)
	assert.Equal(t, "deluxe-002", unit.UnitNumber)
}

func TestAllocateCreatesPendingBooking(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Deluxe Room", "850.00", 2, unitSpec{number: "deluxe-001"})

	booking := allocate(t, svc, rt, date(2026, 3, 10), date(2026, 3, 13))

	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, models.PaymentStatusPending, booking.PaymentStatus)
	assert.Equal(t, 3, booking.Nights)
	assert.Equal(t, "2550.00", booking.TotalAmount)
	assert.Equal(t, "Deluxe Room", booking.RoomTypeName)
	assert.Regexp(t, regexp.MustCompile(`^PGH-\d{4}-[A-Z0-9]{8}$`), booking.BookingReference)
}

func TestAllocateExplicitUnit(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Deluxe Room", "850.00", 2,
		unitSpec{number: "deluxe-001"}, unitSpec{number: "deluxe-002"})

	var unit models.RoomUnit
	require.NoError(t, db.Where("unit_number = ?", "deluxe-002").First(&unit).Error)

	checkin, checkout := date(2026, 10, 1), date(2026, 10, 3)
	booking, err := svc.AllocateBooking(AllocateRequest{
		RoomTypeID:     rt.ID,
		RoomUnitID:     &unit.ID,
		Checkin:        checkin,
		Checkout:       checkout,
		NumberOfGuests: 1,
		GuestName:      "Sipho Nkosi",
		GuestEmail:     "sipho@example.com",
		GuestPhone:     "+27841234567",
	})
	require.NoError(t, err)
	assert.Equal(t, unit.ID, booking.RoomUnitID)

	// Same unit, same dates: conflict, not silent reassignment.
	_, err = svc.AllocateBooking(AllocateRequest{
		RoomTypeID:     rt.ID,
		RoomUnitID:     &unit.ID,
		Checkin:        checkin,
		Checkout:       checkout,
		NumberOfGuests: 1,
		GuestName:      "Zanele Khumalo",
		GuestEmail:     "zanele@example.com",
		GuestPhone:     "+27851234567",
	})
	var conflictErr *ConflictError
	assert.ErrorAs(t, err, &conflictErr)
}

func TestAllocateNoUnitsLeft(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Standard Room", "650.00", 2, unitSpec{number: "std-001"})

	checkin, checkout := date(2026, 11, 1), date(2026, 11, 3)
	allocate(t, svc, rt, checkin, checkout)

	_, err := svc.AllocateBooking(AllocateRequest{
		RoomTypeID:     rt.ID,
		Checkin:        checkin,
		Checkout:       checkout,
		NumberOfGuests: 1,
		GuestName:      "Naledi Molefe",
		GuestEmail:     "naledi@example.com",
		GuestPhone:     "+27861234567",
	})
	var capacityErr *CapacityError
	assert.ErrorAs(t, err, &capacityErr)
}

func TestConcurrentAllocationOfLastUnit(t *testing.T) {
	db := newTestDB(t)
	svc := NewAvailabilityService(db)
	rt := seedRoomType(t, db, "Executive Suite", "1200.00", 3, unitSpec{number: "suite-001"})

	checkin, checkout := date(2026, 12, 1), date(2026, 12, 3)
	results := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.AllocateBooking(AllocateRequest{
				RoomTypeID:     rt.ID,
				Checkin:        checkin,
				Checkout:       checkout,
				NumberOfGuests: 1,
				GuestName:      "Guest",
				GuestEmail:     "guest@example.com",
				GuestPhone:     "+2780000000",
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	successes, failures := 0, 0
	for err := range results {
		if err == nil {
			successes++
		} else {
			var capacityErr *CapacityError
			assert.ErrorAs(t, err, &capacityErr)
			failures++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).
		Where("room_type_id = ? AND status <> ?", rt.ID, models.BookingStatusCancelled).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)
}
