package controllers

import (
	"net/http"

	"guesthouse-backend/models"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type AvailabilityPayload struct {
	RoomTypeID     uint   `json:"roomTypeId" binding:"required"`
	CheckinDate    string `json:"checkinDate" binding:"required"`
	CheckoutDate   string `json:"checkoutDate" binding:"required"`
	NumberOfGuests int    `json:"numberOfGuests" binding:"required"`
}

type CreateBookingPayload struct {
	RoomTypeID      uint   `json:"roomTypeId" binding:"required"`
	RoomUnitID      *uint  `json:"roomUnitId"`
	CheckinDate     string `json:"checkinDate" binding:"required"`
	CheckoutDate    string `json:"checkoutDate" binding:"required"`
	NumberOfGuests  int    `json:"numberOfGuests" binding:"required"`
	GuestName       string `json:"guestName" binding:"required"`
	GuestEmail      string `json:"guestEmail" binding:"required,email"`
	GuestPhone      string `json:"guestPhone" binding:"required"`
	GuestAddress    string `json:"guestAddress"`
	GuestIDNumber   string `json:"guestIdNumber"`
	SpecialRequests string `json:"specialRequests"`

	Preferences models.GuestPreferences `json:"preferences"`
}

type StayQueryPayload struct {
	CheckinDate    string `json:"checkinDate" binding:"required"`
	CheckoutDate   string `json:"checkoutDate" binding:"required"`
	NumberOfGuests int    `json:"numberOfGuests" binding:"required"`
}

type StayDatesPayload struct {
	CheckinDate  string `json:"checkinDate" binding:"required"`
	CheckoutDate string `json:"checkoutDate" binding:"required"`
}

type UpdateBookingStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type CancelBookingPayload struct {
	Reason string `json:"reason"`
}

type BookingController struct {
	Availability *services.AvailabilityService
	Bookings     *services.BookingService
	Gateway      services.PaymentGateway
}

func NewBookingController(availability *services.AvailabilityService, bookings *services.BookingService, gateway services.PaymentGateway) *BookingController {
	return &BookingController{
		Availability: availability,
		Bookings:     bookings,
		Gateway:      gateway,
	}
}

// CheckAvailability handles POST /api/bookings/check-availability
func (bc *BookingController) CheckAvailability(c *gin.Context) {
	var payload AvailabilityPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "roomTypeId, checkinDate, checkoutDate and numberOfGuests are required")
		return
	}
	checkin, checkout, ok := parseDateRange(c, payload.CheckinDate, payload.CheckoutDate)
	if !ok {
		return
	}

	result, err := bc.Availability.CheckAvailability(payload.RoomTypeID, checkin, checkout, payload.NumberOfGuests)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// CheckAvailabilityForType handles POST /api/room-types/:id/check-availability,
// the room-type-scoped form of the same check.
func (bc *BookingController) CheckAvailabilityForType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload StayQueryPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkinDate, checkoutDate and numberOfGuests are required")
		return
	}
	checkin, checkout, ok := parseDateRange(c, payload.CheckinDate, payload.CheckoutDate)
	if !ok {
		return
	}

	result, err := bc.Availability.CheckAvailability(id, checkin, checkout, payload.NumberOfGuests)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, result)
}

// AvailableUnitsForType handles POST /api/room-types/:id/available-units.
func (bc *BookingController) AvailableUnitsForType(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload StayDatesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "checkinDate and checkoutDate are required")
		return
	}
	checkin, checkout, ok := parseDateRange(c, payload.CheckinDate, payload.CheckoutDate)
	if !ok {
		return
	}

	units, err := bc.Availability.AvailableUnits(id, checkin, checkout)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, units)
}

// AvailableUnits handles GET /api/bookings/available-units
func (bc *BookingController) AvailableUnits(c *gin.Context) {
	roomTypeID, ok := queryID(c, "roomTypeId")
	if !ok {
		return
	}
	checkin, checkout, ok := parseDateRange(c, c.Query("checkinDate"), c.Query("checkoutDate"))
	if !ok {
		return
	}

	units, err := bc.Availability.AvailableUnits(roomTypeID, checkin, checkout)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, units)
}

// CreateWithPayment handles POST /api/bookings/with-payment: it allocates a
// unit, records the pending booking and opens a gateway checkout session in
// one call.
func (bc *BookingController) CreateWithPayment(c *gin.Context) {
	var payload CreateBookingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Missing required booking fields")
		return
	}
	checkin, checkout, ok := parseDateRange(c, payload.CheckinDate, payload.CheckoutDate)
	if !ok {
		return
	}

	booking, err := bc.Availability.AllocateBooking(services.AllocateRequest{
		RoomTypeID:      payload.RoomTypeID,
		RoomUnitID:      payload.RoomUnitID,
		Checkin:         checkin,
		Checkout:        checkout,
		NumberOfGuests:  payload.NumberOfGuests,
		GuestName:       payload.GuestName,
		GuestEmail:      payload.GuestEmail,
		GuestPhone:      payload.GuestPhone,
		GuestAddress:    payload.GuestAddress,
		GuestIDNumber:   payload.GuestIDNumber,
		SpecialRequests: payload.SpecialRequests,
		Preferences:     payload.Preferences,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	amountCents, err := utils.ParseAmount(booking.TotalAmount)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	session, err := bc.Gateway.InitializeTransaction(
		booking.GuestEmail,
		booking.BookingReference,
		amountCents,
		map[string]interface{}{
			"bookingId":    booking.ID,
			"roomTypeName": booking.RoomTypeName,
			"checkinDate":  payload.CheckinDate,
			"checkoutDate": payload.CheckoutDate,
		})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, gin.H{
		"booking": booking,
		"payment": session,
	})
}

// GetByReference handles GET /api/bookings/reference/:reference, the guest
// booking lookup.
func (bc *BookingController) GetByReference(c *gin.Context) {
	booking, err := bc.Bookings.GetByReference(c.Param("reference"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// ---------------------------
// Admin
// ---------------------------

// List handles GET /api/admin/bookings
func (bc *BookingController) List(c *gin.Context) {
	bookings, err := bc.Bookings.List(services.BookingFilter{
		Status:        c.Query("status"),
		PaymentStatus: c.Query("paymentStatus"),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, bookings)
}

// Get handles GET /api/admin/bookings/:id
func (bc *BookingController) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	booking, err := bc.Bookings.Get(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// UpdateStatus handles PATCH /api/admin/bookings/:id/status
func (bc *BookingController) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload UpdateBookingStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status is required")
		return
	}

	booking, err := bc.Bookings.UpdateStatus(id, payload.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// Cancel handles POST /api/admin/bookings/:id/cancel
func (bc *BookingController) Cancel(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var payload CancelBookingPayload
	_ = c.ShouldBindJSON(&payload)

	booking, err := bc.Bookings.Cancel(id, payload.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}
