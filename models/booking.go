package models

import (
	"time"

	"gorm.io/datatypes"
)

// Booking statuses.
const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusCancelled  = "cancelled"
	BookingStatusCheckedIn  = "checked-in"
	BookingStatusCheckedOut = "checked-out"
)

// Payment statuses.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// bookingTransitions lists the allowed status moves. Cancelled is terminal.
var bookingTransitions = map[string][]string{
	BookingStatusPending:   {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed: {BookingStatusCheckedIn, BookingStatusCancelled},
	BookingStatusCheckedIn: {BookingStatusCheckedOut},
}

// paymentTransitions: refunded is only reachable from paid.
var paymentTransitions = map[string][]string{
	PaymentStatusPending: {PaymentStatusPaid, PaymentStatusFailed},
	PaymentStatusPaid:    {PaymentStatusRefunded},
}

// CanTransitionStatus reports whether a booking may move from -> to.
func CanTransitionStatus(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CanTransitionPayment reports whether paymentStatus may move from -> to.
func CanTransitionPayment(from, to string) bool {
	for _, next := range paymentTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GuestPreferences is the unit-selection hint supplied at booking time.
// Floor takes precedence over view, view over accessibility.
type GuestPreferences struct {
	Smoking       bool   `json:"smoking"`
	Accessibility bool   `json:"accessibility"`
	Floor         string `json:"floor"`
	View          string `json:"view"`
}

// Booking is one reservation of a single RoomUnit. Bookings are never
// deleted; status transitions keep the audit trail.
type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	RoomUnitID uint `gorm:"index;column:room_unit_id" json:"roomUnitId"`
	RoomTypeID uint `gorm:"index;column:room_type_id" json:"roomTypeId"`

	// Display names copied from the unit/type at creation time.
	RoomUnitName string `gorm:"column:room_unit_name;size:255" json:"roomUnitName"`
	RoomTypeName string `gorm:"column:room_type_name;size:255" json:"roomTypeName"`

	GuestName     string `gorm:"size:255" json:"guestName"`
	GuestEmail    string `gorm:"size:255" json:"guestEmail"`
	GuestPhone    string `gorm:"size:50" json:"guestPhone"`
	GuestAddress  string `gorm:"size:255" json:"guestAddress,omitempty"`
	GuestIDNumber string `gorm:"column:guest_id_number;size:100" json:"guestIdNumber,omitempty"`

	CheckinDate    time.Time `gorm:"column:checkin_date;index" json:"checkinDate"`
	CheckoutDate   time.Time `gorm:"column:checkout_date;index" json:"checkoutDate"`
	Nights         int       `json:"nights"`
	NumberOfGuests int       `gorm:"column:number_of_guests" json:"numberOfGuests"`

	// Decimal string, immutable after creation.
	TotalAmount string `gorm:"column:total_amount;size:20" json:"totalAmount"`

	Status        string `gorm:"size:32;index;default:pending" json:"status"`
	PaymentStatus string `gorm:"column:payment_status;size:32;index;default:pending" json:"paymentStatus"`

	BookingReference string `gorm:"column:booking_reference;uniqueIndex;size:64" json:"bookingReference"`

	SpecialRequests  string         `gorm:"type:text" json:"specialRequests,omitempty"`
	GuestPreferences datatypes.JSON `gorm:"column:guest_preferences" json:"guestPreferences,omitempty"`

	PaymentMethod string `gorm:"column:payment_method;size:50" json:"paymentMethod,omitempty"`
	PaymentID     string `gorm:"column:payment_id;size:100" json:"paymentId,omitempty"`

	Source string `gorm:"size:50;default:website" json:"source"`

	CancellationReason string     `gorm:"size:255" json:"cancellationReason,omitempty"`
	CancelledAt        *time.Time `gorm:"column:cancelled_at" json:"cancelledAt,omitempty"`
	CheckedInAt        *time.Time `gorm:"column:checked_in_at" json:"checkedInAt,omitempty"`
	CheckedOutAt       *time.Time `gorm:"column:checked_out_at" json:"checkedOutAt,omitempty"`

	Notes          string  `gorm:"type:text" json:"notes,omitempty"`
	DiscountAmount float64 `gorm:"column:discount_amount;default:0" json:"discountAmount"`
	Taxes          float64 `gorm:"default:0" json:"taxes"`
	Fees           float64 `gorm:"default:0" json:"fees"`

	RoomUnit RoomUnit `gorm:"foreignKey:RoomUnitID" json:"roomUnit"`
	RoomType RoomType `gorm:"foreignKey:RoomTypeID" json:"roomType"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
