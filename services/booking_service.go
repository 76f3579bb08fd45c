package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BookingService drives the booking lifecycle after allocation: payment
// confirmation, cancellation with refunds, and admin status changes.
type BookingService struct {
	DB      *gorm.DB
	Gateway PaymentGateway
}

func NewBookingService(db *gorm.DB, gateway PaymentGateway) *BookingService {
	return &BookingService{DB: db, Gateway: gateway}
}

// lockForUpdate adds a row lock on dialects that support it. SQLite has no
// FOR UPDATE; its single-writer transaction covers the same window.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// BookingFilter narrows admin listings.
type BookingFilter struct {
	Status        string
	PaymentStatus string
}

func (s *BookingService) List(filter BookingFilter) ([]models.Booking, error) {
	query := s.DB.Preload("RoomUnit").Preload("RoomType").Order("created_at DESC")
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.PaymentStatus != "" {
		query = query.Where("payment_status = ?", filter.PaymentStatus)
	}

	var bookings []models.Booking
	if err := query.Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *BookingService) Get(id uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("RoomUnit").Preload("RoomType").First(&booking, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %d: %w", id, err)
	}
	return &booking, nil
}

func (s *BookingService) GetByReference(reference string) (*models.Booking, error) {
	var booking models.Booking
	err := s.DB.Preload("RoomUnit").Preload("RoomType").
		Where("booking_reference = ?", reference).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking %s: %w", reference, err)
	}
	return &booking, nil
}

// VerifyAndConfirm checks the payment with the gateway and, on success,
// moves the booking to (confirmed, paid). It is idempotent: a booking that
// is already paid is returned unchanged, the gateway is not called again and
// no second email goes out. The gateway call happens before the transaction
// so a slow provider never stalls a locked row; the row is then locked for a
// short compare-and-set, which settles concurrent verify calls (redirect
// callback racing the webhook) on one transition. The gateway result is nil
// on the already-paid fast path.
func (s *BookingService) VerifyAndConfirm(reference string) (*models.Booking, *VerifyResult, error) {
	var booking models.Booking
	err := s.DB.Where("booking_reference = ?", reference).First(&booking).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, fmt.Errorf("failed to load booking %s: %w", reference, err)
	}
	if booking.PaymentStatus == models.PaymentStatusPaid {
		return &booking, nil, nil
	}

	result, err := s.Gateway.VerifyTransaction(reference)
	if err != nil {
		return nil, nil, err
	}

	confirmedNow := false
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).
			Where("booking_reference = ?", reference).First(&booking).Error
		if err != nil {
			return fmt.Errorf("failed to load booking %s: %w", reference, err)
		}

		// Lost the race: another verify settled the payment already.
		if booking.PaymentStatus == models.PaymentStatusPaid {
			return nil
		}
		if !models.CanTransitionPayment(booking.PaymentStatus, models.PaymentStatusPaid) {
			return &StateError{From: booking.PaymentStatus, To: models.PaymentStatusPaid}
		}

		if !result.Paid {
			updates := map[string]interface{}{"payment_status": models.PaymentStatusFailed}
			if err := tx.Model(&booking).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to record failed payment: %w", err)
			}
			return &GatewayError{Op: "verify", Err: fmt.Errorf("payment not successful: %s", result.Status)}
		}

		updates := map[string]interface{}{
			"payment_status": models.PaymentStatusPaid,
			"payment_method": "paystack",
			"payment_id":     result.Reference,
		}
		if models.CanTransitionStatus(booking.Status, models.BookingStatusConfirmed) {
			updates["status"] = models.BookingStatusConfirmed
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to confirm booking: %w", err)
		}
		confirmedNow = true
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if confirmedNow {
		if err := utils.SendBookingConfirmation(s.bookingEmail(&booking, "")); err != nil {
			log.Printf("failed to send confirmation email for %s: %v", booking.BookingReference, err)
		}
	}
	return &booking, result, nil
}

// Cancel moves a booking to cancelled. Paid bookings get a best-effort
// refund through the gateway; a refund failure is logged and does not block
// the cancellation. Cancelled is terminal.
func (s *BookingService) Cancel(id uint, reason string) (*models.Booking, error) {
	var booking models.Booking
	wasPaid := false

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&booking, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking %d: %w", id, err)
		}

		if !models.CanTransitionStatus(booking.Status, models.BookingStatusCancelled) {
			return &StateError{From: booking.Status, To: models.BookingStatusCancelled}
		}

		wasPaid = booking.PaymentStatus == models.PaymentStatusPaid
		now := time.Now()
		updates := map[string]interface{}{
			"status":              models.BookingStatusCancelled,
			"cancellation_reason": reason,
			"cancelled_at":        &now,
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to cancel booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if wasPaid {
		if err := s.Gateway.Refund(booking.BookingReference); err != nil {
			log.Printf("refund failed for %s: %v", booking.BookingReference, err)
		} else if err := s.DB.Model(&booking).
			Update("payment_status", models.PaymentStatusRefunded).Error; err != nil {
			log.Printf("failed to record refund for %s: %v", booking.BookingReference, err)
		} else {
			booking.PaymentStatus = models.PaymentStatusRefunded
		}
	}

	if err := utils.SendBookingCancellation(s.bookingEmail(&booking, reason)); err != nil {
		log.Printf("failed to send cancellation email for %s: %v", booking.BookingReference, err)
	}
	return &booking, nil
}

// UpdateStatus applies an admin-initiated lifecycle change, enforcing the
// transition table and stamping check-in/check-out times.
func (s *BookingService) UpdateStatus(id uint, newStatus string) (*models.Booking, error) {
	var booking models.Booking

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		err := lockForUpdate(tx).First(&booking, id).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("failed to load booking %d: %w", id, err)
		}

		if newStatus == models.BookingStatusCancelled {
			return errors.New("use the cancel endpoint to cancel a booking")
		}
		if !models.CanTransitionStatus(booking.Status, newStatus) {
			return &StateError{From: booking.Status, To: newStatus}
		}

		now := time.Now()
		updates := map[string]interface{}{"status": newStatus}
		switch newStatus {
		case models.BookingStatusCheckedIn:
			updates["checked_in_at"] = &now
		case models.BookingStatusCheckedOut:
			updates["checked_out_at"] = &now
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update booking status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (s *BookingService) bookingEmail(b *models.Booking, reason string) utils.BookingEmail {
	return utils.BookingEmail{
		GuestName:    b.GuestName,
		GuestEmail:   b.GuestEmail,
		Reference:    b.BookingReference,
		RoomTypeName: b.RoomTypeName,
		RoomUnitName: b.RoomUnitName,
		CheckinDate:  b.CheckinDate,
		CheckoutDate: b.CheckoutDate,
		Nights:       b.Nights,
		Guests:       b.NumberOfGuests,
		TotalAmount:  b.TotalAmount,
		Reason:       reason,
	}
}
