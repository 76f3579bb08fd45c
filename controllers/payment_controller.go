package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"guesthouse-backend/models"
	"guesthouse-backend/services"
	"guesthouse-backend/utils"

	"github.com/gin-gonic/gin"
)

type VerifyPaymentPayload struct {
	Reference string `json:"reference" binding:"required"`
}

type PaymentController struct {
	Bookings *services.BookingService
	Gateway  services.PaymentGateway
}

func NewPaymentController(bookings *services.BookingService, gateway services.PaymentGateway) *PaymentController {
	return &PaymentController{Bookings: bookings, Gateway: gateway}
}

// Verify handles GET /api/payments/verify/:reference, called by the
// frontend after the gateway redirect. Confirmation is idempotent, so
// refreshing the success page is harmless.
func (pc *PaymentController) Verify(c *gin.Context) {
	booking, _, err := pc.Bookings.VerifyAndConfirm(c.Param("reference"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.JSONSuccess(c, http.StatusOK, booking)
}

// VerifyByReference handles POST /api/payments/verify with body
// {"reference"}: it confirms the booking and reports the transaction
// outcome fields the frontend settles the checkout with.
func (pc *PaymentController) VerifyByReference(c *gin.Context) {
	var payload VerifyPaymentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "reference is required")
		return
	}

	booking, result, err := pc.Bookings.VerifyAndConfirm(payload.Reference)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	// result is nil on the already-paid fast path; fall back to the
	// booking's own figures.
	status := "success"
	amount := int64(0)
	currency := pc.Gateway.Currency()
	if result != nil {
		status = result.Status
		amount = result.Amount
		if result.Currency != "" {
			currency = result.Currency
		}
	}
	if amount == 0 {
		if cents, perr := utils.ParseAmount(booking.TotalAmount); perr == nil {
			amount = cents
		}
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"reference":        booking.BookingReference,
		"status":           status,
		"paid":             booking.PaymentStatus == models.PaymentStatusPaid,
		"amount":           amount,
		"currency":         currency,
		"bookingConfirmed": booking.Status == models.BookingStatusConfirmed,
	})
}

// Webhook handles POST /api/payments/webhook. Paystack posts charge events
// here; a successful charge confirms the matching booking. The handler
// always answers 200 so the gateway does not retry forever on bookings we
// cannot match.
func (pc *PaymentController) Webhook(c *gin.Context) {
	var event struct {
		Event string `json:"event"`
		Data  struct {
			Reference string `json:"reference"`
		} `json:"data"`
	}
	if err := json.NewDecoder(c.Request.Body).Decode(&event); err != nil {
		log.Printf("webhook: unreadable payload: %v", err)
		c.Status(http.StatusOK)
		return
	}

	if event.Event == "charge.success" && event.Data.Reference != "" {
		if _, _, err := pc.Bookings.VerifyAndConfirm(event.Data.Reference); err != nil {
			log.Printf("webhook: failed to confirm %s: %v", event.Data.Reference, err)
		}
	}
	c.Status(http.StatusOK)
}

// Config handles GET /api/payments/config, exposing the public key the
// frontend needs to start a checkout.
func (pc *PaymentController) Config(c *gin.Context) {
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"publicKey": pc.Gateway.PublicKey(),
		"sandbox":   !pc.Gateway.Configured(),
	})
}
