package utils

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
	"time"
)

// BookingEmail carries everything the guest-facing templates need.
type BookingEmail struct {
	GuestName    string
	GuestEmail   string
	Reference    string
	RoomTypeName string
	RoomUnitName string
	CheckinDate  time.Time
	CheckoutDate time.Time
	Nights       int
	Guests       int
	TotalAmount  string
	Reason       string // cancellation only
}

// SendBookingConfirmation emails the guest after payment is verified.
func SendBookingConfirmation(data BookingEmail) error {
	subject := fmt.Sprintf("Booking Confirmation - Phokela Guest House (Ref: %s)", data.Reference)
	plain := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Thank you for choosing Phokela Guest House. Your booking is confirmed.\n\n"+
			"Booking Reference: %s\n"+
			"Room: %s (%s)\n"+
			"Check-In: %s\n"+
			"Check-Out: %s\n"+
			"Nights: %d\n"+
			"Guests: %d\n"+
			"Total Paid: R%s\n\n"+
			"We look forward to welcoming you.\n\n"+
			"Phokela Guest House",
		data.GuestName, data.Reference, data.RoomTypeName, data.RoomUnitName,
		data.CheckinDate.Format("Monday, 2 January 2006"),
		data.CheckoutDate.Format("Monday, 2 January 2006"),
		data.Nights, data.Guests, data.TotalAmount,
	)
	html := bookingHTML("Your booking has been confirmed!", "CONFIRMED", data, "")
	return sendMail(data.GuestEmail, subject, plain, html)
}

// SendBookingCancellation emails the guest when a booking is cancelled.
func SendBookingCancellation(data BookingEmail) error {
	subject := fmt.Sprintf("Booking Cancellation - Phokela Guest House (Ref: %s)", data.Reference)
	plain := fmt.Sprintf(
		"Dear %s,\n\n"+
			"Your booking %s for %s (%s) has been cancelled.\n"+
			"Check-In: %s\nCheck-Out: %s\n",
		data.GuestName, data.Reference, data.RoomTypeName, data.RoomUnitName,
		data.CheckinDate.Format("Monday, 2 January 2006"),
		data.CheckoutDate.Format("Monday, 2 January 2006"),
	)
	if data.Reason != "" {
		plain += fmt.Sprintf("Reason: %s\n", data.Reason)
	}
	plain += "\nIf you have any questions, feel free to contact us.\n\nPhokela Guest House"
	html := bookingHTML("Your booking has been cancelled", "CANCELLED", data, data.Reason)
	return sendMail(data.GuestEmail, subject, plain, html)
}

func bookingHTML(headline, badge string, data BookingEmail, reason string) string {
	reasonRow := ""
	if reason != "" {
		reasonRow = fmt.Sprintf(`<p><span class="label">Reason:</span> %s</p>`, htmlEscape(reason))
	}
	return fmt.Sprintf(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<style>
body { background:#f5f7fb; font-family:Arial, Helvetica, sans-serif; color:#222; }
.container { max-width:700px; margin:20px auto; }
.card { background:#fff; border:1px solid #e6eef6; padding:24px; border-radius:8px; }
.label { font-weight:700; width:160px; display:inline-block; vertical-align:top; }
.badge { display:inline-block; padding:4px 12px; background:#10b981; color:#fff; border-radius:20px; font-weight:700; }
</style>
</head>
<body>
<div class="container">
  <div class="card">
    <h2>Phokela Guest House</h2>
    <p>%s <span class="badge">%s</span></p>
    <p>Dear %s,</p>
    <p><span class="label">Booking Reference:</span> %s</p>
    <p><span class="label">Room:</span> %s (%s)</p>
    <p><span class="label">Check-In:</span> %s</p>
    <p><span class="label">Check-Out:</span> %s</p>
    <p><span class="label">Guests:</span> %d</p>
    <p><span class="label">Total:</span> R%s</p>
    %s
    <p>If you have any questions, feel free to contact us.</p>
  </div>
</div>
</body>
</html>`,
		htmlEscape(headline), badge,
		htmlEscape(data.GuestName),
		htmlEscape(data.Reference),
		htmlEscape(data.RoomTypeName), htmlEscape(data.RoomUnitName),
		data.CheckinDate.Format("Monday, 2 January 2006"),
		data.CheckoutDate.Format("Monday, 2 January 2006"),
		data.Guests,
		htmlEscape(data.TotalAmount),
		reasonRow,
	)
}

// sendMail delivers a multipart text+html message. When SMTP is not
// configured it logs a mock send instead so development flows keep working.
func sendMail(recipient, subject, plainBody, htmlBody string) error {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USERNAME")
	smtpPass := os.Getenv("SMTP_PASSWORD")
	fromName := EnvOrDefault("SMTP_FROM_NAME", "Phokela Guest House")

	if smtpUser == "" || smtpPass == "" || smtpHost == "" || smtpPort == "" {
		log.Printf("[MOCK EMAIL] to:%s subject:%q", recipient, subject)
		return nil
	}

	from := fmt.Sprintf("%s <%s>", fromName, smtpUser)
	auth := smtp.PlainAuth("", smtpUser, smtpPass, smtpHost)
	addr := fmt.Sprintf("%s:%s", smtpHost, smtpPort)
	boundary := "----=_PGH_EMAIL_BOUNDARY"

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", recipient))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString(fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n\r\n", boundary))

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/plain; charset=utf-8\r\n\r\n")
	sb.WriteString(plainBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s\r\n", boundary))
	sb.WriteString("Content-Type: text/html; charset=utf-8\r\n\r\n")
	sb.WriteString(htmlBody + "\r\n")

	sb.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

	if err := smtp.SendMail(addr, auth, smtpUser, []string{recipient}, []byte(sb.String())); err != nil {
		log.Printf("failed to send email to %s: %v", recipient, err)
		return err
	}
	return nil
}

// minimal html escaper for the small strings we use
func htmlEscape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(s)
}
