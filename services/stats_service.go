package services

import (
	"fmt"
	"log"
	"math"
	"time"

	"guesthouse-backend/models"
	"guesthouse-backend/utils"

	"gorm.io/gorm"
)

// StatsService produces the admin dashboard numbers.
type StatsService struct {
	DB *gorm.DB
}

func NewStatsService(db *gorm.DB) *StatsService {
	return &StatsService{DB: db}
}

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	TotalBookings   int64   `json:"totalBookings"`
	PendingBookings int64   `json:"pendingBookings"`
	MonthlyRevenue  string  `json:"monthlyRevenue"`
	OccupancyRate   float64 `json:"occupancyRate"`
	UnreadMessages  int64   `json:"unreadMessages"`
}

// Dashboard computes the summary as of now. Revenue sums paid bookings
// created this calendar month; occupancy is bookings currently in-house
// over total units.
func (s *StatsService) Dashboard(now time.Time) (*DashboardStats, error) {
	stats := &DashboardStats{}

	if err := s.DB.Model(&models.Booking{}).Count(&stats.TotalBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if err := s.DB.Model(&models.Booking{}).
		Where("status = ?", models.BookingStatusPending).
		Count(&stats.PendingBookings).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending bookings: %w", err)
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var amounts []string
	err := s.DB.Model(&models.Booking{}).
		Where("payment_status = ? AND created_at >= ?", models.PaymentStatusPaid, monthStart).
		Pluck("total_amount", &amounts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly revenue: %w", err)
	}
	var revenueCents int64
	for _, a := range amounts {
		cents, err := utils.ParseAmount(a)
		if err != nil {
			log.Printf("skipping unparseable booking amount %q", a)
			continue
		}
		revenueCents += cents
	}
	stats.MonthlyRevenue = utils.FormatAmount(revenueCents)

	var totalUnits int64
	if err := s.DB.Model(&models.RoomUnit{}).Count(&totalUnits).Error; err != nil {
		return nil, fmt.Errorf("failed to count units: %w", err)
	}
	var inHouse int64
	err = s.DB.Model(&models.Booking{}).
		Where("status IN ?", []string{models.BookingStatusConfirmed, models.BookingStatusCheckedIn}).
		Where("checkin_date <= ? AND checkout_date > ?", now, now).
		Count(&inHouse).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count in-house bookings: %w", err)
	}
	if totalUnits > 0 {
		stats.OccupancyRate = math.Round(float64(inHouse)/float64(totalUnits)*10000) / 100
	}

	if err := s.DB.Model(&models.ContactMessage{}).
		Where("is_read = ?", false).
		Count(&stats.UnreadMessages).Error; err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return stats, nil
}
