package services

import (
	"errors"
	"fmt"

	"guesthouse-backend/models"

	"gorm.io/gorm"
)

// ContactService stores messages from the public contact form.
type ContactService struct {
	DB *gorm.DB
}

func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{DB: db}
}

func (s *ContactService) Create(msg *models.ContactMessage) error {
	if msg.Email == "" || msg.Message == "" {
		return &ValidationError{Field: "message", Reason: "email and message are required"}
	}
	if err := s.DB.Create(msg).Error; err != nil {
		return fmt.Errorf("failed to save contact message: %w", err)
	}
	return nil
}

func (s *ContactService) List() ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	if err := s.DB.Order("created_at DESC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	return messages, nil
}

func (s *ContactService) MarkRead(id uint) (*models.ContactMessage, error) {
	var msg models.ContactMessage
	if err := s.DB.First(&msg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContactNotFound
		}
		return nil, fmt.Errorf("failed to load contact message %d: %w", id, err)
	}
	if err := s.DB.Model(&msg).Update("is_read", true).Error; err != nil {
		return nil, fmt.Errorf("failed to mark message read: %w", err)
	}
	msg.IsRead = true
	return &msg, nil
}
