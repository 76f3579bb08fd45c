package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"guesthouse-backend/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const sessionTTL = 24 * time.Hour

// SessionService handles admin authentication: credential checks and the
// token sessions the admin panel sends on every request.
type SessionService struct {
	DB *gorm.DB
}

func NewSessionService(db *gorm.DB) *SessionService {
	return &SessionService{DB: db}
}

// Login verifies credentials and opens a new session. The identifier may be
// a username or an email.
func (s *SessionService) Login(identifier, password string) (*models.Admin, string, error) {
	var admin models.Admin
	err := s.DB.Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidLogin
		}
		return nil, "", fmt.Errorf("failed to load admin: %w", err)
	}
	if !admin.IsActive {
		return nil, "", ErrInvalidLogin
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidLogin
	}

	token := uuid.NewString()
	session := models.AdminSession{
		Token:     token,
		AdminID:   admin.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	now := time.Now()
	if err := s.DB.Model(&admin).Update("last_login", &now).Error; err != nil {
		return nil, "", fmt.Errorf("failed to update last login: %w", err)
	}
	return &admin, token, nil
}

// Authenticate resolves a session token to its admin, rejecting expired or
// unknown tokens.
func (s *SessionService) Authenticate(token string) (*models.Admin, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	var session models.AdminSession
	err := s.DB.Preload("Admin").Where("token = ?", token).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if time.Now().After(session.ExpiresAt) {
		s.DB.Delete(&session)
		return nil, ErrInvalidSession
	}
	if !session.Admin.IsActive {
		return nil, ErrInvalidSession
	}
	return &session.Admin, nil
}

// Logout discards the session. Unknown tokens are a no-op.
func (s *SessionService) Logout(token string) error {
	if token == "" {
		return nil
	}
	return s.DB.Where("token = ?", token).Delete(&models.AdminSession{}).Error
}

// CreateAdmin registers a new admin account with a hashed password.
func (s *SessionService) CreateAdmin(username, email, password, firstName, lastName, role string) (*models.Admin, error) {
	if len(password) < 8 {
		return nil, &ValidationError{Field: "password", Reason: "password must be at least 8 characters"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if role == "" {
		role = "admin"
	}

	admin := models.Admin{
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: string(hash),
		FirstName:    firstName,
		LastName:     lastName,
		Role:         role,
		IsActive:     true,
	}
	if err := s.DB.Create(&admin).Error; err != nil {
		lc := strings.ToLower(err.Error())
		if strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique") || strings.Contains(lc, "constraint") {
			return nil, &ValidationError{Field: "username", Reason: "username or email already in use"}
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return &admin, nil
}
