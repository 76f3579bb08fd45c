package models

import (
	"time"

	"gorm.io/gorm"
)

type Admin struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"uniqueIndex;size:150" json:"username"`
	Email        string         `gorm:"uniqueIndex;size:150" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;size:255" json:"-"`
	FirstName    string         `gorm:"size:100" json:"firstName"`
	LastName     string         `gorm:"size:100" json:"lastName"`
	Role         string         `gorm:"size:50;default:admin" json:"role"`
	IsActive     bool           `gorm:"column:is_active;default:true" json:"isActive"`
	LastLogin    *time.Time     `gorm:"column:last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// AdminSession is a server-side session row. The token travels as a bearer
// token or cookie; middleware resolves it to an Admin on every request.
type AdminSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Token     string    `gorm:"uniqueIndex;size:64" json:"-"`
	AdminID   uint      `gorm:"index;column:admin_id" json:"adminId"`
	ExpiresAt time.Time `gorm:"column:expires_at;index" json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`

	Admin Admin `gorm:"foreignKey:AdminID" json:"-"`
}
