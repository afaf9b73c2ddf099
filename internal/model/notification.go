package model

import "time"

// Notification represents a message delivered to a user's dashboard.
type Notification struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Message   string    `json:"message" gorm:"column:notification_text;size:512;not null"`
	CreatedAt time.Time `json:"timestamp" gorm:"index"`
	UserID    uint      `json:"user_id" gorm:"not null;index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
}

// TableName overrides the default table name.
func (Notification) TableName() string { return "notifications" }
