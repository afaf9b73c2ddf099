package model

import "time"

// Review represents a user's review of a book. Rating is constrained to 1..5
// by form validation before it reaches the database.
type Review struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Rating     int       `json:"rating" gorm:"not null;index"`
	Text       string    `json:"text" gorm:"column:review_text;type:text;not null"`
	ReviewDate time.Time `json:"review_date" gorm:"autoCreateTime;index"`
	UserID     uint      `json:"user_id" gorm:"not null;index"`
	BookID     uint      `json:"book_id" gorm:"not null;index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Book Book `json:"-" gorm:"foreignKey:BookID"`
}

// TableName overrides the default table name.
func (Review) TableName() string { return "reviews" }
