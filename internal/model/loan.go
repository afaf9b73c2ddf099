package model

import "time"

// LoanStatus represents the status of a loan.
type LoanStatus string

const (
	LoanStatusBorrowed LoanStatus = "borrowed"
	LoanStatusReturned LoanStatus = "returned"
	LoanStatusOverdue  LoanStatus = "overdue"
)

// Loan represents a book checked out by a user.
type Loan struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	BorrowDate time.Time  `json:"borrow_date" gorm:"autoCreateTime;index"`
	DueDate    time.Time  `json:"due_date" gorm:"type:date;not null;index"`
	ReturnDate *time.Time `json:"return_date,omitempty" gorm:"type:date;index"`
	Status     LoanStatus `json:"status" gorm:"type:varchar(10);not null;default:'borrowed';index"`
	UserID     uint       `json:"user_id" gorm:"not null;index"`
	BookID     uint       `json:"book_id" gorm:"not null;index"`

	User User `json:"-" gorm:"foreignKey:UserID"`
	Book Book `json:"-" gorm:"foreignKey:BookID"`
}

// TableName overrides the default table name.
func (Loan) TableName() string { return "loans" }

// IsOverdue reports whether an open loan is past its due date.
func (l *Loan) IsOverdue(now time.Time) bool {
	return l.ReturnDate == nil && now.After(l.DueDate)
}
