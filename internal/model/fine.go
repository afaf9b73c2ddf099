package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// FineStatus represents the payment status of a fine.
type FineStatus string

const (
	FineStatusPending FineStatus = "pending"
	FineStatusPaid    FineStatus = "paid"
	FineStatusWaived  FineStatus = "waived"
)

// Fine represents a charge assessed against an overdue loan.
type Fine struct {
	ID          uint            `json:"id" gorm:"primaryKey"`
	Amount      decimal.Decimal `json:"amount" gorm:"column:fine_amount;type:decimal(10,2);not null"`
	Status      FineStatus      `json:"status" gorm:"column:payment_status;type:varchar(10);not null;default:'pending';index"`
	FineDate    time.Time       `json:"fine_date" gorm:"autoCreateTime;index"`
	PaymentDate *time.Time      `json:"payment_date,omitempty" gorm:"type:date;index"`
	LoanID      uint            `json:"loan_id" gorm:"not null;index"`

	Loan Loan `json:"-" gorm:"foreignKey:LoanID"`
}

// TableName overrides the default table name.
func (Fine) TableName() string { return "fines" }
