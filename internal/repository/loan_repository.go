package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"silentlibrary/internal/model"
)

// LoanRepository defines loan persistence operations.
type LoanRepository interface {
	Create(ctx context.Context, loan *model.Loan) error
	Update(ctx context.Context, loan *model.Loan) error
	FindByID(ctx context.Context, id uint) (*model.Loan, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Loan, error)
	ListActive(ctx context.Context) ([]model.Loan, error)
	ListOverdue(ctx context.Context) ([]model.Loan, error)
	CountActiveByUserAndBook(ctx context.Context, userID, bookID uint) (int64, error)
	MarkOverdue(ctx context.Context, now time.Time) (int64, error)
	// WithTransaction executes fn within a single database transaction,
	// handing it loan and book repositories bound to that transaction so a
	// loan write and its copy-count change commit or roll back together.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, loans LoanRepository, books BookRepository) error) error
}

type loanRepository struct {
	db *gorm.DB
}

// NewLoanRepository creates a new loan repository.
func NewLoanRepository(db *gorm.DB) LoanRepository {
	return &loanRepository{db: db}
}

func (r *loanRepository) Create(ctx context.Context, loan *model.Loan) error {
	return r.db.WithContext(ctx).Create(loan).Error
}

func (r *loanRepository) Update(ctx context.Context, loan *model.Loan) error {
	return r.db.WithContext(ctx).Save(loan).Error
}

func (r *loanRepository) FindByID(ctx context.Context, id uint) (*model.Loan, error) {
	var loan model.Loan
	if err := r.db.WithContext(ctx).Preload("Book").First(&loan, id).Error; err != nil {
		return nil, err
	}
	return &loan, nil
}

func (r *loanRepository) ListByUser(ctx context.Context, userID uint) ([]model.Loan, error) {
	var loans []model.Loan
	if err := r.db.WithContext(ctx).Preload("Book").
		Where("user_id = ?", userID).
		Order("borrow_date DESC").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) ListActive(ctx context.Context) ([]model.Loan, error) {
	var loans []model.Loan
	if err := r.db.WithContext(ctx).Preload("Book").Preload("User").
		Where("status = ?", model.LoanStatusBorrowed).
		Order("due_date").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) ListOverdue(ctx context.Context) ([]model.Loan, error) {
	var loans []model.Loan
	if err := r.db.WithContext(ctx).Preload("Book").Preload("User").
		Where("status = ?", model.LoanStatusOverdue).
		Order("due_date").
		Find(&loans).Error; err != nil {
		return nil, err
	}
	return loans, nil
}

func (r *loanRepository) CountActiveByUserAndBook(ctx context.Context, userID, bookID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Loan{}).
		Where("user_id = ? AND book_id = ? AND return_date IS NULL", userID, bookID).
		Count(&n).Error
	return n, err
}

// MarkOverdue flips open loans past their due date to overdue and returns the
// number of rows changed.
func (r *loanRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.Loan{}).
		Where("status = ? AND due_date < ? AND return_date IS NULL", model.LoanStatusBorrowed, now).
		Update("status", model.LoanStatusOverdue)
	return res.RowsAffected, res.Error
}

// WithTransaction executes a function within a database transaction.
func (r *loanRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, loans LoanRepository, books BookRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &loanRepository{db: tx}, &bookRepository{db: tx})
	})
}
