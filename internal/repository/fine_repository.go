package repository

import (
	"context"

	"gorm.io/gorm"

	"silentlibrary/internal/model"
)

// FineRepository defines fine persistence operations.
type FineRepository interface {
	Create(ctx context.Context, fine *model.Fine) error
	Update(ctx context.Context, fine *model.Fine) error
	FindByID(ctx context.Context, id uint) (*model.Fine, error)
	ListPendingByUser(ctx context.Context, userID uint) ([]model.Fine, error)
}

type fineRepository struct {
	db *gorm.DB
}

// NewFineRepository creates a new fine repository.
func NewFineRepository(db *gorm.DB) FineRepository {
	return &fineRepository{db: db}
}

func (r *fineRepository) Create(ctx context.Context, fine *model.Fine) error {
	return r.db.WithContext(ctx).Create(fine).Error
}

func (r *fineRepository) Update(ctx context.Context, fine *model.Fine) error {
	return r.db.WithContext(ctx).Save(fine).Error
}

func (r *fineRepository) FindByID(ctx context.Context, id uint) (*model.Fine, error) {
	var fine model.Fine
	if err := r.db.WithContext(ctx).Preload("Loan").Preload("Loan.Book").First(&fine, id).Error; err != nil {
		return nil, err
	}
	return &fine, nil
}

func (r *fineRepository) ListPendingByUser(ctx context.Context, userID uint) ([]model.Fine, error) {
	var fines []model.Fine
	if err := r.db.WithContext(ctx).Preload("Loan").Preload("Loan.Book").
		Joins("JOIN loans ON loans.id = fines.loan_id").
		Where("loans.user_id = ? AND fines.payment_status = ?", userID, model.FineStatusPending).
		Order("fines.fine_date DESC").
		Find(&fines).Error; err != nil {
		return nil, err
	}
	return fines, nil
}
