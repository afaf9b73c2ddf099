package repository

import (
	"context"

	"gorm.io/gorm"

	"silentlibrary/internal/model"
)

// ReviewRepository defines review persistence operations.
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ListByBook(ctx context.Context, bookID uint) ([]model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository creates a new review repository.
func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *reviewRepository) ListByBook(ctx context.Context, bookID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := r.db.WithContext(ctx).Preload("User").
		Where("book_id = ?", bookID).
		Order("review_date DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}
	return reviews, nil
}
