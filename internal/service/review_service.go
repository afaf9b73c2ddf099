package service

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"silentlibrary/internal/errors"
	"silentlibrary/internal/model"
	"silentlibrary/internal/repository"
)

// ReviewService handles book reviews.
type ReviewService interface {
	AddReview(ctx context.Context, userID, bookID uint, rating int, text string) (*model.Review, error)
	ListByBook(ctx context.Context, bookID uint) ([]model.Review, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   repository.BookRepository
}

// NewReviewService creates a new review service.
func NewReviewService(reviewRepo repository.ReviewRepository, bookRepo repository.BookRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, bookRepo: bookRepo}
}

// AddReview attaches a review to an existing book. Rating bounds are enforced
// by form validation before this point.
func (s *reviewService) AddReview(ctx context.Context, userID, bookID uint, rating int, text string) (*model.Review, error) {
	if _, err := s.bookRepo.FindByID(ctx, bookID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrBookNotFound
		}
		return nil, err
	}

	review := &model.Review{
		UserID: userID,
		BookID: bookID,
		Rating: rating,
		Text:   text,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *reviewService) ListByBook(ctx context.Context, bookID uint) ([]model.Review, error) {
	return s.reviewRepo.ListByBook(ctx, bookID)
}
