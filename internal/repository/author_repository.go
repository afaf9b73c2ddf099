package repository

import (
	"context"

	"gorm.io/gorm"

	"silentlibrary/internal/model"
)

// AuthorRepository defines author persistence operations.
type AuthorRepository interface {
	Create(ctx context.Context, author *model.Author) error
	FindByIDs(ctx context.Context, ids []uint) ([]model.Author, error)
	List(ctx context.Context) ([]model.Author, error)
}

type authorRepository struct {
	db *gorm.DB
}

// NewAuthorRepository creates a new author repository.
func NewAuthorRepository(db *gorm.DB) AuthorRepository {
	return &authorRepository{db: db}
}

func (r *authorRepository) Create(ctx context.Context, author *model.Author) error {
	return r.db.WithContext(ctx).Create(author).Error
}

func (r *authorRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Author, error) {
	var authors []model.Author
	if len(ids) == 0 {
		return authors, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}

func (r *authorRepository) List(ctx context.Context) ([]model.Author, error) {
	var authors []model.Author
	if err := r.db.WithContext(ctx).Order("last_name, first_name").Find(&authors).Error; err != nil {
		return nil, err
	}
	return authors, nil
}
