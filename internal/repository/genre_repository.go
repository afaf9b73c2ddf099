package repository

import (
	"context"

	"gorm.io/gorm"

	"silentlibrary/internal/model"
)

// GenreRepository defines genre persistence operations.
type GenreRepository interface {
	FindOrCreate(ctx context.Context, name string) (*model.Genre, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Genre, error)
	List(ctx context.Context) ([]model.Genre, error)
}

type genreRepository struct {
	db *gorm.DB
}

// NewGenreRepository creates a new genre repository.
func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) FindOrCreate(ctx context.Context, name string) (*model.Genre, error) {
	var genre model.Genre
	if err := r.db.WithContext(ctx).Where(model.Genre{Name: name}).FirstOrCreate(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func (r *genreRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Genre, error) {
	var genres []model.Genre
	if len(ids) == 0 {
		return genres, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}

func (r *genreRepository) List(ctx context.Context) ([]model.Genre, error) {
	var genres []model.Genre
	if err := r.db.WithContext(ctx).Order("genre").Find(&genres).Error; err != nil {
		return nil, err
	}
	return genres, nil
}
